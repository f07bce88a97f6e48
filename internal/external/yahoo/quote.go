package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// quoteModules are the quoteSummary modules the normalizer reads.
const quoteModules = "price,summaryDetail,calendarEvents,defaultKeyStatistics,financialData"

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]any `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchQuoteSummary fetches per-ticker info and the forward calendar.
func (c *Client) FetchQuoteSummary(ctx context.Context, symbol string) (contracts.QuoteInfo, *contracts.CalendarSnapshot, error) {
	if err := c.wait(ctx); err != nil {
		return contracts.QuoteInfo{}, nil, err
	}

	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), quoteModules)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseQuoteSummary(body)
}

// parseQuoteSummary flattens all quoteSummary modules into a single field
// map, then normalizes it. The upstream reports the same fact under several
// module-dependent names; normalization resolves each of ours from a fixed
// candidate list, first hit wins.
func parseQuoteSummary(body []byte) (contracts.QuoteInfo, *contracts.CalendarSnapshot, error) {
	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("parse quote summary failed: %w", err)
	}

	if parsed.QuoteSummary.Error != nil {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("feed error: %s (%s)",
			parsed.QuoteSummary.Error.Description, parsed.QuoteSummary.Error.Code)
	}

	if len(parsed.QuoteSummary.Result) == 0 {
		return contracts.QuoteInfo{}, nil, fmt.Errorf("empty quote summary result")
	}

	fields := map[string]any{}
	for _, module := range parsed.QuoteSummary.Result[0] {
		for k, v := range module {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	}

	info := contracts.QuoteInfo{
		Name:              strField(fields, "longName", "shortName"),
		Currency:          strField(fields, "currency", "financialCurrency"),
		Exchange:          strField(fields, "exchangeName", "fullExchangeName", "exchange"),
		Price:             numField(fields, "regularMarketPrice", "currentPrice", "previousClose"),
		DividendRate:      numField(fields, "dividendRate", "trailingAnnualDividendRate"),
		DividendYield:     numField(fields, "dividendYield", "trailingAnnualDividendYield"),
		PayoutRatio:       numField(fields, "payoutRatio"),
		TrailingEPS:       numField(fields, "trailingEps", "epsTrailingTwelveMonths"),
		SharesOutstanding: numField(fields, "sharesOutstanding"),
		NetIncome:         numField(fields, "netIncomeToCommon", "netIncome"),
		ExDividendDate:    dateField(fields, "exDividendDate"),
	}

	calendar := &contracts.CalendarSnapshot{
		ExDividendDate: dateField(fields, "exDividendDate"),
		PaymentDate:    dateField(fields, "dividendDate"),
	}
	if calendar.Empty() {
		calendar = nil
	}

	return info, calendar, nil
}

// unwrap resolves the upstream's {"raw": x, "fmt": "..."} number envelopes
// to their raw value.
func unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if raw, ok := m["raw"]; ok {
			return raw
		}
		return nil
	}
	return v
}

// numField returns the first non-zero numeric value among keys.
func numField(fields map[string]any, keys ...string) float64 {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if f, ok := unwrap(v).(float64); ok && f != 0 {
			return f
		}
	}
	return 0
}

// strField returns the first non-empty string value among keys.
func strField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if s, ok := unwrap(v).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// dateField returns the first usable date among keys. The upstream encodes
// dates as unix seconds, sometimes wrapped in a raw/fmt envelope.
func dateField(fields map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if f, ok := unwrap(v).(float64); ok && f > 0 {
			d := contracts.Day(time.Unix(int64(f), 0))
			return &d
		}
	}
	return nil
}
