package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// chartResponse is the shape of the v8 chart endpoint, reduced to the
// dividend events this client consumes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDividendHistory fetches the ex-dividend event history for a symbol,
// sorted ascending by date.
func (c *Client) FetchDividendHistory(ctx context.Context, symbol string) ([]contracts.ExDividendEvent, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=10y&interval=1mo&events=div",
		c.baseURL, url.PathEscape(symbol))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseDividendHistory(body)
}

// parseDividendHistory decodes the chart response into chronological events.
// Zero-dated entries are dropped.
func parseDividendHistory(body []byte) ([]contracts.ExDividendEvent, error) {
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("feed error: %s (%s)",
			parsed.Chart.Error.Description, parsed.Chart.Error.Code)
	}

	if len(parsed.Chart.Result) == 0 {
		return nil, nil
	}

	var events []contracts.ExDividendEvent
	for _, div := range parsed.Chart.Result[0].Events.Dividends {
		if div.Date <= 0 {
			continue
		}
		events = append(events, contracts.ExDividendEvent{
			Date:   contracts.Day(time.Unix(div.Date, 0)),
			Amount: div.Amount,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return events, nil
}
