package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// Quote page label for the calendar row.
const labelExDividend = "Ex-Dividend Date"

// ScrapeCalendar extracts a calendar snapshot from the HTML quote page.
// Used as a fallback when the JSON summary omits the calendar.
func (c *Client) ScrapeCalendar(ctx context.Context, symbol string) (*contracts.CalendarSnapshot, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	fullURL := fmt.Sprintf("%s/quote/%s", c.quoteBaseURL, url.PathEscape(symbol))

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	})
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

	return parseCalendarHTML(string(body))
}

// parseCalendarHTML scans the quote page's statistics list for the
// ex-dividend row. The page never shows the payment date, so a scraped
// snapshot carries the ex-dividend side only.
func parseCalendarHTML(html string) (*contracts.CalendarSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	var snapshot contracts.CalendarSnapshot

	doc.Find("li").Each(func(i int, row *goquery.Selection) {
		if snapshot.ExDividendDate != nil {
			return
		}

		spans := row.Find("span")
		if spans.Length() < 2 {
			return
		}

		label := strings.TrimSpace(spans.First().Text())
		if label != labelExDividend {
			return
		}

		value := strings.TrimSpace(spans.Last().Text())
		if d := parseDisplayDate(value); d != nil {
			snapshot.ExDividendDate = d
		}
	})

	if snapshot.Empty() {
		return nil, nil
	}
	return &snapshot, nil
}

// parseDisplayDate parses the human-readable date formats the quote page
// uses. Returns nil for placeholders like "--".
func parseDisplayDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" || strings.EqualFold(s, "N/A") {
		return nil
	}

	for _, layout := range []string{"Jan 2, 2006", "2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := contracts.Day(t)
			return &d
		}
	}
	return nil
}
