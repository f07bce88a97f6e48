package yahoo

import (
	"testing"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

func TestParseDividendHistory(t *testing.T) {
	body := []byte(`{
		"chart": {
			"result": [{
				"events": {
					"dividends": {
						"1707436800": {"amount": 0.24, "date": 1707436800},
						"1715299200": {"amount": 0.25, "date": 1715299200},
						"1723161600": {"amount": 0.25, "date": 1723161600}
					}
				}
			}],
			"error": null
		}
	}`)

	events, err := parseDividendHistory(body)
	if err != nil {
		t.Fatalf("parseDividendHistory() error = %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}

	// Sorted ascending regardless of map iteration order
	for i := 1; i < len(events); i++ {
		if !events[i].Date.After(events[i-1].Date) {
			t.Errorf("Events not sorted ascending: %v before %v", events[i-1].Date, events[i].Date)
		}
	}

	want := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	if !events[0].Date.Equal(want) {
		t.Errorf("First event date = %v, want %v", events[0].Date, want)
	}
	if events[0].Amount != 0.24 {
		t.Errorf("First event amount = %v, want 0.24", events[0].Amount)
	}
}

func TestParseDividendHistory_FeedError(t *testing.T) {
	body := []byte(`{
		"chart": {
			"result": null,
			"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
		}
	}`)

	if _, err := parseDividendHistory(body); err == nil {
		t.Error("Expected error for feed error response")
	}
}

func TestParseDividendHistory_Empty(t *testing.T) {
	body := []byte(`{"chart": {"result": [{"events": {}}], "error": null}}`)

	events, err := parseDividendHistory(body)
	if err != nil {
		t.Fatalf("parseDividendHistory() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}

func TestParseQuoteSummary(t *testing.T) {
	body := []byte(`{
		"quoteSummary": {
			"result": [{
				"price": {
					"longName": "The Coca-Cola Company",
					"currency": "USD",
					"exchangeName": "NYSE",
					"regularMarketPrice": {"raw": 62.5, "fmt": "62.50"}
				},
				"summaryDetail": {
					"dividendRate": {"raw": 1.94, "fmt": "1.94"},
					"dividendYield": {"raw": 0.031, "fmt": "3.10%"},
					"payoutRatio": {"raw": 0.74, "fmt": "74.00%"},
					"exDividendDate": {"raw": 1726185600, "fmt": "2024-09-13"}
				},
				"calendarEvents": {
					"exDividendDate": {"raw": 1726185600, "fmt": "2024-09-13"},
					"dividendDate": {"raw": 1727740800, "fmt": "2024-10-01"}
				},
				"defaultKeyStatistics": {
					"trailingEps": {"raw": 2.61, "fmt": "2.61"},
					"sharesOutstanding": {"raw": 4310000000, "fmt": "4.31B"},
					"netIncomeToCommon": {"raw": 10714000000, "fmt": "10.71B"}
				},
				"financialData": {}
			}],
			"error": null
		}
	}`)

	info, calendar, err := parseQuoteSummary(body)
	if err != nil {
		t.Fatalf("parseQuoteSummary() error = %v", err)
	}

	if info.Name != "The Coca-Cola Company" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Price != 62.5 {
		t.Errorf("Price = %v, want 62.5", info.Price)
	}
	if info.DividendRate != 1.94 {
		t.Errorf("DividendRate = %v, want 1.94", info.DividendRate)
	}
	if info.DividendYield != 0.031 {
		t.Errorf("DividendYield = %v, want 0.031", info.DividendYield)
	}
	if info.TrailingEPS != 2.61 {
		t.Errorf("TrailingEPS = %v, want 2.61", info.TrailingEPS)
	}

	if calendar == nil {
		t.Fatal("Expected calendar snapshot")
	}
	wantEx := time.Date(2024, 9, 13, 0, 0, 0, 0, time.UTC)
	wantPay := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	if calendar.ExDividendDate == nil || !calendar.ExDividendDate.Equal(wantEx) {
		t.Errorf("ExDividendDate = %v, want %v", calendar.ExDividendDate, wantEx)
	}
	if calendar.PaymentDate == nil || !calendar.PaymentDate.Equal(wantPay) {
		t.Errorf("PaymentDate = %v, want %v", calendar.PaymentDate, wantPay)
	}
}

func TestParseQuoteSummary_FallbackFields(t *testing.T) {
	// Primary field names absent; normalization falls through to the
	// trailing-annual variants.
	body := []byte(`{
		"quoteSummary": {
			"result": [{
				"price": {
					"shortName": "Acme Corp",
					"previousClose": {"raw": 40.0, "fmt": "40.00"}
				},
				"summaryDetail": {
					"trailingAnnualDividendRate": {"raw": 1.2, "fmt": "1.20"},
					"trailingAnnualDividendYield": {"raw": 0.03, "fmt": "3.00%"}
				}
			}],
			"error": null
		}
	}`)

	info, calendar, err := parseQuoteSummary(body)
	if err != nil {
		t.Fatalf("parseQuoteSummary() error = %v", err)
	}

	if info.Name != "Acme Corp" {
		t.Errorf("Name = %q, want Acme Corp", info.Name)
	}
	if info.Price != 40.0 {
		t.Errorf("Price = %v, want 40.0", info.Price)
	}
	if info.DividendRate != 1.2 {
		t.Errorf("DividendRate = %v, want 1.2", info.DividendRate)
	}
	if calendar != nil {
		t.Errorf("Expected nil calendar, got %+v", calendar)
	}
}

func TestParseQuoteSummary_EmptyResult(t *testing.T) {
	body := []byte(`{"quoteSummary": {"result": [], "error": null}}`)

	if _, _, err := parseQuoteSummary(body); err == nil {
		t.Error("Expected error for empty result")
	}
}

func TestParseCalendarHTML(t *testing.T) {
	html := `
		<html><body><ul>
			<li><span>Market Cap</span><span>270.1B</span></li>
			<li><span>Ex-Dividend Date</span><span>Sep 13, 2024</span></li>
			<li><span>1y Target Est</span><span>70.00</span></li>
		</ul></body></html>`

	snapshot, err := parseCalendarHTML(html)
	if err != nil {
		t.Fatalf("parseCalendarHTML() error = %v", err)
	}
	if snapshot == nil {
		t.Fatal("Expected snapshot")
	}

	want := time.Date(2024, 9, 13, 0, 0, 0, 0, time.UTC)
	if snapshot.ExDividendDate == nil || !snapshot.ExDividendDate.Equal(want) {
		t.Errorf("ExDividendDate = %v, want %v", snapshot.ExDividendDate, want)
	}
	if snapshot.PaymentDate != nil {
		t.Error("Scraped snapshot should not carry a payment date")
	}
}

func TestParseCalendarHTML_Placeholder(t *testing.T) {
	html := `
		<html><body><ul>
			<li><span>Ex-Dividend Date</span><span>--</span></li>
		</ul></body></html>`

	snapshot, err := parseCalendarHTML(html)
	if err != nil {
		t.Fatalf("parseCalendarHTML() error = %v", err)
	}
	if snapshot != nil {
		t.Errorf("Expected nil snapshot for placeholder value, got %+v", snapshot)
	}
}

func TestParseDisplayDate(t *testing.T) {
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"Sep 13, 2024", datePtr(2024, 9, 13)},
		{"2024-09-13", datePtr(2024, 9, 13)},
		{"9/13/2024", datePtr(2024, 9, 13)},
		{"--", nil},
		{"", nil},
		{"N/A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDisplayDate(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseDisplayDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("parseDisplayDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var _ contracts.FeedClient = (*Client)(nil)
