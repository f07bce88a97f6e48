package dividend

import (
	"testing"

	"github.com/nolan-veed/divcast/internal/contracts"
)

func TestDividendRate(t *testing.T) {
	history := []contracts.ExDividendEvent{
		{Date: date(2023, 11, 10), Amount: 0.5},
		{Date: date(2024, 2, 9), Amount: 0.5},
		{Date: date(2024, 5, 10), Amount: 0.5},
		{Date: date(2024, 8, 9), Amount: 0.5},
	}

	tests := []struct {
		name       string
		info       contracts.QuoteInfo
		events     []contracts.ExDividendEvent
		freq       contracts.Frequency
		wantRate   float64
		wantMethod string
	}{
		{
			name:       "direct from info",
			info:       contracts.QuoteInfo{DividendRate: 1.2},
			wantRate:   1.2,
			wantMethod: "direct_from_info",
		},
		{
			name:       "price times yield",
			info:       contracts.QuoteInfo{Price: 100, DividendYield: 0.04},
			wantRate:   4,
			wantMethod: "price_and_yield_product",
		},
		{
			name:       "annualized from history",
			events:     history,
			freq:       contracts.FrequencyQuarterly,
			wantRate:   2,
			wantMethod: "historical_quarterly_calculation",
		},
		{
			name:       "nothing available",
			wantRate:   0,
			wantMethod: "failed_not_enough_data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, method := DividendRate(tt.info, tt.events, tt.freq)
			if rate != tt.wantRate {
				t.Errorf("rate = %v, want %v", rate, tt.wantRate)
			}
			if method != tt.wantMethod {
				t.Errorf("method = %q, want %q", method, tt.wantMethod)
			}
		})
	}
}

func TestDividendRate_PartialYear(t *testing.T) {
	// Two quarterly payments scale up to a full year.
	events := []contracts.ExDividendEvent{
		{Date: date(2024, 5, 10), Amount: 0.5},
		{Date: date(2024, 8, 9), Amount: 0.5},
	}
	rate, method := DividendRate(contracts.QuoteInfo{}, events, contracts.FrequencyQuarterly)
	if rate != 2 {
		t.Errorf("rate = %v, want 2", rate)
	}
	if method != "historical_quarterly_calculation" {
		t.Errorf("method = %q", method)
	}
}

func TestPayoutRatio(t *testing.T) {
	tests := []struct {
		name       string
		info       contracts.QuoteInfo
		rate       float64
		wantRatio  float64
		wantMethod string
	}{
		{
			name:       "direct from info",
			info:       contracts.QuoteInfo{PayoutRatio: 0.45},
			rate:       2,
			wantRatio:  0.45,
			wantMethod: "direct_from_info",
		},
		{
			name:       "eps based",
			info:       contracts.QuoteInfo{TrailingEPS: 4},
			rate:       2,
			wantRatio:  0.5,
			wantMethod: "eps_based",
		},
		{
			name:       "income based",
			info:       contracts.QuoteInfo{SharesOutstanding: 1000, NetIncome: 4000},
			rate:       2,
			wantRatio:  0.5,
			wantMethod: "income_based",
		},
		{
			name:       "no dividend rate",
			wantRatio:  0,
			wantMethod: "no_dividend_rate",
		},
		{
			name:       "nothing available",
			rate:       2,
			wantRatio:  0,
			wantMethod: "failed_not_enough_data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, method := PayoutRatio(tt.info, tt.rate)
			if ratio != tt.wantRatio {
				t.Errorf("ratio = %v, want %v", ratio, tt.wantRatio)
			}
			if method != tt.wantMethod {
				t.Errorf("method = %q, want %q", method, tt.wantMethod)
			}
		})
	}
}
