package dividend

import (
	"math"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// DividendRate computes the annual dividend rate, trying sources in order of
// reliability: the feed's reported rate, price times yield, then annualized
// recent history. The second return value names the method used.
func DividendRate(info contracts.QuoteInfo, events []contracts.ExDividendEvent, freq contracts.Frequency) (float64, string) {
	if info.DividendRate > 0 {
		return info.DividendRate, "direct_from_info"
	}
	if info.Price > 0 && info.DividendYield > 0 {
		return round4(info.Price * info.DividendYield), "price_and_yield_product"
	}
	if len(events) > 0 {
		if rate, ok := annualize(events, freq); ok {
			return rate, "historical_" + string(freq) + "_calculation"
		}
	}
	return 0, "failed_not_enough_data"
}

// PayoutRatio computes the payout ratio, trying the feed's reported ratio,
// rate over EPS, then rate over net income per share.
func PayoutRatio(info contracts.QuoteInfo, dividendRate float64) (float64, string) {
	if info.PayoutRatio > 0 {
		return info.PayoutRatio, "direct_from_info"
	}
	if dividendRate <= 0 {
		return 0, "no_dividend_rate"
	}
	if info.TrailingEPS != 0 {
		return round4(dividendRate / info.TrailingEPS), "eps_based"
	}
	if info.SharesOutstanding > 0 && info.NetIncome != 0 {
		perShare := info.NetIncome / info.SharesOutstanding
		if perShare != 0 {
			return round4(dividendRate / perShare), "income_based"
		}
	}
	return 0, "failed_not_enough_data"
}

// annualize scales the most recent payments up to a full year based on the
// payout cadence.
func annualize(events []contracts.ExDividendEvent, freq contracts.Frequency) (float64, bool) {
	perYear := freq.PaymentsPerYear()
	if perYear == 0 {
		return 0, false
	}

	recent := events
	if len(recent) > perYear {
		recent = recent[len(recent)-perYear:]
	}
	var sum float64
	var count int
	for _, ev := range recent {
		if ev.Amount > 0 {
			sum += ev.Amount
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return round4(sum * float64(perYear) / float64(count)), true
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
