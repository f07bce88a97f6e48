package dividend

import (
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// ClassifyCalendar classifies the issuer's reported calendar against today
// and the most recent known ex-dividend event.
//
// FRESH means the calendar describes a genuinely upcoming cycle: its
// ex-dividend date is in the future and strictly after anything in history.
// STALE means the feed is describing a cycle that has already happened or is
// happening now. A calendar ex-dividend date equal to the latest known event
// is STALE — the feed has not rolled over yet.
func ClassifyCalendar(cal *contracts.CalendarSnapshot, latestEx *time.Time, today time.Time) contracts.Freshness {
	if cal.Empty() {
		return contracts.FreshnessAbsent
	}
	if cal.ExDividendDate == nil {
		// A payment-only snapshot cannot prove an upcoming cycle.
		return contracts.FreshnessStale
	}

	ex := contracts.Day(*cal.ExDividendDate)
	if !ex.After(contracts.Day(today)) {
		return contracts.FreshnessStale
	}
	if latestEx != nil && !ex.After(contracts.Day(*latestEx)) {
		return contracts.FreshnessStale
	}
	return contracts.FreshnessFresh
}
