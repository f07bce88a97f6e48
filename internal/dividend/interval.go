package dividend

import (
	"sort"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

const (
	// DefaultCycleDays is the quarterly cycle assumed when history is too
	// thin to measure one.
	DefaultCycleDays = 91

	// MaxPlausibleGapDays bounds how far a payment can trail its ex-dividend
	// date before the calendar evidence is considered implausible.
	MaxPlausibleGapDays = 60

	// DefaultGapCeiling caps the fallback gap guess. Without calendar
	// evidence the gap is assumed to be a third of the cycle, at most this.
	DefaultGapCeiling = 34

	// RecentHistoryDays is the lookback window preferred for cycle and
	// pattern estimation, so issuers that changed cadence are measured on
	// their current one.
	RecentHistoryDays = 1095
)

// normalizeDates sorts event dates chronologically, truncates them to UTC
// midnight, and drops duplicates and zero values. Upstream history is
// supposed to be strictly increasing already; this guards against feeds that
// violate that.
func normalizeDates(events []contracts.ExDividendEvent) []time.Time {
	dates := make([]time.Time, 0, len(events))
	for i := range events {
		d := contracts.Day(events[i].Date)
		if d.IsZero() {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := dates[:0]
	for i, d := range dates {
		if i > 0 && d.Equal(dates[i-1]) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// consecutiveGaps returns the positive day distances between consecutive
// dates. When the window within RecentHistoryDays of today still contains at
// least two gaps, only those are used.
func consecutiveGaps(dates []time.Time, today time.Time) []int {
	gaps := func(ds []time.Time) []int {
		var out []int
		for i := 1; i < len(ds); i++ {
			if g := contracts.DaysBetween(ds[i-1], ds[i]); g > 0 {
				out = append(out, g)
			}
		}
		return out
	}

	cutoff := contracts.Day(today).AddDate(0, 0, -RecentHistoryDays)
	var recent []time.Time
	for _, d := range dates {
		if !d.Before(cutoff) {
			recent = append(recent, d)
		}
	}
	if rg := gaps(recent); len(rg) >= 2 {
		return rg
	}
	return gaps(dates)
}

// medianInt returns the median of vs, with an even-length median taken as
// the average of the two middle values rounded to the nearest day. The
// median is used instead of a mean because a single missed or extra event
// would skew a mean by a whole cycle fraction.
func medianInt(vs []int) int {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]int, len(vs))
	copy(sorted, vs)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid] + 1) / 2
}

// EstimateCycle derives the typical ex-dividend to ex-dividend distance in
// days. Fewer than two usable events falls back to a quarterly default.
func EstimateCycle(dates []time.Time, today time.Time) int {
	gaps := consecutiveGaps(dates, today)
	if len(gaps) == 0 {
		return DefaultCycleDays
	}
	if m := medianInt(gaps); m > 0 {
		return m
	}
	return DefaultCycleDays
}

// EstimateGap derives the typical ex-dividend to payment gap. Calendar
// evidence is the only trustworthy source for it; without a usable calendar
// the gap is a documented guess of cycle/3 capped at DefaultGapCeiling.
//
// The second return value reports that a populated calendar was rejected as
// internally inconsistent, so projection must not trust its dates either.
func EstimateGap(cal *contracts.CalendarSnapshot, freshness contracts.Freshness, cycleDays int) (contracts.GapEstimate, bool) {
	fallback := contracts.GapEstimate{
		GapDays:        defaultGap(cycleDays),
		Method:         contracts.MethodDefaultFallbackGuess,
		ConfidenceDays: confidenceFallback,
	}

	if freshness == contracts.FreshnessAbsent || cal == nil || cal.ExDividendDate == nil || cal.PaymentDate == nil {
		return fallback, false
	}

	ex := contracts.Day(*cal.ExDividendDate)
	pay := contracts.Day(*cal.PaymentDate)
	gap := contracts.DaysBetween(ex, pay)

	switch {
	case gap > cycleDays:
		// The calendar pairs this cycle's ex-dividend date with the next
		// cycle's payment date. Subtracting one cycle recovers the gap.
		if adjusted := gap - cycleDays; adjusted >= 0 && adjusted <= MaxPlausibleGapDays {
			return contracts.GapEstimate{
				GapDays:        adjusted,
				Method:         contracts.MethodExDivPredictedDirectCalendar,
				ConfidenceDays: confidenceCalendarAdjusted,
			}, false
		}
	case gap >= 0 && gap <= MaxPlausibleGapDays:
		return contracts.GapEstimate{
			GapDays:        gap,
			Method:         contracts.MethodDirectFromCalendar,
			ConfidenceDays: confidenceCalendar,
		}, false
	}

	// The payment date precedes its ex-dividend date: the payment likely
	// belongs to the previous cycle. Re-anchor against that cycle's
	// estimated ex-dividend date before giving up on the calendar.
	if cycleDays > 0 {
		estPrevEx := ex.AddDate(0, 0, -cycleDays)
		if reGap := contracts.DaysBetween(estPrevEx, pay); reGap >= 0 && reGap <= MaxPlausibleGapDays {
			return contracts.GapEstimate{
				GapDays:        reGap,
				Method:         contracts.MethodDivPredictedDirectCalendar,
				ConfidenceDays: confidenceCalendarAdjusted,
			}, false
		}
	}

	// Calendar fields contradict each other beyond repair. Discard the
	// entry and degrade rather than fail.
	return fallback, true
}

func defaultGap(cycleDays int) int {
	if cycleDays <= 0 {
		return DefaultGapCeiling
	}
	guess := cycleDays / 3
	if guess > DefaultGapCeiling {
		return DefaultGapCeiling
	}
	return guess
}
