package dividend

import (
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// Expected absolute error bounds per method family, in days.
const (
	confidenceCalendar         = 2
	confidenceCalendarAdjusted = 3
	confidenceHistory          = 7
	confidenceProjection       = 10
	confidenceFallback         = 14
)

// projectLastPayment derives the most recent payment date. The calendar is
// trusted first when it is stale (a stale calendar, read literally, IS the
// last cycle); otherwise the last ex-dividend event plus the typical gap is
// used, with a single bounded retry against the second-last event when the
// candidate lands in the future. Returned dates are never after today.
func projectLastPayment(dates []time.Time, cal *contracts.CalendarSnapshot, freshness contracts.Freshness,
	itv contracts.Interval, gap contracts.GapEstimate, calendarRejected bool, staleness float64, today time.Time) contracts.Projection {

	today = contracts.Day(today)
	cycle := itv.CycleDays

	if freshness == contracts.FreshnessStale && !calendarRejected && cal != nil && cal.PaymentDate != nil {
		pay := contracts.Day(*cal.PaymentDate)

		if !pay.After(today) {
			// Too old by more than one tolerated cycle means the feed has
			// skipped a cycle; the true last payment is one cycle later.
			daysSince := contracts.DaysBetween(pay, today)
			if float64(daysSince) > float64(cycle)*staleness {
				if shifted := pay.AddDate(0, 0, cycle); !shifted.After(today) {
					return contracts.Projection{
						Date:           &shifted,
						Method:         contracts.MethodCalendarDatePlusOneInterval,
						ConfidenceDays: confidenceCalendarAdjusted,
					}
				}
			}
			return contracts.Projection{
				Date:           &pay,
				Method:         contracts.MethodDirectFromCalendar,
				ConfidenceDays: confidenceCalendar,
			}
		}

		// The calendar's payment is itself still pending, so the last
		// payment sits one cycle behind it.
		if prev := pay.AddDate(0, 0, -cycle); !prev.After(today) {
			return contracts.Projection{
				Date:           &prev,
				Method:         contracts.MethodCalendarDatePlusOneInterval,
				ConfidenceDays: confidenceCalendarAdjusted,
			}
		}
	}

	if len(dates) == 0 {
		return contracts.Projection{Method: contracts.MethodInsufficientData}
	}

	proj := projectLastFromHistory(dates, itv, staleness, today)

	// With fewer than two events and no calendar evidence the whole chain
	// rests on the default gap guess, and the provenance tag must say so.
	if len(dates) < 2 && gap.Method == contracts.MethodDefaultFallbackGuess && proj.Date != nil {
		proj.Method = contracts.MethodDefaultFallbackGuess
		proj.ConfidenceDays = confidenceFallback
	}
	return proj
}

// projectLastFromHistory is the history-only path: last ex-dividend date
// plus gap, with the retry depth explicitly bounded at one. The final
// fallback steps the original candidate back by whole cycles until it lands
// on or before today, so a date is always produced when history exists.
func projectLastFromHistory(dates []time.Time, itv contracts.Interval, staleness float64, today time.Time) contracts.Projection {
	cycle := itv.CycleDays
	lastEx := dates[len(dates)-1]
	candidate := lastEx.AddDate(0, 0, itv.GapDays)

	if !candidate.After(today) {
		// Candidate is plausible unless it is older than one tolerated
		// cycle, in which case the feed's history is lagging and the true
		// payment is one cycle later.
		daysSince := contracts.DaysBetween(candidate, today)
		if float64(daysSince) > float64(cycle)*staleness {
			if shifted := candidate.AddDate(0, 0, cycle); !shifted.After(today) {
				return contracts.Projection{
					Date:           &shifted,
					Method:         contracts.MethodExDividendIntervalProjection,
					ConfidenceDays: confidenceProjection,
				}
			}
		}
		return contracts.Projection{
			Date:           &candidate,
			Method:         contracts.MethodExDividendPlusGapBasic,
			ConfidenceDays: confidenceHistory,
		}
	}

	// Candidate overshot today. Retry once with the second-last event.
	if len(dates) >= 2 {
		if prev := dates[len(dates)-2].AddDate(0, 0, itv.GapDays); !prev.After(today) {
			return contracts.Projection{
				Date:           &prev,
				Method:         contracts.MethodPreviousExDividendPlusGap,
				ConfidenceDays: confidenceProjection,
			}
		}
	}

	// Still in the future: step the original candidate back by however many
	// whole cycles it takes to land on or before today. Plain arithmetic,
	// no further retries.
	overshoot := contracts.DaysBetween(today, candidate)
	steps := 1
	if cycle > 0 {
		steps = (overshoot + cycle - 1) / cycle
	}
	date := candidate.AddDate(0, 0, -steps*cycle)
	if date.After(today) {
		date = today
	}
	return contracts.Projection{
		Date:           &date,
		Method:         contracts.MethodExDividendIntervalProjection,
		ConfidenceDays: confidenceProjection,
	}
}

// projectNextPayment derives the upcoming payment date, strictly after
// today. A fresh calendar is authoritative; otherwise one full cycle plus
// the gap is projected forward from the last ex-dividend event.
func projectNextPayment(dates []time.Time, cal *contracts.CalendarSnapshot, freshness contracts.Freshness,
	itv contracts.Interval, gap contracts.GapEstimate, calendarRejected bool, today time.Time) contracts.Projection {

	today = contracts.Day(today)
	cycle := itv.CycleDays

	if freshness == contracts.FreshnessFresh && !calendarRejected && cal != nil {
		if cal.PaymentDate != nil {
			if pay := contracts.Day(*cal.PaymentDate); pay.After(today) {
				return contracts.Projection{
					Date:           &pay,
					Method:         contracts.MethodDirectFromCalendar,
					ConfidenceDays: confidenceCalendar,
				}
			}
		} else if cal.ExDividendDate != nil {
			// Fresh calendar without a payment date: the upcoming payment
			// trails the announced ex-dividend date by the typical gap.
			if pay := contracts.Day(*cal.ExDividendDate).AddDate(0, 0, itv.GapDays); pay.After(today) {
				return contracts.Projection{
					Date:           &pay,
					Method:         contracts.MethodExDivPredictedDirectCalendar,
					ConfidenceDays: confidenceCalendarAdjusted,
				}
			}
		}
	}

	if len(dates) == 0 {
		return contracts.Projection{Method: contracts.MethodInsufficientData}
	}

	naive := dates[len(dates)-1].AddDate(0, 0, cycle+itv.GapDays)
	if !naive.After(today) && cycle > 0 {
		// Clamp forward by whole cycles until strictly after today.
		behind := contracts.DaysBetween(naive, today)
		naive = naive.AddDate(0, 0, (behind/cycle+1)*cycle)
	}

	proj := contracts.Projection{
		Date:           &naive,
		Method:         contracts.MethodExDividendIntervalProjection,
		ConfidenceDays: confidenceProjection,
	}
	if len(dates) < 2 && gap.Method == contracts.MethodDefaultFallbackGuess {
		proj.Method = contracts.MethodDefaultFallbackGuess
		proj.ConfidenceDays = confidenceFallback
	}
	return proj
}
