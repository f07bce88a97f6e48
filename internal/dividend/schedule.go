package dividend

import (
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// Schedule projection lengths: at least one year of payments for every
// cadence, so monthly payers get more steps.
const (
	scheduleStepsMonthly = 14
	scheduleStepsDefault = 6
)

// ProjectSchedule predicts upcoming payment dates for roughly a year ahead.
// A fresh calendar payment date seeds the schedule when available; otherwise
// payments are projected forward from the last ex-dividend event. Returns
// nil when there is no history to project from.
func ProjectSchedule(data contracts.TickerData, today time.Time) []time.Time {
	today = contracts.Day(today)
	dates := normalizeDates(data.Events)
	if len(dates) == 0 {
		return nil
	}

	cycle := EstimateCycle(dates, today)
	latest := &dates[len(dates)-1]
	freshness := ClassifyCalendar(data.Calendar, latest, today)
	gap, calendarRejected := EstimateGap(data.Calendar, freshness, cycle)

	steps := scheduleStepsDefault
	if contracts.FrequencyFromCycle(cycle) == contracts.FrequencyMonthly {
		steps = scheduleStepsMonthly
	}

	// A confirmed upcoming payment date anchors the whole schedule.
	if !calendarRejected && data.Calendar != nil && data.Calendar.PaymentDate != nil {
		if pay := contracts.Day(*data.Calendar.PaymentDate); pay.After(today) {
			out := make([]time.Time, 0, steps)
			out = append(out, pay)
			for i := 1; i < steps; i++ {
				pay = pay.AddDate(0, 0, cycle)
				out = append(out, pay)
			}
			return out
		}
	}

	lastEx := latestExDate(data, dates)
	var out []time.Time
	for i := 1; i <= steps; i++ {
		nextEx := lastEx.AddDate(0, 0, cycle*i)
		payout := nextEx.AddDate(0, 0, gap.GapDays)
		if !payout.Before(today) {
			out = append(out, payout)
		}
	}
	return out
}

// latestExDate resolves the anchor ex-dividend date for forward projection:
// the calendar's announced date first, then the info field, then the last
// history event. Callers guarantee non-empty history.
func latestExDate(data contracts.TickerData, dates []time.Time) time.Time {
	if data.Calendar != nil && data.Calendar.ExDividendDate != nil {
		return contracts.Day(*data.Calendar.ExDividendDate)
	}
	if data.Info.ExDividendDate != nil {
		return contracts.Day(*data.Info.ExDividendDate)
	}
	return dates[len(dates)-1]
}
