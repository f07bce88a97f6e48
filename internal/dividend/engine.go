// Package dividend derives dividend payment dates for equities whose feed
// reliably reports only ex-dividend dates plus an often-stale calendar of
// projected dates. The engine is pure and deterministic over its inputs
// (history, calendar snapshot, reference date), which makes it safe to call
// concurrently across tickers with no locking.
package dividend

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// Engine runs the full estimation pipeline for one ticker: calendar
// freshness classification, interval estimation, then the two projections.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an estimation engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("component", "dividend.engine").Logger(),
	}
}

// Estimate produces the payment-date estimate for one ticker as of today.
// Data-quality problems never surface as errors; every degraded path is
// expressed as a lower-confidence method. The only returned error is
// ErrInvalidInput for genuinely malformed inputs.
func (e *Engine) Estimate(data contracts.TickerData, today time.Time) (contracts.EstimationResult, error) {
	if today.IsZero() {
		return contracts.EstimationResult{}, fmt.Errorf("%w: zero reference date", contracts.ErrInvalidInput)
	}
	today = contracts.Day(today)

	dates := normalizeDates(data.Events)
	var latest *time.Time
	if len(dates) > 0 {
		latest = &dates[len(dates)-1]
	}

	freshness := ClassifyCalendar(data.Calendar, latest, today)
	cycle := EstimateCycle(dates, today)
	gap, calendarRejected := EstimateGap(data.Calendar, freshness, cycle)
	itv := contracts.Interval{GapDays: gap.GapDays, CycleDays: cycle}

	pattern := AnalyzePattern(dates, today)
	staleness := StalenessThreshold(cycle, pattern)

	last := projectLastPayment(dates, data.Calendar, freshness, itv, gap, calendarRejected, staleness, today)
	next := projectNextPayment(dates, data.Calendar, freshness, itv, gap, calendarRejected, today)

	result := contracts.EstimationResult{
		Symbol:                   data.Symbol,
		EstimatedLastPaymentDate: last.Date,
		EstimatedNextPaymentDate: next.Date,
		GapDays:                  itv.GapDays,
		CycleDays:                itv.CycleDays,
		Frequency:                contracts.FrequencyFromCycle(cycle),
		CalendarFreshness:        freshness,
		LastPayment:              last,
		NextPayment:              next,
	}

	// Top-level provenance mirrors the last-payment projection, the primary
	// estimation target, falling back to the forward projection.
	switch {
	case last.Date != nil:
		result.EstimationMethod = last.Method
		result.ConfidenceDays = last.ConfidenceDays
	case next.Date != nil:
		result.EstimationMethod = next.Method
		result.ConfidenceDays = next.ConfidenceDays
	default:
		result.EstimationMethod = contracts.MethodInsufficientData
	}

	e.log.Debug().
		Str("symbol", data.Symbol).
		Str("freshness", string(freshness)).
		Int("gap_days", itv.GapDays).
		Int("cycle_days", itv.CycleDays).
		Str("method", string(result.EstimationMethod)).
		Msg("estimation completed")

	return result, nil
}
