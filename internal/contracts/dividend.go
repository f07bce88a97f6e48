package contracts

import (
	"errors"
	"time"
)

// ExDividendEvent is one historical ex-dividend occurrence reported by the
// upstream feed. The feed reliably reports ex-dividend dates only; payment
// dates are the estimation target.
type ExDividendEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// CalendarSnapshot is the issuer's forward-looking schedule as reported by
// the feed. Either field may be missing, and populated fields are frequently
// stale (describing a cycle that has already elapsed).
type CalendarSnapshot struct {
	ExDividendDate *time.Time `json:"ex_dividend_date,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
}

// Empty reports whether the snapshot carries no usable fields.
func (c *CalendarSnapshot) Empty() bool {
	return c == nil || (c.ExDividendDate == nil && c.PaymentDate == nil)
}

// Freshness classifies a calendar snapshot against today and known history.
type Freshness string

const (
	// FreshnessFresh means the calendar describes a genuinely upcoming event.
	FreshnessFresh Freshness = "FRESH"
	// FreshnessStale means the calendar describes a cycle that has already
	// happened or is happening now.
	FreshnessStale Freshness = "STALE"
	// FreshnessAbsent means no calendar data is available.
	FreshnessAbsent Freshness = "ABSENT"
)

// EstimationMethod records which branch of the estimation logic produced a
// date. Closed set; every producing site emits exactly one of these.
type EstimationMethod string

const (
	MethodDirectFromCalendar           EstimationMethod = "direct_from_calendar"
	MethodCalendarDatePlusOneInterval  EstimationMethod = "calendar_date_plus_one_interval"
	MethodExDividendPlusGapBasic       EstimationMethod = "ex_dividend_plus_gap_basic"
	MethodPreviousExDividendPlusGap    EstimationMethod = "previous_ex_dividend_plus_gap"
	MethodExDividendIntervalProjection EstimationMethod = "ex_dividend_plus_interval_projection"
	MethodExDivPredictedDirectCalendar EstimationMethod = "exdiv_predicted_direct_calendar"
	MethodDivPredictedDirectCalendar   EstimationMethod = "div_predicted_direct_calendar"
	MethodDefaultFallbackGuess         EstimationMethod = "default_fallback_guess"
	MethodInsufficientData             EstimationMethod = "insufficient_data"
)

// Frequency is the payout cadence implied by the ex-dividend cycle length.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyAnnual     Frequency = "annual"
	FrequencyUnknown    Frequency = "unknown"
)

// FrequencyFromCycle maps a cycle length in days to a payout cadence using
// the standard interval ranges.
func FrequencyFromCycle(cycleDays int) Frequency {
	switch {
	case cycleDays <= 0:
		return FrequencyUnknown
	case cycleDays < 35:
		return FrequencyMonthly
	case cycleDays < 95:
		return FrequencyQuarterly
	case cycleDays < 185:
		return FrequencySemiAnnual
	default:
		return FrequencyAnnual
	}
}

// PaymentsPerYear returns the expected number of payments for a cadence,
// or 0 when the cadence is unknown.
func (f Frequency) PaymentsPerYear() int {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiAnnual:
		return 2
	case FrequencyAnnual:
		return 1
	default:
		return 0
	}
}

// Interval is the pair of day counts the projector works with: GapDays is the
// typical distance from an ex-dividend date to its matching payment, CycleDays
// the typical distance between consecutive ex-dividend dates.
type Interval struct {
	GapDays   int `json:"gap_days"`
	CycleDays int `json:"cycle_days"`
}

// GapEstimate is the gap portion of an Interval together with its provenance.
type GapEstimate struct {
	GapDays        int              `json:"gap_days"`
	Method         EstimationMethod `json:"method"`
	ConfidenceDays int              `json:"confidence_days"`
}

// Projection is a single estimated payment date with provenance. Date is nil
// when the evidence was insufficient for this direction.
type Projection struct {
	Date           *time.Time       `json:"date,omitempty"`
	Method         EstimationMethod `json:"method"`
	ConfidenceDays int              `json:"confidence_days"`
}

// ExDividendPattern captures day-of-month timing statistics over recent
// ex-dividend history.
type ExDividendPattern struct {
	MeanDayOfMonth float64 `json:"mean_day_of_month"`
	StdDevDays     float64 `json:"std_dev_days"`
	MinDay         int     `json:"min_day"`
	MaxDay         int     `json:"max_day"`
}

// EstimationResult is the engine's output for one ticker. The top-level
// method and confidence mirror the last-payment projection (the primary
// estimation target), falling back to the next-payment projection when no
// backward-looking date could be derived.
type EstimationResult struct {
	Symbol                   string           `json:"symbol,omitempty"`
	EstimatedLastPaymentDate *time.Time       `json:"estimated_last_payment_date"`
	EstimatedNextPaymentDate *time.Time       `json:"estimated_next_payment_date"`
	GapDays                  int              `json:"gap_days"`
	CycleDays                int              `json:"cycle_days"`
	EstimationMethod         EstimationMethod `json:"estimation_method"`
	ConfidenceDays           int              `json:"confidence_days"`
	Frequency                Frequency        `json:"frequency"`
	CalendarFreshness        Freshness        `json:"calendar_freshness"`
	LastPayment              Projection       `json:"last_payment"`
	NextPayment              Projection       `json:"next_payment"`
}

// TickerData is everything the engine consumes for one ticker, already
// fetched and normalized by the feed client.
type TickerData struct {
	Symbol    string            `json:"symbol"`
	Info      QuoteInfo         `json:"info"`
	Events    []ExDividendEvent `json:"events"`
	Calendar  *CalendarSnapshot `json:"calendar,omitempty"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// QuoteInfo is the normalized subset of the upstream per-ticker info the
// analysis layer uses. Zero values mean the field was not reported.
type QuoteInfo struct {
	Name              string     `json:"name,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	Exchange          string     `json:"exchange,omitempty"`
	Price             float64    `json:"price,omitempty"`
	DividendRate      float64    `json:"dividend_rate,omitempty"`
	DividendYield     float64    `json:"dividend_yield,omitempty"`
	PayoutRatio       float64    `json:"payout_ratio,omitempty"`
	TrailingEPS       float64    `json:"trailing_eps,omitempty"`
	SharesOutstanding float64    `json:"shares_outstanding,omitempty"`
	NetIncome         float64    `json:"net_income,omitempty"`
	ExDividendDate    *time.Time `json:"ex_dividend_date,omitempty"`
}

// ErrInvalidInput marks genuinely malformed engine inputs (e.g. a zero
// reference date). Data-quality problems never surface as errors; they
// degrade to lower-confidence methods instead.
var ErrInvalidInput = errors.New("invalid estimation input")

// Day truncates t to a calendar date at UTC midnight. All estimation
// arithmetic runs on calendar dates with no time-of-day component.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to − from.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)) / (24 * time.Hour))
}

// LatestEvent returns the most recent event date, or nil when history is
// empty. Events are usually chronological but the scan does not assume it.
func LatestEvent(events []ExDividendEvent) *time.Time {
	var latest *time.Time
	for i := range events {
		d := Day(events[i].Date)
		if d.IsZero() {
			continue
		}
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest
}
