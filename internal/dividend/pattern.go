package dividend

import (
	"math"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// minPatternSamples is the number of recent ex-dividend dates needed before
// day-of-month statistics are considered meaningful.
const minPatternSamples = 4

// AnalyzePattern computes day-of-month statistics for recent ex-dividend
// dates. When the recent window holds too few samples the full history is
// used; with fewer than minPatternSamples overall a zero pattern is returned.
func AnalyzePattern(dates []time.Time, today time.Time) contracts.ExDividendPattern {
	if len(dates) == 0 {
		return contracts.ExDividendPattern{}
	}

	cutoff := contracts.Day(today).AddDate(0, 0, -RecentHistoryDays)
	var sample []time.Time
	for _, d := range dates {
		if !d.Before(cutoff) {
			sample = append(sample, d)
		}
	}
	if len(sample) < minPatternSamples {
		if len(dates) < minPatternSamples {
			return contracts.ExDividendPattern{}
		}
		sample = dates
	}

	days := make([]float64, len(sample))
	minDay, maxDay := sample[0].Day(), sample[0].Day()
	var sum float64
	for i, d := range sample {
		day := d.Day()
		days[i] = float64(day)
		sum += float64(day)
		if day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}
	mean := sum / float64(len(days))

	var variance float64
	for _, d := range days {
		diff := d - mean
		variance += diff * diff
	}
	// Sample standard deviation; a single observation has no spread.
	var stdDev float64
	if len(days) > 1 {
		stdDev = math.Sqrt(variance / float64(len(days)-1))
	}

	return contracts.ExDividendPattern{
		MeanDayOfMonth: mean,
		StdDevDays:     stdDev,
		MinDay:         minDay,
		MaxDay:         maxDay,
	}
}

// StalenessThreshold is the tolerance multiplier used to decide whether an
// estimated payment is genuinely late or the feed's data is simply outdated.
// Longer cycles get more tolerance; issuers with very regular timing get
// less, since for them a long silence means stale data rather than a delay.
func StalenessThreshold(cycleDays int, pattern contracts.ExDividendPattern) float64 {
	base := 1.1
	if cycleDays >= 60 {
		base = 1.2
	}
	if pattern.StdDevDays >= 4 {
		base *= 1.1
	}
	return base
}
