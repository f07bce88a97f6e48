package dividend

import (
	"testing"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestClassifyCalendar(t *testing.T) {
	today := date(2024, 9, 1)
	latest := datePtr(2024, 5, 10)

	tests := []struct {
		name     string
		cal      *contracts.CalendarSnapshot
		latestEx *time.Time
		want     contracts.Freshness
	}{
		{
			name: "nil calendar",
			want: contracts.FreshnessAbsent,
		},
		{
			name: "empty snapshot",
			cal:  &contracts.CalendarSnapshot{},
			want: contracts.FreshnessAbsent,
		},
		{
			name: "future ex-div after latest event",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 11, 8),
				PaymentDate:    datePtr(2024, 12, 2),
			},
			latestEx: latest,
			want:     contracts.FreshnessFresh,
		},
		{
			name: "future ex-div with no history",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 11, 8),
			},
			want: contracts.FreshnessFresh,
		},
		{
			name: "ex-div equals latest event",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 5, 10),
				PaymentDate:    datePtr(2024, 6, 3),
			},
			latestEx: latest,
			want:     contracts.FreshnessStale,
		},
		{
			name: "ex-div before latest event",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 2, 9),
			},
			latestEx: latest,
			want:     contracts.FreshnessStale,
		},
		{
			name: "ex-div on today",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 9, 1),
			},
			want: contracts.FreshnessStale,
		},
		{
			name: "future ex-div not after latest event",
			cal: &contracts.CalendarSnapshot{
				ExDividendDate: datePtr(2024, 9, 15),
			},
			latestEx: datePtr(2024, 9, 15),
			want:     contracts.FreshnessStale,
		},
		{
			name: "payment-only snapshot",
			cal: &contracts.CalendarSnapshot{
				PaymentDate: datePtr(2024, 9, 20),
			},
			want: contracts.FreshnessStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCalendar(tt.cal, tt.latestEx, today); got != tt.want {
				t.Errorf("ClassifyCalendar() = %v, want %v", got, tt.want)
			}
		})
	}
}
