package contracts

import (
	"testing"
	"time"
)

func TestFrequencyFromCycle(t *testing.T) {
	tests := []struct {
		cycleDays int
		want      Frequency
	}{
		{0, FrequencyUnknown},
		{-5, FrequencyUnknown},
		{28, FrequencyMonthly},
		{34, FrequencyMonthly},
		{35, FrequencyQuarterly},
		{91, FrequencyQuarterly},
		{94, FrequencyQuarterly},
		{95, FrequencySemiAnnual},
		{182, FrequencySemiAnnual},
		{185, FrequencyAnnual},
		{365, FrequencyAnnual},
	}

	for _, tt := range tests {
		if got := FrequencyFromCycle(tt.cycleDays); got != tt.want {
			t.Errorf("FrequencyFromCycle(%d) = %v, want %v", tt.cycleDays, got, tt.want)
		}
	}
}

func TestFrequencyPaymentsPerYear(t *testing.T) {
	tests := []struct {
		freq Frequency
		want int
	}{
		{FrequencyMonthly, 12},
		{FrequencyQuarterly, 4},
		{FrequencySemiAnnual, 2},
		{FrequencyAnnual, 1},
		{FrequencyUnknown, 0},
	}

	for _, tt := range tests {
		if got := tt.freq.PaymentsPerYear(); got != tt.want {
			t.Errorf("%v.PaymentsPerYear() = %d, want %d", tt.freq, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{
			name: "same day",
			from: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "time of day ignored",
			from: time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across leap day",
			from: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			want: 91,
		},
		{
			name: "negative when reversed",
			from: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLatestEvent(t *testing.T) {
	if got := LatestEvent(nil); got != nil {
		t.Errorf("LatestEvent(nil) = %v, want nil", got)
	}

	events := []ExDividendEvent{
		{Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)}, // out of order
		{},                                                  // zero date ignored
	}
	got := LatestEvent(events)
	want := time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("LatestEvent() = %v, want %v", got, want)
	}
}

func TestCalendarSnapshotEmpty(t *testing.T) {
	d := time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC)

	var nilCal *CalendarSnapshot
	if !nilCal.Empty() {
		t.Error("nil snapshot should be empty")
	}
	if !(&CalendarSnapshot{}).Empty() {
		t.Error("zero snapshot should be empty")
	}
	if (&CalendarSnapshot{ExDividendDate: &d}).Empty() {
		t.Error("snapshot with ex-dividend date should not be empty")
	}
	if (&CalendarSnapshot{PaymentDate: &d}).Empty() {
		t.Error("snapshot with payment date should not be empty")
	}
}
