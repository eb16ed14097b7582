package model

import (
	"errors"
	"testing"
	"time"
)

func mustRange(t *testing.T, start, end time.Time) TimeRange {
	t.Helper()
	rng, err := NewTimeRange(start, end)
	if err != nil {
		t.Fatalf("NewTimeRange(%v, %v) failed: %v", start, end, err)
	}
	return rng
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.UTC)
}

func TestNewTimeRangeRejectsNonPositiveRanges(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", at(2, 10, 0), at(2, 9, 0)},
		{"zero duration", at(2, 10, 0), at(2, 10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTimeRange(tt.start, tt.end); !errors.Is(err, ErrInvalidTimeRange) {
				t.Errorf("expected ErrInvalidTimeRange, got %v", err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, at(2, 10, 0), at(2, 12, 0))

	tests := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{"identical", mustRange(t, at(2, 10, 0), at(2, 12, 0)), true},
		{"contained", mustRange(t, at(2, 10, 30), at(2, 11, 0)), true},
		{"partial left", mustRange(t, at(2, 9, 0), at(2, 10, 30)), true},
		{"partial right", mustRange(t, at(2, 11, 30), at(2, 13, 0)), true},
		{"touching end is free", mustRange(t, at(2, 12, 0), at(2, 13, 0)), false},
		{"touching start is free", mustRange(t, at(2, 9, 0), at(2, 10, 0)), false},
		{"disjoint", mustRange(t, at(2, 14, 0), at(2, 15, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysSingleDay(t *testing.T) {
	rng := mustRange(t, at(2, 9, 0), at(2, 17, 0))

	days := rng.Days()
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if !days[0].Window.Start.Equal(rng.Start) || !days[0].Window.End.Equal(rng.End) {
		t.Errorf("single-day window should equal the range, got %+v", days[0].Window)
	}
}

func TestDaysSplitsAtMidnight(t *testing.T) {
	// Friday 22:00 to Sunday 02:00 spans three calendar days.
	rng := mustRange(t, at(6, 22, 0), at(8, 2, 0))

	days := rng.Days()
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	first, middle, last := days[0], days[1], days[2]

	if !first.Window.Start.Equal(rng.Start) || !first.Window.End.Equal(at(7, 0, 0)) {
		t.Errorf("first day window wrong: %+v", first.Window)
	}
	if !middle.Window.Start.Equal(at(7, 0, 0)) || !middle.Window.End.Equal(at(8, 0, 0)) {
		t.Errorf("middle day window wrong: %+v", middle.Window)
	}
	if !last.Window.Start.Equal(at(8, 0, 0)) || !last.Window.End.Equal(rng.End) {
		t.Errorf("last day window wrong: %+v", last.Window)
	}
}

func TestDaysRangeEndingAtMidnight(t *testing.T) {
	// Ending exactly at midnight must not produce an empty window on the
	// following day.
	rng := mustRange(t, at(2, 20, 0), at(3, 0, 0))

	days := rng.Days()
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if !days[0].Window.End.Equal(rng.End) {
		t.Errorf("window end = %v, want %v", days[0].Window.End, rng.End)
	}
}

func TestMinutesIntoDay(t *testing.T) {
	rng := mustRange(t, at(2, 9, 30), at(3, 0, 0))
	days := rng.Days()
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	day := days[0]
	if got := day.MinutesIntoDay(day.Window.Start); got != 9*60+30 {
		t.Errorf("start minutes = %d, want %d", got, 9*60+30)
	}
	// The following midnight reads as end-of-day, not zero.
	if got := day.MinutesIntoDay(day.Window.End); got != 24*60 {
		t.Errorf("midnight-end minutes = %d, want %d", got, 24*60)
	}
}
