package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeRange = errors.New("start time must be strictly before end time")

// TimeRange is a half-open interval [Start, End). Construct with NewTimeRange;
// a zero-length or inverted range is invalid.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, fmt.Errorf("%w: [%s, %s)",
			ErrInvalidTimeRange,
			start.Format(time.RFC3339),
			end.Format(time.RFC3339),
		)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether the two ranges share any instant. Ranges that only
// touch at a boundary (a.End == b.Start) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// DayWindow is the portion of a range that falls on one calendar day. Date is
// midnight of that day in the range's location.
type DayWindow struct {
	Date   time.Time
	Window TimeRange
}

// Days splits the range into per-calendar-day windows, left to right. A range
// ending exactly at midnight does not yield the following day.
func (r TimeRange) Days() []DayWindow {
	var days []DayWindow

	day := startOfDay(r.Start)
	for day.Before(r.End) {
		next := day.AddDate(0, 0, 1)

		window := TimeRange{Start: day, End: next}
		if r.Start.After(window.Start) {
			window.Start = r.Start
		}
		if r.End.Before(window.End) {
			window.End = r.End
		}

		days = append(days, DayWindow{Date: day, Window: window})
		day = next
	}

	return days
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// MinutesIntoDay returns how many minutes into the window's day the given
// instant lies. An instant on the following midnight maps to 1440 so that
// "runs until end of day" compares correctly against HH:MM closing times.
func (d DayWindow) MinutesIntoDay(t time.Time) int {
	return int(t.Sub(d.Date) / time.Minute)
}
