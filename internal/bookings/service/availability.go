package service

import (
	"fmt"
	"time"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/model"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
	minutesPerDay   = 24 * 60
)

// checkAvailability decides whether a requested range is permitted by a
// resource's booking config. A nil config, or a nil sub-section, imposes no
// restriction. Checks run weekly-then-daily, days left to right, and the
// first violation wins.
//
// The weekly day-of-week gate applies to the day the booking starts; a
// multi-day booking may run across closed weekdays once admitted. The daily
// window is enforced on every spanned day: a violation at the range's own
// start or end is reported as such, any other day-local violation means the
// booking spans closed hours.
func checkAvailability(cfg *model.BookingConfig, rng model.TimeRange) error {
	if cfg == nil {
		return nil
	}

	if !cfg.AllowsDay(rng.Start.Weekday()) {
		return fmt.Errorf("%w: %s is a %s",
			bookingserrors.ErrDayNotAllowed,
			rng.Start.Format(dateLayout),
			rng.Start.Weekday(),
		)
	}

	if cfg.Daily == nil {
		return nil
	}

	opens, err := parseTimeOfDay(cfg.Daily.Start, 0)
	if err != nil {
		return fmt.Errorf("invalid daily window start %q: %w", cfg.Daily.Start, err)
	}
	closes, err := parseTimeOfDay(cfg.Daily.End, minutesPerDay)
	if err != nil {
		return fmt.Errorf("invalid daily window end %q: %w", cfg.Daily.End, err)
	}

	for _, day := range rng.Days() {
		if err := checkDailyWindow(day, rng, opens, closes); err != nil {
			return err
		}
	}

	return nil
}

func checkDailyWindow(day model.DayWindow, rng model.TimeRange, opens, closes int) error {
	windowStart := day.MinutesIntoDay(day.Window.Start)
	windowEnd := day.MinutesIntoDay(day.Window.End)

	if windowStart < opens {
		if day.Window.Start.Equal(rng.Start) {
			return fmt.Errorf("%w: %s starts before %s",
				bookingserrors.ErrStartTimeOutsideConfig,
				rng.Start.Format(timeOfDayLayout),
				formatTimeOfDay(opens),
			)
		}
		return fmt.Errorf("%w: %s", bookingserrors.ErrBookingSpansClosedHours, day.Date.Format(dateLayout))
	}

	if windowEnd > closes {
		if day.Window.End.Equal(rng.End) {
			return fmt.Errorf("%w: %s ends after %s",
				bookingserrors.ErrEndTimeOutsideConfig,
				rng.End.Format(timeOfDayLayout),
				formatTimeOfDay(closes),
			)
		}
		return fmt.Errorf("%w: %s", bookingserrors.ErrBookingSpansClosedHours, day.Date.Format(dateLayout))
	}

	return nil
}

// parseTimeOfDay converts an "HH:MM" wall-clock string to minutes since
// midnight, using the fallback when the string is empty (an open edge).
func parseTimeOfDay(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
