package service

import (
	"errors"
	"testing"
	"time"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/model"
)

// June 2025: the 2nd is a Monday, the 6th a Friday, the 7th/8th the weekend.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.UTC)
}

func rangeBetween(t *testing.T, start, end time.Time) model.TimeRange {
	t.Helper()
	rng, err := model.NewTimeRange(start, end)
	if err != nil {
		t.Fatalf("NewTimeRange failed: %v", err)
	}
	return rng
}

func weekdays() *model.WeeklyWindow {
	return &model.WeeklyWindow{AvailableDays: []int{1, 2, 3, 4, 5}}
}

func TestCheckAvailabilityNilConfigAllowsEverything(t *testing.T) {
	rng := rangeBetween(t, at(7, 0, 0), at(9, 23, 0)) // whole weekend, any hour

	if err := checkAvailability(nil, rng); err != nil {
		t.Errorf("nil config should allow any range, got %v", err)
	}
	if err := checkAvailability(&model.BookingConfig{}, rng); err != nil {
		t.Errorf("empty config should allow any range, got %v", err)
	}
}

func TestCheckAvailabilityWeeklyWindow(t *testing.T) {
	cfg := &model.BookingConfig{Weekly: weekdays()}

	tests := []struct {
		name    string
		rng     model.TimeRange
		wantErr error
	}{
		{
			name: "weekday start allowed",
			rng:  rangeBetween(t, at(2, 10, 0), at(2, 12, 0)),
		},
		{
			name:    "saturday start rejected",
			rng:     rangeBetween(t, at(7, 10, 0), at(7, 12, 0)),
			wantErr: bookingserrors.ErrDayNotAllowed,
		},
		{
			// Fri 18:00 to Mon 08:00: only the start day is gated, so a
			// booking may run across the closed weekend.
			name: "multi-day across closed days allowed",
			rng:  rangeBetween(t, at(6, 18, 0), at(9, 8, 0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAvailability(cfg, tt.rng)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckAvailabilityDailyWindow(t *testing.T) {
	cfg := &model.BookingConfig{
		Daily: &model.DailyWindow{Start: "09:00", End: "17:00"},
	}

	tests := []struct {
		name    string
		rng     model.TimeRange
		wantErr error
	}{
		{
			name: "inside the window",
			rng:  rangeBetween(t, at(2, 9, 0), at(2, 17, 0)),
		},
		{
			name:    "starts too early",
			rng:     rangeBetween(t, at(2, 8, 0), at(2, 10, 0)),
			wantErr: bookingserrors.ErrStartTimeOutsideConfig,
		},
		{
			name:    "ends too late",
			rng:     rangeBetween(t, at(2, 16, 0), at(2, 18, 0)),
			wantErr: bookingserrors.ErrEndTimeOutsideConfig,
		},
		{
			// An overnight booking crosses midnight, which lies outside any
			// bounded daily window on both sides of the split.
			name:    "overnight spans closed hours",
			rng:     rangeBetween(t, at(2, 16, 0), at(3, 10, 0)),
			wantErr: bookingserrors.ErrBookingSpansClosedHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAvailability(cfg, tt.rng)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckAvailabilityHalfOpenDailyWindow(t *testing.T) {
	// Only a closing time: the day opens at midnight.
	cfg := &model.BookingConfig{Daily: &model.DailyWindow{End: "12:00"}}

	if err := checkAvailability(cfg, rangeBetween(t, at(2, 0, 0), at(2, 12, 0))); err != nil {
		t.Errorf("booking within open-start window rejected: %v", err)
	}
	err := checkAvailability(cfg, rangeBetween(t, at(2, 10, 0), at(2, 13, 0)))
	if !errors.Is(err, bookingserrors.ErrEndTimeOutsideConfig) {
		t.Errorf("expected ErrEndTimeOutsideConfig, got %v", err)
	}
}

func TestCheckAvailabilityEndAtMidnightWithinOpenWindow(t *testing.T) {
	// No closing time configured: a booking running to exactly midnight fits.
	cfg := &model.BookingConfig{Daily: &model.DailyWindow{Start: "08:00"}}

	if err := checkAvailability(cfg, rangeBetween(t, at(2, 20, 0), at(3, 0, 0))); err != nil {
		t.Errorf("booking ending at midnight rejected: %v", err)
	}
}

func TestCheckAvailabilityFirstViolationWins(t *testing.T) {
	// Both the weekly and daily rules are violated; the weekly check runs
	// first and names the rejection.
	cfg := &model.BookingConfig{
		Daily:  &model.DailyWindow{Start: "09:00", End: "17:00"},
		Weekly: weekdays(),
	}

	err := checkAvailability(cfg, rangeBetween(t, at(7, 6, 0), at(7, 8, 0)))
	if !errors.Is(err, bookingserrors.ErrDayNotAllowed) {
		t.Errorf("expected ErrDayNotAllowed, got %v", err)
	}
}
