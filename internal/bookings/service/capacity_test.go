package service

import (
	"errors"
	"testing"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/model"
)

func activeBooking(startHour, endHour, quantity int) *model.Booking {
	return &model.Booking{
		StartTime: at(2, startHour, 0),
		EndTime:   at(2, endHour, 0),
		Quantity:  quantity,
		Status:    model.StatusActive,
	}
}

func cancelled(b *model.Booking) *model.Booking {
	b.Status = model.StatusCancelled
	return b
}

func dayOf(t *testing.T, rng model.TimeRange) model.DayWindow {
	t.Helper()
	days := rng.Days()
	if len(days) != 1 {
		t.Fatalf("expected a single-day range, got %d days", len(days))
	}
	return days[0]
}

func TestCheckDayCapacity(t *testing.T) {
	day := dayOf(t, rangeBetween(t, at(2, 10, 0), at(2, 12, 0)))

	tests := []struct {
		name      string
		existing  []*model.Booking
		requested int
		capacity  int
		wantErr   bool
	}{
		{
			name:      "empty day admits",
			requested: 1,
			capacity:  1,
		},
		{
			name: "exactly at capacity admits",
			existing: []*model.Booking{
				activeBooking(10, 11, 1),
			},
			requested: 1,
			capacity:  2,
		},
		{
			name: "over capacity rejects",
			existing: []*model.Booking{
				activeBooking(10, 11, 1),
			},
			requested: 1,
			capacity:  1,
			wantErr:   true,
		},
		{
			name: "quantities accumulate",
			existing: []*model.Booking{
				activeBooking(10, 11, 2),
				activeBooking(11, 12, 1),
			},
			requested: 1,
			capacity:  3,
			wantErr:   true,
		},
		{
			name: "cancelled bookings do not count",
			existing: []*model.Booking{
				cancelled(activeBooking(10, 11, 5)),
			},
			requested: 1,
			capacity:  1,
		},
		{
			name: "bookings outside the window do not count",
			existing: []*model.Booking{
				activeBooking(8, 10, 5),
				activeBooking(12, 14, 5),
			},
			requested: 1,
			capacity:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDayCapacity(tt.existing, day, tt.requested, tt.capacity)
			if tt.wantErr {
				if !errors.Is(err, bookingserrors.ErrCapacityExceeded) {
					t.Errorf("expected ErrCapacityExceeded, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected admission, got %v", err)
			}
		})
	}
}
