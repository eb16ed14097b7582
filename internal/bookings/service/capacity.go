package service

import (
	"fmt"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/model"
)

// checkDayCapacity admits a requested quantity against one day's sub-window.
// Used capacity is the summed quantity of active bookings overlapping that
// window; cancelled bookings never count. A multi-day request is charged on
// every day it spans, so callers run this once per DayWindow and abort on the
// first day that overflows.
func checkDayCapacity(existing []*model.Booking, day model.DayWindow, requested, capacity int) error {
	used := 0
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if b.Range().Overlaps(day.Window) {
			used += b.Quantity
		}
	}

	if used+requested > capacity {
		return fmt.Errorf("%w: %d of %d already reserved on %s",
			bookingserrors.ErrCapacityExceeded,
			used,
			capacity,
			day.Date.Format(dateLayout),
		)
	}

	return nil
}
