package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// Tenant isolation: the entity exists but belongs to another project.
	ErrResourceDoesNotBelongToProject = errors.New("resource does not belong to project")
	ErrBookingDoesNotBelongToProject  = errors.New("booking does not belong to project")

	// Availability violations, reported per day and fail-fast.
	ErrDayNotAllowed           = errors.New("day is not available for booking")
	ErrStartTimeOutsideConfig  = errors.New("start time is before the daily booking window opens")
	ErrEndTimeOutsideConfig    = errors.New("end time is after the daily booking window closes")
	ErrBookingSpansClosedHours = errors.New("booking spans hours outside the daily booking window")

	ErrCapacityExceeded = errors.New("booking capacity exceeded")

	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrLockWaitTimeout is retryable, unlike ErrCapacityExceeded: the
	// admission decision was never made.
	ErrLockWaitTimeout = errors.New("timed out waiting for resource lock")
)
