package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/events"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	resourceserrors "reservo/internal/resources/errors"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/idgen"
	"reservo/pkg/logger"
	"reservo/pkg/model"
	"reservo/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, projectID string, booking *model.Booking) error
	GetByID(ctx context.Context, projectID, id string) (*model.Booking, error)
	Cancel(ctx context.Context, projectID, id string) (*model.Booking, error)
	ListByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	resources repository.ResourceReader
	locks     repository.ResourceLockRepository
	validator *validator.BookingValidator
	ids       idgen.Generator
	publisher *events.Publisher
	log       *logger.Logger
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	resources repository.ResourceReader,
	locks repository.ResourceLockRepository,
	bookingValidator *validator.BookingValidator,
	ids idgen.Generator,
	publisher *events.Publisher,
) BookingService {
	return &bookingService{
		repo:      repo,
		resources: resources,
		locks:     locks,
		validator: bookingValidator,
		ids:       ids,
		publisher: publisher,
		log:       cfg.Log,
	}
}

// Create admits a booking or rejects it with a specific reason. The protocol:
// validate input, resolve the resource and check tenancy, take the resource's
// advisory lock, then inside a transaction run the availability checks and
// charge capacity on every spanned day before persisting. Only one admission
// per resource runs at a time, so check-then-insert cannot race.
func (s *bookingService) Create(ctx context.Context, projectID string, booking *model.Booking) error {
	if projectID == "" {
		return apperrors.InvalidInput("Project ID cannot be empty")
	}

	booking.ProjectID = projectID
	booking.ID = ""
	booking.Status = model.StatusActive
	booking.CreatedAt = time.Now().UTC()
	booking.Metadata = sanitizer.SanitizeMetadata(booking.Metadata)
	if booking.Quantity == 0 {
		booking.Quantity = 1
	}

	if err := s.validator.Validate(booking); err != nil {
		s.log.Warn("Booking validation failed", "project_id", projectID, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"errors": err.Error()})
	}

	rng, err := model.NewTimeRange(booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "Invalid booking time range", http.StatusBadRequest)
	}

	resource, err := s.resources.FindByID(ctx, booking.ResourceID)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", booking.ResourceID)
		}
		return apperrors.Internal("Failed to resolve resource", err)
	}
	if resource.ProjectID != projectID {
		// Indistinguishable from not-found on purpose: a foreign tenant must
		// not learn the resource exists.
		return apperrors.Wrap(
			bookingserrors.ErrResourceDoesNotBelongToProject,
			apperrors.CodeNotFound, "Resource not found", http.StatusNotFound,
		)
	}

	release, err := s.locks.Acquire(ctx, booking.ResourceID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockWaitTimeout) {
			return apperrors.Wrap(err, apperrors.CodeTimeout,
				"Resource is busy, retry the booking", http.StatusGatewayTimeout)
		}
		return apperrors.Internal("Failed to acquire resource lock", err)
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := checkAvailability(resource.BookingConfig, rng); err != nil {
			return availabilityError(err)
		}

		for _, day := range rng.Days() {
			existing, err := s.repo.FindOverlapping(sessCtx, projectID, booking.ResourceID, day.Window)
			if err != nil {
				return apperrors.Internal("Failed to load overlapping bookings", err)
			}
			if err := checkDayCapacity(existing, day, booking.Quantity, resource.DefaultCapacity); err != nil {
				return apperrors.Wrap(err, apperrors.CodeConflict, err.Error(), http.StatusConflict)
			}
		}

		booking.ID = s.ids.Generate()
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Booking rejected",
			"project_id", projectID,
			"resource_id", booking.ResourceID,
			"error", err,
		)
		return err
	}

	s.log.Info("Booking created",
		"booking_id", booking.ID,
		"project_id", projectID,
		"resource_id", booking.ResourceID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
		"quantity", booking.Quantity,
	)
	s.publisher.BookingCreated(ctx, booking)
	return nil
}

// availabilityError keeps the domain sentinel reachable via errors.Is while
// mapping the rejection onto a 422.
func availabilityError(err error) error {
	return apperrors.Wrap(err, apperrors.CodeValidation, err.Error(), http.StatusUnprocessableEntity)
}

func (s *bookingService) GetByID(ctx context.Context, projectID, id string) (*model.Booking, error) {
	if projectID == "" {
		return nil, apperrors.InvalidInput("Project ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findOwned(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel releases a booking's capacity. It never touches the resource lock:
// cancellation only shrinks usage, so a concurrent admission that misses the
// update sees a stricter world than reality and stays correct.
func (s *bookingService) Cancel(ctx context.Context, projectID, id string) (*model.Booking, error) {
	if projectID == "" {
		return nil, apperrors.InvalidInput("Project ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findOwned(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	if !booking.IsActive() {
		return nil, apperrors.Wrap(
			bookingserrors.ErrBookingAlreadyCancelled,
			apperrors.CodeConflict, "Booking is already cancelled", http.StatusConflict,
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.StatusCancelled

	s.log.Info("Booking cancelled",
		"booking_id", id,
		"project_id", projectID,
		"resource_id", booking.ResourceID,
	)
	s.publisher.BookingCancelled(ctx, booking)
	return booking, nil
}

func (s *bookingService) ListByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if projectID == "" {
		return nil, 0, apperrors.InvalidInput("Project ID cannot be empty")
	}
	if resourceID == "" {
		return nil, 0, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindByResource(ctx, projectID, resourceID, startTime, endTime, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByResource(ctx, projectID, resourceID, startTime, endTime)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, total, nil
}

// findOwned loads a booking and enforces tenancy. Foreign bookings read as
// not-found, same as foreign resources in Create.
func (s *bookingService) findOwned(ctx context.Context, projectID, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to find booking", err)
	}
	if booking.ProjectID != projectID {
		return nil, apperrors.Wrap(
			bookingserrors.ErrBookingDoesNotBelongToProject,
			apperrors.CodeNotFound, "Booking not found", http.StatusNotFound,
		)
	}
	return booking, nil
}
