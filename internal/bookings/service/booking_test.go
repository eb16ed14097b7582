package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/events"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	resourceserrors "reservo/internal/resources/errors"
	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/idgen"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

// memoryBookingStore is a mutex-guarded stand-in for the Mongo repository.
// Transactions degrade to plain execution; the resource lock still serializes
// admissions, which is the property under test.
type memoryBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
}

func newMemoryBookingStore() *memoryBookingStore {
	return &memoryBookingStore{bookings: make(map[string]*model.Booking)}
}

func (s *memoryBookingStore) Create(_ context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *booking
	s.bookings[booking.ID] = &clone
	return nil
}

func (s *memoryBookingStore) CreateMany(ctx context.Context, bookings []*model.Booking) error {
	for _, b := range bookings {
		if err := s.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryBookingStore) FindByID(_ context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *memoryBookingStore) FindOverlapping(_ context.Context, projectID, resourceID string, rng model.TimeRange) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.ProjectID != projectID || b.ResourceID != resourceID || !b.IsActive() {
			continue
		}
		if b.Range().Overlaps(rng) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memoryBookingStore) FindByResource(_ context.Context, projectID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.ProjectID != projectID || b.ResourceID != resourceID {
			continue
		}
		if startTime != nil && !b.EndTime.After(*startTime) {
			continue
		}
		if endTime != nil && !b.StartTime.Before(*endTime) {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memoryBookingStore) CountByResource(ctx context.Context, projectID, resourceID string, startTime, endTime *time.Time) (int64, error) {
	all, err := s.FindByResource(ctx, projectID, resourceID, startTime, endTime, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (s *memoryBookingStore) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	b.Status = status
	return nil
}

func (s *memoryBookingStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type stubResourceReader struct {
	resources map[string]*model.Resource
}

func (s stubResourceReader) FindByID(_ context.Context, id string) (*model.Resource, error) {
	r, ok := s.resources[id]
	if !ok {
		return nil, resourceserrors.ErrNotFound
	}
	return r, nil
}

// memoryLockRepo mirrors the Mongo advisory lock: mutual exclusion per
// resource with a bounded wait.
type memoryLockRepo struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{held: make(map[string]bool)}
}

func (l *memoryLockRepo) Acquire(_ context.Context, resourceID string) (repository.ReleaseFunc, error) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		l.mu.Lock()
		if !l.held[resourceID] {
			l.held[resourceID] = true
			l.mu.Unlock()
			return func() {
				l.mu.Lock()
				delete(l.held, resourceID)
				l.mu.Unlock()
			}, nil
		}
		l.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, bookingserrors.ErrLockWaitTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
}

func newTestService(resources ...*model.Resource) (BookingService, *memoryBookingStore) {
	byID := make(map[string]*model.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}

	store := newMemoryBookingStore()
	log := testLogger()
	svc := NewBookingService(
		&config.Config{Log: log},
		store,
		stubResourceReader{resources: byID},
		newMemoryLockRepo(),
		validator.NewBookingValidator(),
		idgen.NewUUIDGenerator(),
		events.NewPublisher(nil, log),
	)
	return svc, store
}

func room(projectID string, capacity int, cfg *model.BookingConfig) *model.Resource {
	return &model.Resource{
		ID:              "room-1",
		ProjectID:       projectID,
		Name:            "Meeting Room",
		DefaultCapacity: capacity,
		BookingConfig:   cfg,
	}
}

func request(resourceID string, start, end time.Time, quantity int) *model.Booking {
	return &model.Booking{
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		Quantity:   quantity,
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreateAdmitsBooking(t *testing.T) {
	svc, store := newTestService(room("proj-a", 2, nil))

	booking := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(context.Background(), "proj-a", booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if booking.ID == "" {
		t.Error("admitted booking has no ID")
	}
	if booking.Status != model.StatusActive {
		t.Errorf("status = %q, want %q", booking.Status, model.StatusActive)
	}
	stored, err := store.FindByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("admitted booking not persisted: %v", err)
	}
	if stored.ProjectID != "proj-a" {
		t.Errorf("stored project = %q, want proj-a", stored.ProjectID)
	}
}

func TestCreateRejectsUnknownResource(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Create(context.Background(), "proj-a", request("ghost", at(2, 10, 0), at(2, 11, 0), 1))
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestCreateRejectsForeignResource(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 2, nil))

	err := svc.Create(context.Background(), "proj-b", request("room-1", at(2, 10, 0), at(2, 11, 0), 1))
	wantCode(t, err, apperrors.CodeNotFound)
	if !errors.Is(err, bookingserrors.ErrResourceDoesNotBelongToProject) {
		t.Errorf("expected tenancy sentinel, got %v", err)
	}
}

func TestCreateRejectsInvalidRange(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 2, nil))

	err := svc.Create(context.Background(), "proj-a", request("room-1", at(2, 12, 0), at(2, 12, 0), 1))
	wantCode(t, err, apperrors.CodeValidation)
}

func TestCreateRejectsClosedWeekday(t *testing.T) {
	cfg := &model.BookingConfig{Weekly: weekdays()}
	svc, _ := newTestService(room("proj-a", 2, cfg))

	// June 7th 2025 is a Saturday.
	err := svc.Create(context.Background(), "proj-a", request("room-1", at(7, 10, 0), at(7, 11, 0), 1))
	wantCode(t, err, apperrors.CodeValidation)
	if !errors.Is(err, bookingserrors.ErrDayNotAllowed) {
		t.Errorf("expected ErrDayNotAllowed, got %v", err)
	}
}

func TestCreateAllowsSpanningClosedWeekend(t *testing.T) {
	cfg := &model.BookingConfig{Weekly: weekdays()}
	svc, _ := newTestService(room("proj-a", 2, cfg))

	// Friday 18:00 to Monday 08:00: starts on an open day, so the closed
	// weekend in the middle does not block it.
	booking := request("room-1", at(6, 18, 0), at(9, 8, 0), 1)
	if err := svc.Create(context.Background(), "proj-a", booking); err != nil {
		t.Fatalf("weekend-spanning booking rejected: %v", err)
	}
}

func TestCreateRejectsCapacityConflict(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	if err := svc.Create(ctx, "proj-a", request("room-1", at(2, 10, 0), at(2, 12, 0), 1)); err != nil {
		t.Fatalf("first booking rejected: %v", err)
	}

	err := svc.Create(ctx, "proj-a", request("room-1", at(2, 11, 0), at(2, 13, 0), 1))
	wantCode(t, err, apperrors.CodeConflict)
	if !errors.Is(err, bookingserrors.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestCreateAdmitsAdjacentBookings(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	if err := svc.Create(ctx, "proj-a", request("room-1", at(2, 10, 0), at(2, 12, 0), 1)); err != nil {
		t.Fatalf("first booking rejected: %v", err)
	}
	// [10,12) and [12,14) touch but do not overlap.
	if err := svc.Create(ctx, "proj-a", request("room-1", at(2, 12, 0), at(2, 14, 0), 1)); err != nil {
		t.Fatalf("adjacent booking rejected: %v", err)
	}
}

func TestCreateChargesEverySpannedDay(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	// Saturday morning is already taken.
	if err := svc.Create(ctx, "proj-a", request("room-1", at(7, 10, 0), at(7, 11, 0), 1)); err != nil {
		t.Fatalf("seed booking rejected: %v", err)
	}

	// Friday to Sunday overlaps Saturday's usage on the middle day.
	err := svc.Create(ctx, "proj-a", request("room-1", at(6, 18, 0), at(8, 8, 0), 1))
	wantCode(t, err, apperrors.CodeConflict)
	if !errors.Is(err, bookingserrors.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestCreateDefaultsQuantityToOne(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))

	booking := request("room-1", at(2, 10, 0), at(2, 11, 0), 0)
	if err := svc.Create(context.Background(), "proj-a", booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if booking.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", booking.Quantity)
	}
}

func TestConcurrentAdmissionsAdmitExactlyOne(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Create(ctx, "proj-a", request("room-1", at(2, 10, 0), at(2, 12, 0), 1))
		}()
	}
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, bookingserrors.ErrCapacityExceeded):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if admitted != 1 {
		t.Errorf("admitted = %d, want exactly 1", admitted)
	}
	if rejected != attempts-1 {
		t.Errorf("rejected = %d, want %d", rejected, attempts-1)
	}
}

func TestCancelReleasesCapacity(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	first := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(ctx, "proj-a", first); err != nil {
		t.Fatalf("first booking rejected: %v", err)
	}

	conflicting := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(ctx, "proj-a", conflicting); !errors.Is(err, bookingserrors.ErrCapacityExceeded) {
		t.Fatalf("expected capacity conflict before cancel, got %v", err)
	}

	if _, err := svc.Cancel(ctx, "proj-a", first.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if err := svc.Create(ctx, "proj-a", conflicting); err != nil {
		t.Errorf("slot not reusable after cancel: %v", err)
	}
}

func TestCancelTwiceConflicts(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	booking := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(ctx, "proj-a", booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Cancel(ctx, "proj-a", booking.ID); err != nil {
		t.Fatalf("first Cancel failed: %v", err)
	}

	_, err := svc.Cancel(ctx, "proj-a", booking.ID)
	wantCode(t, err, apperrors.CodeConflict)
	if !errors.Is(err, bookingserrors.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled, got %v", err)
	}
}

func TestCancelEnforcesTenancy(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	booking := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(ctx, "proj-a", booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := svc.Cancel(ctx, "proj-b", booking.ID)
	wantCode(t, err, apperrors.CodeNotFound)
	if !errors.Is(err, bookingserrors.ErrBookingDoesNotBelongToProject) {
		t.Errorf("expected tenancy sentinel, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 1, nil))
	ctx := context.Background()

	booking := request("room-1", at(2, 10, 0), at(2, 12, 0), 1)
	if err := svc.Create(ctx, "proj-a", booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.GetByID(ctx, "proj-a", booking.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != booking.ID {
		t.Errorf("got booking %q, want %q", got.ID, booking.ID)
	}

	_, err = svc.GetByID(ctx, "proj-a", "missing")
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestListByResource(t *testing.T) {
	svc, _ := newTestService(room("proj-a", 5, nil))
	ctx := context.Background()

	for hour := 10; hour < 13; hour++ {
		if err := svc.Create(ctx, "proj-a", request("room-1", at(2, hour, 0), at(2, hour+1, 0), 1)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	bookings, total, err := svc.ListByResource(ctx, "proj-a", "room-1", nil, nil, 10, 0)
	if err != nil {
		t.Fatalf("ListByResource failed: %v", err)
	}
	if total != 3 || len(bookings) != 3 {
		t.Errorf("got %d bookings (total %d), want 3", len(bookings), total)
	}

	// A window covering only the first hour.
	from, to := at(2, 10, 0), at(2, 11, 0)
	bookings, total, err = svc.ListByResource(ctx, "proj-a", "room-1", &from, &to, 10, 0)
	if err != nil {
		t.Fatalf("windowed ListByResource failed: %v", err)
	}
	if total != 1 || len(bookings) != 1 {
		t.Errorf("got %d bookings (total %d), want 1", len(bookings), total)
	}

	// Foreign tenants see nothing.
	bookings, total, err = svc.ListByResource(ctx, "proj-b", "room-1", nil, nil, 10, 0)
	if err != nil {
		t.Fatalf("foreign ListByResource failed: %v", err)
	}
	if total != 0 || len(bookings) != 0 {
		t.Errorf("foreign tenant sees %d bookings, want 0", len(bookings))
	}
}
