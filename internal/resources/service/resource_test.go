package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	resourceserrors "reservo/internal/resources/errors"
	"reservo/internal/resources/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/idgen"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

type memoryResourceStore struct {
	mu        sync.Mutex
	resources map[string]*model.Resource
}

func newMemoryResourceStore() *memoryResourceStore {
	return &memoryResourceStore{resources: make(map[string]*model.Resource)}
}

func (s *memoryResourceStore) Create(_ context.Context, resource *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *resource
	s.resources[resource.ID] = &clone
	return nil
}

func (s *memoryResourceStore) FindByID(_ context.Context, id string) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, resourceserrors.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *memoryResourceStore) FindByProject(_ context.Context, projectID string, limit int, offset int64) ([]*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Resource
	for _, r := range s.resources {
		if r.ProjectID == projectID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memoryResourceStore) CountByProject(ctx context.Context, projectID string) (int64, error) {
	all, err := s.FindByProject(ctx, projectID, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (s *memoryResourceStore) Update(_ context.Context, id string, update *model.ResourceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return resourceserrors.ErrNotFound
	}
	if update.Name != "" {
		r.Name = update.Name
	}
	if update.DefaultCapacity != nil {
		r.DefaultCapacity = *update.DefaultCapacity
	}
	if update.BookingConfig != nil {
		r.BookingConfig = update.BookingConfig
	}
	if update.Metadata != nil {
		r.Metadata = *update.Metadata
	}
	return nil
}

func (s *memoryResourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[id]; !ok {
		return resourceserrors.ErrNotFound
	}
	delete(s.resources, id)
	return nil
}

func newTestService(t *testing.T) (ResourceService, *memoryResourceStore) {
	t.Helper()
	v, err := validator.NewResourceValidator()
	if err != nil {
		t.Fatalf("NewResourceValidator failed: %v", err)
	}

	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
	store := newMemoryResourceStore()
	svc := NewResourceService(
		&config.Config{Log: log, DefaultResourceCapacity: 3},
		store,
		v,
		idgen.NewUUIDGenerator(),
	)
	return svc, store
}

func draft(name string) *model.Resource {
	return &model.Resource{
		Name:            name,
		DefaultCapacity: 2,
		CreatedAt:       time.Now().UTC(),
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	svc, store := newTestService(t)

	resource := draft("Meeting Room")
	if err := svc.Create(context.Background(), "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resource.ID == "" {
		t.Error("created resource has no ID")
	}
	if _, err := store.FindByID(context.Background(), resource.ID); err != nil {
		t.Errorf("resource not persisted: %v", err)
	}
}

func TestCreateAppliesCapacityDefault(t *testing.T) {
	svc, _ := newTestService(t)

	resource := draft("Meeting Room")
	resource.DefaultCapacity = 0
	if err := svc.Create(context.Background(), "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resource.DefaultCapacity != 3 {
		t.Errorf("capacity = %d, want configured default 3", resource.DefaultCapacity)
	}
}

func TestCreateSanitizesNameAndMetadata(t *testing.T) {
	svc, _ := newTestService(t)

	resource := draft("  Meeting\t\tRoom  ")
	resource.Metadata = map[string]string{" Floor Number ": " 3 "}
	if err := svc.Create(context.Background(), "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resource.Name != "Meeting Room" {
		t.Errorf("name = %q, want %q", resource.Name, "Meeting Room")
	}
	if got := resource.Metadata["floor_number"]; got != "3" {
		t.Errorf("metadata = %v, want sanitized floor_number=3", resource.Metadata)
	}
}

func TestCreateRejectsInvalidResource(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), "proj-a", draft("x"))
	wantCode(t, err, apperrors.CodeValidation)
}

func TestGetByIDEnforcesTenancy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resource := draft("Meeting Room")
	if err := svc.Create(ctx, "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, "proj-a", resource.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}

	_, err := svc.GetByID(ctx, "proj-b", resource.ID)
	wantCode(t, err, apperrors.CodeNotFound)
	if !errors.Is(err, resourceserrors.ErrDoesNotBelongToProject) {
		t.Errorf("expected tenancy sentinel, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resource := draft("Meeting Room")
	if err := svc.Create(ctx, "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	capacity := 10
	updated, err := svc.Update(ctx, "proj-a", resource.ID, &model.ResourceUpdate{
		Name:            "Big Room",
		DefaultCapacity: &capacity,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Big Room" || updated.DefaultCapacity != 10 {
		t.Errorf("update not applied: %+v", updated)
	}

	zero := 0
	if _, err := svc.Update(ctx, "proj-a", resource.ID, &model.ResourceUpdate{DefaultCapacity: &zero}); err == nil {
		t.Error("zero capacity update accepted")
	}

	_, err = svc.Update(ctx, "proj-b", resource.ID, &model.ResourceUpdate{Name: "Stolen"})
	wantCode(t, err, apperrors.CodeNotFound)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	resource := draft("Meeting Room")
	if err := svc.Create(ctx, "proj-a", resource); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := svc.Delete(ctx, "proj-b", resource.ID)
	wantCode(t, err, apperrors.CodeNotFound)

	if err := svc.Delete(ctx, "proj-a", resource.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.FindByID(ctx, resource.ID); !errors.Is(err, resourceserrors.ErrNotFound) {
		t.Errorf("resource still present after delete: %v", err)
	}
}

func TestListByProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Room One", "Room Two"} {
		if err := svc.Create(ctx, "proj-a", draft(name)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := svc.Create(ctx, "proj-b", draft("Other Room")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resources, total, err := svc.ListByProject(ctx, "proj-a", 10, 0)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if total != 2 || len(resources) != 2 {
		t.Errorf("got %d resources (total %d), want 2", len(resources), total)
	}
}
