package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	resourceserrors "reservo/internal/resources/errors"
	"reservo/internal/resources/repository"
	"reservo/internal/resources/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/idgen"
	"reservo/pkg/logger"
	"reservo/pkg/model"
	"reservo/pkg/sanitizer"
)

type ResourceService interface {
	Create(ctx context.Context, projectID string, resource *model.Resource) error
	GetByID(ctx context.Context, projectID, id string) (*model.Resource, error)
	ListByProject(ctx context.Context, projectID string, limit int, offset int64) ([]*model.Resource, int64, error)
	Update(ctx context.Context, projectID, id string, update *model.ResourceUpdate) (*model.Resource, error)
	Delete(ctx context.Context, projectID, id string) error
}

type resourceService struct {
	repo            repository.ResourceRepository
	validator       *validator.ResourceValidator
	ids             idgen.Generator
	log             *logger.Logger
	defaultCapacity int
}

func NewResourceService(
	cfg *config.Config,
	repo repository.ResourceRepository,
	resourceValidator *validator.ResourceValidator,
	ids idgen.Generator,
) ResourceService {
	return &resourceService{
		repo:            repo,
		validator:       resourceValidator,
		ids:             ids,
		log:             cfg.Log,
		defaultCapacity: cfg.DefaultResourceCapacity,
	}
}

func (s *resourceService) Create(ctx context.Context, projectID string, resource *model.Resource) error {
	if projectID == "" {
		return apperrors.InvalidInput("Project ID cannot be empty")
	}

	resource.ProjectID = projectID
	resource.Name = sanitizer.SanitizeName(resource.Name)
	resource.Metadata = sanitizer.SanitizeMetadata(resource.Metadata)
	resource.CreatedAt = time.Now().UTC()
	if resource.DefaultCapacity == 0 {
		resource.DefaultCapacity = s.defaultCapacity
	}

	if err := s.validator.Validate(resource); err != nil {
		s.log.Warn("Resource validation failed", "project_id", projectID, "error", err)
		return apperrors.Validation("Resource validation failed", map[string]any{"errors": err.Error()})
	}

	resource.ID = s.ids.Generate()
	if err := s.repo.Create(ctx, resource); err != nil {
		return apperrors.Internal("Failed to create resource", err)
	}

	s.log.Info("Resource created",
		"resource_id", resource.ID,
		"project_id", projectID,
		"name", resource.Name,
		"default_capacity", resource.DefaultCapacity,
	)
	return nil
}

func (s *resourceService) GetByID(ctx context.Context, projectID, id string) (*model.Resource, error) {
	if projectID == "" {
		return nil, apperrors.InvalidInput("Project ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	return s.findOwned(ctx, projectID, id)
}

func (s *resourceService) ListByProject(ctx context.Context, projectID string, limit int, offset int64) ([]*model.Resource, int64, error) {
	if projectID == "" {
		return nil, 0, apperrors.InvalidInput("Project ID cannot be empty")
	}

	var (
		wg        sync.WaitGroup
		resources []*model.Resource
		total     int64
		findErr   error
		countErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resources, findErr = s.repo.FindByProject(ctx, projectID, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByProject(ctx, projectID)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list resources", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count resources", countErr)
	}

	if resources == nil {
		resources = []*model.Resource{}
	}
	return resources, total, nil
}

func (s *resourceService) Update(ctx context.Context, projectID, id string, update *model.ResourceUpdate) (*model.Resource, error) {
	if projectID == "" {
		return nil, apperrors.InvalidInput("Project ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if _, err := s.findOwned(ctx, projectID, id); err != nil {
		return nil, err
	}

	update.Name = sanitizer.SanitizeName(update.Name)
	if update.Metadata != nil {
		sanitized := sanitizer.SanitizeMetadata(*update.Metadata)
		update.Metadata = &sanitized
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.log.Warn("Resource update validation failed", "resource_id", id, "error", err)
		return nil, apperrors.Validation("Resource validation failed", map[string]any{"errors": err.Error()})
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to update resource", err)
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload resource", err)
	}

	s.log.Info("Resource updated", "resource_id", id, "project_id", projectID)
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, projectID, id string) error {
	if projectID == "" {
		return apperrors.InvalidInput("Project ID cannot be empty")
	}
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if _, err := s.findOwned(ctx, projectID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		return apperrors.Internal("Failed to delete resource", err)
	}

	s.log.Info("Resource deleted", "resource_id", id, "project_id", projectID)
	return nil
}

// findOwned loads a resource and enforces tenancy. A foreign resource reads
// as not-found so tenants cannot probe each other's catalogs.
func (s *resourceService) findOwned(ctx context.Context, projectID, id string) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to find resource", err)
	}
	if resource.ProjectID != projectID {
		return nil, apperrors.Wrap(
			resourceserrors.ErrDoesNotBelongToProject,
			apperrors.CodeNotFound, "Resource not found", http.StatusNotFound,
		)
	}
	return resource, nil
}
