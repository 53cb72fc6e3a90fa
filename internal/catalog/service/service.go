// Package service orchestrates the service catalog: the definitions of what
// documents each class of intake request requires.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"intake/internal/catalog/models"
	"intake/internal/catalog/store"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// CatalogService manages service definitions. Definitions are immutable once
// created; there is intentionally no update or delete.
type CatalogService struct {
	services store.Store
}

func New(services store.Store) *CatalogService {
	return &CatalogService{services: services}
}

// Create registers a new service definition.
func (s *CatalogService) Create(ctx context.Context, name string, description *string, requiredDocuments []string) (*models.Service, error) {
	service, err := models.NewService(uuid.New(), name, description, requiredDocuments, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, service); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "service already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create service")
	}
	return service, nil
}

// Get retrieves one service definition.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "service not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load service")
	}
	return service, nil
}

// List returns all service definitions in creation order.
func (s *CatalogService) List(ctx context.Context) ([]*models.Service, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list services")
	}
	if services == nil {
		services = []*models.Service{}
	}
	return services, nil
}
