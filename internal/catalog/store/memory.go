package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"intake/internal/catalog/models"
	"intake/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and single-process runs.
type InMemory struct {
	mu       sync.RWMutex
	services map[uuid.UUID]*models.Service
}

func NewInMemory() *InMemory {
	return &InMemory{services: make(map[uuid.UUID]*models.Service)}
}

func (s *InMemory) Create(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.services[service.ID]; exists {
		return sentinel.ErrConflict
	}
	s.services[service.ID] = clone(service)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	service, ok := s.services[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(service), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Service, 0, len(s.services))
	for _, service := range s.services {
		out = append(out, clone(service))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// clone keeps callers from mutating stored state through returned pointers.
func clone(s *models.Service) *models.Service {
	c := *s
	c.RequiredDocuments = append([]string(nil), s.RequiredDocuments...)
	return &c
}
