package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"intake/internal/application/models"
	"intake/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store. The mutex is held across the status
// check and the write in SubmitIfDraft, giving the same
// check-and-set atomicity the Postgres store gets from a conditional UPDATE.
type InMemory struct {
	mu   sync.RWMutex
	apps map[uuid.UUID]*models.Application
}

func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[uuid.UUID]*models.Application)}
}

func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apps[app.ID]; exists {
		return sentinel.ErrConflict
	}
	s.apps[app.ID] = cloneApplication(app)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneApplication(app), nil
}

func (s *InMemory) Update(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.apps[app.ID] = cloneApplication(app)
	return nil
}

// SubmitIfDraft transitions the stored application to SUBMITTED only if it is
// still in DRAFT at write time. Returns sentinel.ErrInvalidState when another
// writer got there first, so concurrent submits resolve to exactly one winner.
func (s *InMemory) SubmitIfDraft(_ context.Context, id uuid.UUID, now time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if app.Status != models.StatusDraft {
		return nil, sentinel.ErrInvalidState
	}
	app.ApplySubmission(now)
	return cloneApplication(app), nil
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Application, 0)
	for _, app := range s.apps {
		if filter.ApplicantID != nil && app.ApplicantID != *filter.ApplicantID {
			continue
		}
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		matched = append(matched, cloneApplication(app))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*models.Application{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func cloneApplication(a *models.Application) *models.Application {
	c := *a
	c.ApplicationData = make(map[string]any, len(a.ApplicationData))
	for k, v := range a.ApplicationData {
		c.ApplicationData[k] = v
	}
	return &c
}
