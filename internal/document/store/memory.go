package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	appmodels "intake/internal/application/models"
	"intake/internal/document/models"
)

// StatusFn resolves the current status of an application. The memory store
// uses it to gate deletion the way the Postgres store's joined DELETE does.
type StatusFn func(ctx context.Context, applicationID uuid.UUID) (appmodels.Status, error)

// InMemory is a mutex-guarded document metadata store.
type InMemory struct {
	mu       sync.RWMutex
	docs     map[uuid.UUID]*models.Document
	statusOf StatusFn
}

func NewInMemory(statusOf StatusFn) *InMemory {
	return &InMemory{
		docs:     make(map[uuid.UUID]*models.Document),
		statusOf: statusOf,
	}
}

func (s *InMemory) Insert(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *doc
	s.docs[doc.ID] = &c
	return nil
}

func (s *InMemory) ListByApplication(_ context.Context, applicationID uuid.UUID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Document, 0)
	for _, doc := range s.docs {
		if doc.ApplicationID == applicationID {
			c := *doc
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (s *InMemory) ListTypesByApplication(ctx context.Context, applicationID uuid.UUID) ([]string, error) {
	docs, err := s.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(docs))
	for _, doc := range docs {
		types = append(types, doc.DocumentType)
	}
	return types, nil
}

// DeleteIfApplicationDraft removes the metadata row only while the owning
// application is still DRAFT. A missing document and a non-DRAFT owner both
// report deleted=false without error; the caller cannot tell them apart, by
// contract.
func (s *InMemory) DeleteIfApplicationDraft(ctx context.Context, id uuid.UUID) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return "", false, nil
	}
	status, err := s.statusOf(ctx, doc.ApplicationID)
	if err != nil {
		return "", false, err
	}
	if status != appmodels.StatusDraft {
		return "", false, nil
	}
	delete(s.docs, id)
	return doc.FilePath, true, nil
}
