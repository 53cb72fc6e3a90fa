package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
	pstrings "intake/pkg/platform/strings"
)

// ServiceTypeAdoptionRecommendation is the only service type this deployment
// offers. The column exists so future service classes need a value, not a
// migration.
const ServiceTypeAdoptionRecommendation = "ADOPTION_RECOMMENDATION"

// Service defines a class of intake request: which document types an
// application must carry before it can be submitted.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - RequiredDocuments holds no duplicates and no blanks; order is the order
//     requirements were declared in, and missing-document reporting follows it
//   - Immutable once created (no update or delete operation exists)
type Service struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	Type              string    `json:"type"`
	RequiredDocuments []string  `json:"required_documents"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewService validates inputs and builds an active service definition.
// The required document list is trimmed and deduplicated, first occurrence
// wins; duplicate declarations are redundant, not erroneous.
func NewService(id uuid.UUID, name string, description *string, requiredDocuments []string, now time.Time) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "service name is required")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "service name must be at most 128 characters")
	}

	return &Service{
		ID:                id,
		Name:              name,
		Description:       description,
		Type:              ServiceTypeAdoptionRecommendation,
		RequiredDocuments: pstrings.DedupeAndTrim(requiredDocuments),
		IsActive:          true,
		CreatedAt:         now,
	}, nil
}

// RequiresDocumentType reports whether documentType is part of this service's
// declared requirement set.
func (s *Service) RequiresDocumentType(documentType string) bool {
	for _, dt := range s.RequiredDocuments {
		if dt == documentType {
			return true
		}
	}
	return false
}
