// Package service implements the document lifecycle guard: uploads are
// accepted only for declared document types, and deletion is allowed only
// while the owning application is still mutable (DRAFT).
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	appmodels "intake/internal/application/models"
	catalogmodels "intake/internal/catalog/models"
	"intake/internal/document/models"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// Store is the document metadata persistence contract.
type Store interface {
	Insert(ctx context.Context, doc *models.Document) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error)
	ListTypesByApplication(ctx context.Context, applicationID uuid.UUID) ([]string, error)
	// DeleteIfApplicationDraft removes the row only while the owning
	// application is DRAFT, atomically with that status check. It reports
	// deleted=false, without error, both for absent documents and refused
	// deletions.
	DeleteIfApplicationDraft(ctx context.Context, id uuid.UUID) (filePath string, deleted bool, err error)
}

// Applications resolves applications for upload validation.
type Applications interface {
	FindByID(ctx context.Context, id uuid.UUID) (*appmodels.Application, error)
}

// ServiceCatalog resolves the owning service's required document list.
type ServiceCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalogmodels.Service, error)
}

// FileStore removes stored file bytes. May be nil when no object store is
// configured.
type FileStore interface {
	Remove(ctx context.Context, path string) error
}

// Service is the document lifecycle guard.
type Service struct {
	documents Store
	apps      Applications
	catalog   ServiceCatalog
	files     FileStore
	logger    *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithFileStore(files FileStore) Option {
	return func(s *Service) { s.files = files }
}

// New builds the guard. Metadata store, application lookup, and catalog are
// required.
func New(documents Store, apps Applications, catalog ServiceCatalog, opts ...Option) (*Service, error) {
	if documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if apps == nil {
		return nil, fmt.Errorf("application store is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("service catalog is required")
	}
	s := &Service{
		documents: documents,
		apps:      apps,
		catalog:   catalog,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upload attaches a document to an application. The type must belong to the
// owning service's declared requirement set; the system never accepts extra
// attachment types. There is no status gate: documents can be added in any
// application status, and re-uploads of a type accumulate rather than
// replace.
func (s *Service) Upload(ctx context.Context, req models.UploadRequest) (*models.Document, error) {
	doc, err := models.NewDocument(uuid.New(), req, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	app, err := s.apps.FindByID(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}

	svc, err := s.catalog.FindByID(ctx, app.ServiceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve service requirements")
	}
	if !svc.RequiresDocumentType(doc.DocumentType) {
		return nil, dErrors.Newf(dErrors.CodeUnsupportedDocumentType,
			"document type %s is not accepted for this service", doc.DocumentType)
	}

	if err := s.documents.Insert(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}
	return doc, nil
}

// Delete removes a document's metadata record, then best-effort removes the
// backing file. Returns false, without error, when the document does not
// exist or the owning application has left DRAFT; in the latter case both
// record and file are untouched. File removal failures are logged and
// swallowed: the metadata deletion is never rolled back for them.
func (s *Service) Delete(ctx context.Context, documentID uuid.UUID) (bool, error) {
	filePath, deleted, err := s.documents.DeleteIfApplicationDraft(ctx, documentID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete document")
	}
	if !deleted {
		return false, nil
	}

	if s.files != nil && filePath != "" {
		if err := s.files.Remove(ctx, filePath); err != nil {
			s.logger.WarnContext(ctx, "failed to remove document file",
				"document_id", documentID,
				"file_path", filePath,
				"error", err.Error(),
			)
		}
	}
	return true, nil
}

// ListByApplication returns the application's documents in upload order.
// Unknown application ids yield an empty list, not an error.
func (s *Service) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error) {
	docs, err := s.documents.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return docs, nil
}
