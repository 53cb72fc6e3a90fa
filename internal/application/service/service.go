// Package service implements the application lifecycle engine: the single
// source of truth for which mutations are legal on an application right now.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ApplicationStore,ServiceCatalog,DocumentTypes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appmetrics "intake/internal/application/metrics"
	"intake/internal/application/models"
	"intake/internal/application/requirements"
	catalogmodels "intake/internal/catalog/models"
	"intake/internal/events"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// ApplicationStore is the persistence contract for applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	// SubmitIfDraft must condition the transition on status still being DRAFT
	// at write time, returning sentinel.ErrInvalidState when it is not.
	SubmitIfDraft(ctx context.Context, id uuid.UUID, now time.Time) (*models.Application, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error)
}

// ServiceCatalog resolves service definitions for requirement lookups.
type ServiceCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalogmodels.Service, error)
}

// DocumentTypes lists the document types uploaded to an application.
type DocumentTypes interface {
	ListTypesByApplication(ctx context.Context, applicationID uuid.UUID) ([]string, error)
}

// Service is the application lifecycle engine.
type Service struct {
	apps      ApplicationStore
	catalog   ServiceCatalog
	documents DocumentTypes
	publisher events.Publisher
	metrics   *appmetrics.Metrics
	logger    *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *appmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New builds the lifecycle engine. The three stores are required.
func New(apps ApplicationStore, catalog ServiceCatalog, documents DocumentTypes, opts ...Option) (*Service, error) {
	if apps == nil {
		return nil, fmt.Errorf("application store is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("service catalog is required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	s := &Service{
		apps:      apps,
		catalog:   catalog,
		documents: documents,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create opens a new DRAFT application. The referenced service must exist and
// be active.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*models.Application, error) {
	svc, err := s.catalog.FindByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "service not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve service")
	}
	if !svc.IsActive {
		return nil, dErrors.New(dErrors.CodeConflict, "service is not active")
	}

	now := requestcontext.Now(ctx)
	app, err := models.NewApplication(uuid.New(), req.ServiceID, req.ApplicantID, req.ApplicationData, req.Notes, now)
	if err != nil {
		return nil, err
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	if s.metrics != nil {
		s.metrics.Created.Inc()
	}
	s.emit(ctx, events.ApplicationEvent{
		Kind:          events.KindApplicationCreated,
		ApplicationID: app.ID,
		ServiceID:     app.ServiceID,
		ApplicantID:   app.ApplicantID,
		Status:        app.Status.String(),
		OccurredAt:    now,
	})
	return app, nil
}

// Get retrieves one application.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// List returns applications matching the filter, in creation order.
func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error) {
	apps, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	return apps, nil
}

// Update applies a partial update. Status assignments are validated against
// the transition table; DRAFT -> SUBMITTED is refused here because only Submit
// may perform it (it alone checks document completeness). Document
// completeness is never validated on this path.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req models.UpdateRequest) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}

	if req.HasStatus() {
		if err := app.CanApplyStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	if !app.ApplyUpdate(req, now) {
		return app, nil
	}

	if err := s.apps.Update(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}

	if req.HasStatus() && req.Status.ReviewClass() {
		if s.metrics != nil {
			s.metrics.StatusDecisions.WithLabelValues(req.Status.String()).Inc()
		}
		s.emit(ctx, events.ApplicationEvent{
			Kind:          events.KindApplicationReviewed,
			ApplicationID: app.ID,
			ServiceID:     app.ServiceID,
			ApplicantID:   app.ApplicantID,
			Status:        app.Status.String(),
			ReviewedBy:    app.ReviewedBy,
			OccurredAt:    now,
		})
	}
	return app, nil
}

// Submit performs the DRAFT -> SUBMITTED transition. It is the only operation
// that validates document completeness, and the only path allowed to make
// this transition. On any failure the stored application is untouched.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	start := time.Now()

	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	if err := app.CanSubmit(); err != nil {
		s.countSubmitRejection("invalid_transition")
		return nil, err
	}

	svc, err := s.catalog.FindByID(ctx, app.ServiceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve service requirements")
	}
	uploaded, err := s.documents.ListTypesByApplication(ctx, app.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list application documents")
	}

	if missing := requirements.Missing(svc.RequiredDocuments, uploaded); len(missing) > 0 {
		s.countSubmitRejection("missing_documents")
		return nil, dErrors.Newf(dErrors.CodeMissingDocuments,
			"missing required documents: %s", strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing_documents": missing})
	}

	now := requestcontext.Now(ctx)
	submitted, err := s.apps.SubmitIfDraft(ctx, id, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			// Lost the race: someone else moved the application off DRAFT
			// between our read and the conditional write.
			s.countSubmitRejection("invalid_transition")
			return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
				"application left %s before the submission was recorded; only %s applications may be submitted",
				models.StatusDraft, models.StatusDraft)
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit application")
		}
	}

	if s.metrics != nil {
		s.metrics.Submitted.Inc()
		s.metrics.SubmitDuration.Observe(time.Since(start).Seconds())
	}
	s.emit(ctx, events.ApplicationEvent{
		Kind:          events.KindApplicationSubmitted,
		ApplicationID: submitted.ID,
		ServiceID:     submitted.ServiceID,
		ApplicantID:   submitted.ApplicantID,
		Status:        submitted.Status.String(),
		OccurredAt:    now,
	})
	return submitted, nil
}

// emit publishes fire-and-forget: event delivery is observability, never a
// reason to fail the request.
func (s *Service) emit(ctx context.Context, event events.ApplicationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish application event",
			"kind", event.Kind,
			"application_id", event.ApplicationID,
			"error", err.Error(),
		)
	}
}

func (s *Service) countSubmitRejection(reason string) {
	if s.metrics != nil {
		s.metrics.SubmitRejected.WithLabelValues(reason).Inc()
	}
}
