package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intake/internal/catalog/models"
	"intake/internal/platform/middleware"
	"intake/internal/transport/http/shared"
	dErrors "intake/pkg/domain-errors"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	Create(ctx context.Context, name string, description *string, requiredDocuments []string) (*models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	List(ctx context.Context) ([]*models.Service, error)
}

// Handler handles service catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	catalog Service
}

// New creates a new catalog Handler.
func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: catalog}
}

// Register mounts the catalog routes. There is no update or delete: service
// definitions are immutable once created.
func (h *Handler) Register(r chi.Router) {
	r.Post("/services", h.handleCreate)
	r.Get("/services", h.handleList)
	r.Get("/services/{id}", h.handleGet)
}

type createServiceRequest struct {
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	RequiredDocuments []string `json:"required_documents"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	service, err := h.catalog.Create(ctx, req.Name, req.Description, req.RequiredDocuments)
	if err != nil {
		h.logger.WarnContext(ctx, "create service failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, service)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid service id"))
		return
	}

	service, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, service)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, services)
}
