package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intake/internal/document/models"
	"intake/internal/platform/middleware"
	"intake/internal/transport/http/shared"
	dErrors "intake/pkg/domain-errors"
)

// Service defines the document operations the handler needs.
type Service interface {
	Upload(ctx context.Context, req models.UploadRequest) (*models.Document, error)
	Delete(ctx context.Context, documentID uuid.UUID) (bool, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error)
}

// Handler handles document endpoints.
type Handler struct {
	logger    *slog.Logger
	documents Service
}

// New creates a new document Handler.
func New(documents Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, documents: documents}
}

// Register mounts the document routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications/{id}/documents", h.handleUpload)
	r.Get("/applications/{id}/documents", h.handleList)
	r.Delete("/documents/{id}", h.handleDelete)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid application id"))
		return
	}

	var req models.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	// The path owns the application reference; the body may omit it.
	req.ApplicationID = applicationID

	doc, err := h.documents.Upload(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "document upload failed",
			"request_id", middleware.GetRequestID(ctx),
			"application_id", applicationID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid application id"))
		return
	}

	docs, err := h.documents.ListByApplication(r.Context(), applicationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	deleted, err := h.documents.Delete(r.Context(), documentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
