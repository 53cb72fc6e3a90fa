// Package handler exposes the application lifecycle over HTTP. It decodes,
// delegates, and encodes; every lifecycle decision lives in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intake/internal/application/models"
	"intake/internal/platform/middleware"
	"intake/internal/transport/http/shared"
	dErrors "intake/pkg/domain-errors"
)

// Service defines the lifecycle operations the handler needs.
type Service interface {
	Create(ctx context.Context, req models.CreateRequest) (*models.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error)
	Update(ctx context.Context, id uuid.UUID, req models.UpdateRequest) (*models.Application, error)
	Submit(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

// Handler handles application endpoints.
type Handler struct {
	logger *slog.Logger
	apps   Service
}

// New creates a new application Handler.
func New(apps Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, apps: apps}
}

// Register mounts the application routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.handleCreate)
	r.Get("/applications", h.handleList)
	r.Get("/applications/{id}", h.handleGet)
	r.Patch("/applications/{id}", h.handleUpdate)
	r.Post("/applications/{id}/submit", h.handleSubmit)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	app, err := h.apps.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "create application failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	app, err := h.apps.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseListFilter(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	apps, err := h.apps.List(ctx, filter)
	if err != nil {
		h.logFailure(ctx, "list applications failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if dErrors.Load(err) != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	app, err := h.apps.Update(ctx, id, req)
	if err != nil {
		h.logFailure(ctx, "update application failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	app, err := h.apps.Submit(ctx, id)
	if err != nil {
		h.logFailure(ctx, "submit application failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid application id"))
		return uuid.Nil, false
	}
	return id, true
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	var filter models.ListFilter
	q := r.URL.Query()

	if v := q.Get("applicant_id"); v != "" {
		applicantID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "applicant_id must be an integer")
		}
		filter.ApplicantID = &applicantID
	}
	if v := q.Get("status"); v != "" {
		status, err := models.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, dErrors.New(dErrors.CodeBadRequest, "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
