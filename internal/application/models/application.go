package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
)

// Application is the aggregate root for one citizen's intake request.
//
// Invariants:
//   - Status moves only along the transition table in status.go
//   - SubmittedAt is non-nil iff the application has reached SUBMITTED at
//     least once, and is never cleared once set
//   - ReviewedAt and ReviewedBy are set together by a review-class update,
//     never independently
//   - CreatedAt is immutable; UpdatedAt bumps on every mutation
//
// ApplicationData is the free-form form payload. The lifecycle engine treats
// it as opaque; shape validation belongs to a boundary layer.
type Application struct {
	ID              uuid.UUID      `json:"id"`
	ServiceID       uuid.UUID      `json:"service_id"`
	ApplicantID     int64          `json:"applicant_id"`
	Status          Status         `json:"status"`
	ApplicationData map[string]any `json:"application_data"`
	Notes           *string        `json:"notes,omitempty"`
	StaffNotes      *string        `json:"staff_notes,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy      *int64         `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewApplication builds a DRAFT application. Staff and submission fields start
// nil; created and updated timestamps are identical.
func NewApplication(id, serviceID uuid.UUID, applicantID int64, data map[string]any, notes *string, now time.Time) (*Application, error) {
	if serviceID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "service_id is required")
	}
	if applicantID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "applicant_id is required")
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Application{
		ID:              id,
		ServiceID:       serviceID,
		ApplicantID:     applicantID,
		Status:          StatusDraft,
		ApplicationData: data,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// CanSubmit checks the sole hard precondition of submission: the application
// must currently be in DRAFT.
func (a *Application) CanSubmit() error {
	if a.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"application cannot be submitted from status %s; only %s applications may be submitted",
			a.Status, StatusDraft)
	}
	return nil
}

// ApplySubmission transitions the application to SUBMITTED and stamps the
// submission time. Call CanSubmit (and re-check at write time) first.
func (a *Application) ApplySubmission(now time.Time) {
	a.Status = StatusSubmitted
	a.SubmittedAt = &now
	a.UpdatedAt = now
}

// CanApplyStatus checks an update-path status assignment against the
// transition table. DRAFT -> SUBMITTED is refused here even though the table
// contains it: that edge belongs exclusively to Submit, which gates it on
// document completeness.
func (a *Application) CanApplyStatus(to Status) error {
	if a.Status == StatusDraft && to == StatusSubmitted {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"draft applications must be submitted through the submit operation")
	}
	if !a.Status.CanTransitionTo(to) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"illegal status transition %s -> %s", a.Status, to)
	}
	return nil
}

// ApplyUpdate folds a partial update into the application and reports whether
// anything changed. Side effects, in order:
//
//  1. Setting status SUBMITTED stamps SubmittedAt = now (idempotent
//     overwrite; never cleared by other statuses).
//  2. Setting a review-class status with a non-nil reviewer in the same
//     request stamps ReviewedAt = now alongside ReviewedBy.
//  3. A reviewer supplied without a qualifying status change is persisted
//     as given, without stamping ReviewedAt.
//  4. UpdatedAt bumps when any field changed.
//
// Status legality is validated by CanApplyStatus before this is called.
func (a *Application) ApplyUpdate(req UpdateRequest, now time.Time) bool {
	changed := false

	if req.HasStatus() {
		a.Status = *req.Status
		if *req.Status == StatusSubmitted {
			a.SubmittedAt = &now
		}
		changed = true
	}
	if req.HasApplicationData() {
		data := req.ApplicationData
		if data == nil {
			data = map[string]any{}
		}
		a.ApplicationData = data
		changed = true
	}
	if req.HasNotes() {
		a.Notes = req.Notes
		changed = true
	}
	if req.HasStaffNotes() {
		a.StaffNotes = req.StaffNotes
		changed = true
	}
	if req.HasReviewedBy() {
		a.ReviewedBy = req.ReviewedBy
		changed = true
	}

	if req.HasStatus() && req.Status.ReviewClass() && req.HasReviewedBy() && req.ReviewedBy != nil {
		a.ReviewedAt = &now
	}

	if changed {
		a.UpdatedAt = now
	}
	return changed
}
