// Package events publishes application lifecycle events for downstream
// consumers (notifications, reporting). Publishing is observability, not a
// correctness dependency: callers log failures and move on.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event kinds emitted by the application lifecycle engine.
const (
	KindApplicationCreated   = "application.created"
	KindApplicationSubmitted = "application.submitted"
	KindApplicationReviewed  = "application.reviewed"
)

// ApplicationEvent describes one lifecycle transition.
type ApplicationEvent struct {
	Kind          string    `json:"kind"`
	ApplicationID uuid.UUID `json:"application_id"`
	ServiceID     uuid.UUID `json:"service_id"`
	ApplicantID   int64     `json:"applicant_id"`
	Status        string    `json:"status"`
	ReviewedBy    *int64    `json:"reviewed_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers lifecycle events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event ApplicationEvent) error
	Close()
}
