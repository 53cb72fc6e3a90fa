package models

import (
	dErrors "intake/pkg/domain-errors"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusSubmitted         Status = "SUBMITTED"
	StatusUnderReview       Status = "UNDER_REVIEW"
	StatusRequiresDocuments Status = "REQUIRES_DOCUMENTS"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
)

// transitions is the authoritative table of legal status edges. An application
// starts in DRAFT, is submitted, reviewed, and either decided or sent back for
// more documents; REQUIRES_DOCUMENTS loops to SUBMITTED on resubmission.
// APPROVED and REJECTED are terminal.
var transitions = map[Status][]Status{
	StatusDraft:             {StatusSubmitted},
	StatusSubmitted:         {StatusUnderReview},
	StatusUnderReview:       {StatusRequiresDocuments, StatusApproved, StatusRejected},
	StatusRequiresDocuments: {StatusSubmitted},
	StatusApproved:          {},
	StatusRejected:          {},
}

// ParseStatus validates a status string against the enumeration.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown status: %s", s)
	}
	return status, nil
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> to is in the transition table.
// Re-asserting the current status is always legal (idempotent no-op).
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return to.Valid()
	}
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ReviewClass reports whether the status represents staff review activity:
// anything outside {DRAFT, SUBMITTED}. Assigning a review-class status
// together with a reviewer identity stamps the review fields.
func (s Status) ReviewClass() bool {
	return s != StatusDraft && s != StatusSubmitted
}

func (s Status) String() string { return string(s) }
