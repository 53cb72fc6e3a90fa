package models

import (
	"encoding/json"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
)

// CreateRequest is the payload for creating an application.
type CreateRequest struct {
	ServiceID       uuid.UUID      `json:"service_id"`
	ApplicantID     int64          `json:"applicant_id"`
	ApplicationData map[string]any `json:"application_data"`
	Notes           *string        `json:"notes"`
}

// UpdateRequest carries a partial update. Fields absent from the JSON body are
// left untouched; fields present with an explicit null clear the target (for
// nullable targets). Presence is tracked per key by UnmarshalJSON, which is
// the only supported way to build one from user input; tests construct filled
// requests through the Set helpers.
type UpdateRequest struct {
	Status          *Status
	ApplicationData map[string]any
	Notes           *string
	StaffNotes      *string
	ReviewedBy      *int64

	present map[string]bool
}

func (r *UpdateRequest) HasStatus() bool          { return r.present["status"] }
func (r *UpdateRequest) HasApplicationData() bool { return r.present["application_data"] }
func (r *UpdateRequest) HasNotes() bool           { return r.present["notes"] }
func (r *UpdateRequest) HasStaffNotes() bool      { return r.present["staff_notes"] }
func (r *UpdateRequest) HasReviewedBy() bool      { return r.present["reviewed_by"] }

// Empty reports whether the request carries no fields at all.
func (r *UpdateRequest) Empty() bool { return len(r.present) == 0 }

// UnmarshalJSON decodes the payload while recording which keys were present,
// so omitted fields and explicit nulls can be told apart.
func (r *UpdateRequest) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.present = make(map[string]bool, len(raw))

	if v, ok := raw["status"]; ok {
		r.present["status"] = true
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "status must be a string")
		}
		if s == nil {
			return dErrors.New(dErrors.CodeBadRequest, "status cannot be null")
		}
		status, err := ParseStatus(*s)
		if err != nil {
			return err
		}
		r.Status = &status
	}
	if v, ok := raw["application_data"]; ok {
		r.present["application_data"] = true
		if err := json.Unmarshal(v, &r.ApplicationData); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "application_data must be an object")
		}
	}
	if v, ok := raw["notes"]; ok {
		r.present["notes"] = true
		if err := json.Unmarshal(v, &r.Notes); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "notes must be a string")
		}
	}
	if v, ok := raw["staff_notes"]; ok {
		r.present["staff_notes"] = true
		if err := json.Unmarshal(v, &r.StaffNotes); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "staff_notes must be a string")
		}
	}
	if v, ok := raw["reviewed_by"]; ok {
		r.present["reviewed_by"] = true
		if err := json.Unmarshal(v, &r.ReviewedBy); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "reviewed_by must be a number")
		}
	}
	return nil
}

// SetStatus marks status present. Test helper mirroring JSON decoding.
func (r *UpdateRequest) SetStatus(s Status) *UpdateRequest {
	r.mark("status")
	r.Status = &s
	return r
}

// SetApplicationData marks application_data present.
func (r *UpdateRequest) SetApplicationData(data map[string]any) *UpdateRequest {
	r.mark("application_data")
	r.ApplicationData = data
	return r
}

// SetNotes marks notes present; nil clears.
func (r *UpdateRequest) SetNotes(notes *string) *UpdateRequest {
	r.mark("notes")
	r.Notes = notes
	return r
}

// SetStaffNotes marks staff_notes present; nil clears.
func (r *UpdateRequest) SetStaffNotes(notes *string) *UpdateRequest {
	r.mark("staff_notes")
	r.StaffNotes = notes
	return r
}

// SetReviewedBy marks reviewed_by present; nil clears.
func (r *UpdateRequest) SetReviewedBy(reviewedBy *int64) *UpdateRequest {
	r.mark("reviewed_by")
	r.ReviewedBy = reviewedBy
	return r
}

func (r *UpdateRequest) mark(field string) {
	if r.present == nil {
		r.present = make(map[string]bool)
	}
	r.present[field] = true
}
