package models

// ListFilter narrows application listings. Nil fields match everything.
// Limit <= 0 means no limit.
type ListFilter struct {
	ApplicantID *int64
	Status      *Status
	Limit       int
	Offset      int
}
