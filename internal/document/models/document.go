package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
)

// Document is the metadata record for one uploaded file. The file bytes live
// in the object store under FilePath; this record only references them.
//
// Re-uploads of the same document type create additional rows; nothing
// deduplicates or supersedes earlier uploads. Requirement checking only asks
// whether at least one document of each required type exists.
type Document struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	DocumentType  string    `json:"document_type"`
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// UploadRequest is the payload for attaching a document to an application.
type UploadRequest struct {
	ApplicationID uuid.UUID `json:"application_id"`
	DocumentType  string    `json:"document_type"`
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
}

// NewDocument validates the upload payload and builds the metadata record.
func NewDocument(id uuid.UUID, req UploadRequest, now time.Time) (*Document, error) {
	if req.ApplicationID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "application_id is required")
	}
	documentType := strings.TrimSpace(req.DocumentType)
	if documentType == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "file_path is required")
	}
	if req.FileSize <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "file_size must be positive")
	}
	if strings.TrimSpace(req.MimeType) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "mime_type is required")
	}

	return &Document{
		ID:            id,
		ApplicationID: req.ApplicationID,
		DocumentType:  documentType,
		FileName:      req.FileName,
		FilePath:      req.FilePath,
		FileSize:      req.FileSize,
		MimeType:      req.MimeType,
		UploadedAt:    now,
	}, nil
}
