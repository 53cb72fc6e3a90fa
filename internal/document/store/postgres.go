package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	appmodels "intake/internal/application/models"
	"intake/internal/document/models"
)

// Postgres persists document metadata. DeleteIfApplicationDraft is the one
// statement carrying domain meaning: the join on the owning application's
// status makes the status check and the delete a single atomic write.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Insert(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO application_documents (id, application_id, document_type, file_name, file_path, file_size, mime_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID, doc.ApplicationID, doc.DocumentType,
		doc.FileName, doc.FilePath, doc.FileSize, doc.MimeType, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, application_id, document_type, file_name, file_path, file_size, mime_type, uploaded_at
		FROM application_documents
		WHERE application_id = $1
		ORDER BY uploaded_at
	`
	rows, err := s.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.ApplicationID, &doc.DocumentType,
			&doc.FileName, &doc.FilePath, &doc.FileSize, &doc.MimeType, &doc.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListTypesByApplication(ctx context.Context, applicationID uuid.UUID) ([]string, error) {
	query := `
		SELECT document_type
		FROM application_documents
		WHERE application_id = $1
		ORDER BY uploaded_at
	`
	rows, err := s.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	defer rows.Close()

	types := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	return types, nil
}

// DeleteIfApplicationDraft deletes the row only while the owning application
// is DRAFT, in one statement, so an application transitioning between the
// caller's read and this write cannot lose a document. Returns the deleted
// row's file path for best-effort object cleanup.
func (s *Postgres) DeleteIfApplicationDraft(ctx context.Context, id uuid.UUID) (string, bool, error) {
	query := `
		DELETE FROM application_documents d
		USING applications a
		WHERE d.id = $1 AND a.id = d.application_id AND a.status = $2
		RETURNING d.file_path
	`
	var filePath string
	err := s.db.QueryRowContext(ctx, query, id, appmodels.StatusDraft).Scan(&filePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete document: %w", err)
	}
	return filePath, true, nil
}
