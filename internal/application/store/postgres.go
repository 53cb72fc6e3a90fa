package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"intake/internal/application/models"
	"intake/pkg/platform/sentinel"
)

// Postgres persists applications. Pure I/O; all lifecycle decisions happen in
// the service and model layers. The one exception is SubmitIfDraft, whose
// WHERE status = 'DRAFT' clause is the write-time transition guard.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const applicationColumns = `id, service_id, applicant_id, status, application_data, notes, staff_notes,
	submitted_at, reviewed_at, reviewed_by, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	data, err := json.Marshal(app.ApplicationData)
	if err != nil {
		return fmt.Errorf("marshal application data: %w", err)
	}
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(ctx, query,
		app.ID, app.ServiceID, app.ApplicantID, app.Status, data,
		app.Notes, app.StaffNotes, app.SubmittedAt, app.ReviewedAt, app.ReviewedBy,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *Postgres) Update(ctx context.Context, app *models.Application) error {
	data, err := json.Marshal(app.ApplicationData)
	if err != nil {
		return fmt.Errorf("marshal application data: %w", err)
	}
	query := `
		UPDATE applications
		SET status = $2, application_data = $3, notes = $4, staff_notes = $5,
			submitted_at = $6, reviewed_at = $7, reviewed_by = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		app.ID, app.Status, data, app.Notes, app.StaffNotes,
		app.SubmittedAt, app.ReviewedAt, app.ReviewedBy, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// SubmitIfDraft performs the submission transition conditioned on the row
// still being DRAFT at write time. Zero affected rows means another writer
// moved the application first (or it no longer exists); the caller re-fails
// with an invalid-transition error per the lifecycle contract.
func (s *Postgres) SubmitIfDraft(ctx context.Context, id uuid.UUID, now time.Time) (*models.Application, error) {
	query := `
		UPDATE applications
		SET status = $2, submitted_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + applicationColumns
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id, models.StatusSubmitted, now, models.StatusDraft))
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	// Distinguish "gone" from "no longer DRAFT".
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, sentinel.ErrInvalidState
}

func (s *Postgres) List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var (
		conds []string
		args  []any
	)
	if filter.ApplicantID != nil {
		args = append(args, *filter.ApplicantID)
		conds = append(conds, "applicant_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var data []byte
	err := row.Scan(
		&app.ID, &app.ServiceID, &app.ApplicantID, &app.Status, &data,
		&app.Notes, &app.StaffNotes, &app.SubmittedAt, &app.ReviewedAt, &app.ReviewedBy,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &app.ApplicationData); err != nil {
		return nil, fmt.Errorf("unmarshal application data: %w", err)
	}
	return &app, nil
}
