package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"intake/internal/catalog/models"
	"intake/pkg/platform/sentinel"
)

// Postgres persists service definitions. Pure I/O; validation belongs to the
// model constructor and the service layer.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, name, description, service_type, required_documents, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		service.ID,
		service.Name,
		service.Description,
		service.Type,
		pq.Array(service.RequiredDocuments),
		service.IsActive,
		service.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `
		SELECT id, name, description, service_type, required_documents, is_active, created_at
		FROM services
		WHERE id = $1
	`
	service, err := scanService(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return service, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Service, error) {
	query := `
		SELECT id, name, description, service_type, required_documents, is_active, created_at
		FROM services
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []*models.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*models.Service, error) {
	var service models.Service
	var required pq.StringArray
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.Type,
		&required,
		&service.IsActive,
		&service.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	service.RequiredDocuments = []string(required)
	return &service, nil
}
