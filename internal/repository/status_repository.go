package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// StatusRepository reads the status lookup table.
type StatusRepository struct {
	db *sqlx.DB
}

// NewStatusRepository constructs the repository.
func NewStatusRepository(db *sqlx.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// FindByName fetches a status by its exact name.
func (r *StatusRepository) FindByName(ctx context.Context, name string) (*models.Status, error) {
	const query = `SELECT id, name, description FROM statuses WHERE name = $1`
	var status models.Status
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &status, query, name); err != nil {
		return nil, err
	}
	return &status, nil
}

// List returns the full catalog ordered by name.
func (r *StatusRepository) List(ctx context.Context) ([]models.Status, error) {
	const query = `SELECT id, name, description FROM statuses ORDER BY name`
	var statuses []models.Status
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &statuses, query); err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}
