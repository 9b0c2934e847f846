package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// UserRepository reads the mirrored institutional directory.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByCode fetches one user by institutional code.
func (r *UserRepository) FindByCode(ctx context.Context, code string) (*models.User, error) {
	const query = `SELECT code, email, full_name, role, active, created_at, updated_at
	FROM users WHERE code = $1`
	var user models.User
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, code); err != nil {
		return nil, err
	}
	return &user, nil
}
