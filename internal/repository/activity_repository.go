package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// ActivityRepository reads milestone activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByAffiliation returns the most recent activity for a course section.
func (r *ActivityRepository) FindByAffiliation(ctx context.Context, aff models.GroupAffiliation) (*models.Activity, error) {
	const query = `SELECT id, name, subject_code, group_letter, period, year, scope_type, starts_at, ends_at, created_at
	FROM activities
	WHERE subject_code = $1 AND group_letter = $2 AND period = $3 AND year = $4
	ORDER BY created_at DESC LIMIT 1`
	var activity models.Activity
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &activity, query, aff.SubjectCode, aff.GroupLetter, aff.Period, aff.Year); err != nil {
		return nil, err
	}
	return &activity, nil
}
