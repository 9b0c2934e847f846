package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// GroupRepository reads course sections. The composite key is a virtual
// foreign key: the store does not enforce it uniformly, so callers validate
// target affiliations here before writing them anywhere.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Find fetches one course section by its composite key.
func (r *GroupRepository) Find(ctx context.Context, aff models.GroupAffiliation) (*models.Group, error) {
	const query = `SELECT subject_code, group_letter, period, year, name, professor_code, active
	FROM course_groups
	WHERE subject_code = $1 AND group_letter = $2 AND period = $3 AND year = $4`
	var group models.Group
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &group, query, aff.SubjectCode, aff.GroupLetter, aff.Period, aff.Year); err != nil {
		return nil, err
	}
	return &group, nil
}

// Exists reports whether an active course section matches the key.
func (r *GroupRepository) Exists(ctx context.Context, aff models.GroupAffiliation) (bool, error) {
	group, err := r.Find(ctx, aff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check group: %w", err)
	}
	return group.Active, nil
}
