package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// ProjectRepository persists projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs the repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `p.id, p.idea_id, p.research_line, p.technologies, p.keywords, p.scope_type,
       p.status_id, s.name AS status_name, p.created_at, p.updated_at`

// Create inserts a new project row. The unique index on idea_id enforces the
// one-project-per-idea invariant at the store level as well.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	const query = `INSERT INTO projects
	(id, idea_id, research_line, technologies, keywords, scope_type, status_id, created_at, updated_at)
	VALUES (:id, :idea_id, :research_line, :technologies, :keywords, :scope_type, :status_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// FindByID fetches one project with its resolved status name.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p JOIN statuses s ON s.id = p.status_id WHERE p.id = $1`
	var project models.Project
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIdeaID fetches the project owned by an idea, if any.
func (r *ProjectRepository) FindByIdeaID(ctx context.Context, ideaID string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p JOIN statuses s ON s.id = p.status_id WHERE p.idea_id = $1`
	var project models.Project
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &project, query, ideaID); err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsForIdea reports whether an idea already owns a project.
func (r *ProjectRepository) ExistsForIdea(ctx context.Context, ideaID string) (bool, error) {
	if _, err := r.FindByIdeaID(ctx, ideaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check project for idea: %w", err)
	}
	return true, nil
}

// UpdateStatus moves a project to the given status.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id, statusID string) error {
	const query = `UPDATE projects SET status_id = $1, updated_at = $2 WHERE id = $3`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, statusID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check project update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
