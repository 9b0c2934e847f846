package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// HistoryRepository appends and reads the immutable audit trails. Rows are
// never updated or deleted.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AppendIdea records an idea review decision.
func (r *HistoryRepository) AppendIdea(ctx context.Context, entry *models.IdeaHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO idea_history (id, idea_id, status_id, user_code, observation, created_at)
	VALUES (:id, :idea_id, :status_id, :user_code, :observation, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, entry); err != nil {
		return fmt.Errorf("append idea history: %w", err)
	}
	return nil
}

// AppendProject records a project transition.
func (r *HistoryRepository) AppendProject(ctx context.Context, entry *models.ProjectHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO project_history (id, project_id, team_id, status_id, user_code, observation, created_at)
	VALUES (:id, :project_id, :team_id, :status_id, :user_code, :observation, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, entry); err != nil {
		return fmt.Errorf("append project history: %w", err)
	}
	return nil
}

// ListByIdea returns an idea's review trail, oldest first.
func (r *HistoryRepository) ListByIdea(ctx context.Context, ideaID string) ([]models.IdeaHistory, error) {
	const query = `SELECT h.id, h.idea_id, h.status_id, s.name AS status_name, h.user_code, h.observation, h.created_at
	FROM idea_history h JOIN statuses s ON s.id = h.status_id
	WHERE h.idea_id = $1 ORDER BY h.created_at`
	var entries []models.IdeaHistory
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &entries, query, ideaID); err != nil {
		return nil, fmt.Errorf("list idea history: %w", err)
	}
	return entries, nil
}

// ListByProject returns a project's transition trail, oldest first.
func (r *HistoryRepository) ListByProject(ctx context.Context, projectID string) ([]models.ProjectHistory, error) {
	const query = `SELECT h.id, h.project_id, h.team_id, h.status_id, s.name AS status_name, h.user_code, h.observation, h.created_at
	FROM project_history h JOIN statuses s ON s.id = h.status_id
	WHERE h.project_id = $1 ORDER BY h.created_at`
	var entries []models.ProjectHistory
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &entries, query, projectID); err != nil {
		return nil, fmt.Errorf("list project history: %w", err)
	}
	return entries, nil
}
