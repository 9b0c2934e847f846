package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
)

// IdeaRepository persists project ideas.
type IdeaRepository struct {
	db *sqlx.DB
}

// NewIdeaRepository constructs the repository.
func NewIdeaRepository(db *sqlx.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

const ideaColumns = `i.id, i.title, i.problem_statement, i.justification, i.general_objective, i.specific_objectives,
       i.subject_code, i.group_letter, i.period, i.year, i.user_code, i.status_id, s.name AS status_name,
       i.created_at, i.updated_at`

// Create inserts a new idea row.
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	const query = `INSERT INTO ideas
	(id, title, problem_statement, justification, general_objective, specific_objectives,
	 subject_code, group_letter, period, year, user_code, status_id, created_at, updated_at)
	VALUES (:id, :title, :problem_statement, :justification, :general_objective, :specific_objectives,
	 :subject_code, :group_letter, :period, :year, :user_code, :status_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, idea); err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return nil
}

// FindByID fetches an idea with its resolved status name.
func (r *IdeaRepository) FindByID(ctx context.Context, id string) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas i JOIN statuses s ON s.id = i.status_id WHERE i.id = $1`
	var idea models.Idea
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &idea, query, id); err != nil {
		return nil, err
	}
	return &idea, nil
}

// Update persists the mutable idea fields: affiliation, owner and status.
func (r *IdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	idea.UpdatedAt = time.Now().UTC()
	const query = `UPDATE ideas SET
	 title = :title, problem_statement = :problem_statement, justification = :justification,
	 general_objective = :general_objective, specific_objectives = :specific_objectives,
	 subject_code = :subject_code, group_letter = :group_letter, period = :period, year = :year,
	 user_code = :user_code, status_id = :status_id, updated_at = :updated_at
	WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, idea)
	if err != nil {
		return fmt.Errorf("update idea: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check idea update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns ideas matching the filter, newest first.
func (r *IdeaRepository) List(ctx context.Context, filter models.IdeaFilter) ([]models.Idea, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 6)
	builder.WriteString(`SELECT ` + ideaColumns + ` FROM ideas i JOIN statuses s ON s.id = i.status_id`)

	conditions := make([]string, 0, 4)
	if filter.Affiliation != nil {
		args = append(args, filter.Affiliation.SubjectCode, filter.Affiliation.GroupLetter, filter.Affiliation.Period, filter.Affiliation.Year)
		conditions = append(conditions, fmt.Sprintf(
			"i.subject_code = $%d AND i.group_letter = $%d AND i.period = $%d AND i.year = $%d",
			len(args)-3, len(args)-2, len(args)-1, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("s.name = $%d", len(args)))
	}
	if filter.UserCode != "" {
		args = append(args, filter.UserCode)
		conditions = append(conditions, fmt.Sprintf("i.user_code = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY i.created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var ideas []models.Idea
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &ideas, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

type freeProposalRow struct {
	models.Idea
	ProjectID     string    `db:"project_id"`
	ResearchLine  string    `db:"research_line"`
	Technologies  *string   `db:"technologies"`
	Keywords      *string   `db:"keywords"`
	ProjectStatus string    `db:"project_status"`
	GradedAt      time.Time `db:"graded_at"`
}

// FreeProposals lists the proposal bank: LIBRE ideas whose project has been
// graded, eligible for re-adoption.
func (r *IdeaRepository) FreeProposals(ctx context.Context) ([]models.FreeProposal, error) {
	query := `SELECT ` + ideaColumns + `,
       p.id AS project_id, p.research_line, p.technologies, p.keywords, ps.name AS project_status,
       p.updated_at AS graded_at
	FROM ideas i
	JOIN statuses s ON s.id = i.status_id
	JOIN projects p ON p.idea_id = i.id
	JOIN statuses ps ON ps.id = p.status_id
	WHERE s.name = $1 AND ps.name = $2
	ORDER BY p.updated_at DESC`
	var rows []freeProposalRow
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, models.StatusLibre, models.StatusCalificado); err != nil {
		return nil, fmt.Errorf("list free proposals: %w", err)
	}
	proposals := make([]models.FreeProposal, 0, len(rows))
	for _, row := range rows {
		proposals = append(proposals, models.FreeProposal{
			Idea:          row.Idea,
			ProjectID:     row.ProjectID,
			ResearchLine:  row.ResearchLine,
			Technologies:  row.Technologies,
			Keywords:      row.Keywords,
			ProjectStatus: row.ProjectStatus,
			GradedAt:      row.GradedAt,
		})
	}
	return proposals, nil
}
