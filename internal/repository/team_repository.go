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

// TeamRepository persists teams and their memberships.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a team row.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teams (id, label, subject_code, group_letter, period, year, active, created_at)
	VALUES (:id, :label, :subject_code, :group_letter, :period, :year, :active, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// AddMember inserts a membership row.
func (r *TeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	const query = `INSERT INTO team_members (id, team_id, user_code, is_leader)
	VALUES (:id, :team_id, :user_code, :is_leader)`
	if _, err := sqlx.NamedExecContext(ctx, executor(ctx, r.db), query, member); err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

// FindByID fetches one team.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	const query = `SELECT id, label, subject_code, group_letter, period, year, active, created_at
	FROM teams WHERE id = $1`
	var team models.Team
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &team, query, id); err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByAffiliation returns every team tied to one course section, most
// recent first. The data model does not forbid several; callers decide.
func (r *TeamRepository) FindByAffiliation(ctx context.Context, aff models.GroupAffiliation) ([]models.Team, error) {
	const query = `SELECT id, label, subject_code, group_letter, period, year, active, created_at
	FROM teams WHERE subject_code = $1 AND group_letter = $2 AND period = $3 AND year = $4
	ORDER BY created_at DESC`
	var teams []models.Team
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &teams, query, aff.SubjectCode, aff.GroupLetter, aff.Period, aff.Year); err != nil {
		return nil, fmt.Errorf("find teams by affiliation: %w", err)
	}
	return teams, nil
}

// Members returns a team's memberships, leader first.
func (r *TeamRepository) Members(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	const query = `SELECT id, team_id, user_code, is_leader FROM team_members
	WHERE team_id = $1 ORDER BY is_leader DESC, user_code`
	var members []models.TeamMember
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &members, query, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// FindLeader returns the membership row when userCode leads the team.
func (r *TeamRepository) FindLeader(ctx context.Context, teamID, userCode string) (*models.TeamMember, error) {
	const query = `SELECT id, team_id, user_code, is_leader FROM team_members
	WHERE team_id = $1 AND user_code = $2 AND is_leader = TRUE`
	var member models.TeamMember
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &member, query, teamID, userCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find team leader: %w", err)
	}
	return &member, nil
}

// Deactivate soft-disables a team keeping its memberships for history joins.
func (r *TeamRepository) Deactivate(ctx context.Context, teamID string) error {
	const query = `UPDATE teams SET active = FALSE WHERE id = $1`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, teamID)
	if err != nil {
		return fmt.Errorf("deactivate team: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check team deactivate rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTeams hard-deletes the given teams: memberships first, then the team
// rows themselves.
func (r *TeamRepository) DeleteTeams(ctx context.Context, teamIDs []string) error {
	if len(teamIDs) == 0 {
		return nil
	}
	ext := executor(ctx, r.db)

	query, args, err := sqlx.In(`DELETE FROM team_members WHERE team_id IN (?)`, teamIDs)
	if err != nil {
		return fmt.Errorf("build member delete: %w", err)
	}
	if _, err := ext.ExecContext(ctx, ext.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete team members: %w", err)
	}

	query, args, err = sqlx.In(`DELETE FROM teams WHERE id IN (?)`, teamIDs)
	if err != nil {
		return fmt.Errorf("build team delete: %w", err)
	}
	if _, err := ext.ExecContext(ctx, ext.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete teams: %w", err)
	}
	return nil
}

// MembershipFor returns the membership linking a user to any team in the
// given affiliation, or nil when none exists.
func (r *TeamRepository) MembershipFor(ctx context.Context, userCode string, aff models.GroupAffiliation) (*models.TeamMember, error) {
	const query = `SELECT m.id, m.team_id, m.user_code, m.is_leader
	FROM team_members m JOIN teams t ON t.id = m.team_id
	WHERE m.user_code = $1 AND t.subject_code = $2 AND t.group_letter = $3 AND t.period = $4 AND t.year = $5
	  AND t.active = TRUE
	ORDER BY t.created_at DESC LIMIT 1`
	var member models.TeamMember
	if err := sqlx.GetContext(ctx, executor(ctx, r.db), &member, query, userCode, aff.SubjectCode, aff.GroupLetter, aff.Period, aff.Year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return &member, nil
}
