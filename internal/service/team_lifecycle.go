package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type teamStore interface {
	Create(ctx context.Context, team *models.Team) error
	AddMember(ctx context.Context, member *models.TeamMember) error
	FindByAffiliation(ctx context.Context, aff models.GroupAffiliation) ([]models.Team, error)
	FindLeader(ctx context.Context, teamID, userCode string) (*models.TeamMember, error)
	Members(ctx context.Context, teamID string) ([]models.TeamMember, error)
	Deactivate(ctx context.Context, teamID string) error
	DeleteTeams(ctx context.Context, teamIDs []string) error
	MembershipFor(ctx context.Context, userCode string, aff models.GroupAffiliation) (*models.TeamMember, error)
}

// TeamLifecycle creates and tears down teams as a side effect of workflow
// transitions. It runs inside the caller's ambient transaction; it never
// opens one itself.
type TeamLifecycle struct {
	teams  teamStore
	logger *zap.Logger
}

// NewTeamLifecycle constructs the manager.
func NewTeamLifecycle(teams teamStore, logger *zap.Logger) *TeamLifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamLifecycle{teams: teams, logger: logger}
}

// CreateTeam creates an active team in the given course section with the
// leader as its single initial member.
func (s *TeamLifecycle) CreateTeam(ctx context.Context, aff models.GroupAffiliation, leaderCode, label string) (*models.Team, error) {
	if label == "" {
		label = fmt.Sprintf("Equipo %s", aff)
	}
	team := &models.Team{
		Label:            label,
		GroupAffiliation: aff,
		Active:           true,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	leader := &models.TeamMember{TeamID: team.ID, UserCode: leaderCode, IsLeader: true}
	if err := s.teams.AddMember(ctx, leader); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add team leader")
	}
	team.Members = []models.TeamMember{*leader}
	return team, nil
}

// TeamsByAffiliation lists every team tied to a course section.
func (s *TeamLifecycle) TeamsByAffiliation(ctx context.Context, aff models.GroupAffiliation) ([]models.Team, error) {
	teams, err := s.teams.FindByAffiliation(ctx, aff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}
	return teams, nil
}

// DestroyTeams hard-deletes the given teams and all their memberships. Used
// by rejection branches, where no future history may reference the team.
func (s *TeamLifecycle) DestroyTeams(ctx context.Context, teamIDs []string) error {
	if len(teamIDs) == 0 {
		return nil
	}
	if err := s.teams.DeleteTeams(ctx, teamIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to destroy teams")
	}
	s.logger.Info("teams destroyed", zap.Int("count", len(teamIDs)))
	return nil
}

// Deactivate soft-disables one team, keeping memberships so history records
// can still join to it. Used by release-to-pool.
func (s *TeamLifecycle) Deactivate(ctx context.Context, teamID string) error {
	if err := s.teams.Deactivate(ctx, teamID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate team")
	}
	return nil
}

// Leader returns the membership row when userCode leads the team, nil when
// not.
func (s *TeamLifecycle) Leader(ctx context.Context, teamID, userCode string) (*models.TeamMember, error) {
	return s.teams.FindLeader(ctx, teamID, userCode)
}

// Members lists a team's memberships, leader first.
func (s *TeamLifecycle) Members(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return s.teams.Members(ctx, teamID)
}

// MembershipFor returns the actor's membership in any active team of the
// given course section.
func (s *TeamLifecycle) MembershipFor(ctx context.Context, userCode string, aff models.GroupAffiliation) (*models.TeamMember, error) {
	return s.teams.MembershipFor(ctx, userCode, aff)
}
