package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/dto"
	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type ideaStore interface {
	FindByID(ctx context.Context, id string) (*models.Idea, error)
	Update(ctx context.Context, idea *models.Idea) error
	FreeProposals(ctx context.Context) ([]models.FreeProposal, error)
}

type projectStore interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindByIdeaID(ctx context.Context, ideaID string) (*models.Project, error)
	ExistsForIdea(ctx context.Context, ideaID string) (bool, error)
	UpdateStatus(ctx context.Context, id, statusID string) error
}

type activityStore interface {
	FindByAffiliation(ctx context.Context, aff models.GroupAffiliation) (*models.Activity, error)
}

type historyStore interface {
	AppendIdea(ctx context.Context, entry *models.IdeaHistory) error
	AppendProject(ctx context.Context, entry *models.ProjectHistory) error
}

type groupStore interface {
	Exists(ctx context.Context, aff models.GroupAffiliation) (bool, error)
}

type statusResolver interface {
	Resolve(ctx context.Context, name string) (*models.Status, error)
}

type txRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type teamManager interface {
	CreateTeam(ctx context.Context, aff models.GroupAffiliation, leaderCode, label string) (*models.Team, error)
	TeamsByAffiliation(ctx context.Context, aff models.GroupAffiliation) ([]models.Team, error)
	DestroyTeams(ctx context.Context, teamIDs []string) error
	Deactivate(ctx context.Context, teamID string) error
	Leader(ctx context.Context, teamID, userCode string) (*models.TeamMember, error)
	Members(ctx context.Context, teamID string) ([]models.TeamMember, error)
	MembershipFor(ctx context.Context, userCode string, aff models.GroupAffiliation) (*models.TeamMember, error)
}

type proposalCache interface {
	Get(ctx context.Context) ([]models.FreeProposal, error)
	Set(ctx context.Context, proposals []models.FreeProposal) error
	Invalidate(ctx context.Context)
}

// gradeNotifier dispatches grading notifications after the transaction
// commits. Implementations are best-effort and must contain their failures.
type gradeNotifier interface {
	ProjectGraded(ctx context.Context, project models.Project, idea models.Idea, members []models.TeamMember, observation string) string
}

type transitionMetrics interface {
	ObserveTransition(operation, result string)
}

// WorkflowService is the review-and-progression engine: it computes the next
// state for ideas and projects, applies team side effects and appends one
// history record per transition, all inside a single transaction per public
// operation.
type WorkflowService struct {
	tx         txRunner
	catalog    statusResolver
	ideas      ideaStore
	projects   projectStore
	activities activityStore
	histories  historyStore
	groups     groupStore
	teams      teamManager

	cache     proposalCache
	notifier  gradeNotifier
	metrics   transitionMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// WorkflowOption configures optional collaborators.
type WorkflowOption func(*WorkflowService)

// WithProposalCache enables the Redis-backed proposal-bank cache.
func WithProposalCache(cache proposalCache) WorkflowOption {
	return func(s *WorkflowService) { s.cache = cache }
}

// WithGradeNotifier wires the post-commit grading notification dispatcher.
func WithGradeNotifier(n gradeNotifier) WorkflowOption {
	return func(s *WorkflowService) { s.notifier = n }
}

// WithTransitionMetrics wires the workflow transition counter.
func WithTransitionMetrics(m transitionMetrics) WorkflowOption {
	return func(s *WorkflowService) { s.metrics = m }
}

// NewWorkflowService constructs the engine.
func NewWorkflowService(
	tx txRunner,
	catalog statusResolver,
	ideas ideaStore,
	projects projectStore,
	activities activityStore,
	histories historyStore,
	groups groupStore,
	teams teamManager,
	validate *validator.Validate,
	logger *zap.Logger,
	opts ...WorkflowOption,
) *WorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &WorkflowService{
		tx:         tx,
		catalog:    catalog,
		ideas:      ideas,
		projects:   projects,
		activities: activities,
		histories:  histories,
		groups:     groups,
		teams:      teams,
		validator:  validate,
		logger:     logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// ReviewIdea applies a reviewer decision to an idea: Aprobar moves it to
// APROBADO, Aprobar_Con_Observacion to STAND_BY, Rechazar to RECHAZADO. No
// team exists yet at idea stage, so the only side effect is the history
// record.
func (s *WorkflowService) ReviewIdea(ctx context.Context, ideaID string, req dto.ReviewIdeaRequest, actorCode string) (*dto.IdeaReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if !req.Action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown review action %q", req.Action))
	}

	idea, err := s.loadIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	var targetName, message string
	switch req.Action {
	case models.ActionAprobar:
		targetName, message = models.StatusAprobado, "Idea aprobada"
	case models.ActionAprobarConObservacion:
		targetName, message = models.StatusStandBy, "Idea aprobada con observaciones"
	case models.ActionRechazar:
		targetName, message = models.StatusRechazado, "Idea rechazada"
	}
	target, err := s.catalog.Resolve(ctx, targetName)
	if err != nil {
		return nil, err
	}

	observation := composeObservation(string(req.Action), req.Observation)
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		idea.StatusID = target.ID
		idea.StatusName = target.Name
		if err := s.ideas.Update(ctx, idea); err != nil {
			return storeError(err, "failed to update idea")
		}
		return s.appendIdeaHistory(ctx, idea.ID, target.ID, actorCode, observation)
	})
	if err != nil {
		return nil, err
	}

	s.observe("review_idea", string(req.Action))
	return &dto.IdeaReviewResult{Message: message, Idea: idea}, nil
}

// CreateProjectFromIdea formalizes an approved idea into a project carrying
// the scope type of the section's current activity. The actor must already
// belong to a team in the idea's course section.
func (s *WorkflowService) CreateProjectFromIdea(ctx context.Context, ideaID string, req dto.CreateProjectRequest, actorCode string) (*dto.ProjectCreated, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}

	idea, err := s.loadIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.StatusName != models.StatusAprobado {
		return nil, appErrors.Clone(appErrors.ErrConflict, "idea is not approved")
	}
	aff := idea.Affiliation()
	if aff == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "idea has no course section")
	}

	exists, err := s.projects.ExistsForIdea(ctx, idea.ID)
	if err != nil {
		return nil, storeError(err, "failed to check existing project")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "idea already has a project")
	}

	activity, err := s.activities.FindByAffiliation(ctx, *aff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no activity defined for the course section")
		}
		return nil, storeError(err, "failed to load activity")
	}

	membership, err := s.teams.MembershipFor(ctx, actorCode, *aff)
	if err != nil {
		return nil, storeError(err, "failed to resolve actor team")
	}
	if membership == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "actor has no team in the idea's course section")
	}

	enCurso, err := s.catalog.Resolve(ctx, models.StatusEnCurso)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		IdeaID:       idea.ID,
		ResearchLine: req.ResearchLine,
		Technologies: optionalString(req.Technologies),
		Keywords:     optionalString(req.Keywords),
		ScopeType:    activity.ScopeType,
		StatusID:     enCurso.ID,
		StatusName:   enCurso.Name,
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, project); err != nil {
			return storeError(err, "failed to create project")
		}
		return s.appendProjectHistory(ctx, project.ID, &membership.TeamID, enCurso.ID, actorCode,
			"Proyecto formalizado a partir de la idea aprobada")
	})
	if err != nil {
		return nil, err
	}

	s.observe("create_project", "created")
	return &dto.ProjectCreated{Project: project, Idea: idea, Activity: activity}, nil
}

// ReviewProject applies a reviewer decision to a project. Rejection is
// destructive: every team in the idea's course section is hard-deleted and
// the idea returns to the proposal pool with its affiliation cleared.
func (s *WorkflowService) ReviewProject(ctx context.Context, projectID string, req dto.ReviewProjectRequest, actorCode string) (*dto.ProjectReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if !req.Action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown review action %q", req.Action))
	}

	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Resolve every referenced status before touching anything.
	enCurso, err := s.catalog.Resolve(ctx, models.StatusEnCurso)
	if err != nil {
		return nil, err
	}
	aprobado, err := s.catalog.Resolve(ctx, models.StatusAprobado)
	if err != nil {
		return nil, err
	}
	standBy, err := s.catalog.Resolve(ctx, models.StatusStandBy)
	if err != nil {
		return nil, err
	}
	calificado, err := s.catalog.Resolve(ctx, models.StatusCalificado)
	if err != nil {
		return nil, err
	}
	libre, err := s.catalog.Resolve(ctx, models.StatusLibre)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if aff := idea.Affiliation(); aff != nil {
		teams, err = s.teams.TeamsByAffiliation(ctx, *aff)
		if err != nil {
			return nil, err
		}
	}
	var teamRef *string
	if len(teams) > 0 {
		teamRef = &teams[0].ID
	}

	observation := composeObservation(string(req.Action), req.Observation)
	var message string

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		switch req.Action {
		case models.ActionAprobar:
			message = "Proyecto aprobado"
			if err := s.moveProject(ctx, project, enCurso); err != nil {
				return err
			}
			if err := s.moveIdea(ctx, idea, aprobado); err != nil {
				return err
			}
			return s.appendProjectHistory(ctx, project.ID, teamRef, enCurso.ID, actorCode, observation)

		case models.ActionAprobarConObservacion:
			message = "Proyecto aprobado con observaciones"
			if err := s.moveProject(ctx, project, enCurso); err != nil {
				return err
			}
			if err := s.moveIdea(ctx, idea, standBy); err != nil {
				return err
			}
			return s.appendProjectHistory(ctx, project.ID, teamRef, enCurso.ID, actorCode, observation)

		case models.ActionRechazar:
			message = "Proyecto rechazado"
			wasGraded := project.StatusName == models.StatusCalificado
			if err := s.moveProject(ctx, project, calificado); err != nil {
				return err
			}
			ideaTarget := libre
			if wasGraded {
				ideaTarget = aprobado
			}
			idea.SetAffiliation(nil)
			if ideaTarget.Name == models.StatusLibre {
				idea.UserCode = nil
			}
			if err := s.moveIdea(ctx, idea, ideaTarget); err != nil {
				return err
			}
			if err := s.destroyTeams(ctx, teams); err != nil {
				return err
			}
			// Teams are gone; the record carries no team reference.
			return s.appendProjectHistory(ctx, project.ID, nil, calificado.ID, actorCode, observation)
		}
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown review action %q", req.Action))
	})
	if err != nil {
		return nil, err
	}

	if req.Action == models.ActionRechazar {
		s.invalidateBank(ctx)
	}
	s.observe("review_project", string(req.Action))
	return &dto.ProjectReviewResult{Message: message, Project: project}, nil
}

// RejectCorrection models the team declining requested corrections. The
// project settles on CALIFICADO, the idea leaves STAND_BY, and the section's
// teams are hard-deleted.
func (s *WorkflowService) RejectCorrection(ctx context.Context, projectID, ideaID, actorCode string) (*dto.RejectCorrectionResult, error) {
	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if idea.ID != ideaID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "idea does not own the project")
	}

	calificado, err := s.catalog.Resolve(ctx, models.StatusCalificado)
	if err != nil {
		return nil, err
	}
	libre, err := s.catalog.Resolve(ctx, models.StatusLibre)
	if err != nil {
		return nil, err
	}
	aprobado, err := s.catalog.Resolve(ctx, models.StatusAprobado)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if aff := idea.Affiliation(); aff != nil {
		teams, err = s.teams.TeamsByAffiliation(ctx, *aff)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		switch project.StatusName {
		case models.StatusSeleccionado:
			if err := s.moveProject(ctx, project, calificado); err != nil {
				return err
			}
			if idea.StatusName == models.StatusStandBy {
				idea.UserCode = nil
				idea.SetAffiliation(nil)
				if err := s.moveIdea(ctx, idea, libre); err != nil {
					return err
				}
			} else {
				idea.SetAffiliation(nil)
				if err := s.ideas.Update(ctx, idea); err != nil {
					return storeError(err, "failed to update idea")
				}
			}

		case models.StatusCalificado:
			// Project already settled; only the idea moves.
			idea.SetAffiliation(nil)
			if idea.StatusName == models.StatusStandBy {
				if err := s.moveIdea(ctx, idea, aprobado); err != nil {
					return err
				}
			} else if err := s.ideas.Update(ctx, idea); err != nil {
				return storeError(err, "failed to update idea")
			}

		default:
			return appErrors.Clone(appErrors.ErrConflict, "project is not awaiting corrections")
		}

		if err := s.destroyTeams(ctx, teams); err != nil {
			return err
		}
		return s.appendProjectHistory(ctx, project.ID, nil, calificado.ID, actorCode,
			"El equipo declinó atender las observaciones solicitadas")
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBank(ctx)
	s.observe("reject_correction", project.StatusName)
	return &dto.RejectCorrectionResult{
		Message: "Observaciones rechazadas; la propuesta vuelve al banco",
		Project: project,
		Idea:    idea,
	}, nil
}

// ReleaseProject returns a project's idea to the proposal pool. Only the
// leader of the section's active team may release; the team is deactivated,
// not deleted, so its history keeps joining.
func (s *WorkflowService) ReleaseProject(ctx context.Context, projectID, actorCode string) (*dto.ReleaseResult, error) {
	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}
	aff := idea.Affiliation()
	if aff == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "idea is not assigned to a course section")
	}

	libre, err := s.catalog.Resolve(ctx, models.StatusLibre)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.TeamsByAffiliation(ctx, *aff)
	if err != nil {
		return nil, err
	}
	var led *models.Team
	for i := range teams {
		if !teams[i].Active {
			continue
		}
		member, err := s.teams.Leader(ctx, teams[i].ID, actorCode)
		if err != nil {
			return nil, storeError(err, "failed to check team leadership")
		}
		if member != nil {
			led = &teams[i]
			break
		}
	}
	if led == nil {
		return nil, appErrors.ErrNotLeader
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		idea.UserCode = nil
		idea.SetAffiliation(nil)
		if err := s.moveIdea(ctx, idea, libre); err != nil {
			return err
		}
		if err := s.teams.Deactivate(ctx, led.ID); err != nil {
			return err
		}
		return s.appendProjectHistory(ctx, project.ID, &led.ID, libre.ID, actorCode,
			"Proyecto liberado al banco de propuestas por el líder del equipo")
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBank(ctx)
	s.observe("release_project", "released")
	return &dto.ReleaseResult{
		Message:   "Proyecto liberado al banco de propuestas",
		ProjectID: project.ID,
		IdeaID:    idea.ID,
	}, nil
}

// AdoptProposal takes a free proposal from the bank: a fresh team is created
// in the target course section with the actor as leader, the project moves
// to SELECCIONADO and the idea re-enters review under its new owner.
func (s *WorkflowService) AdoptProposal(ctx context.Context, projectID, actorCode string, target models.GroupAffiliation) (*dto.AdoptionResult, error) {
	if !target.Complete() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target course section is incomplete")
	}
	ok, err := s.groups.Exists(ctx, target)
	if err != nil {
		return nil, storeError(err, "failed to check course section")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course section not found")
	}

	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if idea.StatusName != models.StatusLibre {
		return nil, appErrors.Clone(appErrors.ErrConflict, "proposal is not free for adoption")
	}

	seleccionado, err := s.catalog.Resolve(ctx, models.StatusSeleccionado)
	if err != nil {
		return nil, err
	}
	revision, err := s.catalog.Resolve(ctx, models.StatusRevision)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		team, err = s.teams.CreateTeam(ctx, target, actorCode, "")
		if err != nil {
			return err
		}
		if err := s.moveProject(ctx, project, seleccionado); err != nil {
			return err
		}
		actor := actorCode
		idea.UserCode = &actor
		idea.SetAffiliation(&target)
		if err := s.moveIdea(ctx, idea, revision); err != nil {
			return err
		}
		return s.appendProjectHistory(ctx, project.ID, &team.ID, seleccionado.ID, actorCode,
			fmt.Sprintf("Propuesta adoptada del banco por el grupo %s", target))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBank(ctx)
	s.observe("adopt_proposal", "adopted")
	return &dto.AdoptionResult{
		Message: "Propuesta adoptada; la idea entra nuevamente a revisión",
		Project: project,
		Team:    team,
	}, nil
}

// ContinueProject re-opens a graded project in a new course section: same
// mechanics as adoption, but the project keeps its CALIFICADO status. This
// models redoing the work in a later term.
func (s *WorkflowService) ContinueProject(ctx context.Context, projectID, actorCode string, target models.GroupAffiliation) (*dto.AdoptionResult, error) {
	if !target.Complete() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target course section is incomplete")
	}
	ok, err := s.groups.Exists(ctx, target)
	if err != nil {
		return nil, storeError(err, "failed to check course section")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course section not found")
	}

	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.StatusName != models.StatusCalificado {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only graded projects can be continued")
	}

	revision, err := s.catalog.Resolve(ctx, models.StatusRevision)
	if err != nil {
		return nil, err
	}
	calificado, err := s.catalog.Resolve(ctx, models.StatusCalificado)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		team, err = s.teams.CreateTeam(ctx, target, actorCode, "")
		if err != nil {
			return err
		}
		actor := actorCode
		idea.UserCode = &actor
		idea.SetAffiliation(&target)
		if err := s.moveIdea(ctx, idea, revision); err != nil {
			return err
		}
		return s.appendProjectHistory(ctx, project.ID, &team.ID, calificado.ID, actorCode,
			fmt.Sprintf("Proyecto continuado en el grupo %s", target))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBank(ctx)
	s.observe("continue_project", "continued")
	return &dto.AdoptionResult{
		Message: "Proyecto continuado; la idea entra nuevamente a revisión",
		Project: project,
		Team:    team,
	}, nil
}

// GradeProject closes a project cycle: the project becomes CALIFICADO and
// the idea APROBADO. Notification of every team member happens after the
// transaction commits and never affects the committed transition.
func (s *WorkflowService) GradeProject(ctx context.Context, projectID string, req dto.GradeProjectRequest, actorCode string) (*dto.ProjectReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading payload")
	}

	project, idea, err := s.loadProjectWithIdea(ctx, projectID)
	if err != nil {
		return nil, err
	}

	calificado, err := s.catalog.Resolve(ctx, models.StatusCalificado)
	if err != nil {
		return nil, err
	}
	aprobado, err := s.catalog.Resolve(ctx, models.StatusAprobado)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	if aff := idea.Affiliation(); aff != nil {
		teams, err := s.teams.TeamsByAffiliation(ctx, *aff)
		if err != nil {
			return nil, err
		}
		for i := range teams {
			if teams[i].Active {
				team = &teams[i]
				break
			}
		}
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.moveProject(ctx, project, calificado); err != nil {
			return err
		}
		if err := s.moveIdea(ctx, idea, aprobado); err != nil {
			return err
		}
		var teamRef *string
		if team != nil {
			teamRef = &team.ID
		}
		return s.appendProjectHistory(ctx, project.ID, teamRef, calificado.ID, actorCode, req.Observation)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && team != nil {
		members, err := s.teams.Members(ctx, team.ID)
		if err != nil {
			s.logger.Warn("failed to load team members for notification", zap.Error(err))
		} else {
			s.notifier.ProjectGraded(ctx, *project, *idea, members, req.Observation)
		}
	}
	s.invalidateBank(ctx)
	s.observe("grade_project", "graded")
	return &dto.ProjectReviewResult{Message: "Proyecto calificado", Project: project}, nil
}

// ListFreeProposals returns the proposal bank: LIBRE ideas with a graded
// project, eligible for re-adoption.
func (s *WorkflowService) ListFreeProposals(ctx context.Context) ([]models.FreeProposal, error) {
	if s.cache != nil {
		if proposals, err := s.cache.Get(ctx); err == nil {
			return proposals, nil
		}
	}

	proposals, err := s.ideas.FreeProposals(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list free proposals")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, proposals); err != nil {
			s.logger.Warn("failed to cache free proposals", zap.Error(err))
		}
	}
	return proposals, nil
}

func (s *WorkflowService) loadIdea(ctx context.Context, id string) (*models.Idea, error) {
	idea, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "idea not found")
		}
		return nil, storeError(err, "failed to load idea")
	}
	return idea, nil
}

func (s *WorkflowService) loadProjectWithIdea(ctx context.Context, projectID string) (*models.Project, *models.Idea, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, nil, storeError(err, "failed to load project")
	}
	idea, err := s.loadIdea(ctx, project.IdeaID)
	if err != nil {
		return nil, nil, err
	}
	return project, idea, nil
}

func (s *WorkflowService) moveIdea(ctx context.Context, idea *models.Idea, target *models.Status) error {
	idea.StatusID = target.ID
	idea.StatusName = target.Name
	if err := s.ideas.Update(ctx, idea); err != nil {
		return storeError(err, "failed to update idea")
	}
	return nil
}

func (s *WorkflowService) moveProject(ctx context.Context, project *models.Project, target *models.Status) error {
	if err := s.projects.UpdateStatus(ctx, project.ID, target.ID); err != nil {
		return storeError(err, "failed to update project status")
	}
	project.StatusID = target.ID
	project.StatusName = target.Name
	return nil
}

func (s *WorkflowService) destroyTeams(ctx context.Context, teams []models.Team) error {
	if len(teams) == 0 {
		return nil
	}
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return s.teams.DestroyTeams(ctx, ids)
}

func (s *WorkflowService) appendIdeaHistory(ctx context.Context, ideaID, statusID, actorCode, observation string) error {
	entry := &models.IdeaHistory{
		IdeaID:      ideaID,
		StatusID:    statusID,
		UserCode:    actorCode,
		Observation: observation,
	}
	if err := s.histories.AppendIdea(ctx, entry); err != nil {
		return storeError(err, "failed to append idea history")
	}
	return nil
}

func (s *WorkflowService) appendProjectHistory(ctx context.Context, projectID string, teamID *string, statusID, actorCode, observation string) error {
	entry := &models.ProjectHistory{
		ProjectID:   projectID,
		TeamID:      teamID,
		StatusID:    statusID,
		UserCode:    actorCode,
		Observation: observation,
	}
	if err := s.histories.AppendProject(ctx, entry); err != nil {
		return storeError(err, "failed to append project history")
	}
	return nil
}

func (s *WorkflowService) invalidateBank(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *WorkflowService) observe(operation, result string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(operation, result)
	}
}

func storeError(err error, message string) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func composeObservation(action, observation string) string {
	if observation == "" {
		return fmt.Sprintf("Decisión: %s", action)
	}
	return fmt.Sprintf("Decisión: %s. %s", action, observation)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
