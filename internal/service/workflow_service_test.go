package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-dev/proyectos-api/internal/dto"
	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type fakeTx struct {
	begun     int
	committed int
	failWith  error
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.begun++
	if f.failWith != nil {
		return f.failWith
	}
	if err := fn(ctx); err != nil {
		return err
	}
	f.committed++
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) Resolve(_ context.Context, name string) (*models.Status, error) {
	return &models.Status{ID: "st-" + name, Name: name}, nil
}

type fakeIdeas struct {
	byID      map[string]*models.Idea
	updates   int
	updateErr error
	proposals []models.FreeProposal
	listErr   error
}

func newFakeIdeas(ideas ...*models.Idea) *fakeIdeas {
	f := &fakeIdeas{byID: map[string]*models.Idea{}}
	for _, idea := range ideas {
		f.byID[idea.ID] = idea
	}
	return f
}

func (f *fakeIdeas) FindByID(_ context.Context, id string) (*models.Idea, error) {
	idea, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return idea, nil
}

func (f *fakeIdeas) Update(_ context.Context, idea *models.Idea) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.byID[idea.ID] = idea
	return nil
}

func (f *fakeIdeas) FreeProposals(_ context.Context) ([]models.FreeProposal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.proposals, nil
}

type fakeProjects struct {
	byID    map[string]*models.Project
	created []*models.Project
	exists  bool
}

func newFakeProjects(projects ...*models.Project) *fakeProjects {
	f := &fakeProjects{byID: map[string]*models.Project{}}
	for _, p := range projects {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProjects) Create(_ context.Context, project *models.Project) error {
	project.ID = fmt.Sprintf("project-%d", len(f.created)+1)
	f.created = append(f.created, project)
	f.byID[project.ID] = project
	return nil
}

func (f *fakeProjects) FindByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProjects) FindByIdeaID(_ context.Context, ideaID string) (*models.Project, error) {
	for _, p := range f.byID {
		if p.IdeaID == ideaID {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProjects) ExistsForIdea(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeProjects) UpdateStatus(_ context.Context, id, statusID string) error {
	p, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.StatusID = statusID
	return nil
}

type fakeActivities struct {
	activity *models.Activity
}

func (f *fakeActivities) FindByAffiliation(_ context.Context, _ models.GroupAffiliation) (*models.Activity, error) {
	if f.activity == nil {
		return nil, sql.ErrNoRows
	}
	return f.activity, nil
}

type fakeHistories struct {
	ideaEntries    []*models.IdeaHistory
	projectEntries []*models.ProjectHistory
}

func (f *fakeHistories) AppendIdea(_ context.Context, entry *models.IdeaHistory) error {
	f.ideaEntries = append(f.ideaEntries, entry)
	return nil
}

func (f *fakeHistories) AppendProject(_ context.Context, entry *models.ProjectHistory) error {
	f.projectEntries = append(f.projectEntries, entry)
	return nil
}

type fakeGroups struct {
	exists bool
}

func (f *fakeGroups) Exists(_ context.Context, _ models.GroupAffiliation) (bool, error) {
	return f.exists, nil
}

type fakeTeams struct {
	teams       []models.Team
	leaders     map[string]string // team id -> leader code
	members     map[string][]models.TeamMember
	membership  *models.TeamMember
	destroyed   [][]string
	deactivated []string
	created     []*models.Team
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{leaders: map[string]string{}, members: map[string][]models.TeamMember{}}
}

func (f *fakeTeams) CreateTeam(_ context.Context, aff models.GroupAffiliation, leaderCode, label string) (*models.Team, error) {
	team := &models.Team{ID: fmt.Sprintf("team-%d", len(f.created)+1), Label: label, GroupAffiliation: aff, Active: true}
	f.created = append(f.created, team)
	f.leaders[team.ID] = leaderCode
	return team, nil
}

func (f *fakeTeams) TeamsByAffiliation(_ context.Context, _ models.GroupAffiliation) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeTeams) DestroyTeams(_ context.Context, teamIDs []string) error {
	f.destroyed = append(f.destroyed, teamIDs)
	return nil
}

func (f *fakeTeams) Deactivate(_ context.Context, teamID string) error {
	f.deactivated = append(f.deactivated, teamID)
	return nil
}

func (f *fakeTeams) Leader(_ context.Context, teamID, userCode string) (*models.TeamMember, error) {
	if f.leaders[teamID] == userCode {
		return &models.TeamMember{TeamID: teamID, UserCode: userCode, IsLeader: true}, nil
	}
	return nil, nil
}

func (f *fakeTeams) Members(_ context.Context, teamID string) ([]models.TeamMember, error) {
	return f.members[teamID], nil
}

func (f *fakeTeams) MembershipFor(_ context.Context, _ string, _ models.GroupAffiliation) (*models.TeamMember, error) {
	return f.membership, nil
}

type fakeProposalCache struct {
	stored       []models.FreeProposal
	hit          bool
	sets         int
	invalidation int
}

func (f *fakeProposalCache) Get(_ context.Context) ([]models.FreeProposal, error) {
	if !f.hit {
		return nil, appErrors.ErrCacheMiss
	}
	return f.stored, nil
}

func (f *fakeProposalCache) Set(_ context.Context, proposals []models.FreeProposal) error {
	f.sets++
	f.stored = proposals
	return nil
}

func (f *fakeProposalCache) Invalidate(_ context.Context) {
	f.invalidation++
}

type fakeNotifier struct {
	calls int
	last  []models.TeamMember
}

func (f *fakeNotifier) ProjectGraded(_ context.Context, _ models.Project, _ models.Idea, members []models.TeamMember, _ string) string {
	f.calls++
	f.last = members
	return "job-1"
}

type workflowHarness struct {
	svc        *WorkflowService
	tx         *fakeTx
	ideas      *fakeIdeas
	projects   *fakeProjects
	activities *fakeActivities
	histories  *fakeHistories
	groups     *fakeGroups
	teams      *fakeTeams
}

func newWorkflowHarness(opts ...WorkflowOption) *workflowHarness {
	h := &workflowHarness{
		tx:         &fakeTx{},
		ideas:      newFakeIdeas(),
		projects:   newFakeProjects(),
		activities: &fakeActivities{},
		histories:  &fakeHistories{},
		groups:     &fakeGroups{exists: true},
		teams:      newFakeTeams(),
	}
	h.svc = NewWorkflowService(h.tx, fakeCatalog{}, h.ideas, h.projects, h.activities, h.histories, h.groups, h.teams, nil, nil, opts...)
	return h
}

func ideaIn(status string, aff *models.GroupAffiliation) *models.Idea {
	idea := &models.Idea{ID: "idea-1", Title: "Plataforma de tutorías", StatusID: "st-" + status, StatusName: status}
	idea.SetAffiliation(aff)
	return idea
}

func sectionA() models.GroupAffiliation {
	return models.GroupAffiliation{SubjectCode: "ISW-301", GroupLetter: "A", Period: "2", Year: 2026}
}

func TestReviewIdeaTransitions(t *testing.T) {
	cases := []struct {
		action models.ReviewAction
		want   string
	}{
		{models.ActionAprobar, models.StatusAprobado},
		{models.ActionAprobarConObservacion, models.StatusStandBy},
		{models.ActionRechazar, models.StatusRechazado},
	}
	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			h := newWorkflowHarness()
			aff := sectionA()
			h.ideas.byID["idea-1"] = ideaIn(models.StatusRevision, &aff)

			result, err := h.svc.ReviewIdea(context.Background(), "idea-1", dto.ReviewIdeaRequest{Action: tc.action}, "docente-1")

			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Idea.StatusName)
			assert.Equal(t, 1, h.tx.committed)
			require.Len(t, h.histories.ideaEntries, 1)
			assert.Equal(t, "docente-1", h.histories.ideaEntries[0].UserCode)
		})
	}
}

func TestReviewIdeaUnknownAction(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusRevision, &aff)

	_, err := h.svc.ReviewIdea(context.Background(), "idea-1", dto.ReviewIdeaRequest{Action: "Archivar"}, "docente-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
	assert.Zero(t, h.tx.begun)
}

func TestReviewIdeaNotFound(t *testing.T) {
	h := newWorkflowHarness()

	_, err := h.svc.ReviewIdea(context.Background(), "missing", dto.ReviewIdeaRequest{Action: models.ActionAprobar}, "docente-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestReviewIdeaRollsBackHistoryWithUpdate(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusRevision, &aff)
	h.ideas.updateErr = errors.New("connection reset")

	_, err := h.svc.ReviewIdea(context.Background(), "idea-1", dto.ReviewIdeaRequest{Action: models.ActionAprobar}, "docente-1")

	require.Error(t, err)
	assert.Equal(t, 1, h.tx.begun)
	assert.Zero(t, h.tx.committed)
	assert.Empty(t, h.histories.ideaEntries)
}

func TestCreateProjectFromIdea(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusAprobado, &aff)
	h.activities.activity = &models.Activity{ID: "act-1", ScopeType: "Aula", GroupAffiliation: aff}
	h.teams.membership = &models.TeamMember{TeamID: "team-7", UserCode: "estu-1"}

	result, err := h.svc.CreateProjectFromIdea(context.Background(), "idea-1", dto.CreateProjectRequest{ResearchLine: "Ingeniería de software"}, "estu-1")

	require.NoError(t, err)
	assert.Equal(t, "Aula", result.Project.ScopeType)
	assert.Equal(t, models.StatusEnCurso, result.Project.StatusName)
	assert.Equal(t, 1, h.tx.committed)
	require.Len(t, h.histories.projectEntries, 1)
	require.NotNil(t, h.histories.projectEntries[0].TeamID)
	assert.Equal(t, "team-7", *h.histories.projectEntries[0].TeamID)
}

func TestCreateProjectRequiresApprovedIdea(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusRevision, &aff)

	_, err := h.svc.CreateProjectFromIdea(context.Background(), "idea-1", dto.CreateProjectRequest{ResearchLine: "IA"}, "estu-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
}

func TestCreateProjectRejectsDuplicate(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusAprobado, &aff)
	h.projects.exists = true

	_, err := h.svc.CreateProjectFromIdea(context.Background(), "idea-1", dto.CreateProjectRequest{ResearchLine: "IA"}, "estu-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
	assert.Empty(t, h.projects.created)
}

func TestCreateProjectRequiresActivity(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusAprobado, &aff)

	_, err := h.svc.CreateProjectFromIdea(context.Background(), "idea-1", dto.CreateProjectRequest{ResearchLine: "IA"}, "estu-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestCreateProjectRequiresTeamMembership(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusAprobado, &aff)
	h.activities.activity = &models.Activity{ID: "act-1", ScopeType: "Aula", GroupAffiliation: aff}

	_, err := h.svc.CreateProjectFromIdea(context.Background(), "idea-1", dto.CreateProjectRequest{ResearchLine: "IA"}, "estu-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, typed.Code)
}

func TestReviewProjectApproval(t *testing.T) {
	cache := &fakeProposalCache{}
	h := newWorkflowHarness(WithProposalCache(cache))
	aff := sectionA()
	idea := ideaIn(models.StatusRevision, &aff)
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusSeleccionado}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}

	result, err := h.svc.ReviewProject(context.Background(), "project-1", dto.ReviewProjectRequest{Action: models.ActionAprobar}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusEnCurso, result.Project.StatusName)
	assert.Equal(t, models.StatusAprobado, idea.StatusName)
	assert.NotNil(t, idea.Affiliation(), "approval keeps the course section")
	assert.Empty(t, h.teams.destroyed)
	assert.Zero(t, cache.invalidation)
	require.Len(t, h.histories.projectEntries, 1)
	require.NotNil(t, h.histories.projectEntries[0].TeamID)
}

func TestReviewProjectApprovalWithObservation(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	idea := ideaIn(models.StatusRevision, &aff)
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusSeleccionado}

	result, err := h.svc.ReviewProject(context.Background(), "project-1", dto.ReviewProjectRequest{
		Action:      models.ActionAprobarConObservacion,
		Observation: "Ajustar el alcance del segundo objetivo",
	}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusEnCurso, result.Project.StatusName)
	assert.Equal(t, models.StatusStandBy, idea.StatusName)
	require.Len(t, h.histories.projectEntries, 1)
	assert.Contains(t, h.histories.projectEntries[0].Observation, "Ajustar el alcance")
}

func TestReviewProjectRejectionDestroysTeams(t *testing.T) {
	cache := &fakeProposalCache{}
	h := newWorkflowHarness(WithProposalCache(cache))
	aff := sectionA()
	owner := "estu-1"
	idea := ideaIn(models.StatusRevision, &aff)
	idea.UserCode = &owner
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusSeleccionado}
	h.teams.teams = []models.Team{
		{ID: "team-1", Active: true, GroupAffiliation: aff},
		{ID: "team-2", Active: false, GroupAffiliation: aff},
	}

	result, err := h.svc.ReviewProject(context.Background(), "project-1", dto.ReviewProjectRequest{Action: models.ActionRechazar}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCalificado, result.Project.StatusName)
	assert.Equal(t, models.StatusLibre, idea.StatusName)
	assert.Nil(t, idea.UserCode)
	assert.Nil(t, idea.Affiliation())
	require.Len(t, h.teams.destroyed, 1)
	assert.ElementsMatch(t, []string{"team-1", "team-2"}, h.teams.destroyed[0])
	assert.Equal(t, 1, cache.invalidation)
	require.Len(t, h.histories.projectEntries, 1)
	assert.Nil(t, h.histories.projectEntries[0].TeamID)
}

func TestReviewProjectRejectionOfGradedKeepsIdeaApproved(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	owner := "estu-1"
	idea := ideaIn(models.StatusStandBy, &aff)
	idea.UserCode = &owner
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusCalificado}

	_, err := h.svc.ReviewProject(context.Background(), "project-1", dto.ReviewProjectRequest{Action: models.ActionRechazar}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusAprobado, idea.StatusName)
	assert.NotNil(t, idea.UserCode, "graded rejection keeps the owner")
	assert.Nil(t, idea.Affiliation())
}

func TestRejectCorrectionFromSelected(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	owner := "estu-1"
	idea := ideaIn(models.StatusStandBy, &aff)
	idea.UserCode = &owner
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusSeleccionado}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}

	result, err := h.svc.RejectCorrection(context.Background(), "project-1", "idea-1", "estu-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCalificado, result.Project.StatusName)
	assert.Equal(t, models.StatusLibre, idea.StatusName)
	assert.Nil(t, idea.UserCode)
	assert.Nil(t, idea.Affiliation())
	require.Len(t, h.teams.destroyed, 1)
	require.Len(t, h.histories.projectEntries, 1)
	assert.Nil(t, h.histories.projectEntries[0].TeamID)
}

func TestRejectCorrectionFromGraded(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	owner := "estu-1"
	idea := ideaIn(models.StatusStandBy, &aff)
	idea.UserCode = &owner
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusCalificado}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}

	_, err := h.svc.RejectCorrection(context.Background(), "project-1", "idea-1", "estu-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusAprobado, idea.StatusName)
	assert.NotNil(t, idea.UserCode)
	assert.Nil(t, idea.Affiliation())
	require.Len(t, h.teams.destroyed, 1)
}

func TestRejectCorrectionRequiresPendingState(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusStandBy, &aff)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}

	_, err := h.svc.RejectCorrection(context.Background(), "project-1", "idea-1", "estu-1")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
	assert.Zero(t, h.tx.committed)
}

func TestReleaseProjectByLeader(t *testing.T) {
	cache := &fakeProposalCache{}
	h := newWorkflowHarness(WithProposalCache(cache))
	aff := sectionA()
	owner := "estu-1"
	idea := ideaIn(models.StatusAprobado, &aff)
	idea.UserCode = &owner
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}
	h.teams.leaders["team-1"] = "estu-1"

	result, err := h.svc.ReleaseProject(context.Background(), "project-1", "estu-1")

	require.NoError(t, err)
	assert.Equal(t, "idea-1", result.IdeaID)
	assert.Equal(t, models.StatusLibre, idea.StatusName)
	assert.Nil(t, idea.UserCode)
	assert.Nil(t, idea.Affiliation())
	assert.Equal(t, []string{"team-1"}, h.teams.deactivated)
	assert.Empty(t, h.teams.destroyed, "release never hard-deletes the team")
	assert.Equal(t, 1, cache.invalidation)
	require.Len(t, h.histories.projectEntries, 1)
	require.NotNil(t, h.histories.projectEntries[0].TeamID)
	assert.Equal(t, "team-1", *h.histories.projectEntries[0].TeamID)
}

func TestReleaseProjectRejectsNonLeader(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusAprobado, &aff)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}
	h.teams.leaders["team-1"] = "estu-1"

	_, err := h.svc.ReleaseProject(context.Background(), "project-1", "estu-2")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotLeader.Code, typed.Code)
	assert.Zero(t, h.tx.begun)
	assert.Empty(t, h.teams.deactivated)
}

func TestAdoptProposal(t *testing.T) {
	cache := &fakeProposalCache{}
	h := newWorkflowHarness(WithProposalCache(cache))
	idea := ideaIn(models.StatusLibre, nil)
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusCalificado}
	target := models.GroupAffiliation{SubjectCode: "ISW-402", GroupLetter: "B", Period: "1", Year: 2027}

	result, err := h.svc.AdoptProposal(context.Background(), "project-1", "estu-9", target)

	require.NoError(t, err)
	assert.Equal(t, models.StatusSeleccionado, result.Project.StatusName)
	assert.Equal(t, models.StatusRevision, idea.StatusName)
	require.NotNil(t, idea.UserCode)
	assert.Equal(t, "estu-9", *idea.UserCode)
	require.NotNil(t, idea.Affiliation())
	assert.Equal(t, target, *idea.Affiliation())
	require.Len(t, h.teams.created, 1)
	assert.Equal(t, "estu-9", h.teams.leaders[h.teams.created[0].ID])
	assert.Equal(t, 1, cache.invalidation)
}

func TestAdoptProposalRequiresFreeIdea(t *testing.T) {
	h := newWorkflowHarness()
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusRevision, &aff)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusSeleccionado}

	_, err := h.svc.AdoptProposal(context.Background(), "project-1", "estu-9", sectionA())

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
	assert.Empty(t, h.teams.created)
}

func TestAdoptProposalUnknownGroup(t *testing.T) {
	h := newWorkflowHarness()
	h.groups.exists = false
	h.ideas.byID["idea-1"] = ideaIn(models.StatusLibre, nil)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusCalificado}

	_, err := h.svc.AdoptProposal(context.Background(), "project-1", "estu-9", sectionA())

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestContinueProjectKeepsGrade(t *testing.T) {
	h := newWorkflowHarness()
	idea := ideaIn(models.StatusAprobado, nil)
	h.ideas.byID["idea-1"] = idea
	project := &models.Project{ID: "project-1", IdeaID: "idea-1", StatusID: "st-Calificado", StatusName: models.StatusCalificado}
	h.projects.byID["project-1"] = project
	target := models.GroupAffiliation{SubjectCode: "ISW-402", GroupLetter: "B", Period: "1", Year: 2027}

	result, err := h.svc.ContinueProject(context.Background(), "project-1", "estu-9", target)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCalificado, result.Project.StatusName, "continuation keeps the grade")
	assert.Equal(t, models.StatusRevision, idea.StatusName)
	require.Len(t, h.teams.created, 1)
	require.Len(t, h.histories.projectEntries, 1)
}

func TestContinueProjectRequiresGraded(t *testing.T) {
	h := newWorkflowHarness()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusLibre, nil)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}

	_, err := h.svc.ContinueProject(context.Background(), "project-1", "estu-9", sectionA())

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
}

func TestGradeProjectNotifiesAfterCommit(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newWorkflowHarness(WithGradeNotifier(notifier))
	aff := sectionA()
	idea := ideaIn(models.StatusStandBy, &aff)
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}
	h.teams.teams = []models.Team{{ID: "team-1", Active: true, GroupAffiliation: aff}}
	h.teams.members["team-1"] = []models.TeamMember{
		{TeamID: "team-1", UserCode: "estu-1", IsLeader: true},
		{TeamID: "team-1", UserCode: "estu-2"},
	}

	result, err := h.svc.GradeProject(context.Background(), "project-1", dto.GradeProjectRequest{Observation: "Excelente ejecución"}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCalificado, result.Project.StatusName)
	assert.Equal(t, models.StatusAprobado, idea.StatusName)
	assert.Equal(t, 1, h.tx.committed)
	assert.Equal(t, 1, notifier.calls)
	assert.Len(t, notifier.last, 2)
}

func TestGradeProjectCommitSurvivesMissingTeam(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newWorkflowHarness(WithGradeNotifier(notifier))
	idea := ideaIn(models.StatusStandBy, nil)
	h.ideas.byID["idea-1"] = idea
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}

	result, err := h.svc.GradeProject(context.Background(), "project-1", dto.GradeProjectRequest{Observation: "Cierre administrativo"}, "docente-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCalificado, result.Project.StatusName)
	assert.Zero(t, notifier.calls)
}

func TestGradeProjectFailedTxSendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newWorkflowHarness(WithGradeNotifier(notifier))
	aff := sectionA()
	h.ideas.byID["idea-1"] = ideaIn(models.StatusStandBy, &aff)
	h.projects.byID["project-1"] = &models.Project{ID: "project-1", IdeaID: "idea-1", StatusName: models.StatusEnCurso}
	h.tx.failWith = errors.New("deadlock detected")

	_, err := h.svc.GradeProject(context.Background(), "project-1", dto.GradeProjectRequest{Observation: "Cierre"}, "docente-1")

	require.Error(t, err)
	assert.Zero(t, notifier.calls)
}

func TestListFreeProposalsCachesResult(t *testing.T) {
	cache := &fakeProposalCache{}
	h := newWorkflowHarness(WithProposalCache(cache))
	h.ideas.proposals = []models.FreeProposal{{Idea: models.Idea{ID: "idea-1"}, ProjectID: "project-1"}}

	first, err := h.svc.ListFreeProposals(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	cache.hit = true
	h.ideas.listErr = errors.New("database gone")
	second, err := h.svc.ListFreeProposals(context.Background())
	require.NoError(t, err, "cache hit must not touch the database")
	require.Len(t, second, 1)
}

func TestListFreeProposalsWithoutCache(t *testing.T) {
	h := newWorkflowHarness()
	h.ideas.proposals = []models.FreeProposal{{Idea: models.Idea{ID: "idea-1"}, ProjectID: "project-1"}}

	proposals, err := h.svc.ListFreeProposals(context.Background())

	require.NoError(t, err)
	assert.Len(t, proposals, 1)
}
