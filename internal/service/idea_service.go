package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/dto"
	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type ideaWriter interface {
	Create(ctx context.Context, idea *models.Idea) error
	FindByID(ctx context.Context, id string) (*models.Idea, error)
	List(ctx context.Context, filter models.IdeaFilter) ([]models.Idea, error)
}

type ideaHistoryReader interface {
	AppendIdea(ctx context.Context, entry *models.IdeaHistory) error
	ListByIdea(ctx context.Context, ideaID string) ([]models.IdeaHistory, error)
}

// IdeaService registers and reads ideas. Review decisions live in
// WorkflowService; this service only handles intake and queries.
type IdeaService struct {
	tx        txRunner
	catalog   statusResolver
	ideas     ideaWriter
	histories ideaHistoryReader
	groups    groupStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIdeaService constructs an IdeaService.
func NewIdeaService(
	tx txRunner,
	catalog statusResolver,
	ideas ideaWriter,
	histories ideaHistoryReader,
	groups groupStore,
	validate *validator.Validate,
	logger *zap.Logger,
) *IdeaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaService{
		tx:        tx,
		catalog:   catalog,
		ideas:     ideas,
		histories: histories,
		groups:    groups,
		validator: validate,
		logger:    logger,
	}
}

// Create registers a new idea in the actor's course section. The idea starts
// in REVISION and gets its first history record in the same transaction.
func (s *IdeaService) Create(ctx context.Context, req dto.CreateIdeaRequest, actorCode string) (*models.Idea, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid idea payload")
	}
	if !req.Group.Complete() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course section is incomplete")
	}
	ok, err := s.groups.Exists(ctx, req.Group)
	if err != nil {
		return nil, storeError(err, "failed to check course section")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course section not found")
	}

	revision, err := s.catalog.Resolve(ctx, models.StatusRevision)
	if err != nil {
		return nil, err
	}

	owner := actorCode
	idea := &models.Idea{
		Title:              req.Title,
		ProblemStatement:   req.ProblemStatement,
		Justification:      req.Justification,
		GeneralObjective:   req.GeneralObjective,
		SpecificObjectives: req.SpecificObjectives,
		UserCode:           &owner,
		StatusID:           revision.ID,
		StatusName:         revision.Name,
	}
	idea.SetAffiliation(&req.Group)

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ideas.Create(ctx, idea); err != nil {
			return storeError(err, "failed to create idea")
		}
		entry := &models.IdeaHistory{
			IdeaID:      idea.ID,
			StatusID:    revision.ID,
			UserCode:    actorCode,
			Observation: "Idea registrada para revisión",
		}
		if err := s.histories.AppendIdea(ctx, entry); err != nil {
			return storeError(err, "failed to append idea history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("idea registered",
		zap.String("idea_id", idea.ID),
		zap.String("user_code", actorCode))
	return idea, nil
}

// Get returns an idea with its full review trail.
func (s *IdeaService) Get(ctx context.Context, id string) (*dto.IdeaDetail, error) {
	idea, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "idea not found")
		}
		return nil, storeError(err, "failed to load idea")
	}
	history, err := s.histories.ListByIdea(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load idea history")
	}
	return &dto.IdeaDetail{Idea: idea, History: history}, nil
}

// List returns ideas matching the filter.
func (s *IdeaService) List(ctx context.Context, filter models.IdeaFilter) ([]models.Idea, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	ideas, err := s.ideas.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list ideas")
	}
	return ideas, nil
}
