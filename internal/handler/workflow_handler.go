package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siga-dev/proyectos-api/internal/dto"
	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
	"github.com/siga-dev/proyectos-api/pkg/response"
)

type workflowService interface {
	ReviewIdea(ctx context.Context, ideaID string, req dto.ReviewIdeaRequest, actorCode string) (*dto.IdeaReviewResult, error)
	CreateProjectFromIdea(ctx context.Context, ideaID string, req dto.CreateProjectRequest, actorCode string) (*dto.ProjectCreated, error)
	ReviewProject(ctx context.Context, projectID string, req dto.ReviewProjectRequest, actorCode string) (*dto.ProjectReviewResult, error)
	RejectCorrection(ctx context.Context, projectID, ideaID, actorCode string) (*dto.RejectCorrectionResult, error)
	ReleaseProject(ctx context.Context, projectID, actorCode string) (*dto.ReleaseResult, error)
	AdoptProposal(ctx context.Context, projectID, actorCode string, target models.GroupAffiliation) (*dto.AdoptionResult, error)
	ContinueProject(ctx context.Context, projectID, actorCode string, target models.GroupAffiliation) (*dto.AdoptionResult, error)
	GradeProject(ctx context.Context, projectID string, req dto.GradeProjectRequest, actorCode string) (*dto.ProjectReviewResult, error)
	ListFreeProposals(ctx context.Context) ([]models.FreeProposal, error)
}

// WorkflowHandler exposes the review and progression endpoints.
type WorkflowHandler struct {
	workflow workflowService
}

// NewWorkflowHandler constructs handler.
func NewWorkflowHandler(workflow workflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// ReviewIdea godoc
// @Summary Review an idea
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Idea ID"
// @Param payload body dto.ReviewIdeaRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /ideas/{id}/review [post]
func (h *WorkflowHandler) ReviewIdea(c *gin.Context) {
	var req dto.ReviewIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.ReviewIdea(c.Request.Context(), c.Param("id"), req, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result.Idea)
}

// CreateProject godoc
// @Summary Formalize an approved idea into a project
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Idea ID"
// @Param payload body dto.CreateProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Router /ideas/{id}/project [post]
func (h *WorkflowHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.CreateProjectFromIdea(c.Request.Context(), c.Param("id"), req, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// ReviewProject godoc
// @Summary Review a project
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.ReviewProjectRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/review [post]
func (h *WorkflowHandler) ReviewProject(c *gin.Context) {
	var req dto.ReviewProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.ReviewProject(c.Request.Context(), c.Param("id"), req, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result.Project)
}

// RejectCorrection godoc
// @Summary Decline requested corrections on a project
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.RejectCorrectionRequest true "Owning idea reference"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/reject-correction [post]
func (h *WorkflowHandler) RejectCorrection(c *gin.Context) {
	var req dto.RejectCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.RejectCorrection(c.Request.Context(), c.Param("id"), req.IdeaID, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result)
}

// Release godoc
// @Summary Release a project's idea back to the proposal bank
// @Tags Workflow
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/release [post]
func (h *WorkflowHandler) Release(c *gin.Context) {
	result, err := h.workflow.ReleaseProject(c.Request.Context(), c.Param("id"), actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result)
}

// Adopt godoc
// @Summary Adopt a free proposal from the bank
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.AdoptProposalRequest true "Target course section"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/adopt [post]
func (h *WorkflowHandler) Adopt(c *gin.Context) {
	var req dto.AdoptProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.AdoptProposal(c.Request.Context(), c.Param("id"), actorCode(c), req.Group)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result)
}

// Continue godoc
// @Summary Continue a graded project in a new course section
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.AdoptProposalRequest true "Target course section"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/continue [post]
func (h *WorkflowHandler) Continue(c *gin.Context) {
	var req dto.AdoptProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.ContinueProject(c.Request.Context(), c.Param("id"), actorCode(c), req.Group)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result)
}

// Grade godoc
// @Summary Grade a project, closing its cycle
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.GradeProjectRequest true "Grading observation"
// @Success 200 {object} response.Envelope
// @Router /projects/{id}/grade [post]
func (h *WorkflowHandler) Grade(c *gin.Context) {
	var req dto.GradeProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.workflow.GradeProject(c.Request.Context(), c.Param("id"), req, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONMessage(c, http.StatusOK, result.Message, result.Project)
}

// FreeProposals godoc
// @Summary List the proposal bank
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /proposals/free [get]
func (h *WorkflowHandler) FreeProposals(c *gin.Context) {
	proposals, err := h.workflow.ListFreeProposals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals, nil)
}
