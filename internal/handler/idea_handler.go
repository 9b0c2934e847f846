package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siga-dev/proyectos-api/internal/dto"
	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
	"github.com/siga-dev/proyectos-api/pkg/response"
)

type ideaService interface {
	Create(ctx context.Context, req dto.CreateIdeaRequest, actorCode string) (*models.Idea, error)
	Get(ctx context.Context, id string) (*dto.IdeaDetail, error)
	List(ctx context.Context, filter models.IdeaFilter) ([]models.Idea, error)
}

// IdeaHandler exposes idea intake and query endpoints.
type IdeaHandler struct {
	ideas ideaService
}

// NewIdeaHandler constructs handler.
func NewIdeaHandler(ideas ideaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

// Create godoc
// @Summary Register a new idea
// @Tags Ideas
// @Accept json
// @Produce json
// @Param payload body dto.CreateIdeaRequest true "Idea payload"
// @Success 201 {object} response.Envelope
// @Router /ideas [post]
func (h *IdeaHandler) Create(c *gin.Context) {
	var req dto.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	idea, err := h.ideas.Create(c.Request.Context(), req, actorCode(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, idea)
}

// Get godoc
// @Summary Get an idea with its review trail
// @Tags Ideas
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} response.Envelope
// @Router /ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	detail, err := h.ideas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// List godoc
// @Summary List ideas
// @Tags Ideas
// @Produce json
// @Param status query string false "Filter by status name"
// @Param userCode query string false "Filter by owner"
// @Param subjectCode query string false "Course section subject"
// @Param groupLetter query string false "Course section letter"
// @Param period query string false "Course section period"
// @Param year query int false "Course section year"
// @Success 200 {object} response.Envelope
// @Router /ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	filter := models.IdeaFilter{
		Status:   c.Query("status"),
		UserCode: c.Query("userCode"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}
	if subject := c.Query("subjectCode"); subject != "" {
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must accompany a course section filter"))
			return
		}
		filter.Affiliation = &models.GroupAffiliation{
			SubjectCode: subject,
			GroupLetter: c.Query("groupLetter"),
			Period:      c.Query("period"),
			Year:        year,
		}
	}
	ideas, err := h.ideas.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ideas, nil)
}
