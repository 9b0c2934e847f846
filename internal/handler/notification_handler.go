package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
	"github.com/siga-dev/proyectos-api/pkg/jobs"
	"github.com/siga-dev/proyectos-api/pkg/response"
)

type notificationService interface {
	ListByUser(ctx context.Context, userCode string, limit int) ([]models.Notification, error)
	Progress(jobID string) (jobs.Progress, bool)
}

// NotificationHandler exposes in-app notifications and fan-out job progress.
type NotificationHandler struct {
	notifications notificationService
}

// NewNotificationHandler constructs handler.
func NewNotificationHandler(notifications notificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	notifications, err := h.notifications.ListByUser(c.Request.Context(), actorCode(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil)
}

// JobProgress godoc
// @Summary Poll a notification fan-out job
// @Tags Notifications
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id} [get]
func (h *NotificationHandler) JobProgress(c *gin.Context) {
	progress, ok := h.notifications.Progress(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "job not found or expired"))
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}
