package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/siga-dev/proyectos-api/internal/middleware"
	"github.com/siga-dev/proyectos-api/internal/models"
	"github.com/siga-dev/proyectos-api/internal/service"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth          *service.AuthService
	Ideas         *IdeaHandler
	Workflow      *WorkflowHandler
	Notifications *NotificationHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the API under /api/v1. Review and grading endpoints
// are professor-only; progression endpoints belong to students.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group("/api/v1")
	api.Use(middleware.JWT(h.Auth))

	reviewers := middleware.RequireRoles(models.RoleProfessor, models.RoleAdmin)
	students := middleware.RequireRoles(models.RoleStudent, models.RoleAdmin)

	ideas := api.Group("/ideas")
	{
		ideas.GET("", h.Ideas.List)
		ideas.GET("/:id", h.Ideas.Get)
		ideas.POST("", students, h.Ideas.Create)
		ideas.POST("/:id/review", reviewers, h.Workflow.ReviewIdea)
		ideas.POST("/:id/project", students, h.Workflow.CreateProject)
	}

	projects := api.Group("/projects")
	{
		projects.POST("/:id/review", reviewers, h.Workflow.ReviewProject)
		projects.POST("/:id/grade", reviewers, h.Workflow.Grade)
		projects.POST("/:id/reject-correction", students, h.Workflow.RejectCorrection)
		projects.POST("/:id/release", students, h.Workflow.Release)
		projects.POST("/:id/adopt", students, h.Workflow.Adopt)
		projects.POST("/:id/continue", students, h.Workflow.Continue)
	}

	api.GET("/proposals/free", h.Workflow.FreeProposals)
	api.GET("/notifications", h.Notifications.List)
	api.GET("/jobs/:id", h.Notifications.JobProgress)
}
