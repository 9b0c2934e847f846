package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/siga-dev/proyectos-api/api/swagger"
	"github.com/siga-dev/proyectos-api/internal/handler"
	"github.com/siga-dev/proyectos-api/internal/middleware"
	"github.com/siga-dev/proyectos-api/internal/repository"
	"github.com/siga-dev/proyectos-api/internal/service"
	"github.com/siga-dev/proyectos-api/pkg/cache"
	"github.com/siga-dev/proyectos-api/pkg/config"
	"github.com/siga-dev/proyectos-api/pkg/database"
	"github.com/siga-dev/proyectos-api/pkg/jobs"
	"github.com/siga-dev/proyectos-api/pkg/logger"
	"github.com/siga-dev/proyectos-api/pkg/mail"
	corsmiddleware "github.com/siga-dev/proyectos-api/pkg/middleware/cors"
	reqidmiddleware "github.com/siga-dev/proyectos-api/pkg/middleware/requestid"
)

// @title SIGA Proyectos API
// @version 1.0.0
// @description Backend for the academic project tracking workflow
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	txRunner := repository.NewTxRunner(db)
	statusRepo := repository.NewStatusRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	catalog := service.NewStatusCatalog(statusRepo, logr)
	if err := catalog.Refresh(ctx); err != nil {
		logr.Sugar().Fatalw("failed to load status catalog", "error", err)
	}

	teamLifecycle := service.NewTeamLifecycle(teamRepo, logr)

	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.Notifications.Enabled && cfg.Notifications.SendGridKey != "" {
		mailer = mail.NewSendGrid(cfg.Notifications.SendGridKey, cfg.Notifications.FromName, cfg.Notifications.FromEmail)
	}
	progress := jobs.NewProgressStore(cfg.Jobs.ProgressTTL)
	progress.StartSweeper(ctx, cfg.Jobs.SweepInterval)

	notifications := service.NewNotificationService(notificationRepo, userRepo, mailer, progress, logr)
	queue := notifications.BuildQueue(jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Jobs.QueueBufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	workflowOpts := []service.WorkflowOption{
		service.WithGradeNotifier(notifications),
	}

	metrics := service.NewMetricsService()
	workflowOpts = append(workflowOpts, service.WithTransitionMetrics(metrics))

	if cfg.Proposals.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, proposal cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			workflowOpts = append(workflowOpts,
				service.WithProposalCache(repository.NewProposalCache(redisClient, cfg.Proposals.CacheTTL, logr)))
		}
	}

	workflow := service.NewWorkflowService(
		txRunner, catalog, ideaRepo, projectRepo, activityRepo, historyRepo,
		groupRepo, teamLifecycle, validate, logr, workflowOpts...)
	ideas := service.NewIdeaService(txRunner, catalog, ideaRepo, historyRepo, groupRepo, validate, logr)
	auth := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:          auth,
		Ideas:         handler.NewIdeaHandler(ideas),
		Workflow:      handler.NewWorkflowHandler(workflow),
		Notifications: handler.NewNotificationHandler(notifications),
		Metrics:       handler.NewMetricsHandler(metrics, db),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
