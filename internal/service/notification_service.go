package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/models"
	"github.com/siga-dev/proyectos-api/pkg/jobs"
	"github.com/siga-dev/proyectos-api/pkg/mail"
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userCode string, limit int) ([]models.Notification, error)
}

type userDirectory interface {
	FindByCode(ctx context.Context, code string) (*models.User, error)
}

type notificationQueue interface {
	Enqueue(job jobs.Job) error
}

const jobTypeGradeNotification = "grade_notification"

type gradeNotificationPayload struct {
	Project     models.Project
	Idea        models.Idea
	Members     []models.TeamMember
	Observation string
}

// NotificationService fans grading notifications out to team members after
// the workflow transaction commits. Each member gets an in-app notification
// row and an email; failures for one member never block the rest, and no
// failure here touches committed workflow state.
type NotificationService struct {
	store    notificationStore
	users    userDirectory
	mailer   mail.Mailer
	queue    notificationQueue
	progress *jobs.ProgressStore
	logger   *zap.Logger
}

// NewNotificationService constructs the service. Call BuildQueue afterwards
// to obtain the worker queue; the caller starts and stops it.
func NewNotificationService(
	store notificationStore,
	users userDirectory,
	mailer mail.Mailer,
	progress *jobs.ProgressStore,
	logger *zap.Logger,
) *NotificationService {
	if mailer == nil {
		mailer = mail.NopMailer{}
	}
	if progress == nil {
		progress = jobs.NewProgressStore(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:    store,
		users:    users,
		mailer:   mailer,
		progress: progress,
		logger:   logger,
	}
}

// BuildQueue creates the worker queue bound to this service's handler and
// registers it for dispatch. The caller owns Start/Stop.
func (s *NotificationService) BuildQueue(cfg jobs.QueueConfig) *jobs.Queue {
	queue := jobs.NewQueue("notifications", s.handle, cfg)
	s.queue = queue
	return queue
}

// ProjectGraded enqueues the fan-out for a graded project and returns the
// job id clients can poll for progress. A full queue or stopped dispatcher
// only logs: the grade is already committed.
func (s *NotificationService) ProjectGraded(ctx context.Context, project models.Project, idea models.Idea, members []models.TeamMember, observation string) string {
	if s.queue == nil || len(members) == 0 {
		return ""
	}
	jobID := uuid.NewString()
	s.progress.Begin(jobID, jobTypeGradeNotification, len(members))
	err := s.queue.Enqueue(jobs.Job{
		ID:   jobID,
		Type: jobTypeGradeNotification,
		Payload: gradeNotificationPayload{
			Project:     project,
			Idea:        idea,
			Members:     members,
			Observation: observation,
		},
	})
	if err != nil {
		s.progress.Finish(jobID, jobs.ProgressFailed, "dispatch unavailable")
		s.logger.Warn("failed to enqueue grade notification",
			zap.String("project_id", project.ID),
			zap.Error(err))
		return ""
	}
	return jobID
}

// Progress returns the snapshot for a notification job.
func (s *NotificationService) Progress(jobID string) (jobs.Progress, bool) {
	return s.progress.Get(jobID)
}

// ListByUser returns a user's in-app notifications.
func (s *NotificationService) ListByUser(ctx context.Context, userCode string, limit int) ([]models.Notification, error) {
	notifications, err := s.store.ListByUser(ctx, userCode, limit)
	if err != nil {
		return nil, storeError(err, "failed to list notifications")
	}
	return notifications, nil
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(gradeNotificationPayload)
	if !ok {
		s.progress.Finish(job.ID, jobs.ProgressFailed, "malformed payload")
		return nil
	}

	subject := fmt.Sprintf("Proyecto calificado: %s", payload.Idea.Title)
	body := fmt.Sprintf("El proyecto %q ha sido calificado. Observación: %s",
		payload.Idea.Title, payload.Observation)

	failed := 0
	for _, member := range payload.Members {
		if err := s.notifyMember(ctx, member.UserCode, subject, body); err != nil {
			failed++
			s.progress.Step(job.ID, true)
			s.logger.Warn("grade notification delivery failed",
				zap.String("job_id", job.ID),
				zap.String("user_code", member.UserCode),
				zap.Error(err))
			continue
		}
		s.progress.Step(job.ID, false)
	}

	if failed == len(payload.Members) {
		s.progress.Finish(job.ID, jobs.ProgressFailed, "no member could be notified")
	} else {
		s.progress.Finish(job.ID, jobs.ProgressCompleted, "")
	}
	// Failures are recorded per member; retrying the whole job would
	// duplicate deliveries that already went through.
	return nil
}

func (s *NotificationService) notifyMember(ctx context.Context, userCode, subject, body string) error {
	if err := s.store.Create(ctx, &models.Notification{
		UserCode: userCode,
		Subject:  subject,
		Body:     body,
	}); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	user, err := s.users.FindByCode(ctx, userCode)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if user.Email == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, mail.Message{
		ToEmail: user.Email,
		ToName:  user.FullName,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
