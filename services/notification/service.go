package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "servebook/database/repository/notification"
	"servebook/models"
	"servebook/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultNotificationService persists notification documents and queues
// their push delivery through asynq. Delivery itself happens in the
// background worker; this service never blocks on it.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Queue *asynq.Client
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, queue *asynq.Client) *DefaultNotificationService {
	return &DefaultNotificationService{Repo: repo, Queue: queue}
}

// Enqueue stores the notification and hands the push off to the queue.
func (s *DefaultNotificationService) Enqueue(ctx context.Context, userID, templateType string, data map[string]string) error {
	title, body := renderTemplate(templateType, data)

	doc := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      templateType,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return fmt.Errorf("enqueue notification for user %s: %w", userID, err)
	}

	task, err := tasks.NewPushTask(models.PushPayload{
		UserID: userID,
		Type:   templateType,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return fmt.Errorf("build push task for user %s: %w", userID, err)
	}
	if _, err := s.Queue.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("queue push for user %s: %w", userID, err)
	}

	zap.L().Debug("notification enqueued",
		zap.String("userId", userID),
		zap.String("type", templateType),
	)
	return nil
}

func renderTemplate(templateType string, data map[string]string) (string, string) {
	switch templateType {
	case models.NotificationBookingRequest:
		return "New booking request", "You have a new booking request waiting for your response."
	case models.NotificationBookingUpdate:
		switch models.BookingStatus(data["status"]) {
		case models.StatusAccepted:
			return "Booking accepted", "Your booking request was accepted."
		case models.StatusRejected:
			return "Booking declined", "Your booking request was declined."
		case models.StatusCompleted:
			return "Booking completed", "Your booking was marked as completed."
		case models.StatusCancelled:
			return "Booking cancelled", "A booking was cancelled by the customer."
		}
	}
	return "Booking update", "One of your bookings was updated."
}
