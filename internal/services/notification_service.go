package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/repository"
	"github.com/windsurf/agent-portal-service/pkg/models"
)

// NotificationService keeps the notification audit log behind the inbound
// webhook sink: plain bookkeeping, no orchestration.
type NotificationService struct {
	store  repository.NotificationStore
	logger *logging.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store repository.NotificationStore, logger *logging.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger}
}

// CreateNotification records an inbound notification for a user. A timestamp
// that does not parse falls back to the arrival time; the sink stays
// permissive.
func (s *NotificationService) CreateNotification(ctx context.Context, userID string, req *models.NotificationRequest) (*models.Notification, error) {
	timestamp, err := time.Parse(models.TimestampLayout, req.Timestamp)
	if err != nil {
		timestamp = time.Now().UTC()
	}

	notification := &models.Notification{
		ID:           uuid.New().String(),
		UserID:       userID,
		SubmissionID: req.SubmissionID,
		Status:       req.Status,
		Message:      req.Message,
		Timestamp:    timestamp,
		Read:         false,
	}

	if err := s.store.Create(ctx, notification); err != nil {
		return nil, &PersistenceError{Op: "create notification", Err: err}
	}

	s.logger.Info("notification %s recorded for user %s, submission %s", notification.ID, userID, req.SubmissionID)
	return notification, nil
}

// NotificationsByUserID returns all notifications for a user.
func (s *NotificationService) NotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.store.FindByUserID(ctx, userID)
}

// UnreadNotificationsByUserID returns a user's unread notifications.
func (s *NotificationService) UnreadNotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.store.FindUnreadByUserID(ctx, userID)
}

// MarkAsRead marks one notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	return s.store.MarkRead(ctx, id)
}

// MarkAllAsRead marks all of a user's notifications as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("marked %d notifications as read for user %s", count, userID)
	return count, nil
}
