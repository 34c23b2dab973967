package repository

import (
	"context"
	"errors"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence contract shared by entity stores. Update is a
// full-record overwrite keyed by the entity id; there is no partial update.
type Repository[T any, ID comparable] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id ID) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id ID) error
}

// SubmissionStore persists submissions with secondary lookups by owner,
// agent and status.
type SubmissionStore interface {
	Repository[models.Submission, string]
	FindByUserID(ctx context.Context, userID string) ([]*models.Submission, error)
	FindByAgentID(ctx context.Context, agentID string) ([]*models.Submission, error)
	FindByStatus(ctx context.Context, status models.SubmissionStatus) ([]*models.Submission, error)
}

// NotificationStore persists the notification audit log.
type NotificationStore interface {
	Repository[models.Notification, string]
	FindByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	FindBySubmissionID(ctx context.Context, submissionID string) ([]*models.Notification, error)
	FindUnreadByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
