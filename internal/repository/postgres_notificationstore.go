package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

// PostgresNotificationStore is a PostgreSQL implementation of the
// NotificationStore interface.
type PostgresNotificationStore struct {
	db *pgxpool.Pool
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db *pgxpool.Pool) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

const notificationColumns = `id, user_id, submission_id, status, message, "timestamp", read`

// Create inserts a notification.
func (s *PostgresNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.SubmissionID, n.Status, n.Message, n.Timestamp, n.Read)
	return err
}

// Update overwrites the whole record keyed by id.
func (s *PostgresNotificationStore) Update(ctx context.Context, n *models.Notification) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET user_id = $1, submission_id = $2, status = $3, message = $4, "timestamp" = $5, read = $6 WHERE id = $7`,
		n.UserID, n.SubmissionID, n.Status, n.Message, n.Timestamp, n.Read, n.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a notification by its id.
func (s *PostgresNotificationStore) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	row := s.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// FindAll returns every notification, newest first.
func (s *PostgresNotificationStore) FindAll(ctx context.Context) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY "timestamp" DESC`)
}

// Count returns the number of notifications.
func (s *PostgresNotificationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count)
	return count, err
}

// Delete removes a notification by id.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByUserID returns a user's notifications, newest first.
func (s *PostgresNotificationStore) FindByUserID(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY "timestamp" DESC`, userID)
}

// FindBySubmissionID returns the notifications recorded for a submission.
func (s *PostgresNotificationStore) FindBySubmissionID(ctx context.Context, submissionID string) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE submission_id = $1 ORDER BY "timestamp" DESC`, submissionID)
}

// FindUnreadByUserID returns a user's unread notifications, newest first.
func (s *PostgresNotificationStore) FindUnreadByUserID(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.queryNotifications(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 AND read = FALSE ORDER BY "timestamp" DESC`, userID)
}

// MarkRead marks one notification as read.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "UPDATE notifications SET read = TRUE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read and reports how
// many records changed.
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, "UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE", userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresNotificationStore) queryNotifications(ctx context.Context, sql string, args ...any) ([]*models.Notification, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.SubmissionID, &n.Status, &n.Message, &n.Timestamp, &n.Read)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
