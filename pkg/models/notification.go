package models

import "time"

// Notification is the audit record kept for every status update delivered to
// (or received on behalf of) a portal user.
type Notification struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	SubmissionID string    `json:"submissionId" db:"submission_id"`
	Status       string    `json:"status" db:"status"`
	Message      string    `json:"message" db:"message"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	Read         bool      `json:"read" db:"read"`
}
