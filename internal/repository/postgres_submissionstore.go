package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

// PostgresSubmissionStore is a PostgreSQL implementation of the
// SubmissionStore interface.
type PostgresSubmissionStore struct {
	db *pgxpool.Pool
}

// NewPostgresSubmissionStore creates a new PostgresSubmissionStore.
func NewPostgresSubmissionStore(db *pgxpool.Pool) *PostgresSubmissionStore {
	return &PostgresSubmissionStore{db: db}
}

const submissionColumns = "id, email_id, user_id, agent_id, client_name, proposal_id, status, parsed_data, created_at, updated_at"

// Create inserts a submission.
func (s *PostgresSubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	parsed, err := marshalParsedData(sub.ParsedData)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO submissions ("+submissionColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		sub.ID, sub.EmailID, sub.UserID, sub.AgentID, sub.ClientName, sub.ProposalID, sub.Status, parsed, sub.CreatedAt, sub.UpdatedAt)
	return err
}

// Update overwrites the whole record keyed by id.
func (s *PostgresSubmissionStore) Update(ctx context.Context, sub *models.Submission) error {
	parsed, err := marshalParsedData(sub.ParsedData)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		"UPDATE submissions SET email_id = $1, user_id = $2, agent_id = $3, client_name = $4, proposal_id = $5, status = $6, parsed_data = $7, created_at = $8, updated_at = $9 WHERE id = $10",
		sub.EmailID, sub.UserID, sub.AgentID, sub.ClientName, sub.ProposalID, sub.Status, parsed, sub.CreatedAt, sub.UpdatedAt, sub.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a submission by its id.
func (s *PostgresSubmissionStore) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	row := s.db.QueryRow(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE id = $1", id)
	sub, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sub, err
}

// FindAll returns every submission, newest first.
func (s *PostgresSubmissionStore) FindAll(ctx context.Context) ([]*models.Submission, error) {
	return s.querySubmissions(ctx, "SELECT "+submissionColumns+" FROM submissions ORDER BY created_at DESC")
}

// Count returns the number of submissions.
func (s *PostgresSubmissionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM submissions").Scan(&count)
	return count, err
}

// Delete removes a submission by id.
func (s *PostgresSubmissionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM submissions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByUserID returns the submissions owned by a user, newest first.
func (s *PostgresSubmissionStore) FindByUserID(ctx context.Context, userID string) ([]*models.Submission, error) {
	return s.querySubmissions(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE user_id = $1 ORDER BY created_at DESC", userID)
}

// FindByAgentID returns the submissions created through an agent, newest first.
func (s *PostgresSubmissionStore) FindByAgentID(ctx context.Context, agentID string) ([]*models.Submission, error) {
	return s.querySubmissions(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE agent_id = $1 ORDER BY created_at DESC", agentID)
}

// FindByStatus returns the submissions currently in the given status.
func (s *PostgresSubmissionStore) FindByStatus(ctx context.Context, status models.SubmissionStatus) ([]*models.Submission, error) {
	return s.querySubmissions(ctx, "SELECT "+submissionColumns+" FROM submissions WHERE status = $1 ORDER BY created_at DESC", status)
}

func (s *PostgresSubmissionStore) querySubmissions(ctx context.Context, sql string, args ...any) ([]*models.Submission, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var sub models.Submission
	var parsed []byte
	err := row.Scan(&sub.ID, &sub.EmailID, &sub.UserID, &sub.AgentID, &sub.ClientName,
		&sub.ProposalID, &sub.Status, &parsed, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		doc := models.NewDocument()
		if err := json.Unmarshal(parsed, doc); err != nil {
			return nil, fmt.Errorf("failed to decode parsed_data for submission %s: %w", sub.ID, err)
		}
		sub.ParsedData = doc
	}
	return &sub, nil
}

func marshalParsedData(doc *models.Document) ([]byte, error) {
	if doc == nil {
		return nil, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parsed_data: %w", err)
	}
	return data, nil
}
