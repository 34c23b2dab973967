package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, Schema); err != nil {
		t.Fatal(err)
	}
	return pool
}

func newTestSubmission(userID string) *models.Submission {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Submission{
		ID:         uuid.New().String(),
		EmailID:    "agent@example.com",
		UserID:     userID,
		AgentID:    "agent-7",
		ClientName: "Acme Insurance",
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestPostgresSubmissionStore(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	store := NewPostgresSubmissionStore(pool)

	t.Run("Create and FindByID", func(t *testing.T) {
		sub := newTestSubmission("user-1")
		require.NoError(t, store.Create(ctx, sub))

		retrieved, err := store.FindByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, retrieved.ID)
		assert.Equal(t, sub.EmailID, retrieved.EmailID)
		assert.Equal(t, models.StatusPending, retrieved.Status)
		assert.Nil(t, retrieved.ParsedData)
	})

	t.Run("Update overwrites whole record", func(t *testing.T) {
		sub := newTestSubmission("user-2")
		require.NoError(t, store.Create(ctx, sub))

		sub.ProposalID = "P-1"
		require.NoError(t, sub.Advance(models.StatusProposalCreated))

		doc := models.NewDocument()
		doc.Set("policyNumber", "PN-42")
		doc.Set("insured", "Acme Insurance")
		sub.ParsedData = doc
		require.NoError(t, sub.Advance(models.StatusMerged))
		require.NoError(t, store.Update(ctx, sub))

		retrieved, err := store.FindByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "P-1", retrieved.ProposalID)
		assert.Equal(t, models.StatusMerged, retrieved.Status)
		require.NotNil(t, retrieved.ParsedData)
		val, ok := retrieved.ParsedData.Get("policyNumber")
		assert.True(t, ok)
		assert.Equal(t, "PN-42", val)

		// key order survives the store round trip
		first := retrieved.ParsedData.Oldest()
		require.NotNil(t, first)
		assert.Equal(t, "policyNumber", first.Key)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		_, err := store.FindByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update not found", func(t *testing.T) {
		sub := newTestSubmission("user-x")
		assert.ErrorIs(t, store.Update(ctx, sub), ErrNotFound)
	})

	t.Run("Secondary lookups", func(t *testing.T) {
		a := newTestSubmission("finder-user")
		b := newTestSubmission("finder-user")
		b.AgentID = "agent-other"
		require.NoError(t, store.Create(ctx, a))
		require.NoError(t, store.Create(ctx, b))
		require.NoError(t, b.Advance(models.StatusFailed))
		require.NoError(t, store.Update(ctx, b))

		byUser, err := store.FindByUserID(ctx, "finder-user")
		require.NoError(t, err)
		assert.Len(t, byUser, 2)

		byAgent, err := store.FindByAgentID(ctx, "agent-other")
		require.NoError(t, err)
		require.Len(t, byAgent, 1)
		assert.Equal(t, b.ID, byAgent[0].ID)

		failed, err := store.FindByStatus(ctx, models.StatusFailed)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, b.ID, failed[0].ID)
	})

	t.Run("Count and Delete", func(t *testing.T) {
		before, err := store.Count(ctx)
		require.NoError(t, err)

		sub := newTestSubmission("count-user")
		require.NoError(t, store.Create(ctx, sub))

		after, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)

		require.NoError(t, store.Delete(ctx, sub.ID))
		assert.ErrorIs(t, store.Delete(ctx, sub.ID), ErrNotFound)
	})
}

func TestPostgresNotificationStore(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	store := NewPostgresNotificationStore(pool)

	newNotification := func(userID string) *models.Notification {
		return &models.Notification{
			ID:           uuid.New().String(),
			UserID:       userID,
			SubmissionID: "P-1",
			Status:       "PROCESSED",
			Message:      "Submission was successfully processed",
			Timestamp:    time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("Create, unread, mark read", func(t *testing.T) {
		n := newNotification("reader")
		require.NoError(t, store.Create(ctx, n))

		unread, err := store.FindUnreadByUserID(ctx, "reader")
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.False(t, unread[0].Read)

		require.NoError(t, store.MarkRead(ctx, n.ID))

		unread, err = store.FindUnreadByUserID(ctx, "reader")
		require.NoError(t, err)
		assert.Empty(t, unread)

		retrieved, err := store.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, retrieved.Read)
	})

	t.Run("MarkAllRead", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, store.Create(ctx, newNotification("bulk-reader")))
		}

		changed, err := store.MarkAllRead(ctx, "bulk-reader")
		require.NoError(t, err)
		assert.Equal(t, int64(3), changed)

		changed, err = store.MarkAllRead(ctx, "bulk-reader")
		require.NoError(t, err)
		assert.Zero(t, changed)
	})

	t.Run("FindBySubmissionID", func(t *testing.T) {
		n := newNotification("sub-reader")
		n.SubmissionID = "P-999"
		require.NoError(t, store.Create(ctx, n))

		found, err := store.FindBySubmissionID(ctx, "P-999")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, n.ID, found[0].ID)
	})

	t.Run("MarkRead not found", func(t *testing.T) {
		assert.ErrorIs(t, store.MarkRead(ctx, uuid.New().String()), ErrNotFound)
	})
}
