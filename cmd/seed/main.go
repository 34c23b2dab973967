package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/windsurf/agent-portal-service/internal/config"
	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/repository"
	"github.com/windsurf/agent-portal-service/pkg/models"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	// 1. Apply schema
	if _, err := pool.Exec(ctx, repository.Schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("Schema applied")

	store := repository.NewPostgresSubmissionStore(pool)

	// 2. Check for existing submissions to prevent duplicates
	existing, err := store.FindByUserID(ctx, "demo-user")
	if err != nil {
		log.Fatalf("Failed to list existing submissions: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("Demo submissions already present, skipping")
		logger.Info("Seeding complete!")
		return
	}

	// 3. Create demo submissions across the status spectrum
	now := time.Now().UTC()
	seeds := []struct {
		ClientName string
		Status     models.SubmissionStatus
		ProposalID string
	}{
		{"Acme Manufacturing", models.StatusNotified, "P-1001"},
		{"Globex Logistics", models.StatusMerged, "P-1002"},
		{"Initech Holdings", models.StatusFailed, ""},
	}

	for _, s := range seeds {
		sub := &models.Submission{
			ID:         uuid.New().String(),
			EmailID:    "agent@example.com",
			UserID:     "demo-user",
			AgentID:    "demo-agent",
			ClientName: s.ClientName,
			ProposalID: s.ProposalID,
			Status:     s.Status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if s.ProposalID != "" {
			doc := models.NewDocument()
			doc.Set("insuredName", s.ClientName)
			doc.Set("policyType", "general-liability")
			sub.ParsedData = doc
		}

		if err := store.Create(ctx, sub); err != nil {
			log.Printf("Failed to seed submission for %s: %v", s.ClientName, err)
		} else {
			logger.Info("Seeded submission %s for %s", sub.ID, s.ClientName)
		}
	}
	logger.Info("Seeding complete!")
}
