package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/windsurf/agent-portal-service/internal/api"
	"github.com/windsurf/agent-portal-service/internal/clients"
	"github.com/windsurf/agent-portal-service/internal/config"
	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/repository"
	"github.com/windsurf/agent-portal-service/internal/services"
)

func main() {
	ctx := context.Background()

	// Initialize logging
	logger := logging.NewLogger()

	// Parse command line flags
	envFile := flag.String("env", "", "Path to .env file")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			logger.Warn("Could not load env file %s: %v", *envFile, err)
		}
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		log.Fatalf("Configuration loading failed: %v", err)
	}

	logger.Info("Starting Agent Portal Service")

	// Initialize database connection
	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer dbPool.Close()

	logger.Info("Database connected")

	// Initialize repository layer
	submissionStore := repository.NewPostgresSubmissionStore(dbPool)
	notificationStore := repository.NewPostgresNotificationStore(dbPool)

	// Initialize external clients
	proposalClient := clients.NewHTTPProposalClient(cfg.API.Origami.BaseURL, cfg.API.Origami.APIKey, cfg.Clients.Timeout)
	parserClient := clients.NewHTTPParserClient(cfg.API.RootsAI.BaseURL, cfg.API.RootsAI.APIKey, cfg.Clients.Timeout)
	notifierClient := clients.NewHTTPNotifierClient(cfg.API.AgentPortal.BaseURL, cfg.API.AgentPortal.APIKey, cfg.Clients.Timeout)

	// Initialize service layer
	dispatcher := services.NewCircuitBreakerDispatcher(
		notifierClient,
		services.NewLogFallback(logger),
		logger,
		services.BreakerSettings{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			FailureRate:      cfg.Breaker.FailureRate,
			Window:           cfg.Breaker.Window,
			Cooldown:         cfg.Breaker.Cooldown,
			MaxTrialCalls:    cfg.Breaker.MaxTrialCalls,
		},
	)
	submissionService := services.NewSubmissionService(submissionStore, proposalClient, parserClient, dispatcher, logger)
	notificationService := services.NewNotificationService(notificationStore, logger)

	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("agent-portal-service"))

	// Mount REST API handlers
	handler := api.NewHandler(submissionService, notificationService, logger)
	handler.Register(e, cfg.Security.APIKey)

	logger.Info("REST API handlers mounted")

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting on %s", addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received: %v", sig)

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error: %v", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
