package services

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/windsurf/agent-portal-service/internal/clients"
	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/observability"
	"github.com/windsurf/agent-portal-service/pkg/models"
)

// NotificationDispatcher sends a status update to the agent portal. The
// returned bool reports whether the notification was delivered; a dispatcher
// never fails the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID, submissionID, status, message string) bool
}

// FallbackHandler is invoked in place of the real call when the breaker is
// open or the call failed. The log-only LogFallback is the default; a
// durable-retry handler (e.g. persisting to a retry queue) can be plugged in
// here without touching the breaker.
type FallbackHandler interface {
	Handle(ctx context.Context, userID string, notification *models.NotificationRequest, cause error)
}

// LogFallback records the failed dispatch and drops the notification.
type LogFallback struct {
	logger *logging.Logger
}

// NewLogFallback creates a new LogFallback.
func NewLogFallback(logger *logging.Logger) *LogFallback {
	return &LogFallback{logger: logger}
}

// Handle logs the failure.
func (f *LogFallback) Handle(_ context.Context, userID string, notification *models.NotificationRequest, cause error) {
	f.logger.Error("notification fallback for user %s, submission %s: %v", userID, notification.SubmissionID, cause)
}

// BreakerSettings are the explicit tuning knobs for the dispatcher's circuit
// breaker.
type BreakerSettings struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// breaker, and the minimum number of calls before FailureRate applies.
	FailureThreshold uint32
	// FailureRate opens the breaker when the failure ratio within Window
	// reaches it.
	FailureRate float64
	// Window is the rolling period over which closed-state counts accumulate.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// MaxTrialCalls bounds the half-open probe budget.
	MaxTrialCalls uint32
}

// CircuitBreakerDispatcher wraps the notifier client in a circuit breaker.
// Each dispatcher owns its breaker instance and rolling counters; two
// dispatchers never share state.
type CircuitBreakerDispatcher struct {
	notifier clients.NotifierClient
	breaker  *gobreaker.CircuitBreaker[struct{}]
	fallback FallbackHandler
	logger   *logging.Logger
	now      func() time.Time
}

// NewCircuitBreakerDispatcher creates a dispatcher around the given notifier.
func NewCircuitBreakerDispatcher(notifier clients.NotifierClient, fallback FallbackHandler, logger *logging.Logger, settings BreakerSettings) *CircuitBreakerDispatcher {
	st := gobreaker.Settings{
		Name:        "notification",
		MaxRequests: settings.MaxTrialCalls,
		Interval:    settings.Window,
		Timeout:     settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= settings.FailureThreshold {
				return true
			}
			return counts.Requests >= settings.FailureThreshold &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &CircuitBreakerDispatcher{
		notifier: notifier,
		breaker:  gobreaker.NewCircuitBreaker[struct{}](st),
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch sends the notification through the breaker. It returns true when
// the notification was delivered and false when the fallback was taken; it
// never propagates an error.
func (d *CircuitBreakerDispatcher) Dispatch(ctx context.Context, userID, submissionID, status, message string) bool {
	notification := &models.NotificationRequest{
		SubmissionID: submissionID,
		Status:       status,
		Message:      message,
		Timestamp:    d.now().Format(models.TimestampLayout),
	}

	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.notifier.Notify(ctx, userID, notification)
	})
	if err != nil {
		observability.NotificationsFallback.Add(ctx, 1)
		d.fallback.Handle(ctx, userID, notification, err)
		return false
	}

	observability.NotificationsDelivered.Add(ctx, 1)
	d.logger.Info("notification delivered for user %s, submission %s", userID, submissionID)
	return true
}
