// Package observability exposes the service's metric instruments. Counters
// are registered against the global meter provider; without a configured SDK
// they are no-ops.
package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	// SubmissionsProcessed counts pipeline runs that reached NOTIFIED.
	SubmissionsProcessed metric.Int64Counter
	// SubmissionsFailed counts pipeline runs that ended FAILED, tagged by step.
	SubmissionsFailed metric.Int64Counter
	// NotificationsDelivered counts notifications the breaker let through.
	NotificationsDelivered metric.Int64Counter
	// NotificationsFallback counts dispatches that took the fallback path.
	NotificationsFallback metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/windsurf/agent-portal-service")
	SubmissionsProcessed, _ = meter.Int64Counter("submissions.processed",
		metric.WithDescription("Submissions processed end to end"))
	SubmissionsFailed, _ = meter.Int64Counter("submissions.failed",
		metric.WithDescription("Submissions that ended in FAILED"))
	NotificationsDelivered, _ = meter.Int64Counter("notifications.delivered",
		metric.WithDescription("Notifications delivered to the agent portal"))
	NotificationsFallback, _ = meter.Int64Counter("notifications.fallback",
		metric.WithDescription("Notification dispatches that took the fallback"))
}
