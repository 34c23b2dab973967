// Package api contains the HTTP handlers for the agent portal service
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/repository"
	"github.com/windsurf/agent-portal-service/internal/services"
	"github.com/windsurf/agent-portal-service/pkg/models"
)

// SubmissionProcessor is the submission surface the handlers depend on.
type SubmissionProcessor interface {
	ProcessSubmission(ctx context.Context, req *models.SubmissionRequest, document []byte) (*models.SubmissionResponse, error)
	SubmissionsByUserID(ctx context.Context, userID string) ([]*models.Submission, error)
	SubmissionsByAgentID(ctx context.Context, agentID string) ([]*models.Submission, error)
	SubmissionsByStatus(ctx context.Context, status models.SubmissionStatus) ([]*models.Submission, error)
}

// NotificationManager is the notification surface the handlers depend on.
type NotificationManager interface {
	CreateNotification(ctx context.Context, userID string, req *models.NotificationRequest) (*models.Notification, error)
	NotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	UnreadNotificationsByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

// Handler contains HTTP handlers for the agent portal REST API.
type Handler struct {
	submissions   SubmissionProcessor
	notifications NotificationManager
	logger        *logging.Logger
}

// NewHandler creates a new Handler with required dependencies.
func NewHandler(submissions SubmissionProcessor, notifications NotificationManager, logger *logging.Logger) *Handler {
	return &Handler{
		submissions:   submissions,
		notifications: notifications,
		logger:        logger,
	}
}

// Register mounts all routes. The /submission group is protected by the
// inbound API key; /notifyme is the intentionally open webhook sink.
func (h *Handler) Register(e *echo.Echo, apiKey string) {
	e.GET("/health", h.HandleHealth)

	sub := e.Group("/submission", APIKeyAuth(apiKey))
	sub.POST("", h.ProcessSubmission)
	sub.GET("/user/:userId", h.SubmissionsByUser)
	sub.GET("/agent/:agentId", h.SubmissionsByAgent)
	sub.GET("/status/:status", h.SubmissionsByStatus)

	e.POST("/notifyme/:userId", h.ReceiveNotification)
	e.GET("/notifyme/:userId", h.ListNotifications)
	e.GET("/notifyme/:userId/unread", h.ListUnreadNotifications)
	e.PUT("/notifyme/read/:id", h.MarkNotificationRead)
	e.PUT("/notifyme/:userId/read-all", h.MarkAllNotificationsRead)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "agent-portal-service",
		Version:   "1.0.0",
	})
}

// ProcessSubmission accepts a multipart submission (JSON metadata part
// "request" plus document part "file") and runs it through the pipeline.
// (POST /submission)
func (h *Handler) ProcessSubmission(c echo.Context) error {
	ctx := c.Request().Context()

	metadata := c.FormValue("request")
	if metadata == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse("missing request part"))
	}
	var req models.SubmissionRequest
	if err := json.Unmarshal([]byte(metadata), &req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request part: "+err.Error()))
	}

	document, err := readDocumentPart(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse("document is empty"))
	}

	h.logger.Info("received submission request for user %s with %d document bytes", req.UserID, len(document))

	resp, err := h.submissions.ProcessSubmission(ctx, &req, document)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse(verr.Message))
		}
		// external and persistence failures share one server-error surface
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, resp)
}

func readDocumentPart(c echo.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// SubmissionsByUser returns the submissions owned by a user.
// (GET /submission/user/:userId)
func (h *Handler) SubmissionsByUser(c echo.Context) error {
	subs, err := h.submissions.SubmissionsByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, subs)
}

// SubmissionsByAgent returns the submissions created through an agent.
// (GET /submission/agent/:agentId)
func (h *Handler) SubmissionsByAgent(c echo.Context) error {
	subs, err := h.submissions.SubmissionsByAgentID(c.Request().Context(), c.Param("agentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, subs)
}

// SubmissionsByStatus returns the submissions currently in a status.
// (GET /submission/status/:status)
func (h *Handler) SubmissionsByStatus(c echo.Context) error {
	status := models.SubmissionStatus(c.Param("status"))
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status: "+c.Param("status"))
	}
	subs, err := h.submissions.SubmissionsByStatus(c.Request().Context(), status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, subs)
}

// ReceiveNotification accepts a notification for a user and records it. The
// endpoint is intentionally unauthenticated; it stands in for the agent
// portal's webhook receiver.
// (POST /notifyme/:userId)
func (h *Handler) ReceiveNotification(c echo.Context) error {
	var notification models.NotificationRequest
	if err := c.Bind(&notification); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	userID := c.Param("userId")
	h.logger.Info("received notification for user %s: submission %s, status %s",
		userID, notification.SubmissionID, notification.Status)

	if _, err := h.notifications.CreateNotification(c.Request().Context(), userID, &notification); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// ListNotifications returns all notifications for a user.
// (GET /notifyme/:userId)
func (h *Handler) ListNotifications(c echo.Context) error {
	notifications, err := h.notifications.NotificationsByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

// ListUnreadNotifications returns a user's unread notifications.
// (GET /notifyme/:userId/unread)
func (h *Handler) ListUnreadNotifications(c echo.Context) error {
	notifications, err := h.notifications.UnreadNotificationsByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one notification as read.
// (PUT /notifyme/read/:id)
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	if err := h.notifications.MarkAsRead(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// MarkAllNotificationsRead marks all of a user's notifications as read.
// (PUT /notifyme/:userId/read-all)
func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	count, err := h.notifications.MarkAllAsRead(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": count})
}
