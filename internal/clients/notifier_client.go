package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

// HTTPNotifierClient is an HTTP implementation of the NotifierClient interface.
type HTTPNotifierClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPNotifierClient creates a new HTTPNotifierClient.
func NewHTTPNotifierClient(baseURL, apiKey string, timeout time.Duration) *HTTPNotifierClient {
	return &HTTPNotifierClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Notify delivers a status update for a user.
func (c *HTTPNotifierClient) Notify(ctx context.Context, userID string, notification *models.NotificationRequest) error {
	requestBody, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/notifyme/"+url.PathEscape(userID), bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError("notifier", resp)
	}
	return nil
}
