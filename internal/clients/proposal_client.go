package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const apiKeyHeader = "X-API-KEY"

// HTTPProposalClient is an HTTP implementation of the ProposalClient interface.
type HTTPProposalClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProposalClient creates a new HTTPProposalClient.
func NewHTTPProposalClient(baseURL, apiKey string, timeout time.Duration) *HTTPProposalClient {
	return &HTTPProposalClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Create creates a new proposal and returns its external id.
func (c *HTTPProposalClient) Create(ctx context.Context, req *ProposalCreateRequest) (*ProposalResponse, error) {
	return c.send(ctx, http.MethodPost, c.baseURL+"/api/submissions", req)
}

// Update enriches the proposal identified by proposalID with parsed data.
func (c *HTTPProposalClient) Update(ctx context.Context, proposalID string, req *ProposalUpdateRequest) (*ProposalResponse, error) {
	return c.send(ctx, http.MethodPut, c.baseURL+"/api/submissions/"+url.PathEscape(proposalID), req)
}

func (c *HTTPProposalClient) send(ctx context.Context, method, endpoint string, body any) (*ProposalResponse, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call proposal service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError("proposal service", resp)
	}

	var proposal ProposalResponse
	if err := json.NewDecoder(resp.Body).Decode(&proposal); err != nil {
		return nil, fmt.Errorf("failed to decode proposal response: %w", err)
	}
	return &proposal, nil
}

// remoteError turns a non-2xx response into an error carrying the remote
// status and message when the body is the usual {status, message} shape.
func remoteError(service string, resp *http.Response) error {
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return fmt.Errorf("%s returned status %d: %s", service, resp.StatusCode, body.Message)
	}
	return fmt.Errorf("%s returned status %d", service, resp.StatusCode)
}
