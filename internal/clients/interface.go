// Package clients holds the contracts to the three external services the
// pipeline depends on: the Origami proposal system, the Roots.ai document
// parser and the agent portal notifier.
package clients

import (
	"context"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

// ProposalCreateRequest is the body for creating a proposal in Origami.
type ProposalCreateRequest struct {
	EmailID    string `json:"emailId"`
	AgentID    string `json:"agentId"`
	ClientName string `json:"clientName"`
}

// ProposalUpdateRequest enriches an existing proposal with parsed data.
type ProposalUpdateRequest struct {
	SubmissionProposalID string           `json:"submissionProposalId"`
	ParsedData           *models.Document `json:"parsedData"`
}

// ProposalResponse is returned by both Origami operations.
type ProposalResponse struct {
	SubmissionProposalID string `json:"submissionProposalId"`
	Status               string `json:"status"`
	Message              string `json:"message"`
}

// ParseResponse is returned by the Roots.ai parser.
type ParseResponse struct {
	RequestID  string           `json:"requestId"`
	Status     string           `json:"status"`
	ParsedData *models.Document `json:"parsedData"`
	Message    string           `json:"message"`
}

// ProposalClient is the contract to the Origami proposal system.
type ProposalClient interface {
	// Create creates a new proposal and returns its external id.
	Create(ctx context.Context, req *ProposalCreateRequest) (*ProposalResponse, error)
	// Update enriches the proposal identified by proposalID with parsed data.
	Update(ctx context.Context, proposalID string, req *ProposalUpdateRequest) (*ProposalResponse, error)
}

// ParserClient is the contract to the Roots.ai parsing service.
type ParserClient interface {
	// Parse submits an opaque document and returns the extracted data.
	Parse(ctx context.Context, filename string, document []byte) (*ParseResponse, error)
}

// NotifierClient is the contract to the agent portal notification webhook.
type NotifierClient interface {
	// Notify delivers a status update for a user. Fire-and-forget: the remote
	// returns no body.
	Notify(ctx context.Context, userID string, req *models.NotificationRequest) error
}
