package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/windsurf/agent-portal-service/internal/clients"
	"github.com/windsurf/agent-portal-service/internal/logging"
	"github.com/windsurf/agent-portal-service/internal/observability"
	"github.com/windsurf/agent-portal-service/internal/repository"
	"github.com/windsurf/agent-portal-service/pkg/models"
)

// Fixed label and message sent with the terminal notification.
const (
	notifyStatus  = "PROCESSED"
	notifyMessage = "Submission was successfully processed"
)

// SubmissionService orchestrates the submission pipeline: local record,
// proposal creation, document parsing, proposal enrichment, then best-effort
// notification.
type SubmissionService struct {
	store      repository.SubmissionStore
	proposals  clients.ProposalClient
	parser     clients.ParserClient
	dispatcher NotificationDispatcher
	validate   *validator.Validate
	logger     *logging.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(store repository.SubmissionStore, proposals clients.ProposalClient,
	parser clients.ParserClient, dispatcher NotificationDispatcher, logger *logging.Logger) *SubmissionService {
	return &SubmissionService{
		store:      store,
		proposals:  proposals,
		parser:     parser,
		dispatcher: dispatcher,
		validate:   validator.New(),
		logger:     logger,
	}
}

// ProcessSubmission runs the five-step pipeline for one submission. Steps are
// strictly sequential; the first dependency failure marks the record FAILED
// and stops. There is no compensation: a proposal created before a later
// failure stays orphaned in the remote system. Notification is best-effort
// and never fails the pipeline.
func (s *SubmissionService) ProcessSubmission(ctx context.Context, req *models.SubmissionRequest, document []byte) (*models.SubmissionResponse, error) {
	if len(document) == 0 {
		return nil, &ValidationError{Message: "document is empty"}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: "invalid submission request: " + err.Error()}
	}

	s.logger.Info("processing submission for email %s, user %s", req.EmailID, req.UserID)

	// Step 1: local record.
	now := time.Now().UTC()
	sub := &models.Submission{
		ID:         uuid.New().String(),
		EmailID:    req.EmailID,
		UserID:     req.UserID,
		AgentID:    req.AgentID,
		ClientName: req.ClientName,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, &PersistenceError{Op: "create submission", Err: err}
	}

	// Step 2: create the remote proposal.
	proposal, err := s.proposals.Create(ctx, &clients.ProposalCreateRequest{
		EmailID:    req.EmailID,
		AgentID:    req.AgentID,
		ClientName: req.ClientName,
	})
	if err != nil {
		return nil, s.failStep(ctx, sub, StepCreateProposal, err)
	}
	sub.ProposalID = proposal.SubmissionProposalID
	s.logger.Info("obtained proposal id %s for submission %s", sub.ProposalID, sub.ID)
	if err := s.advance(ctx, sub, models.StatusProposalCreated); err != nil {
		return nil, err
	}

	// Step 3: parse the document. The extracted data stays in memory until
	// the proposal update lands, so a stored record never carries parsed
	// data without having reached at least PARSED.
	parsed, err := s.parser.Parse(ctx, "document", document)
	if err != nil {
		return nil, s.failStep(ctx, sub, StepParseDocument, err)
	}
	s.logger.Info("parser returned request id %s for submission %s", parsed.RequestID, sub.ID)
	sub.ParsedData = parsed.ParsedData
	sub.Status = models.StatusParsed

	// Step 4: enrich the remote proposal with the parsed data.
	if _, err := s.proposals.Update(ctx, sub.ProposalID, &clients.ProposalUpdateRequest{
		SubmissionProposalID: sub.ProposalID,
		ParsedData:           sub.ParsedData,
	}); err != nil {
		return nil, s.failStep(ctx, sub, StepUpdateProposal, err)
	}
	if err := s.advance(ctx, sub, models.StatusMerged); err != nil {
		return nil, err
	}

	// Step 5: notify. Fallback or open breaker does not fail the pipeline.
	if delivered := s.dispatcher.Dispatch(ctx, req.UserID, sub.ProposalID, notifyStatus, notifyMessage); !delivered {
		s.logger.Warn("notification not delivered for submission %s, continuing", sub.ID)
	}
	if err := s.advance(ctx, sub, models.StatusNotified); err != nil {
		return nil, err
	}

	observability.SubmissionsProcessed.Add(ctx, 1)
	s.logger.Info("submission %s processed, proposal %s", sub.ID, sub.ProposalID)
	return models.SuccessResponse(sub.ProposalID), nil
}

// failStep marks the submission FAILED, persists best-effort and returns the
// step-tagged error the caller sees.
func (s *SubmissionService) failStep(ctx context.Context, sub *models.Submission, step string, cause error) error {
	s.logger.Error("submission %s failed at step %s: %v", sub.ID, step, cause)
	if err := sub.Advance(models.StatusFailed); err == nil {
		if err := s.store.Update(ctx, sub); err != nil {
			s.logger.Error("could not persist FAILED status for submission %s: %v", sub.ID, err)
		}
	}
	observability.SubmissionsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step)))
	return &ExternalServiceError{Step: step, SubmissionID: sub.ID, Err: cause}
}

func (s *SubmissionService) advance(ctx context.Context, sub *models.Submission, next models.SubmissionStatus) error {
	if err := sub.Advance(next); err != nil {
		return &PersistenceError{Op: "advance status", SubmissionID: sub.ID, Err: err}
	}
	if err := s.store.Update(ctx, sub); err != nil {
		return &PersistenceError{Op: "persist status " + string(next), SubmissionID: sub.ID, Err: err}
	}
	return nil
}

// SubmissionsByUserID returns the submissions owned by a user.
func (s *SubmissionService) SubmissionsByUserID(ctx context.Context, userID string) ([]*models.Submission, error) {
	return s.store.FindByUserID(ctx, userID)
}

// SubmissionsByAgentID returns the submissions created through an agent.
func (s *SubmissionService) SubmissionsByAgentID(ctx context.Context, agentID string) ([]*models.Submission, error) {
	return s.store.FindByAgentID(ctx, agentID)
}

// SubmissionsByStatus returns the submissions currently in a status.
func (s *SubmissionService) SubmissionsByStatus(ctx context.Context, status models.SubmissionStatus) ([]*models.Submission, error) {
	return s.store.FindByStatus(ctx, status)
}
