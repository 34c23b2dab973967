package services

import "fmt"

// Pipeline step names used to tag external failures.
const (
	StepCreateProposal = "create_proposal"
	StepParseDocument  = "parse_document"
	StepUpdateProposal = "update_proposal"
)

// ValidationError rejects malformed input before any external call or
// persistence happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExternalServiceError is the single failure shape the orchestrator exposes
// for steps that call a dependency. The originating step and submission id
// stay attached; the transport error is wrapped, not surfaced.
type ExternalServiceError struct {
	Step         string
	SubmissionID string
	Err          error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("submission %s failed at step %s: %v", e.SubmissionID, e.Step, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a store failure. It propagates exactly like
// ExternalServiceError: one server-error surface toward the caller.
type PersistenceError struct {
	Op           string
	SubmissionID string
	Err          error
}

func (e *PersistenceError) Error() string {
	if e.SubmissionID == "" {
		return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store operation %s failed for submission %s: %v", e.Op, e.SubmissionID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
