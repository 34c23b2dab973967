// Package models defines the domain models for the agent portal service
package models

import (
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TimestampLayout is the wire format for notification timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// Document is an ordered key-value tree holding data whose schema is owned by
// an external service. Key order survives JSON round trips so arbitrary
// parser output is stored losslessly.
type Document = orderedmap.OrderedMap[string, any]

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return orderedmap.New[string, any]()
}

// SubmissionStatus represents where a submission is in the processing pipeline
type SubmissionStatus string

const (
	StatusPending         SubmissionStatus = "PENDING"
	StatusProposalCreated SubmissionStatus = "PROPOSAL_CREATED"
	StatusParsed          SubmissionStatus = "PARSED"
	StatusMerged          SubmissionStatus = "MERGED"
	StatusNotified        SubmissionStatus = "NOTIFIED"
	StatusFailed          SubmissionStatus = "FAILED"
)

var statusRank = map[SubmissionStatus]int{
	StatusPending:         0,
	StatusProposalCreated: 1,
	StatusParsed:          2,
	StatusMerged:          3,
	StatusNotified:        4,
}

// Valid reports whether s is one of the defined statuses.
func (s SubmissionStatus) Valid() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether a transition from s to next is legal. Status
// only moves forward along the pipeline; FAILED is reachable from any
// non-terminal status and is itself terminal.
func (s SubmissionStatus) CanAdvanceTo(next SubmissionStatus) bool {
	if s == StatusFailed {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Submission represents one document submission working its way through the
// external proposal and parsing services.
type Submission struct {
	ID         string           `json:"id" db:"id"`
	EmailID    string           `json:"emailId" db:"email_id"`
	UserID     string           `json:"userId" db:"user_id"`
	AgentID    string           `json:"agentId" db:"agent_id"`
	ClientName string           `json:"clientName" db:"client_name"`
	ProposalID string           `json:"submissionProposalId,omitempty" db:"proposal_id"`
	Status     SubmissionStatus `json:"status" db:"status"`
	ParsedData *Document        `json:"parsedData,omitempty" db:"parsed_data"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`
}

// Advance moves the submission to the next status and stamps UpdatedAt. It
// refuses illegal transitions so a bug elsewhere can't rewind the pipeline.
func (s *Submission) Advance(next SubmissionStatus) error {
	if !s.Status.CanAdvanceTo(next) {
		return fmt.Errorf("illegal status transition %s -> %s for submission %s", s.Status, next, s.ID)
	}
	s.Status = next
	s.UpdatedAt = time.Now().UTC()
	return nil
}
