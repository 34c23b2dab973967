package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanAdvanceTo(t *testing.T) {
	assert.True(t, StatusPending.CanAdvanceTo(StatusProposalCreated))
	assert.True(t, StatusProposalCreated.CanAdvanceTo(StatusParsed))
	assert.True(t, StatusParsed.CanAdvanceTo(StatusMerged))
	assert.True(t, StatusMerged.CanAdvanceTo(StatusNotified))

	// forward jumps are allowed, the pipeline persists MERGED directly
	assert.True(t, StatusProposalCreated.CanAdvanceTo(StatusMerged))

	// never backwards
	assert.False(t, StatusNotified.CanAdvanceTo(StatusMerged))
	assert.False(t, StatusProposalCreated.CanAdvanceTo(StatusPending))
	assert.False(t, StatusMerged.CanAdvanceTo(StatusMerged))

	// FAILED is reachable from anywhere and terminal
	assert.True(t, StatusPending.CanAdvanceTo(StatusFailed))
	assert.True(t, StatusNotified.CanAdvanceTo(StatusFailed))
	assert.False(t, StatusFailed.CanAdvanceTo(StatusPending))
	assert.False(t, StatusFailed.CanAdvanceTo(StatusFailed))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []SubmissionStatus{
		StatusPending, StatusProposalCreated, StatusParsed,
		StatusMerged, StatusNotified, StatusFailed,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, SubmissionStatus("PROCESSING").Valid())
	assert.False(t, SubmissionStatus("").Valid())
}

func TestSubmissionAdvance(t *testing.T) {
	sub := &Submission{ID: "s-1", Status: StatusPending}

	assert.NoError(t, sub.Advance(StatusProposalCreated))
	assert.Equal(t, StatusProposalCreated, sub.Status)
	assert.False(t, sub.UpdatedAt.IsZero())

	err := sub.Advance(StatusPending)
	assert.Error(t, err)
	assert.Equal(t, StatusProposalCreated, sub.Status)

	assert.NoError(t, sub.Advance(StatusFailed))
	assert.Error(t, sub.Advance(StatusNotified))
}

func TestDocumentPreservesKeyOrder(t *testing.T) {
	doc := NewDocument()
	doc.Set("zeta", "1")
	doc.Set("alpha", "2")
	doc.Set("mid", map[string]any{"x": 1})

	data, err := json.Marshal(doc)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"zeta":"1","alpha":"2","mid":{"x":1}}`, string(data))
	// order matters beyond JSONEq semantics
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":{"x":1}}`, string(data))

	round := NewDocument()
	assert.NoError(t, json.Unmarshal(data, round))
	keys := make([]string, 0, 3)
	for pair := round.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}
