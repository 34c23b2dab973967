package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windsurf/agent-portal-service/pkg/models"
)

func TestProposalClientCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submissions", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"emailId":"agent@example.com","agentId":"agent-7","clientName":"Acme"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"submissionProposalId":"P-1","status":"CREATED","message":"ok"}`))
	}))
	defer server.Close()

	client := NewHTTPProposalClient(server.URL, "secret-key", 5*time.Second)
	resp, err := client.Create(context.Background(), &ProposalCreateRequest{
		EmailID:    "agent@example.com",
		AgentID:    "agent-7",
		ClientName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "P-1", resp.SubmissionProposalID)
	assert.Equal(t, "CREATED", resp.Status)
}

func TestProposalClientUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/submissions/P-1", r.URL.Path)
		w.Write([]byte(`{"submissionProposalId":"P-1","status":"UPDATED","message":"ok"}`))
	}))
	defer server.Close()

	doc := models.NewDocument()
	doc.Set("field", "value")

	client := NewHTTPProposalClient(server.URL, "secret-key", 5*time.Second)
	resp, err := client.Update(context.Background(), "P-1", &ProposalUpdateRequest{
		SubmissionProposalID: "P-1",
		ParsedData:           doc,
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATED", resp.Status)
}

func TestProposalClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"status":"error","message":"upstream exploded"}`))
	}))
	defer server.Close()

	client := NewHTTPProposalClient(server.URL, "secret-key", 5*time.Second)
	_, err := client.Create(context.Background(), &ProposalCreateRequest{EmailID: "a@b.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestParserClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parse", r.URL.Path)
		assert.Equal(t, "parser-key", r.Header.Get("X-API-KEY"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "acord.pdf", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, []byte("document bytes"), content)

		w.Write([]byte(`{"requestId":"req-9","status":"PARSED","parsedData":{"field":"value"},"message":"ok"}`))
	}))
	defer server.Close()

	client := NewHTTPParserClient(server.URL, "parser-key", 5*time.Second)
	resp, err := client.Parse(context.Background(), "acord.pdf", []byte("document bytes"))
	require.NoError(t, err)
	assert.Equal(t, "req-9", resp.RequestID)
	require.NotNil(t, resp.ParsedData)
	val, ok := resp.ParsedData.Get("field")
	assert.True(t, ok)
	assert.Equal(t, "value", val)
}

func TestParserClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPParserClient(server.URL, "wrong-key", 5*time.Second)
	_, err := client.Parse(context.Background(), "acord.pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNotifierClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifyme/user-1", r.URL.Path)
		assert.Equal(t, "portal-key", r.Header.Get("X-API-KEY"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"submissionId":"P-1","status":"PROCESSED","message":"done","timestamp":"2026-08-28T10:00:00"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPNotifierClient(server.URL, "portal-key", 5*time.Second)
	err := client.Notify(context.Background(), "user-1", &models.NotificationRequest{
		SubmissionID: "P-1",
		Status:       "PROCESSED",
		Message:      "done",
		Timestamp:    "2026-08-28T10:00:00",
	})
	assert.NoError(t, err)
}

func TestNotifierClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPNotifierClient(server.URL, "portal-key", 5*time.Second)
	err := client.Notify(context.Background(), "user-1", &models.NotificationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
