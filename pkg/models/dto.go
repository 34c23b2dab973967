package models

// SubmissionRequest carries the metadata part of an inbound submission.
type SubmissionRequest struct {
	EmailID    string `json:"emailId" validate:"required,email"`
	UserID     string `json:"userId" validate:"required"`
	AgentID    string `json:"agentId"`
	ClientName string `json:"clientName"`
}

// SubmissionResponse is returned to the caller of POST /submission.
type SubmissionResponse struct {
	SubmissionID string `json:"submissionId,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

// SuccessResponse builds the response for a fully processed submission. The
// returned id is the external proposal id, not the local record id.
func SuccessResponse(submissionID string) *SubmissionResponse {
	return &SubmissionResponse{
		SubmissionID: submissionID,
		Status:       "success",
		Message:      "Submission successfully processed",
	}
}

// ErrorResponse builds an error response with the given message.
func ErrorResponse(message string) *SubmissionResponse {
	return &SubmissionResponse{
		Status:  "error",
		Message: message,
	}
}

// NotificationRequest is the body sent to (and accepted from) the notifier
// endpoint. Timestamp uses TimestampLayout.
type NotificationRequest struct {
	SubmissionID string `json:"submissionId"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
}
