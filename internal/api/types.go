// Package api holds the wire types of the assessment service and the
// client used by remote sessions.
package api

import (
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// Error codes of the service's error envelope.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal_error"
)

// Assessment statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// StartRequest is the body of POST /assessments.
type StartRequest struct {
	Kind content.Kind `json:"kind"`
}

// StartResponse is returned by POST /assessments.
type StartResponse struct {
	AssessmentID string `json:"assessmentId"`
}

// AnswerRequest is the body of POST /assessments/:id/answers.
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
	Score      int    `json:"score"`
	Level      string `json:"level"`
}

// Ack acknowledges a submitted answer.
type Ack struct {
	OK bool `json:"ok"`
}

// CompleteResponse is returned by POST /assessments/:id/complete.
// Results is set for quick checks, Audit for risk audits.
type CompleteResponse struct {
	Kind       content.Kind         `json:"kind"`
	Results    *scoring.Result      `json:"results,omitempty"`
	ActionPlan []scoring.ActionItem `json:"actionPlan"`
	Audit      *scoring.AuditReport `json:"audit,omitempty"`
}

// Outcome converts the response into a scoring outcome.
func (r CompleteResponse) Outcome() scoring.Outcome {
	return scoring.Outcome{Kind: r.Kind, Result: r.Results, Audit: r.Audit}
}

// NewCompleteResponse builds the response for an outcome.
func NewCompleteResponse(o scoring.Outcome) CompleteResponse {
	resp := CompleteResponse{Kind: o.Kind, Results: o.Result, Audit: o.Audit, ActionPlan: []scoring.ActionItem{}}
	if o.Result != nil {
		resp.ActionPlan = o.Result.ActionPlan
	}
	return resp
}

// Status is returned by GET /assessments/:id.
type Status struct {
	AssessmentID string       `json:"assessmentId"`
	Kind         content.Kind `json:"kind"`
	Status       string       `json:"status"`
	Answered     int          `json:"answered"`
	Total        int          `json:"total"`
	CreatedAt    time.Time    `json:"createdAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}

// ErrorBody is the error object of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
