// Package server implements the assessment service: a JSON API that records
// answers and scores completed assessments with the same scoring engine the
// local client uses.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

var (
	ErrNotFound  = errors.New("assessment not found")
	ErrCompleted = errors.New("assessment already completed")
)

// ValidationError rejects a request body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Assessment is the server-side record of one assessment.
type Assessment struct {
	ID          string
	Owner       string
	Kind        content.Kind
	Answers     scoring.Answers
	Outcome     *scoring.Outcome
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Completed reports whether the assessment has an outcome.
func (a *Assessment) Completed() bool {
	return a.CompletedAt != nil
}
