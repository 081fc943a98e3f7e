package server

import (
	"context"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// Scorer turns the answers of an assessment into its outcome.
type Scorer func(kind content.Kind, answers scoring.Answers) scoring.Outcome

// Repo persists assessments.
type Repo interface {
	Create(ctx context.Context, a Assessment) error
	Get(ctx context.Context, id string) (Assessment, error)
	// SaveAnswer upserts an answer. Returns ErrCompleted once the
	// assessment has an outcome.
	SaveAnswer(ctx context.Context, id string, a scoring.Answer, at time.Time) error
	// Complete scores the stored answers and stores the outcome in one
	// step, so no answer can land between scoring and completion. Returns
	// the completed assessment, or ErrCompleted if an outcome is stored.
	Complete(ctx context.Context, id string, at time.Time, score Scorer) (Assessment, error)
}
