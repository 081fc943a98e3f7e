package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abhisek/privcheck/internal/api"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// DefaultCacheSize is the number of completed outcomes kept in memory.
const DefaultCacheSize = 1024

// Service implements the assessment lifecycle on top of a Repo.
type Service struct {
	repo    Repo
	cache   *lru.Cache[string, scoring.Outcome]
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a Service. metrics may be nil.
func NewService(repo Repo, cacheSize int, metrics *Metrics, logger *slog.Logger) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, scoring.Outcome](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create outcome cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, metrics: metrics, logger: logger, now: time.Now}, nil
}

// Start creates an assessment of kind for owner.
func (s *Service) Start(ctx context.Context, owner string, kind content.Kind) (string, error) {
	if _, err := content.ParseKind(string(kind)); err != nil {
		return "", &ValidationError{Field: "kind", Message: "must be quick or audit"}
	}
	a := Assessment{
		ID:        uuid.NewString(),
		Owner:     owner,
		Kind:      kind,
		Answers:   scoring.Answers{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return "", fmt.Errorf("create assessment: %w", err)
	}
	if s.metrics != nil {
		s.metrics.started.WithLabelValues(string(kind)).Inc()
	}
	s.logger.Info("assessment.start", "assessment_id", a.ID, "kind", string(kind), "owner", owner)
	return a.ID, nil
}

// SubmitAnswer validates req against the content bank and stores it. The
// stored score and level come from the bank, not from the request.
func (s *Service) SubmitAnswer(ctx context.Context, id string, req api.AnswerRequest) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.Completed() {
		return ErrCompleted
	}
	q, err := content.GetQuestion(a.Kind, req.QuestionID)
	if err != nil {
		return &ValidationError{Field: "questionId", Message: fmt.Sprintf("unknown question %q", req.QuestionID)}
	}
	ans, err := scoring.NewAnswer(q, req.Value)
	if err != nil {
		return &ValidationError{Field: "value", Message: fmt.Sprintf("%q is not an option of %s", req.Value, q.ID)}
	}
	if err := s.repo.SaveAnswer(ctx, id, ans, s.now().UTC()); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.answers.WithLabelValues(string(a.Kind)).Inc()
	}
	return nil
}

// Complete scores the assessment. Completing twice returns the stored
// outcome.
func (s *Service) Complete(ctx context.Context, id string) (scoring.Outcome, error) {
	if out, ok := s.cache.Get(id); ok {
		return out, nil
	}
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return scoring.Outcome{}, err
	}
	if a.Outcome != nil {
		s.cache.Add(id, *a.Outcome)
		return *a.Outcome, nil
	}

	a, err = s.repo.Complete(ctx, id, s.now().UTC(), scoring.Evaluate)
	if errors.Is(err, ErrCompleted) {
		// Lost a race with a concurrent completion; serve the winner.
		a, err = s.repo.Get(ctx, id)
		if err != nil {
			return scoring.Outcome{}, err
		}
		if a.Outcome == nil {
			return scoring.Outcome{}, fmt.Errorf("assessment %s completed without outcome", id)
		}
	} else if err != nil {
		return scoring.Outcome{}, fmt.Errorf("complete assessment: %w", err)
	} else if s.metrics != nil {
		s.metrics.completed.WithLabelValues(string(a.Kind), a.Outcome.Rating()).Inc()
	}
	out := *a.Outcome

	s.cache.Add(id, out)
	s.logger.Info("assessment.complete", "assessment_id", id, "kind", string(a.Kind),
		"answered", len(a.Answers), "percentage", out.Percentage(), "rating", out.Rating())
	return out, nil
}

// Status reports progress of an assessment.
func (s *Service) Status(ctx context.Context, id string) (api.Status, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return api.Status{}, err
	}
	st := api.Status{
		AssessmentID: a.ID,
		Kind:         a.Kind,
		Status:       api.StatusInProgress,
		Answered:     len(a.Answers),
		Total:        len(content.Questions(a.Kind)),
		CreatedAt:    a.CreatedAt,
		CompletedAt:  a.CompletedAt,
	}
	if a.Completed() {
		st.Status = api.StatusCompleted
	}
	return st, nil
}
