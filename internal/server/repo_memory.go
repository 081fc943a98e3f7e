package server

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/privcheck/internal/scoring"
)

// MemoryRepo stores assessments in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Assessment
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Assessment)}
}

// Create stores the assessment.
func (r *MemoryRepo) Create(ctx context.Context, a Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Answers = a.Answers.Clone()
	r.byID[a.ID] = a
	return nil
}

// Get returns a copy of the assessment.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	a.Answers = a.Answers.Clone()
	return a, nil
}

// SaveAnswer upserts an answer.
func (r *MemoryRepo) SaveAnswer(ctx context.Context, id string, ans scoring.Answer, _ time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if a.Completed() {
		return ErrCompleted
	}
	if a.Answers == nil {
		a.Answers = scoring.Answers{}
	}
	a.Answers[ans.QuestionID] = ans
	r.byID[id] = a
	return nil
}

// Complete scores and closes the assessment under the write lock.
func (r *MemoryRepo) Complete(ctx context.Context, id string, at time.Time, score Scorer) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	if a.Completed() {
		return Assessment{}, ErrCompleted
	}
	out := score(a.Kind, a.Answers.Clone())
	a.Outcome = &out
	a.CompletedAt = &at
	r.byID[id] = a

	a.Answers = a.Answers.Clone()
	return a, nil
}
