package session

import (
	"context"
	"sync"

	"github.com/abhisek/privcheck/internal/content"
)

// Store persists session progress and completed results.
type Store interface {
	SaveProgress(ctx context.Context, p Progress) error
	LoadProgress(ctx context.Context, kind content.Kind, mode Mode) (*Progress, error)
	ClearProgress(ctx context.Context, kind content.Kind, mode Mode) error
	SaveResult(ctx context.Context, r ResultRecord) error
}

// EventSink receives the session audit trail.
type EventSink interface {
	AppendAssessmentEvent(ctx context.Context, e Event) error
}

type progressKey struct {
	kind content.Kind
	mode Mode
}

// MemoryStore is an in-memory Store and EventSink.
type MemoryStore struct {
	mu       sync.RWMutex
	progress map[progressKey]Progress
	results  []ResultRecord
	events   []Event
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{progress: make(map[progressKey]Progress)}
}

func (m *MemoryStore) SaveProgress(_ context.Context, p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Answers = p.Answers.Clone()
	m.progress[progressKey{p.Kind, p.Mode}] = p
	return nil
}

func (m *MemoryStore) LoadProgress(_ context.Context, kind content.Kind, mode Mode) (*Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[progressKey{kind, mode}]
	if !ok {
		return nil, nil
	}
	p.Answers = p.Answers.Clone()
	return &p, nil
}

func (m *MemoryStore) ClearProgress(_ context.Context, kind content.Kind, mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.progress, progressKey{kind, mode})
	return nil
}

func (m *MemoryStore) SaveResult(_ context.Context, r ResultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *MemoryStore) AppendAssessmentEvent(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Results returns the saved results, oldest first.
func (m *MemoryStore) Results() []ResultRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ResultRecord(nil), m.results...)
}

// Events returns the recorded events, oldest first.
func (m *MemoryStore) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event(nil), m.events...)
}
