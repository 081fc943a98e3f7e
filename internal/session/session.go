package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// Options configures a Session. All fields are optional.
type Options struct {
	// Questions overrides the embedded questionnaire of the kind.
	Questions []content.Question

	// Store persists progress and results. Nil disables persistence.
	Store Store

	// Events receives the audit trail. Nil disables it.
	Events EventSink

	Logger *slog.Logger

	// Now is the clock used for timestamps.
	Now func() time.Time
}

// Session walks a user through one questionnaire. It is safe to read from
// one goroutine while a transition runs on another; remote calls are made
// without holding the lock.
type Session struct {
	kind      content.Kind
	questions []content.Question
	strategy  Strategy
	store     Store
	events    EventSink
	logger    *slog.Logger
	now       func() time.Time

	mu           sync.RWMutex
	gen          uint64 // bumped on every committed transition
	state        State
	step         int
	answers      scoring.Answers
	assessmentID string
	outcome      *scoring.Outcome
	lastErr      error
}

// New creates a session for kind. The strategy is fixed for the session's
// lifetime.
func New(kind content.Kind, strategy Strategy, opts Options) *Session {
	if strategy == nil {
		strategy = Local{}
	}
	qs := opts.Questions
	if qs == nil {
		qs = content.Questions(kind)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		kind:      kind,
		questions: qs,
		strategy:  strategy,
		store:     opts.Store,
		events:    opts.Events,
		logger:    logger.With("component", "session", "kind", string(kind), "mode", string(strategy.Mode())),
		now:       now,
		answers:   scoring.Answers{},
	}
}

// Kind returns the questionnaire of the session.
func (s *Session) Kind() content.Kind { return s.kind }

// Mode returns where the session is scored.
func (s *Session) Mode() Mode { return s.strategy.Mode() }

// State returns the lifecycle position.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Step returns the zero-based index of the current question.
func (s *Session) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// StepCount returns the number of questions.
func (s *Session) StepCount() int { return len(s.questions) }

// AssessmentID returns the ID assigned at Start, or "".
func (s *Session) AssessmentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessmentID
}

// CurrentQuestion returns the question at the current step. ok is false
// unless the session is in progress.
func (s *Session) CurrentQuestion() (content.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateInProgress {
		return content.Question{}, false
	}
	return s.questions[s.step], true
}

// CurrentAnswer returns the recorded answer for the current step.
func (s *Session) CurrentAnswer() (scoring.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateInProgress {
		return scoring.Answer{}, false
	}
	a, ok := s.answers[s.questions[s.step].ID]
	return a, ok
}

// AnsweredCount returns how many questions have an answer.
func (s *Session) AnsweredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() scoring.Answers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Clone()
}

// Outcome returns the result once the session is completed.
func (s *Session) Outcome() *scoring.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// LastError returns the error of the last failed transition, cleared by the
// next successful one.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Start moves a not-started session to the first question. It is a no-op in
// any other state.
func (s *Session) Start(ctx context.Context) error {
	s.mu.RLock()
	state, gen := s.state, s.gen
	s.mu.RUnlock()
	if state != StateNotStarted {
		return nil
	}
	if len(s.questions) == 0 {
		return &ValidationError{Reason: "questionnaire has no questions"}
	}

	id, err := s.strategy.Start(ctx, s.kind)
	if err != nil {
		return s.fail(gen, "start", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrInterrupted
	}
	s.state = StateInProgress
	s.step = 0
	s.answers = scoring.Answers{}
	s.assessmentID = id
	s.outcome = nil
	s.lastErr = nil
	s.gen++
	p := s.progressLocked()
	s.mu.Unlock()

	s.saveProgress(ctx, p)
	s.record(ctx, Event{AssessmentID: id, Action: ActionStart})
	return nil
}

// Answer records the option with the given value for the current question,
// replacing any earlier answer.
func (s *Session) Answer(value string) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return &ValidationError{Reason: "assessment is not in progress"}
	}
	q := s.questions[s.step]
	a, err := scoring.NewAnswer(q, value)
	if err != nil {
		s.mu.Unlock()
		return &ValidationError{Step: s.step, QuestionID: q.ID, Reason: "not one of the options"}
	}
	s.answers[q.ID] = a
	s.lastErr = nil
	s.gen++
	p := s.progressLocked()
	step, id := s.step, s.assessmentID
	s.mu.Unlock()

	ctx := context.Background()
	s.saveProgress(ctx, p)
	s.record(ctx, Event{AssessmentID: id, Action: ActionAnswer, Step: step, QuestionID: q.ID, Value: a.Value})
	return nil
}

// Next advances to the following question, or completes the assessment at
// the last one. Without an answer for the current question it returns a
// *ValidationError and leaves the session unchanged. A failed remote call
// returns a *ServiceError, also leaving the session unchanged; the caller
// may retry.
func (s *Session) Next(ctx context.Context) error {
	s.mu.RLock()
	if s.state != StateInProgress {
		s.mu.RUnlock()
		return &ValidationError{Reason: "assessment is not in progress"}
	}
	gen, step, id := s.gen, s.step, s.assessmentID
	q := s.questions[step]
	a, answered := s.answers[q.ID]
	last := step == len(s.questions)-1
	var answers scoring.Answers
	if last {
		answers = s.answers.Clone()
	}
	s.mu.RUnlock()

	if !answered {
		return &ValidationError{Step: step, QuestionID: q.ID, Reason: "choose an answer first"}
	}

	if err := s.strategy.Submit(ctx, id, a); err != nil {
		return s.fail(gen, "submit", err)
	}

	if !last {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return ErrInterrupted
		}
		s.step++
		s.lastErr = nil
		s.gen++
		p := s.progressLocked()
		s.mu.Unlock()
		s.saveProgress(ctx, p)
		return nil
	}

	out, err := s.strategy.Complete(ctx, id, s.kind, s.questions, answers)
	if err != nil {
		return s.fail(gen, "complete", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrInterrupted
	}
	s.state = StateCompleted
	s.outcome = &out
	s.lastErr = nil
	s.gen++
	s.mu.Unlock()

	if s.store != nil {
		rec := ResultRecord{
			AssessmentID: id,
			Kind:         s.kind,
			Mode:         s.Mode(),
			Outcome:      out,
			CompletedAt:  s.now(),
		}
		if err := s.store.SaveResult(ctx, rec); err != nil {
			s.logger.Warn("save result failed", "assessment_id", id, "err", err)
		}
		s.clearProgress(ctx)
	}
	s.record(ctx, Event{AssessmentID: id, Action: ActionComplete, Step: step})
	return nil
}

// Previous moves back one question. It is a no-op at the first question.
func (s *Session) Previous() {
	s.mu.Lock()
	if s.state != StateInProgress || s.step == 0 {
		s.mu.Unlock()
		return
	}
	s.step--
	s.lastErr = nil
	s.gen++
	p := s.progressLocked()
	s.mu.Unlock()
	s.saveProgress(context.Background(), p)
}

// Back behaves like Previous, except at the first question where it
// abandons the assessment and discards all answers.
func (s *Session) Back(ctx context.Context) {
	s.mu.RLock()
	atStart := s.state == StateInProgress && s.step == 0
	s.mu.RUnlock()
	if atStart {
		s.Reset(ctx)
		return
	}
	s.Previous()
}

// Reset returns the session to NotStarted from any state, dropping the
// answers, the outcome and any persisted progress.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	id := s.assessmentID
	wasStarted := s.state != StateNotStarted
	s.state = StateNotStarted
	s.step = 0
	s.answers = scoring.Answers{}
	s.assessmentID = ""
	s.outcome = nil
	s.lastErr = nil
	s.gen++
	s.mu.Unlock()

	s.clearProgress(ctx)
	if wasStarted {
		s.record(ctx, Event{AssessmentID: id, Action: ActionReset})
	}
}

// Resume restores persisted progress for the session's kind and mode.
// It reports whether anything was restored. Answers that no longer match
// the questionnaire are dropped.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state != StateNotStarted {
		return false, nil
	}

	p, err := s.store.LoadProgress(ctx, s.kind, s.Mode())
	if err != nil {
		return false, err
	}
	if p == nil || p.AssessmentID == "" {
		return false, nil
	}

	answers := scoring.Answers{}
	for _, q := range s.questions {
		if a, ok := p.Answers[q.ID]; ok {
			if rebuilt, err := scoring.NewAnswer(q, a.Value); err == nil {
				answers[q.ID] = rebuilt
			}
		}
	}
	step := min(max(p.Step, 0), len(s.questions)-1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return false, nil
	}
	s.state = StateInProgress
	s.step = step
	s.answers = answers
	s.assessmentID = p.AssessmentID
	s.lastErr = nil
	s.gen++
	s.logger.Debug("resumed progress", "assessment_id", p.AssessmentID, "step", step, "answers", len(answers))
	return true, nil
}

// fail records err as the displayed error unless the session moved on in
// the meantime, and returns it wrapped as a ServiceError.
func (s *Session) fail(gen uint64, op string, err error) error {
	serr := &ServiceError{Op: op, Err: err}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrInterrupted
	}
	s.lastErr = serr
	s.logger.Warn("remote call failed", "op", op, "err", err)
	return serr
}

func (s *Session) progressLocked() Progress {
	return Progress{
		Kind:         s.kind,
		Mode:         s.strategy.Mode(),
		AssessmentID: s.assessmentID,
		Step:         s.step,
		Answers:      s.answers.Clone(),
		UpdatedAt:    s.now(),
	}
}

func (s *Session) saveProgress(ctx context.Context, p Progress) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveProgress(ctx, p); err != nil {
		s.logger.Warn("save progress failed", "err", err)
	}
}

func (s *Session) clearProgress(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.ClearProgress(ctx, s.kind, s.Mode()); err != nil {
		s.logger.Warn("clear progress failed", "err", err)
	}
}

func (s *Session) record(ctx context.Context, e Event) {
	if s.events == nil {
		return
	}
	e.Kind = s.kind
	e.Mode = s.Mode()
	if err := s.events.AppendAssessmentEvent(ctx, e); err != nil {
		s.logger.Warn("append event failed", "action", e.Action, "err", err)
	}
}
