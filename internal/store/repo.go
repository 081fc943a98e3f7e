package store

import (
	"context"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
	"github.com/abhisek/privcheck/internal/session"
)

// QueryOpts configures history and event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int          // max results (0 = unlimited)
	After  int64        // id or sequence > After
	Before int64        // id or sequence < Before
	From   time.Time    // timestamp >= From
	To     time.Time    // timestamp <= To
	Kind   content.Kind // only this questionnaire ("" = all)
}

// ResultEntry is one completed assessment in the history.
type ResultEntry struct {
	ID           int
	AssessmentID string
	Kind         content.Kind
	Mode         session.Mode
	Percentage   int
	Rating       string
	Outcome      scoring.Outcome
	CompletedAt  time.Time
}

// AssessmentEvent is a stored session transition.
type AssessmentEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	session.Event
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls of one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAssessmentEvent records a session transition.
	AppendAssessmentEvent(ctx context.Context, e session.Event) error

	// AssessmentEvents returns transitions in sequence order.
	AssessmentEvents(ctx context.Context, assessmentID string, opts QueryOpts) ([]AssessmentEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

var (
	_ session.Store     = (*Store)(nil)
	_ session.EventSink = (*Store)(nil)
	_ EventRepo         = (*eventRepo)(nil)
)
