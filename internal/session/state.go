package session

import (
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// State is the lifecycle position of an assessment session.
type State int

const (
	StateNotStarted State = iota // No answers, waiting for Start
	StateInProgress              // Walking the questions
	StateCompleted               // Outcome available
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Mode records where scoring happens.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Progress is the persisted form of an in-progress session.
type Progress struct {
	Kind         content.Kind
	Mode         Mode
	AssessmentID string
	Step         int
	Answers      scoring.Answers
	UpdatedAt    time.Time
}

// ResultRecord is a completed assessment handed to the store.
type ResultRecord struct {
	AssessmentID string
	Kind         content.Kind
	Mode         Mode
	Outcome      scoring.Outcome
	CompletedAt  time.Time
}

// Event actions recorded while a session runs.
const (
	ActionStart    = "start"
	ActionAnswer   = "answer"
	ActionComplete = "complete"
	ActionReset    = "reset"
)

// Event is one step of the session's audit trail.
type Event struct {
	AssessmentID string
	Kind         content.Kind
	Mode         Mode
	Action       string
	Step         int
	QuestionID   string
	Value        string
}
