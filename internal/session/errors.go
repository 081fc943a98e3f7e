package session

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned when the session was moved by another call
// while a remote request was pending. The result of that request is dropped.
var ErrInterrupted = errors.New("session changed while request was pending")

// ValidationError means a transition was refused. The session is unchanged.
type ValidationError struct {
	Step       int
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return e.Reason
	}
	return fmt.Sprintf("question %d (%s): %s", e.Step+1, e.QuestionID, e.Reason)
}

// ServiceError wraps a failure of the remote assessment service.
type ServiceError struct {
	Op  string // start, submit or complete
	Err error
}

func (e *ServiceError) Error() string {
	var verb string
	switch e.Op {
	case "start":
		verb = "start the assessment"
	case "submit":
		verb = "save your answer"
	case "complete":
		verb = "finish the assessment"
	default:
		verb = e.Op
	}
	return fmt.Sprintf("could not %s: %v", verb, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
