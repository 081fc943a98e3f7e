package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// Strategy performs the lifecycle calls of a session, either in-process
// or against the assessment service.
type Strategy interface {
	Mode() Mode
	Start(ctx context.Context, kind content.Kind) (string, error)
	Submit(ctx context.Context, assessmentID string, answer scoring.Answer) error
	Complete(ctx context.Context, assessmentID string, kind content.Kind, questions []content.Question, answers scoring.Answers) (scoring.Outcome, error)
}

// RemoteClient is the assessment service as seen by a session.
type RemoteClient interface {
	StartAssessment(ctx context.Context, kind content.Kind) (string, error)
	SubmitAnswer(ctx context.Context, assessmentID string, answer scoring.Answer) error
	CompleteAssessment(ctx context.Context, assessmentID string) (scoring.Outcome, error)
}

// Identity is the signed-in user, if any.
type Identity struct {
	UserID string
	Token  string
}

// Present reports whether the identity carries credentials.
func (id *Identity) Present() bool {
	return id != nil && (id.Token != "" || id.UserID != "")
}

// SelectStrategy picks Remote when an identity and a client are both
// available, and Local otherwise.
func SelectStrategy(id *Identity, client RemoteClient) Strategy {
	if id.Present() && client != nil {
		return Remote{Client: client}
	}
	return Local{}
}

// Local scores in-process.
type Local struct{}

func (Local) Mode() Mode { return ModeLocal }

func (Local) Start(context.Context, content.Kind) (string, error) {
	return uuid.NewString(), nil
}

func (Local) Submit(context.Context, string, scoring.Answer) error { return nil }

func (Local) Complete(_ context.Context, _ string, kind content.Kind, questions []content.Question, answers scoring.Answers) (scoring.Outcome, error) {
	return scoring.Score(kind, questions, answers), nil
}

// Remote delegates every lifecycle call to the assessment service and uses
// the outcome it returns.
type Remote struct {
	Client RemoteClient
}

func (Remote) Mode() Mode { return ModeRemote }

func (r Remote) Start(ctx context.Context, kind content.Kind) (string, error) {
	return r.Client.StartAssessment(ctx, kind)
}

func (r Remote) Submit(ctx context.Context, assessmentID string, answer scoring.Answer) error {
	return r.Client.SubmitAnswer(ctx, assessmentID, answer)
}

func (r Remote) Complete(ctx context.Context, assessmentID string, _ content.Kind, _ []content.Question, _ scoring.Answers) (scoring.Outcome, error) {
	return r.Client.CompleteAssessment(ctx, assessmentID)
}
