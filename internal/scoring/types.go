package scoring

import (
	"fmt"

	"github.com/abhisek/privcheck/internal/content"
)

// Answer is the option a user selected for a question.
type Answer struct {
	QuestionID string `json:"questionId" yaml:"questionId"`
	Value      string `json:"value" yaml:"value"`
	Score      int    `json:"score" yaml:"score"`
	Level      string `json:"level" yaml:"level"`
}

// Answers maps question IDs to answers.
type Answers map[string]Answer

// Clone returns a shallow copy of a.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// NewAnswer builds the answer for selecting value on q.
func NewAnswer(q content.Question, value string) (Answer, error) {
	o, ok := q.Option(value)
	if !ok {
		return Answer{}, fmt.Errorf("question %q has no option %q", q.ID, value)
	}
	return Answer{QuestionID: q.ID, Value: o.Value, Score: o.Score, Level: o.Level}, nil
}

// CategoryScore is the simple-variant aggregate of one category.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
}

// ActionItem is one ranked remediation suggestion.
type ActionItem struct {
	Priority int      `json:"priority"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Steps    []string `json:"steps"`
	Resource string   `json:"resource"`
}

// Result is the outcome of the simple variant.
type Result struct {
	Score      int             `json:"score"`
	MaxScore   int             `json:"maxScore"`
	Percentage int             `json:"percentage"`
	UserLevel  UserLevel       `json:"userLevel"`
	Categories []CategoryScore `json:"categories"`
	ActionPlan []ActionItem    `json:"actionPlan"`
}

// CategoryReport is the weighted-variant aggregate of one category.
type CategoryReport struct {
	Category   string `json:"category"`
	Weight     int    `json:"weight"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Percentage int    `json:"percentage"`
	Risk       Risk   `json:"risk"`
}

// Recommendation lists the remediation texts of a category at risk.
type Recommendation struct {
	Priority   int      `json:"priority"`
	Category   string   `json:"category"`
	Risk       Risk     `json:"risk"`
	Percentage int      `json:"percentage"`
	Actions    []string `json:"actions"`
}

// AuditReport is the outcome of the weighted variant.
type AuditReport struct {
	Score           int              `json:"score"`
	MaxScore        int              `json:"maxScore"`
	Percentage      int              `json:"percentage"`
	Risk            Risk             `json:"risk"`
	Categories      []CategoryReport `json:"categories"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Outcome carries whichever report the questionnaire kind produces.
// Exactly one of Result and Audit is set.
type Outcome struct {
	Kind   content.Kind `json:"kind"`
	Result *Result      `json:"result,omitempty"`
	Audit  *AuditReport `json:"audit,omitempty"`
}

// Percentage returns the headline percentage of the outcome.
func (o Outcome) Percentage() int {
	switch {
	case o.Result != nil:
		return o.Result.Percentage
	case o.Audit != nil:
		return o.Audit.Percentage
	}
	return 0
}

// Rating returns the user level or risk tier of the outcome.
func (o Outcome) Rating() string {
	switch {
	case o.Result != nil:
		return string(o.Result.UserLevel)
	case o.Audit != nil:
		return string(o.Audit.Risk)
	}
	return ""
}

// Evaluate scores answers against the embedded questionnaire of kind.
func Evaluate(kind content.Kind, answers Answers) Outcome {
	return Score(kind, content.Questions(kind), answers)
}

// Score runs the variant belonging to kind over questions.
func Score(kind content.Kind, questions []content.Question, answers Answers) Outcome {
	out := Outcome{Kind: kind}
	if kind == content.KindAudit {
		r := Audit(questions, answers)
		out.Audit = &r
	} else {
		r := Compute(questions, answers)
		out.Result = &r
	}
	return out
}
