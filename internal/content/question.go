package content

import "fmt"

// Kind identifies a questionnaire.
type Kind string

const (
	// KindQuick is the quick check, scored with the simple variant.
	KindQuick Kind = "quick"
	// KindAudit is the risk audit, scored with the weighted variant.
	KindAudit Kind = "audit"
)

// AllKinds returns all questionnaires in display order.
func AllKinds() []Kind {
	return []Kind{KindQuick, KindAudit}
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindQuick, KindAudit:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown assessment kind %q (want quick or audit)", s)
}

// KindDisplayName returns a human-readable name for a questionnaire.
func KindDisplayName(k Kind) string {
	switch k {
	case KindQuick:
		return "Privacy Quick Check"
	case KindAudit:
		return "Privacy Risk Audit"
	default:
		return string(k)
	}
}

// Option is one selectable answer of a question.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Score int    `yaml:"score" json:"score"`
	Level string `yaml:"level" json:"level"`
}

// Question is a static unit of an assessment.
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Category string   `yaml:"category" json:"category"`
	Text     string   `yaml:"text" json:"text"`
	Weight   int      `yaml:"weight,omitempty" json:"weight,omitempty"` // audit only
	Options  []Option `yaml:"options" json:"options"`
}

// Option returns the option with the given value.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// MaxOptionScore returns the highest score any option of q awards.
func (q Question) MaxOptionScore() int {
	best := 0
	for _, o := range q.Options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

// Category describes an audit category.
type Category struct {
	Name            string   `yaml:"name"`
	Weight          int      `yaml:"weight"`
	Recommendations []string `yaml:"recommendations"`
}

func (q Question) clone() Question {
	q.Options = append([]Option(nil), q.Options...)
	return q
}
