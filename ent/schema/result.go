package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/privcheck/internal/scoring"
)

// Result is one completed assessment in the history.
type Result struct {
	ent.Schema
}

func (Result) Fields() []ent.Field {
	return []ent.Field{
		field.String("assessment_id").
			NotEmpty(),
		field.String("kind").
			NotEmpty(),
		field.String("mode").
			NotEmpty(),
		field.Int("percentage").
			Range(0, 100).
			Comment("Headline percentage, denormalized for listing"),
		field.String("rating").
			Comment("User level or risk tier"),
		field.JSON("outcome", scoring.Outcome{}),
		field.Time("completed_at"),
	}
}

func (Result) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind", "completed_at"),
	}
}
