package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/abhisek/privcheck/internal/scoring"
)

// Progress holds the unfinished assessment of one kind and mode, so the
// TUI can resume it.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			NotEmpty().
			Comment("quick or audit"),
		field.String("mode").
			NotEmpty().
			Comment("local or remote"),
		field.String("assessment_id").
			NotEmpty(),
		field.Int("step").
			NonNegative(),
		field.JSON("answers", scoring.Answers{}).
			Comment("Answers keyed by question ID"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Progress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind", "mode").Unique(),
	}
}
