package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AssessmentEvent records one session transition.
type AssessmentEvent struct {
	ent.Schema
}

func (AssessmentEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AssessmentEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("assessment_id").
			NotEmpty(),
		field.String("kind").
			NotEmpty(),
		field.String("mode").
			NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("start, answer, complete or reset"),
		field.Int("step").
			Default(0),
		field.String("question_id").
			Default("").
			Comment("Set for answer events"),
		field.String("value").
			Default("").
			Comment("Selected option value, for answer events"),
	}
}

func (AssessmentEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("assessment_id"),
	}
}
