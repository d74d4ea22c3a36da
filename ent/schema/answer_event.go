package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records the outcome of one quiz item.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.Int("position").
			Positive().
			Comment("1-based position in the quiz"),
		field.String("kind").
			NotEmpty(),
		field.Text("question").
			Default(""),
		field.Text("learner_answer").
			Default(""),
		field.Text("expected").
			Default(""),
		field.Bool("correct").
			Default(false),
		field.Bool("skipped").
			Default(false),
		field.Float("awarded").
			Default(0),
		field.Float("max_points").
			Default(0),
		field.Bool("score_parsed").
			Default(true).
			Comment("False when an AI correction carried no readable score"),
		field.Text("feedback").
			Default("").
			Comment("Explanation or correction text, verbatim"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
