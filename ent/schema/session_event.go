package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records a quiz start, finish or failed build.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping the events of one quiz"),
		field.Enum("action").
			Values("start", "finish", "fail"),
		field.String("kind").
			Default("").
			Comment("Requested question kind"),
		field.Strings("lessons").
			Optional().
			Comment("Lesson paths, JSON-encoded"),
		field.Int("question_count").
			Default(0),
		field.Int("skipped_lessons").
			Default(0).
			Comment("Lessons dropped from the build after a fetch or parse error"),
		field.Float("earned").
			Default(0),
		field.Float("available").
			Default(0),
		field.Float("score").
			Optional().
			Nillable().
			Comment("Score out of 20; NULL when no scored item was asked"),
		field.String("error_message").
			Default(""),
		field.Int("duration_secs").
			Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
