package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin carries the ordering columns of every event table. The
// sequence is shared across tables; see store.nextSequence.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global order across all event tables"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("Unix milliseconds"),
	}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		// sequence is unique already; history filters by time.
		index.Fields("timestamp"),
	}
}
