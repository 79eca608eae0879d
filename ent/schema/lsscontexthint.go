package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// LSSContextHint holds the schema definition for the LSSContextHint
// entity: a REGION/GROUP/DIRECTION context clue attached at some scope
// (LOCATION/SERIES/EVENT/SECTION/POST) during scoping, before the context
// lattice is finalized by Contextualize.
type LSSContextHint struct {
	ent.Schema
}

// Fields of the LSSContextHint.
func (LSSContextHint) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_context_hint_id").
			Unique().
			Immutable(),
		field.String("lss_run_id").
			Immutable(),
		field.Enum("ctx_kind").
			Values("region", "group", "direction", "post", "section", "event").
			Immutable(),
		field.String("text").
			Optional().
			Nillable().
			Immutable(),
		field.Int("start_token").
			Optional().
			Nillable().
			Immutable(),
		field.Int("end_token").
			Optional().
			Nillable().
			Immutable(),
		field.Enum("scope").
			Values("location", "series", "event", "section", "post").
			Immutable(),
		field.String("target_id").
			Optional().
			Nillable().
			Immutable().
			Comment("Ordinal of the scoped item/series/event/section depending on scope; nil for post scope"),
		field.Enum("source").
			Values("gazetteer", "holmes", "synthetic").
			Immutable(),
	}
}

// Edges of the LSSContextHint.
func (LSSContextHint) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("lss_run", LSSRun.Type).
			Ref("context_hints").
			Field("lss_run_id").
			Unique().
			Required().
			Immutable(),
	}
}
