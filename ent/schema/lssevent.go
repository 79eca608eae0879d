package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LSSEvent holds the schema definition for the LSSEvent entity: a
// sentence-bounded event window that survived the P1 structural-validity
// filter (at least one role candidate and one location series).
type LSSEvent struct {
	ent.Schema
}

// Fields of the LSSEvent.
func (LSSEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_event_id").
			Unique().
			Immutable(),
		field.String("lss_section_id").
			Immutable(),
		field.Int("ordinal").
			Immutable(),
		field.String("label").
			Immutable().
			Comment("Matched event pattern label"),
		field.String("search_phrase").
			Optional().
			Nillable().
			Immutable(),
		field.Text("text").
			Immutable(),
		field.Int("start_token").
			Immutable(),
		field.Int("end_token").
			Immutable(),
		field.Float("similarity").
			Immutable(),
		field.Bool("negated").
			Default(false).
			Immutable(),
		field.Bool("uncertain").
			Default(false).
			Immutable(),
		field.Bool("involves_coreference").
			Default(false).
			Immutable(),
	}
}

// Edges of the LSSEvent.
func (LSSEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("lss_section", LSSSection.Type).
			Ref("events").
			Field("lss_section_id").
			Unique().
			Required().
			Immutable(),
		edge.To("role_candidates", LSSRoleCandidate.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("location_series", LSSLocationSeries.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the LSSEvent.
func (LSSEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lss_section_id", "ordinal").
			Unique(),
	}
}
