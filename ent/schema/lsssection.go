package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LSSSection holds the schema definition for the LSSSection entity: one
// structurally-split section of a post (heading or paragraph boundary).
type LSSSection struct {
	ent.Schema
}

// Fields of the LSSSection.
func (LSSSection) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_section_id").
			Unique().
			Immutable(),
		field.String("lss_run_id").
			Immutable(),
		field.Int("ordinal").
			Immutable(),
		field.Text("text").
			Immutable(),
		field.Int("start_char").
			Immutable(),
		field.Int("end_char").
			Immutable(),
	}
}

// Edges of the LSSSection.
func (LSSSection) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("lss_run", LSSRun.Type).
			Ref("sections").
			Field("lss_run_id").
			Unique().
			Required().
			Immutable(),
		edge.To("events", LSSEvent.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the LSSSection.
func (LSSSection) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lss_run_id", "ordinal").
			Unique(),
	}
}
