package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomContext holds the schema definition for the DomContext entity: the
// dominance-resolved REGION/GROUP/DIRECTION context materialized for a
// node in a given snapshot (child wins, tightest-scope-first-seen wins
// per ctx_kind).
type DomContext struct {
	ent.Schema
}

// Fields of the DomContext.
func (DomContext) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_context_id").
			Unique().
			Immutable(),
		field.String("dom_snapshot_id").
			Immutable(),
		field.String("dom_node_id").
			Immutable(),
		field.Enum("ctx_kind").
			Values("region", "group", "direction").
			Immutable(),
		field.String("value").
			Immutable().
			Comment("Resolved region/group/direction name"),
		field.String("source_lss_context_hint_id").
			Optional().
			Nillable().
			Immutable(),
	}
}

// Edges of the DomContext.
func (DomContext) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("snapshot", DomSnapshot.Type).
			Ref("contexts").
			Field("dom_snapshot_id").
			Unique().
			Required().
			Immutable(),
		edge.From("node", DomNode.Type).
			Ref("contexts").
			Field("dom_node_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the DomContext.
func (DomContext) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_snapshot_id", "dom_node_id", "ctx_kind").
			Unique(),
	}
}
