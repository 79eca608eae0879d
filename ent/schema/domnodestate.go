package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomNodeState holds the schema definition for the DomNodeState entity:
// the per-snapshot mutable state of a node, cloned forward when a
// snapshot advances and only then mutated.
type DomNodeState struct {
	ent.Schema
}

// Fields of the DomNodeState.
func (DomNodeState) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_node_state_id").
			Unique().
			Immutable(),
		field.String("dom_snapshot_id").
			Immutable(),
		field.String("dom_node_id").
			Immutable(),
		field.Bool("selected").
			Default(true).
			Comment("False excludes the node's subtree from commit"),
		field.Text("summary").
			Default("").
			Comment("Free-text summary of the node's claim"),
		field.Bool("resolved").
			Optional().
			Nillable().
			Comment("Meaningful only for LOCATION nodes; null until scored"),
		field.String("resolution_source").
			Optional().
			Nillable().
			Comment("Name of the highest-contribution scoring signal, once resolved"),
	}
}

// Edges of the DomNodeState.
func (DomNodeState) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("snapshot", DomSnapshot.Type).
			Ref("node_states").
			Field("dom_snapshot_id").
			Unique().
			Required().
			Immutable(),
		edge.From("node", DomNode.Type).
			Ref("states").
			Field("dom_node_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the DomNodeState.
func (DomNodeState) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_snapshot_id", "dom_node_id").
			Unique(),
	}
}
