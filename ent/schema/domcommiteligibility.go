package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomCommitEligibility holds the schema definition for the
// DomCommitEligibility entity: the recomputed commit verdict for one node
// of a snapshot. All rows for a snapshot are cleared and rewritten on
// every recompute.
type DomCommitEligibility struct {
	ent.Schema
}

// Fields of the DomCommitEligibility.
func (DomCommitEligibility) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_commit_eligibility_id").
			Unique().
			Immutable(),
		field.String("dom_snapshot_id").
			Immutable(),
		field.String("dom_node_id").
			Immutable(),
		field.Bool("eligible").
			Immutable(),
		field.Enum("reason").
			Values("none", "deselected", "unresolved").
			Default("none").
			Immutable(),
	}
}

// Edges of the DomCommitEligibility.
func (DomCommitEligibility) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("snapshot", DomSnapshot.Type).
			Ref("commit_eligibility").
			Field("dom_snapshot_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the DomCommitEligibility.
func (DomCommitEligibility) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_snapshot_id", "dom_node_id").
			Unique(),
	}
}
