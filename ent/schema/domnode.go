package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomNode holds the schema definition for the DomNode entity: one node of
// the POST -> SECTION -> EVENT -> LOCATION_SERIES -> LOCATION tree.
// Tree structure is immutable across a DomPost's snapshots, so a node
// belongs to the post rather than to any one snapshot; only its state
// (DomNodeState, DomContext, DomLocationCandidate) is snapshot-scoped and
// cloned forward on advance. Provenance back to the LSS run that produced
// it is carried as scalar fields rather than a separate provenance table,
// since a node's source is always a single LSS event plus the ordered
// section path above it.
type DomNode struct {
	ent.Schema
}

// Fields of the DomNode.
func (DomNode) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_node_id").
			Unique().
			Immutable(),
		field.String("dom_post_id").
			Immutable(),
		field.Enum("node_type").
			Values("post", "section", "event", "location_series", "location").
			Immutable(),
		field.Int("ordinal").
			Immutable(),
		field.Text("text").
			Optional().
			Nillable().
			Immutable(),
		field.String("lss_event_id").
			Optional().
			Nillable().
			Immutable().
			Comment("Originating LSS event, for EVENT/LOCATION_SERIES/LOCATION nodes"),
		field.JSON("lss_section_ids", []string{}).
			Optional().
			Immutable().
			Comment("Ordered section-id path from post root to this node"),
	}
}

// Edges of the DomNode.
func (DomNode) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("post", DomPost.Type).
			Ref("nodes").
			Field("dom_post_id").
			Unique().
			Required().
			Immutable(),
		edge.To("children", DomNode.Type).
			From("parent").
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("states", DomNodeState.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("contexts", DomContext.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("location_candidates", DomLocationCandidate.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the DomNode.
func (DomNode) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_post_id", "ordinal"),
	}
}
