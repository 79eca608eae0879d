package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomLocationCandidate holds the schema definition for the
// DomLocationCandidate entity: one scored gazetteer candidate for a
// LOCATION node within a given snapshot, carrying the full per-signal
// score breakdown. Snapshot-scoped like DomNodeState, since candidate
// scores are recomputed and cloned forward across the lifecycle.
type DomLocationCandidate struct {
	ent.Schema
}

// Fields of the DomLocationCandidate.
func (DomLocationCandidate) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_location_candidate_id").
			Unique().
			Immutable(),
		field.String("dom_snapshot_id").
			Immutable(),
		field.String("dom_node_id").
			Immutable(),
		field.Uint64("locale_cid").
			Immutable(),
		field.String("locale_name").
			Immutable(),
		field.Float("lat").
			Immutable(),
		field.Float("lon").
			Immutable(),
		field.JSON("scores", map[string]float64{}).
			Immutable().
			Comment("Per-signal contributions: region_match, region_neighbor, group_polygon, group_ru_group_match, proximity, direction_axis"),
		field.Float("total").
			Immutable(),
		field.Bool("discarded").
			Default(false).
			Immutable().
			Comment("Discarded by group_polygon buffer rule"),
		field.Bool("is_outlier").
			Default(false).
			Comment("Flagged by sibling-cluster outlier detection"),
		field.Bool("selected").
			Default(false).
			Comment("True for the resolved winner, if any"),
	}
}

// Edges of the DomLocationCandidate.
func (DomLocationCandidate) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("snapshot", DomSnapshot.Type).
			Ref("location_candidates").
			Field("dom_snapshot_id").
			Unique().
			Required().
			Immutable(),
		edge.From("node", DomNode.Type).
			Ref("location_candidates").
			Field("dom_node_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the DomLocationCandidate.
func (DomLocationCandidate) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_snapshot_id", "dom_node_id", "locale_cid").
			Unique(),
	}
}
