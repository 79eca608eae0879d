package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DomSnapshot holds the schema definition for the DomSnapshot entity: one
// immutable version of a DomPost's tree at a point in its lifecycle.
// Lifecycle is monotonic: CREATED -> INITIAL_REVIEW -> PROCESSED ->
// FINAL_REVIEW -> AUDIT.
type DomSnapshot struct {
	ent.Schema
}

// Fields of the DomSnapshot.
func (DomSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_snapshot_id").
			Unique().
			Immutable(),
		field.String("dom_post_id").
			Immutable(),
		field.Int("version").
			Immutable().
			Comment("Monotonically increasing per dom_post, starting at 0"),
		field.Enum("lifecycle_stage").
			Values("created", "initial_review", "processed", "final_review", "audit").
			Default("created"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the DomSnapshot.
func (DomSnapshot) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("dom_post", DomPost.Type).
			Ref("snapshots").
			Field("dom_post_id").
			Unique().
			Required().
			Immutable(),
		edge.To("node_states", DomNodeState.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("contexts", DomContext.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("location_candidates", DomLocationCandidate.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("commit_eligibility", DomCommitEligibility.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the DomSnapshot.
func (DomSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("dom_post_id", "version").
			Unique(),
	}
}
