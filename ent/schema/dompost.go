package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// DomPost holds the schema definition for the DomPost entity: the root of
// a post's snapshot-versioned DOM tree. ingest_post_id and lss_run_id are
// each unique, so there is at most one per ingest post (whichever run it
// came from) and at most one per LSS run.
type DomPost struct {
	ent.Schema
}

// Fields of the DomPost.
func (DomPost) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("dom_post_id").
			Unique().
			Immutable(),
		field.String("ingest_post_id").
			Unique().
			Immutable(),
		field.String("lss_run_id").
			Unique().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the DomPost.
func (DomPost) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("ingest_post", IngestPost.Type).
			Ref("dom_post").
			Field("ingest_post_id").
			Unique().
			Required().
			Immutable(),
		edge.From("lss_run", LSSRun.Type).
			Ref("dom_post").
			Field("lss_run_id").
			Unique().
			Required().
			Immutable(),
		edge.To("snapshots", DomSnapshot.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("nodes", DomNode.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
