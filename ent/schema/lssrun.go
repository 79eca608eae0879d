package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// LSSRun holds the schema definition for the LSSRun entity: one execution
// of the linguistic-structural-scoping pipeline against an IngestPost.
type LSSRun struct {
	ent.Schema
}

// Fields of the LSSRun.
func (LSSRun) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_run_id").
			Unique().
			Immutable(),
		field.String("ingest_post_id").
			Immutable(),
		field.String("engine").
			Immutable().
			Comment("Name of the linguistic annotator that produced this run"),
		field.String("engine_version").
			Immutable(),
		field.Float("min_similarity").
			Immutable().
			Comment("Annotator match cutoff used for this run"),
		field.Enum("status").
			Values("running", "completed", "failed").
			Default("running"),
		field.String("error_message").
			Optional().
			Nillable(),
		field.Time("started_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Edges of the LSSRun.
func (LSSRun) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("ingest_post", IngestPost.Type).
			Ref("lss_runs").
			Field("ingest_post_id").
			Unique().
			Required().
			Immutable(),
		edge.To("sections", LSSSection.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("context_hints", LSSContextHint.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("dom_post", DomPost.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
