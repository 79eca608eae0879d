package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// IngestPost holds the schema definition for the IngestPost entity.
// External input: immutable after ingestion, owned by ingestion and
// consumed read-only by LSS.
type IngestPost struct {
	ent.Schema
}

// Fields of the IngestPost.
func (IngestPost) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("ingest_post_id").
			Unique().
			Immutable(),
		field.String("source").
			Immutable().
			Comment("Feed or channel kind the post arrived through"),
		field.String("publisher").
			Immutable(),
		field.String("source_post_id").
			Immutable().
			Comment("Publisher-assigned identity, unique within (source, publisher)"),
		field.String("alias").
			Optional().
			Nillable().
			Immutable(),
		field.String("lang").
			Immutable().
			Comment("ISO 639-1 language code"),
		field.Time("published_at").
			Immutable(),
		field.Time("fetched_at").
			Default(time.Now).
			Immutable(),
		field.Text("text").
			Immutable(),
		field.Enum("status").
			Values("queued", "processing", "completed", "failed").
			Default("queued").
			Comment("Worker-pool pipeline status, independent of any one lss_run's status"),
		field.String("pod_id").
			Optional().
			Nillable().
			Comment("Identity of the worker pool instance currently processing this post"),
		field.Time("claimed_at").
			Optional().
			Nillable(),
		field.Time("last_heartbeat_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.String("error_message").
			Optional().
			Nillable(),
	}
}

// Edges of the IngestPost.
func (IngestPost) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("lss_runs", LSSRun.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("dom_post", DomPost.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the IngestPost.
func (IngestPost) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source", "publisher", "source_post_id").
			Unique(),
		index.Fields("status"),
	}
}
