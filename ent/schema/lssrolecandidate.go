package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// LSSRoleCandidate holds the schema definition for the LSSRoleCandidate
// entity: an ACTOR or ACTION role extracted from an event's content words.
type LSSRoleCandidate struct {
	ent.Schema
}

// Fields of the LSSRoleCandidate.
func (LSSRoleCandidate) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_role_candidate_id").
			Unique().
			Immutable(),
		field.String("lss_event_id").
			Immutable(),
		field.Enum("kind").
			Values("actor", "action").
			Immutable(),
		field.String("text").
			Immutable(),
		field.String("document_word").
			Immutable().
			Comment("Raw matched token text, before phrase expansion"),
		field.Int("start_token").
			Immutable(),
		field.Int("end_token").
			Immutable(),
		field.String("match_type").
			Immutable().
			Comment("Upstream annotator's own classification of the matched word"),
		field.Float("similarity").
			Immutable(),
		field.Bool("negated").
			Default(false).
			Immutable(),
		field.Bool("uncertain").
			Default(false).
			Immutable(),
		field.Bool("involves_coreference").
			Default(false).
			Immutable(),
		field.Text("explanation").
			Optional().
			Nillable().
			Immutable(),
	}
}

// Edges of the LSSRoleCandidate.
func (LSSRoleCandidate) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("lss_event", LSSEvent.Type).
			Ref("role_candidates").
			Field("lss_event_id").
			Unique().
			Required().
			Immutable(),
	}
}
