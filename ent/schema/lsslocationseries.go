package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LSSLocationSeries holds the schema definition for the LSSLocationSeries
// entity: a run of comma/and/or/&-joined LOCATION entities within an
// event's window.
type LSSLocationSeries struct {
	ent.Schema
}

// Fields of the LSSLocationSeries.
func (LSSLocationSeries) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_location_series_id").
			Unique().
			Immutable(),
		field.String("lss_event_id").
			Immutable(),
		field.Int("ordinal").
			Immutable(),
	}
}

// Edges of the LSSLocationSeries.
func (LSSLocationSeries) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("lss_event", LSSEvent.Type).
			Ref("location_series").
			Field("lss_event_id").
			Unique().
			Required().
			Immutable(),
		edge.To("items", LSSLocationItem.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the LSSLocationSeries.
func (LSSLocationSeries) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lss_event_id", "ordinal").
			Unique(),
	}
}
