package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LSSLocationItem holds the schema definition for the LSSLocationItem
// entity: a single LOCATION entity belonging to a location series.
type LSSLocationItem struct {
	ent.Schema
}

// Fields of the LSSLocationItem.
func (LSSLocationItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("lss_location_item_id").
			Unique().
			Immutable(),
		field.String("lss_location_series_id").
			Immutable(),
		field.Int("ordinal").
			Immutable(),
		field.String("text").
			Immutable(),
		field.Int("start_token").
			Immutable(),
		field.Int("end_token").
			Immutable(),
	}
}

// Edges of the LSSLocationItem.
func (LSSLocationItem) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("series", LSSLocationSeries.Type).
			Ref("items").
			Field("lss_location_series_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the LSSLocationItem.
func (LSSLocationItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lss_location_series_id", "ordinal").
			Unique(),
	}
}
