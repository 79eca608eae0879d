package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes Ent's schema DSL
// cannot express directly.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_ingest_posts_text_gin
		ON ingest_posts USING gin(to_tsvector('simple', text))`)
	if err != nil {
		return fmt.Errorf("failed to create ingest_posts text GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_lss_events_text_gin
		ON lss_events USING gin(to_tsvector('simple', text))`)
	if err != nil {
		return fmt.Errorf("failed to create lss_events text GIN index: %w", err)
	}

	return nil
}
