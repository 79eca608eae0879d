package config

import "time"

// RetentionConfig controls the cleanup service's periodic sweep of
// terminal ingest posts and their cascaded DOM/LSS rows.
type RetentionConfig struct {
	// PostRetention is how long a completed or failed ingest post is kept
	// before it becomes eligible for purge.
	PostRetention time.Duration `yaml:"post_retention"`

	// SweepInterval is how often the cleanup service runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		PostRetention: 30 * 24 * time.Hour,
		SweepInterval: 1 * time.Hour,
	}
}
