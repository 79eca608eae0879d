package config

import "time"

// QueueConfig controls how posts are polled, claimed, and processed by the
// worker pool.
type QueueConfig struct {
	// WorkerCount is the number of worker goroutines per replica.
	WorkerCount int `yaml:"worker_count"`

	// PollInterval is the base interval for checking pending ingest posts.
	PollInterval time.Duration `yaml:"poll_interval"`

	// PollIntervalJitter is the random jitter added to PollInterval.
	PollIntervalJitter time.Duration `yaml:"poll_interval_jitter"`

	// PostTimeout is the maximum time a single post's pipeline run may take.
	PostTimeout time.Duration `yaml:"post_timeout"`

	// GracefulShutdownTimeout bounds how long shutdown waits for active
	// posts to finish.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`

	// HeartbeatInterval is how often a worker refreshes last_heartbeat_at
	// on the post it is processing.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`

	// OrphanDetectionInterval is how often the pool scans for posts whose
	// heartbeat has gone stale.
	OrphanDetectionInterval time.Duration `yaml:"orphan_detection_interval"`

	// OrphanThreshold is how long a post can go without a heartbeat before
	// it is considered orphaned and marked failed.
	OrphanThreshold time.Duration `yaml:"orphan_threshold"`
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		WorkerCount:             5,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      500 * time.Millisecond,
		PostTimeout:             2 * time.Minute,
		GracefulShutdownTimeout: 2 * time.Minute,
		HeartbeatInterval:       15 * time.Second,
		OrphanDetectionInterval: 1 * time.Minute,
		OrphanThreshold:         5 * time.Minute,
	}
}
