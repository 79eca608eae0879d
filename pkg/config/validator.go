package config

import "fmt"

// validate checks cross-field and range invariants that yaml tags alone
// can't express.
func validate(cfg *Config) error {
	if cfg.Defaults.MinSimilarity < 0 || cfg.Defaults.MinSimilarity > 1 {
		return &ValidationError{
			Field: "defaults.min_similarity",
			Err:   fmt.Errorf("must be between 0 and 1, got %f", cfg.Defaults.MinSimilarity),
		}
	}

	if cfg.Queue.WorkerCount < 1 {
		return &ValidationError{
			Field: "queue.worker_count",
			Err:   fmt.Errorf("must be at least 1"),
		}
	}

	if cfg.Queue.HeartbeatInterval <= 0 {
		return &ValidationError{
			Field: "queue.heartbeat_interval",
			Err:   fmt.Errorf("must be positive, got %v", cfg.Queue.HeartbeatInterval),
		}
	}

	if cfg.Queue.HeartbeatInterval >= cfg.Queue.OrphanThreshold {
		return &ValidationError{
			Field: "queue.heartbeat_interval",
			Err: fmt.Errorf("must be less than orphan_threshold to prevent false orphan detection, got heartbeat=%v threshold=%v",
				cfg.Queue.HeartbeatInterval, cfg.Queue.OrphanThreshold),
		}
	}

	if cfg.Gazetteer.LocalesCSV == "" {
		return &ValidationError{
			Field: "gazetteer.locales_csv",
			Err:   fmt.Errorf("is required"),
		}
	}

	if cfg.Weights.ResolutionThreshold < 0 || cfg.Weights.ResolutionThreshold > 1 {
		return &ValidationError{
			Field: "candidates.resolution_threshold",
			Err:   fmt.Errorf("must be between 0 and 1, got %f", cfg.Weights.ResolutionThreshold),
		}
	}

	if cfg.Retention.PostRetention <= 0 {
		return &ValidationError{
			Field: "retention.post_retention",
			Err:   fmt.Errorf("must be positive, got %v", cfg.Retention.PostRetention),
		}
	}

	if cfg.Retention.SweepInterval <= 0 {
		return &ValidationError{
			Field: "retention.sweep_interval",
			Err:   fmt.Errorf("must be positive, got %v", cfg.Retention.SweepInterval),
		}
	}

	return nil
}
