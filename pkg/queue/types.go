// Package queue provides the worker pool that drains queued ingest posts
// through the claim-extraction pipeline: one post per worker, sequential
// stages per post, no ordering guarantee across posts.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
)

// Sentinel errors for queue operations.
var (
	// ErrNoPostsAvailable indicates no queued posts are waiting for a worker.
	ErrNoPostsAvailable = errors.New("no posts available")
)

// PostExecutor runs the pipeline for a single claimed post: LSS run, DOM
// ingest, context materialization, candidate scoring, and commit
// eligibility on the initial CREATED snapshot. It does not advance the
// snapshot to later lifecycle stages. It owns the
// entire post lifecycle; the worker only handles claiming, heartbeat, and
// terminal status update.
type PostExecutor interface {
	Execute(ctx context.Context, post *ent.IngestPost) *ExecutionResult
}

// ExecutionResult is the terminal state an executor returns; all
// intermediate persistence already happened inside the executor's own
// transactions during processing.
type ExecutionResult struct {
	Status ingestpost.Status
	Error  error
}

// PoolHealth reports the current health of the entire worker pool.
type PoolHealth struct {
	IsHealthy             bool           `json:"is_healthy"`
	DBReachable           bool           `json:"db_reachable"`
	DBError               string         `json:"db_error,omitempty"`
	PodID                 string         `json:"pod_id"`
	ActiveWorkers         int            `json:"active_workers"`
	TotalWorkers          int            `json:"total_workers"`
	QueueDepth            int            `json:"queue_depth"`
	WorkerStats           []WorkerHealth `json:"worker_stats"`
	LastOrphanScan        time.Time      `json:"last_orphan_scan"`
	OrphansRecoveredCount int            `json:"orphans_recovered"`
}

// WorkerHealth reports the current health of a single worker.
type WorkerHealth struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	CurrentPostID  string    `json:"current_post_id,omitempty"`
	PostsProcessed int       `json:"posts_processed"`
	LastActivity   time.Time `json:"last_activity"`
}
