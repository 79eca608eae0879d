package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
	"github.com/nuclearfall/sitrepc2-core/pkg/config"
)

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

// Worker status constants.
const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// PostRegistry is the subset of WorkerPool used by Worker for cancel
// registration.
type PostRegistry interface {
	RegisterPost(postID string, cancel context.CancelFunc)
	UnregisterPost(postID string)
}

// Worker polls for queued ingest posts and runs each one through the
// pipeline executor, one post at a time.
type Worker struct {
	id       string
	podID    string
	client   *ent.Client
	config   *config.QueueConfig
	executor PostExecutor
	pool     PostRegistry
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu             sync.RWMutex
	status         WorkerStatus
	currentPostID  string
	postsProcessed int
	lastActivity   time.Time
}

// NewWorker creates a new queue worker.
func NewWorker(id, podID string, client *ent.Client, cfg *config.QueueConfig, executor PostExecutor, pool PostRegistry) *Worker {
	return &Worker{
		id:           id,
		podID:        podID,
		client:       client,
		config:       cfg,
		executor:     executor,
		pool:         pool,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for it to finish its current
// post. Safe to call multiple times.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the current worker health status.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:             w.id,
		Status:         string(w.status),
		CurrentPostID:  w.currentPostID,
		PostsProcessed: w.postsProcessed,
		LastActivity:   w.lastActivity,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id, "pod_id", w.podID)
	log.Info("worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("worker shutting down")
			return
		case <-ctx.Done():
			log.Info("context cancelled, worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, ErrNoPostsAvailable) {
					w.sleep(w.pollInterval())
					continue
				}
				log.Error("error processing post", "error", err)
				w.sleep(time.Second)
			}
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// pollAndProcess claims the next queued post and runs it to completion.
func (w *Worker) pollAndProcess(ctx context.Context) error {
	post, err := w.claimNextPost(ctx)
	if err != nil {
		return err
	}

	log := slog.With("ingest_post_id", post.ID, "worker_id", w.id)
	log.Info("post claimed")

	w.setStatus(WorkerStatusWorking, post.ID)
	defer w.setStatus(WorkerStatusIdle, "")

	postCtx, cancelPost := context.WithTimeout(ctx, w.config.PostTimeout)
	defer cancelPost()

	w.pool.RegisterPost(post.ID, cancelPost)
	defer w.pool.UnregisterPost(post.ID)

	heartbeatCtx, cancelHeartbeat := context.WithCancel(postCtx)
	defer cancelHeartbeat()
	go w.runHeartbeat(heartbeatCtx, post.ID)

	result := w.executor.Execute(postCtx, post)

	if result == nil {
		switch {
		case errors.Is(postCtx.Err(), context.DeadlineExceeded):
			result = &ExecutionResult{
				Status: ingestpost.StatusFailed,
				Error:  fmt.Errorf("post timed out after %v", w.config.PostTimeout),
			}
		case errors.Is(postCtx.Err(), context.Canceled):
			result = &ExecutionResult{
				Status: ingestpost.StatusFailed,
				Error:  context.Canceled,
			}
		default:
			result = &ExecutionResult{
				Status: ingestpost.StatusFailed,
				Error:  fmt.Errorf("executor returned nil result"),
			}
		}
	}

	cancelHeartbeat()

	if err := w.updatePostTerminalStatus(context.Background(), post.ID, result); err != nil {
		log.Error("failed to update post terminal status", "error", err)
		return err
	}

	w.mu.Lock()
	w.postsProcessed++
	w.mu.Unlock()

	log.Info("post processing complete", "status", result.Status)
	return nil
}

// claimNextPost atomically claims the next queued post using
// SELECT ... FOR UPDATE SKIP LOCKED, oldest fetched_at first.
func (w *Worker) claimNextPost(ctx context.Context) (*ent.IngestPost, error) {
	tx, err := w.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	post, err := tx.IngestPost.Query().
		Where(ingestpost.StatusEQ(ingestpost.StatusQueued)).
		Order(ent.Asc(ingestpost.FieldFetchedAt)).
		Limit(1).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNoPostsAvailable
		}
		return nil, fmt.Errorf("failed to query queued post: %w", err)
	}

	now := time.Now()
	post, err = post.Update().
		SetStatus(ingestpost.StatusProcessing).
		SetPodID(w.podID).
		SetClaimedAt(now).
		SetLastHeartbeatAt(now).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	return post, nil
}

// runHeartbeat periodically refreshes last_heartbeat_at for orphan detection.
func (w *Worker) runHeartbeat(ctx context.Context, postID string) {
	ticker := time.NewTicker(w.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.client.IngestPost.UpdateOneID(postID).
				SetLastHeartbeatAt(time.Now()).
				Exec(ctx); err != nil {
				slog.Warn("heartbeat update failed", "ingest_post_id", postID, "error", err)
			}
		}
	}
}

func (w *Worker) updatePostTerminalStatus(ctx context.Context, postID string, result *ExecutionResult) error {
	update := w.client.IngestPost.UpdateOneID(postID).
		SetStatus(result.Status).
		SetCompletedAt(time.Now())

	if result.Error != nil {
		update = update.SetErrorMessage(result.Error.Error())
	}

	return update.Exec(ctx)
}

// pollInterval returns the poll duration with jitter applied.
func (w *Worker) pollInterval() time.Duration {
	base := w.config.PollInterval
	jitter := w.config.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

func (w *Worker) setStatus(status WorkerStatus, postID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentPostID = postID
	w.lastActivity = time.Now()
}
