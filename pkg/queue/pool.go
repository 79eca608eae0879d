package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
	"github.com/nuclearfall/sitrepc2-core/pkg/config"
)

// WorkerPool manages a pool of queue workers draining ingest_posts.
type WorkerPool struct {
	podID    string
	client   *ent.Client
	config   *config.QueueConfig
	executor PostExecutor
	workers  []*Worker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	activePosts map[string]context.CancelFunc
	mu          sync.RWMutex
	started     bool

	orphans orphanState
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(podID string, client *ent.Client, cfg *config.QueueConfig, executor PostExecutor) *WorkerPool {
	return &WorkerPool{
		podID:       podID,
		client:      client,
		config:      cfg,
		executor:    executor,
		workers:     make([]*Worker, 0, cfg.WorkerCount),
		stopCh:      make(chan struct{}),
		activePosts: make(map[string]context.CancelFunc),
	}
}

// Start spawns worker goroutines. It is safe to call multiple times;
// subsequent calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.started {
		slog.Warn("worker pool already started, ignoring duplicate start call", "pod_id", p.podID)
		return nil
	}
	p.started = true

	slog.Info("starting worker pool", "pod_id", p.podID, "worker_count", p.config.WorkerCount)

	for i := 0; i < p.config.WorkerCount; i++ {
		workerID := fmt.Sprintf("%s-worker-%d", p.podID, i)
		worker := NewWorker(workerID, p.podID, p.client, p.config, p.executor, p)
		p.workers = append(p.workers, worker)
		worker.Start(ctx)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOrphanDetection(ctx)
	}()

	slog.Info("worker pool started")
	return nil
}

// Stop signals all workers to stop and waits for them to finish their
// current post (graceful shutdown).
func (p *WorkerPool) Stop() {
	slog.Info("stopping worker pool gracefully")

	active := p.getActivePostIDs()
	if len(active) > 0 {
		slog.Info("waiting for active posts to complete", "count", len(active), "post_ids", active)
	}

	for _, worker := range p.workers {
		worker.Stop()
	}

	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()

	slog.Info("worker pool stopped gracefully")
}

// RegisterPost stores a cancel function for manual cancellation.
func (p *WorkerPool) RegisterPost(postID string, cancel context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activePosts[postID] = cancel
}

// UnregisterPost removes the cancel function once processing ends.
func (p *WorkerPool) UnregisterPost(postID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.activePosts, postID)
}

// CancelPost triggers context cancellation for a post on this pod. Returns
// true if the post was found and cancelled here.
func (p *WorkerPool) CancelPost(postID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if cancel, ok := p.activePosts[postID]; ok {
		cancel()
		return true
	}
	return false
}

// Health returns the current health status of the pool.
func (p *WorkerPool) Health() *PoolHealth {
	ctx := context.Background()

	queueDepth, errQ := p.client.IngestPost.Query().
		Where(ingestpost.StatusEQ(ingestpost.StatusQueued)).
		Count(ctx)
	if errQ != nil {
		slog.Error("failed to query queue depth for health check", "pod_id", p.podID, "error", errQ)
	}

	workerStats := make([]WorkerHealth, len(p.workers))
	activeWorkers := 0
	for i, worker := range p.workers {
		stats := worker.Health()
		workerStats[i] = stats
		if stats.Status == string(WorkerStatusWorking) {
			activeWorkers++
		}
	}

	dbHealthy := errQ == nil
	isHealthy := len(p.workers) > 0 && dbHealthy

	p.orphans.mu.Lock()
	lastOrphanScan := p.orphans.lastOrphanScan
	orphansRecovered := p.orphans.orphansRecovered
	p.orphans.mu.Unlock()

	var dbError string
	if errQ != nil {
		dbError = fmt.Sprintf("queue depth query failed: %v", errQ)
	}

	return &PoolHealth{
		IsHealthy:             isHealthy,
		DBReachable:           dbHealthy,
		DBError:               dbError,
		PodID:                 p.podID,
		ActiveWorkers:         activeWorkers,
		TotalWorkers:          len(p.workers),
		QueueDepth:            queueDepth,
		WorkerStats:           workerStats,
		LastOrphanScan:        lastOrphanScan,
		OrphansRecoveredCount: orphansRecovered,
	}
}

func (p *WorkerPool) getActivePostIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	posts := make([]string, 0, len(p.activePosts))
	for id := range p.activePosts {
		posts = append(posts, id)
	}
	return posts
}
