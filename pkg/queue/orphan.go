package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
)

// orphanState tracks orphan detection metrics (thread-safe).
type orphanState struct {
	mu               sync.Mutex
	lastOrphanScan   time.Time
	orphansRecovered int
}

// runOrphanDetection periodically scans for orphaned posts. All pods run
// this independently; operations are idempotent.
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(p.config.OrphanDetectionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.detectAndRecoverOrphans(ctx); err != nil {
				slog.Error("orphan detection failed", "error", err)
			}
		}
	}
}

// detectAndRecoverOrphans finds processing posts with stale heartbeats and
// marks them failed. A post abandoned mid-pipeline is not retried
// automatically: partial DOM/snapshot state may already exist for it, and
// blind requeue risks reprocessing a post whose worker is merely slow
// rather than dead.
func (p *WorkerPool) detectAndRecoverOrphans(ctx context.Context) error {
	threshold := time.Now().Add(-p.config.OrphanThreshold)

	orphans, err := p.client.IngestPost.Query().
		Where(
			ingestpost.StatusEQ(ingestpost.StatusProcessing),
			ingestpost.LastHeartbeatAtNotNil(),
			ingestpost.LastHeartbeatAtLT(threshold),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query orphaned posts: %w", err)
	}

	if len(orphans) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastOrphanScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	slog.Warn("detected orphaned posts", "count", len(orphans))

	recovered := 0
	failed := 0
	for _, post := range orphans {
		if err := p.recoverOrphanedPost(ctx, post); err != nil {
			slog.Error("failed to recover orphaned post", "ingest_post_id", post.ID, "error", err)
			failed++
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastOrphanScan = time.Now()
	p.orphans.orphansRecovered += recovered
	p.orphans.mu.Unlock()

	if failed > 0 {
		slog.Warn("orphan recovery completed with failures",
			"total_orphans", len(orphans), "recovered", recovered, "failed", failed)
	}

	return nil
}

func (p *WorkerPool) recoverOrphanedPost(ctx context.Context, post *ent.IngestPost) error {
	lastHeartbeat := "unknown"
	if post.LastHeartbeatAt != nil {
		lastHeartbeat = post.LastHeartbeatAt.Format(time.RFC3339)
	}

	podID := "unknown"
	if post.PodID != nil {
		podID = *post.PodID
	}

	errorMsg := fmt.Sprintf("orphaned: no heartbeat from pod %s since %s", podID, lastHeartbeat)
	if err := markPostFailed(ctx, p.client, post.ID, errorMsg); err != nil {
		return err
	}

	slog.Warn("orphaned post marked failed", "ingest_post_id", post.ID, "last_heartbeat", lastHeartbeat)
	return nil
}

// CleanupStartupOrphans performs a one-time cleanup of posts owned by this
// pod that were still processing when the pod previously crashed. Called
// once during startup, before the worker pool begins processing.
func CleanupStartupOrphans(ctx context.Context, client *ent.Client, podID string) error {
	orphans, err := client.IngestPost.Query().
		Where(
			ingestpost.StatusEQ(ingestpost.StatusProcessing),
			ingestpost.PodIDEQ(podID),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query startup orphans: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	slog.Warn("found startup orphans from previous run", "pod_id", podID, "count", len(orphans))

	for _, post := range orphans {
		errorMsg := fmt.Sprintf("orphaned: pod %s restarted while post was processing", podID)
		if err := markPostFailed(ctx, client, post.ID, errorMsg); err != nil {
			slog.Error("failed to mark startup orphan", "ingest_post_id", post.ID, "error", err)
			continue
		}
		slog.Info("startup orphan recovered", "ingest_post_id", post.ID)
	}

	return nil
}

// markPostFailed is a shared helper marking a post failed.
func markPostFailed(ctx context.Context, client *ent.Client, postID, errorMsg string) error {
	now := time.Now()
	return client.IngestPost.UpdateOneID(postID).
		SetStatus(ingestpost.StatusFailed).
		SetCompletedAt(now).
		SetErrorMessage(errorMsg).
		Exec(ctx)
}
