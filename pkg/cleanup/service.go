// Package cleanup provides the periodic retention sweep over terminal
// ingest posts.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/nuclearfall/sitrepc2-core/pkg/config"
	"github.com/nuclearfall/sitrepc2-core/pkg/services"
)

// Service periodically purges ingest posts in a terminal status (completed
// or failed) whose fetched_at is more than PostRetention ago. Deletion cascades through every
// LSS and DOM row materialized from the post, so a swept post leaves no
// trace behind. Safe to run from multiple pods: the delete is a single
// idempotent SQL statement keyed on fetched_at and status.
type Service struct {
	config        *config.RetentionConfig
	ingestService *services.IngestService

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg *config.RetentionConfig, ingestService *services.IngestService) *Service {
	return &Service{config: cfg, ingestService: ingestService}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("cleanup service started",
		"post_retention", s.config.PostRetention,
		"sweep_interval", s.config.SweepInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.PostRetention)
	count, err := s.ingestService.PurgeCompletedBefore(ctx, cutoff)
	if err != nil {
		slog.Error("retention sweep failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("retention sweep purged ingest posts", "count", count, "cutoff", cutoff)
	}
}
