package services

import (
	"context"
	"fmt"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
	"github.com/nuclearfall/sitrepc2-core/pkg/queue"
)

// PipelineService implements queue.PostExecutor: the full linguistic
// scoping, DOM materialization, and candidate resolution chain run for
// one claimed ingest post. It owns every persistence transaction in that
// chain; the worker that calls Execute only handles claiming, heartbeat,
// and writing back the terminal status this returns.
//
// Snapshot advance past CREATED is deliberately left out of this chain:
// spec.md's linear data-flow diagram ends the automatic portion at
// clustering/resolution, and the review stages (INITIAL_REVIEW onward)
// are driven by an explicit snapshot-advance call, whether from a human
// reviewer or an external automation, not by the ingestion pipeline
// itself.
type PipelineService struct {
	lss        *LSSService
	dom        *DomService
	candidates *CandidatesService
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(lss *LSSService, dom *DomService, candidates *CandidatesService) *PipelineService {
	return &PipelineService{lss: lss, dom: dom, candidates: candidates}
}

// Execute runs the full pipeline for post, returning the terminal status
// to write back. Every step already persisted its own work by the time
// an error surfaces; a failure partway through never needs the caller to
// roll anything back.
func (p *PipelineService) Execute(ctx context.Context, post *ent.IngestPost) *queue.ExecutionResult {
	run, result, err := p.lss.Run(ctx, post.ID, post.Text)
	if err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("lss run: %w", err),
		}
	}

	domPost, err := p.dom.Ingest(ctx, post.ID, run.ID, result)
	if err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("dom ingest: %w", err),
		}
	}

	snapshot, err := p.dom.GetLatestSnapshot(ctx, domPost.ID)
	if err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("load initial snapshot: %w", err),
		}
	}

	if err := p.dom.MaterializeContext(ctx, snapshot.ID); err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("materialize context: %w", err),
		}
	}

	if err := p.candidates.ScoreSnapshot(ctx, snapshot.ID); err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("score candidates: %w", err),
		}
	}

	if err := p.dom.RecomputeCommitEligibility(ctx, snapshot.ID); err != nil {
		return &queue.ExecutionResult{
			Status: ingestpost.StatusFailed,
			Error:  fmt.Errorf("recompute commit eligibility: %w", err),
		}
	}

	return &queue.ExecutionResult{Status: ingestpost.StatusCompleted}
}
