package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/ingestpost"
	"github.com/nuclearfall/sitrepc2-core/pkg/models"
)

// IngestService manages the ingestion of external situation-report posts.
type IngestService struct {
	client *ent.Client
}

// NewIngestService creates a new IngestService.
func NewIngestService(client *ent.Client) *IngestService {
	return &IngestService{client: client}
}

// Submit records a new post. Re-submission of the same
// (source, publisher, source_post_id) triple returns the existing row
// rather than erroring, since publishers routinely redeliver the same
// item across polls.
func (s *IngestService) Submit(ctx context.Context, req models.IngestPostRequest) (*ent.IngestPost, error) {
	if req.Source == "" {
		return nil, NewValidationError("source", "required")
	}
	if req.Publisher == "" {
		return nil, NewValidationError("publisher", "required")
	}
	if req.SourcePostID == "" {
		return nil, NewValidationError("source_post_id", "required")
	}
	if req.Lang == "" {
		return nil, NewValidationError("lang", "required")
	}
	if req.Text == "" {
		return nil, NewValidationError("text", "required")
	}

	existing, err := s.client.IngestPost.Query().
		Where(
			ingestpost.Source(req.Source),
			ingestpost.Publisher(req.Publisher),
			ingestpost.SourcePostID(req.SourcePostID),
		).
		Only(ctx)
	if err == nil {
		return existing, nil
	}
	if !ent.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check for existing post: %w", err)
	}

	builder := s.client.IngestPost.Create().
		SetID(uuid.New().String()).
		SetSource(req.Source).
		SetPublisher(req.Publisher).
		SetSourcePostID(req.SourcePostID).
		SetLang(req.Lang).
		SetPublishedAt(req.PublishedAt).
		SetFetchedAt(time.Now()).
		SetText(req.Text)

	if req.Alias != "" {
		builder = builder.SetAlias(req.Alias)
	}

	post, err := builder.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, NewIntegrityError("ingest_posts", err)
		}
		return nil, fmt.Errorf("failed to create ingest post: %w", err)
	}

	return post, nil
}

// PurgeCompletedBefore deletes every ingest post in a terminal status
// (completed or failed) with fetched_at older than cutoff, cascading to
// every LSS and DOM row materialized from it, and returns the count
// removed. Posts still queued or processing are never touched.
func (s *IngestService) PurgeCompletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := s.client.IngestPost.Delete().
		Where(
			ingestpost.FetchedAtLT(cutoff),
			ingestpost.StatusIn(ingestpost.StatusCompleted, ingestpost.StatusFailed),
		).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge completed ingest posts: %w", err)
	}
	return n, nil
}

// Get retrieves an ingest post by ID.
func (s *IngestService) Get(ctx context.Context, id string) (*ent.IngestPost, error) {
	post, err := s.client.IngestPost.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingest post: %w", err)
	}
	return post, nil
}
