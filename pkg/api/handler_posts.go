package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/nuclearfall/sitrepc2-core/pkg/models"
)

// submitPostHandler handles POST /v1/posts.
// Accepts a free-form situation-report post and queues it for the
// linguistic-structural-scoping pipeline. Resubmission of the same
// (source, publisher, source_post_id) triple is idempotent and returns
// the existing row.
func (s *Server) submitPostHandler(c *echo.Context) error {
	var req models.IngestPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := s.ingestService.Submit(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusAccepted, &models.IngestPostResponse{
		IngestPostID: post.ID,
		Status:       string(post.Status),
	})
}

// getPostDomHandler handles GET /v1/posts/:id/dom.
// Returns the full tree of the post's latest snapshot: node structure,
// per-node disposition, materialized context, and scored candidates.
// Purely a read projection, no mutation.
func (s *Server) getPostDomHandler(c *echo.Context) error {
	postID := c.Param("id")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "post id is required")
	}

	post, err := s.ingestService.Get(c.Request().Context(), postID)
	if err != nil {
		return mapServiceError(err)
	}

	domPost, err := s.domService.GetDomPostByIngestPostID(c.Request().Context(), post.ID)
	if err != nil {
		return mapServiceError(err)
	}

	snapshot, err := s.domService.GetLatestSnapshot(c.Request().Context(), domPost.ID)
	if err != nil {
		return mapServiceError(err)
	}

	view, err := s.domService.BuildSnapshotView(c.Request().Context(), snapshot.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// advanceSnapshotHandler handles POST /v1/posts/:id/snapshot/advance.
// Moves a post's DOM to the next lifecycle stage in the monotonic review
// chain. Intended for manual testing and ops use; nothing in the
// ingestion pipeline calls this automatically.
func (s *Server) advanceSnapshotHandler(c *echo.Context) error {
	postID := c.Param("id")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "post id is required")
	}

	post, err := s.ingestService.Get(c.Request().Context(), postID)
	if err != nil {
		return mapServiceError(err)
	}

	domPost, err := s.domService.GetDomPostByIngestPostID(c.Request().Context(), post.ID)
	if err != nil {
		return mapServiceError(err)
	}

	snapshot, err := s.domService.AdvanceSnapshot(c.Request().Context(), domPost.ID)
	if err != nil {
		return mapServiceError(err)
	}

	view, err := s.domService.BuildSnapshotView(c.Request().Context(), snapshot.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, view)
}
