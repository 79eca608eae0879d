// Package models holds request/response DTOs for the HTTP API, kept
// separate from the ent-generated entities so the wire shape can evolve
// independently of the persistence schema.
package models

import "time"

// IngestPostRequest is the payload for submitting a new free-form
// situation-report post for processing.
type IngestPostRequest struct {
	Source       string    `json:"source"`
	Publisher    string    `json:"publisher"`
	SourcePostID string    `json:"source_post_id"`
	Alias        string    `json:"alias,omitempty"`
	Lang         string    `json:"lang"`
	PublishedAt  time.Time `json:"published_at"`
	Text         string    `json:"text"`
}

// IngestPostResponse acknowledges a queued post.
type IngestPostResponse struct {
	IngestPostID string `json:"ingest_post_id"`
	Status       string `json:"status"`
}
