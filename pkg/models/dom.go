package models

// DomNodeResponse is the read shape for one node of a DOM snapshot tree.
type DomNodeResponse struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	ParentID string           `json:"parent_id,omitempty"`
	Ordinal  int              `json:"ordinal"`
	Text     string           `json:"text,omitempty"`
	State    DomNodeStateView `json:"state"`
	Context  []DomContextView `json:"context,omitempty"`
	// Candidates and Eligibility are populated only for LOCATION nodes.
	Candidates  []LocationCandidateView `json:"candidates,omitempty"`
	Eligibility *CommitEligibilityView  `json:"eligibility,omitempty"`
	Children    []DomNodeResponse       `json:"children,omitempty"`
}

// DomNodeStateView is the read shape for a node's per-snapshot disposition.
type DomNodeStateView struct {
	Selected         bool   `json:"selected"`
	Summary          string `json:"summary,omitempty"`
	Resolved         *bool  `json:"resolved,omitempty"`
	ResolutionSource string `json:"resolution_source,omitempty"`
}

// DomContextView is the read shape for one materialized context row.
type DomContextView struct {
	Kind       string `json:"kind"`
	Value      string `json:"value"`
	Overridden bool   `json:"overridden"`
}

// DomSnapshotResponse wraps one snapshot's tree plus its lifecycle stage.
type DomSnapshotResponse struct {
	SnapshotID     string          `json:"snapshot_id"`
	Version        int             `json:"version"`
	LifecycleStage string          `json:"lifecycle_stage"`
	Root           DomNodeResponse `json:"root"`
}

// AdvanceSnapshotRequest requests moving a DomPost to its next lifecycle
// stage.
type AdvanceSnapshotRequest struct {
	DomPostID string `json:"dom_post_id"`
}

// CommitEligibilityView is the read shape for one node's commit verdict.
type CommitEligibilityView struct {
	NodeID   string `json:"node_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// LocationCandidateView is the read shape for one scored gazetteer
// candidate attached to a LOCATION node.
type LocationCandidateView struct {
	LocaleCID  uint64             `json:"locale_cid"`
	LocaleName string             `json:"locale_name"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	Scores     map[string]float64 `json:"scores"`
	Total      float64            `json:"total"`
	Discarded  bool               `json:"discarded"`
	IsOutlier  bool               `json:"is_outlier"`
	Selected   bool               `json:"selected"`
}
