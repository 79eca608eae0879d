// Package dom builds and advances the snapshot-versioned document tree
// (POST -> SECTION -> EVENT -> LOCATION_SERIES -> LOCATION) that sitrepc
// materializes from a completed linguistic-structural-scoping run.
package dom

// NodeType identifies which level of the tree a Node occupies.
type NodeType string

const (
	NodePost           NodeType = "post"
	NodeSection        NodeType = "section"
	NodeEvent          NodeType = "event"
	NodeLocationSeries NodeType = "location_series"
	NodeLocation       NodeType = "location"
)

// LifecycleStage is a snapshot's position in the monotonic review chain.
type LifecycleStage string

const (
	StageCreated       LifecycleStage = "created"
	StageInitialReview LifecycleStage = "initial_review"
	StageProcessed     LifecycleStage = "processed"
	StageFinalReview   LifecycleStage = "final_review"
	StageAudit         LifecycleStage = "audit"
)

var stageOrder = map[LifecycleStage]int{
	StageCreated:       1,
	StageInitialReview: 2,
	StageProcessed:     3,
	StageFinalReview:   4,
	StageAudit:         5,
}

// Node is one vertex of the DOM tree. Tree structure is a parent-index
// arena rather than pointers, so context dominance walks and subtree
// traversal never need to worry about cycles.
type Node struct {
	ID            string
	Type          NodeType
	ParentIdx     int // -1 for the POST root
	Ordinal       int
	Text          string
	LSSEventID    *string
	LSSSectionIDs []string
}

// Tree is the immutable structure of one DomPost: a flat arena of nodes
// plus parent indices. It is shared by every snapshot of the same post.
type Tree struct {
	Nodes []Node
}

// Children returns the indices of idx's direct children, in ordinal order.
func (t *Tree) Children(idx int) []int {
	var out []int
	for i, n := range t.Nodes {
		if n.ParentIdx == idx {
			out = append(out, i)
		}
	}
	return out
}

// Root returns the index of the POST node, or -1 if the tree is empty.
func (t *Tree) Root() int {
	for i, n := range t.Nodes {
		if n.Type == NodePost {
			return i
		}
	}
	return -1
}

// NodeState is the per-snapshot mutable disposition of one node.
type NodeState struct {
	NodeIdx          int
	Selected         bool
	Summary          string
	Resolved         *bool // meaningful only for LOCATION nodes
	ResolutionSource string
}

// ContextKind is the kind of inherited qualifier materialized per node.
type ContextKind string

const (
	CtxRegion    ContextKind = "region"
	CtxGroup     ContextKind = "group"
	CtxDirection ContextKind = "direction"
)

// ContextValue is one dominance-resolved (node, ctx_kind) -> value row.
type ContextValue struct {
	NodeIdx    int
	Kind       ContextKind
	Value      string
	Overridden bool // true when this node itself contributed the value
}

// EligibilityReason names why a node is excluded from commit.
type EligibilityReason string

const (
	ReasonNone       EligibilityReason = ""
	ReasonDeselected EligibilityReason = "DESELECTED"
	ReasonUnresolved EligibilityReason = "UNRESOLVED"
)

// CommitEligibility is the recomputed commit verdict for one node.
type CommitEligibility struct {
	NodeIdx  int
	Eligible bool
	Reason   EligibilityReason
}
