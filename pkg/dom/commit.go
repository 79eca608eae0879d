package dom

// RecomputeCommitEligibility implements the commit-eligibility rule for
// every node in a snapshot: a deselected node is ineligible regardless of
// type; an unresolved LOCATION node is ineligible; everything else
// selected is eligible.
func RecomputeCommitEligibility(t *Tree, states []NodeState) []CommitEligibility {
	out := make([]CommitEligibility, 0, len(states))
	for _, st := range states {
		node := t.Nodes[st.NodeIdx]

		switch {
		case !st.Selected:
			out = append(out, CommitEligibility{NodeIdx: st.NodeIdx, Eligible: false, Reason: ReasonDeselected})
		case node.Type == NodeLocation && (st.Resolved == nil || !*st.Resolved):
			out = append(out, CommitEligibility{NodeIdx: st.NodeIdx, Eligible: false, Reason: ReasonUnresolved})
		default:
			out = append(out, CommitEligibility{NodeIdx: st.NodeIdx, Eligible: true, Reason: ReasonNone})
		}
	}
	return out
}
