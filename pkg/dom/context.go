package dom

import "fmt"

// HintTarget is the minimal shape context materialization needs from an
// LSS context hint: which kind of value it carries and which node it
// targets, already resolved from token-span scoping to a concrete DOM
// node index by the caller.
type HintTarget struct {
	NodeIdx int
	Kind    ContextKind
	Value   string
}

// ErrAlreadyMaterialized guards against re-materializing context for a
// snapshot that already has rows, since materialization is defined to
// run exactly once per snapshot.
var ErrAlreadyMaterialized = fmt.Errorf("dom: context already materialized for this snapshot")

// MaterializeContext computes the dominance-resolved effective context
// for every node in t: walking from each node up to the POST root, the
// first value seen for a given ctx_kind wins (the child wins over any
// ancestor). hints gives the raw, node-scoped context clues gathered
// during scoping; multiple hints of the same kind at the same node are
// deduplicated to the first value attached.
func MaterializeContext(t *Tree, hints []HintTarget, alreadyExists bool) ([]ContextValue, error) {
	if alreadyExists {
		return nil, ErrAlreadyMaterialized
	}

	byNode := make(map[int]map[ContextKind]string)
	for _, h := range hints {
		m, ok := byNode[h.NodeIdx]
		if !ok {
			m = make(map[ContextKind]string)
			byNode[h.NodeIdx] = m
		}
		if _, seen := m[h.Kind]; !seen {
			m[h.Kind] = h.Value
		}
	}

	var out []ContextValue
	for idx := range t.Nodes {
		seen := make(map[ContextKind]bool)
		cur := idx
		for cur != -1 {
			own := cur == idx
			if vals, ok := byNode[cur]; ok {
				for kind, val := range vals {
					if seen[kind] {
						continue
					}
					seen[kind] = true
					out = append(out, ContextValue{
						NodeIdx:    idx,
						Kind:       kind,
						Value:      val,
						Overridden: own,
					})
				}
			}
			cur = t.Nodes[cur].ParentIdx
		}
	}

	return out, nil
}
