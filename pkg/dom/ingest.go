package dom

import (
	"errors"
	"fmt"

	"github.com/nuclearfall/sitrepc2-core/pkg/lss"
)

// ErrAlreadyExists indicates a DomPost already exists for the requested
// ingest post, whichever LSS run it was built from. Re-ingestion is never implicitly
// allowed; a caller that truly wants to redo ingestion must first remove
// the existing DomPost.
var ErrAlreadyExists = errors.New("dom: post already ingested for this lss run")

// Ingest materializes a fresh Tree and its CREATED-snapshot NodeState rows
// from a completed LSS run result. It is a pure construction: the
// one-DomPost-per-ingest-post precondition and the "LSS run
// must be completed" precondition are enforced by the caller against
// persisted state, since this package has no database dependency.
func Ingest(result lss.Result, idFor func(parts ...string) string) (*Tree, []NodeState, error) {
	if len(result.Sections) == 0 {
		return nil, nil, fmt.Errorf("dom: ingest: lss result has no sections")
	}

	t := &Tree{}
	var states []NodeState

	postIdx := appendNode(t, Node{
		ID:        idFor("post"),
		Type:      NodePost,
		ParentIdx: -1,
		Ordinal:   0,
	})
	states = append(states, newState(postIdx))

	sectionIdx := make(map[int]int) // section ordinal -> node index
	for _, sec := range result.Sections {
		idx := appendNode(t, Node{
			ID:            idFor("section", fmt.Sprint(sec.Ordinal)),
			Type:          NodeSection,
			ParentIdx:     postIdx,
			Ordinal:       sec.Ordinal,
			Text:          sec.Text,
			LSSSectionIDs: []string{idFor("section", fmt.Sprint(sec.Ordinal))},
		})
		sectionIdx[sec.Ordinal] = idx
		states = append(states, newState(idx))
	}

	eventOrdinalInSection := map[int]int{}
	for _, ev := range result.Events {
		parentIdx, ok := sectionIdx[ev.SectionOrdinal]
		if !ok {
			return nil, nil, fmt.Errorf("dom: ingest: event references unknown section ordinal %d", ev.SectionOrdinal)
		}

		secPath := t.Nodes[parentIdx].LSSSectionIDs
		evOrdinal := eventOrdinalInSection[ev.SectionOrdinal]
		eventOrdinalInSection[ev.SectionOrdinal]++

		evNodeID := idFor("event", fmt.Sprint(ev.SectionOrdinal), fmt.Sprint(ev.EventOrdinal))
		evIdx := appendNode(t, Node{
			ID:            evNodeID,
			Type:          NodeEvent,
			ParentIdx:     parentIdx,
			Ordinal:       evOrdinal,
			Text:          ev.Text,
			LSSEventID:    &evNodeID,
			LSSSectionIDs: secPath,
		})
		states = append(states, newState(evIdx))

		for sIdx, series := range ev.LocationSeries {
			seriesNodeID := idFor("series", evNodeID, fmt.Sprint(sIdx))
			seriesIdx := appendNode(t, Node{
				ID:            seriesNodeID,
				Type:          NodeLocationSeries,
				ParentIdx:     evIdx,
				Ordinal:       sIdx,
				LSSEventID:    &evNodeID,
				LSSSectionIDs: secPath,
			})
			states = append(states, newState(seriesIdx))

			for lIdx, item := range series.Items {
				locNodeID := idFor("location", seriesNodeID, fmt.Sprint(lIdx))
				locIdx := appendNode(t, Node{
					ID:            locNodeID,
					Type:          NodeLocation,
					ParentIdx:     seriesIdx,
					Ordinal:       lIdx,
					Text:          item.Text,
					LSSEventID:    &evNodeID,
					LSSSectionIDs: secPath,
				})
				states = append(states, newState(locIdx))
			}
		}
	}

	return t, states, nil
}

func appendNode(t *Tree, n Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

func newState(idx int) NodeState {
	return NodeState{NodeIdx: idx, Selected: true}
}
