package dom

import (
	"testing"

	"github.com/nuclearfall/sitrepc2-core/pkg/lss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idFor(parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

func simpleResult() lss.Result {
	return lss.Result{
		Sections: []lss.Section{{Ordinal: 0, Text: "Russian forces shelled Avdiivka in Donetsk Oblast."}},
		Events: []lss.ScopedEvent{
			{
				SectionOrdinal: 0,
				EventOrdinal:   0,
				Text:           "shelled Avdiivka",
				LocationSeries: []lss.LocationSeries{
					{
						SeriesID: 0,
						Items:    []lss.LocationItem{{ItemID: 0, Text: "Avdiivka"}},
					},
				},
			},
		},
	}
}

func TestIngestSimpleSingleEventPost(t *testing.T) {
	tree, states, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	require.Len(t, tree.Nodes, 5) // post, section, event, series, location
	assert.Equal(t, NodePost, tree.Nodes[0].Type)
	assert.Equal(t, NodeSection, tree.Nodes[1].Type)
	assert.Equal(t, NodeEvent, tree.Nodes[2].Type)
	assert.Equal(t, NodeLocationSeries, tree.Nodes[3].Type)
	assert.Equal(t, NodeLocation, tree.Nodes[4].Type)
	assert.Equal(t, "Avdiivka", tree.Nodes[4].Text)

	require.Len(t, states, 5)
	for _, st := range states {
		assert.True(t, st.Selected)
	}
}

func TestIngestRejectsEmptySections(t *testing.T) {
	_, _, err := Ingest(lss.Result{}, idFor)
	assert.Error(t, err)
}

func TestNextStageChain(t *testing.T) {
	stage := StageCreated
	want := []LifecycleStage{StageInitialReview, StageProcessed, StageFinalReview, StageAudit}
	for _, w := range want {
		next, err := NextStage(stage)
		require.NoError(t, err)
		assert.Equal(t, w, next)
		stage = next
	}

	_, err := NextStage(StageAudit)
	assert.Error(t, err)
}

func TestValidateTransitionRejectsSkip(t *testing.T) {
	err := ValidateTransition(StageCreated, StageProcessed)
	assert.Error(t, err)

	err = ValidateTransition(StageCreated, StageInitialReview)
	assert.NoError(t, err)
}

func TestCloneNodeStatesIndependentCopy(t *testing.T) {
	prior := []NodeState{{NodeIdx: 0, Selected: true}}
	clone := CloneNodeStates(prior)
	clone[0].Selected = false
	assert.True(t, prior[0].Selected)
	assert.False(t, clone[0].Selected)
}

func TestCloneCandidatesDeepCopiesScores(t *testing.T) {
	prior := []SnapshotCandidate{{NodeIdx: 4, Scores: map[string]float64{"region_match": 1.0}}}
	clone := CloneCandidates(prior)
	clone[0].Scores["region_match"] = 0.0
	assert.Equal(t, 1.0, prior[0].Scores["region_match"])
	assert.Equal(t, 0.0, clone[0].Scores["region_match"])
}

func TestMaterializeContextChildWinsOverAncestor(t *testing.T) {
	tree, _, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	locationIdx := 4
	sectionIdx := 1

	hints := []HintTarget{
		{NodeIdx: sectionIdx, Kind: CtxRegion, Value: "Kharkiv"},
		{NodeIdx: locationIdx, Kind: CtxRegion, Value: "Donetsk"},
	}

	ctx, err := MaterializeContext(tree, hints, false)
	require.NoError(t, err)

	var locRegion, sectionRegion *ContextValue
	for i := range ctx {
		c := &ctx[i]
		if c.NodeIdx == locationIdx && c.Kind == CtxRegion {
			locRegion = c
		}
		if c.NodeIdx == sectionIdx && c.Kind == CtxRegion {
			sectionRegion = c
		}
	}

	require.NotNil(t, locRegion)
	assert.Equal(t, "Donetsk", locRegion.Value)
	assert.True(t, locRegion.Overridden)

	require.NotNil(t, sectionRegion)
	assert.Equal(t, "Kharkiv", sectionRegion.Value)
	assert.True(t, sectionRegion.Overridden)
}

func TestMaterializeContextInheritsFromAncestorWhenNotOverridden(t *testing.T) {
	tree, _, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	locationIdx := 4
	hints := []HintTarget{
		{NodeIdx: 0, Kind: CtxRegion, Value: "Donetsk"}, // POST-level only
	}

	ctx, err := MaterializeContext(tree, hints, false)
	require.NoError(t, err)

	var locRegion *ContextValue
	for i := range ctx {
		if ctx[i].NodeIdx == locationIdx && ctx[i].Kind == CtxRegion {
			locRegion = &ctx[i]
		}
	}

	require.NotNil(t, locRegion)
	assert.Equal(t, "Donetsk", locRegion.Value)
	assert.False(t, locRegion.Overridden)
}

func TestMaterializeContextRefusesDoubleRun(t *testing.T) {
	tree, _, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	_, err = MaterializeContext(tree, nil, true)
	assert.ErrorIs(t, err, ErrAlreadyMaterialized)
}

func TestRecomputeCommitEligibility(t *testing.T) {
	tree, states, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	locationIdx := 4
	for i := range states {
		if states[i].NodeIdx == locationIdx {
			resolved := false
			states[i].Resolved = &resolved
		}
	}

	eligibility := RecomputeCommitEligibility(tree, states)
	require.Len(t, eligibility, len(states))

	for _, e := range eligibility {
		if e.NodeIdx == locationIdx {
			assert.False(t, e.Eligible)
			assert.Equal(t, ReasonUnresolved, e.Reason)
		} else {
			assert.True(t, e.Eligible)
			assert.Equal(t, ReasonNone, e.Reason)
		}
	}
}

func TestRecomputeCommitEligibilityDeselectedWins(t *testing.T) {
	tree, states, err := Ingest(simpleResult(), idFor)
	require.NoError(t, err)

	states[2].Selected = false // the EVENT node

	eligibility := RecomputeCommitEligibility(tree, states)
	for _, e := range eligibility {
		if e.NodeIdx == 2 {
			assert.False(t, e.Eligible)
			assert.Equal(t, ReasonDeselected, e.Reason)
		}
	}
}
