package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/domcontext"
	"github.com/nuclearfall/sitrepc2-core/ent/domlocationcandidate"
	"github.com/nuclearfall/sitrepc2-core/ent/domnodestate"
	"github.com/nuclearfall/sitrepc2-core/pkg/candidates"
	"github.com/nuclearfall/sitrepc2-core/pkg/dom"
	"github.com/nuclearfall/sitrepc2-core/pkg/normalize"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// CandidatesService narrows, scores and resolves LOCATION nodes against
// the gazetteer, persisting the ranked candidate set and updating each
// node's resolution state in place. PipelineService runs it once per
// post, on the initial CREATED snapshot.
type CandidatesService struct {
	client  *ent.Client
	dom     *DomService
	gaz     *GazetteerService
	weights candidates.Weights
}

// NewCandidatesService creates a new CandidatesService.
func NewCandidatesService(client *ent.Client, dom *DomService, gaz *GazetteerService, weights candidates.Weights) *CandidatesService {
	return &CandidatesService{client: client, dom: dom, gaz: gaz, weights: weights}
}

// ScoreSnapshot narrows, scores and resolves every LOCATION node in the
// given snapshot's tree, then flags cluster outliers within each
// LOCATION_SERIES. It is safe to call more than once: prior candidate
// rows for a node are replaced, not accumulated.
func (s *CandidatesService) ScoreSnapshot(ctx context.Context, snapshotID string) error {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	snapshot, err := tx.DomSnapshot.Get(ctx, snapshotID)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get dom snapshot: %w", err)
	}

	tree, err := s.dom.LoadTree(ctx, tx, snapshot.DomPostID)
	if err != nil {
		return fmt.Errorf("failed to load dom tree: %w", err)
	}

	effective, err := s.loadEffectiveContexts(ctx, tx, tree, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to load effective contexts: %w", err)
	}

	type topCandidate struct {
		nodeID string
		total  float64
		point  spatial.Point
	}
	topBySeries := make(map[int][]topCandidate)

	for idx, node := range tree.Nodes {
		if node.Type != dom.NodeLocation {
			continue
		}

		effCtx := s.buildEffectiveContext(effective[idx])
		scored := s.scoreNode(node.Text, effCtx)
		resolution := candidates.Resolve(scored, s.weights.ResolutionThreshold)

		if _, err := tx.DomLocationCandidate.Delete().
			Where(domlocationcandidate.DomSnapshotID(snapshotID), domlocationcandidate.DomNodeID(node.ID)).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear prior candidates for node %s: %w", node.ID, err)
		}

		var top *candidates.Candidate
		for _, cand := range scored {
			selected := resolution.Resolved && resolution.Selected.Locale.CID == cand.Locale.CID
			if _, err := tx.DomLocationCandidate.Create().
				SetID(uuid.New().String()).
				SetDomSnapshotID(snapshotID).
				SetDomNodeID(node.ID).
				SetLocaleCid(cand.Locale.CID).
				SetLocaleName(cand.Locale.Name).
				SetLat(cand.Locale.Lat).
				SetLon(cand.Locale.Lon).
				SetScores(cand.Scores).
				SetTotal(cand.Total).
				SetDiscarded(cand.Discarded).
				SetSelected(selected).
				Save(ctx); err != nil {
				return fmt.Errorf("failed to create candidate for node %s: %w", node.ID, err)
			}
			if top == nil || cand.Total > top.Total {
				top = cand
			}
		}

		update := tx.DomNodeState.Update().
			Where(domnodestate.DomSnapshotID(snapshotID), domnodestate.DomNodeID(node.ID)).
			SetResolved(resolution.Resolved)
		if resolution.Resolved {
			update = update.SetResolutionSource(resolution.ResolutionSource)
		}
		if err := update.Exec(ctx); err != nil {
			return fmt.Errorf("failed to update node state for node %s: %w", node.ID, err)
		}

		if top != nil && node.ParentIdx != -1 {
			topBySeries[node.ParentIdx] = append(topBySeries[node.ParentIdx], topCandidate{
				nodeID: node.ID,
				total:  top.Total,
				point:  spatial.Point{Lat: top.Locale.Lat, Lon: top.Locale.Lon},
			})
		}
	}

	for _, tops := range topBySeries {
		siblings := make([]spatial.SiblingCandidate, len(tops))
		for i, t := range tops {
			siblings[i] = spatial.SiblingCandidate{NodeID: t.nodeID, Point: t.point}
		}
		flags := spatial.FlagClusterOutliers(siblings, s.weights.ClusterOutlierMarginKM)
		for _, f := range flags {
			if !f.IsOutlier {
				continue
			}
			if err := tx.DomLocationCandidate.Update().
				Where(
					domlocationcandidate.DomSnapshotID(snapshotID),
					domlocationcandidate.DomNodeID(f.NodeID),
				).
				SetIsOutlier(true).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to flag outlier for node %s: %w", f.NodeID, err)
			}
		}
	}

	return tx.Commit()
}

// loadEffectiveContexts returns, per node index, the dominance-resolved
// ctx_kind -> value map materialized for that node.
func (s *CandidatesService) loadEffectiveContexts(ctx context.Context, tx *ent.Tx, t *dom.Tree, snapshotID string) (map[int]map[dom.ContextKind]string, error) {
	rows, err := tx.DomContext.Query().
		Where(domcontext.DomSnapshotID(snapshotID)).
		All(ctx)
	if err != nil {
		return nil, err
	}

	idxByID := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		idxByID[n.ID] = i
	}

	out := make(map[int]map[dom.ContextKind]string)
	for _, r := range rows {
		idx, ok := idxByID[r.DomNodeID]
		if !ok {
			continue
		}
		m, ok := out[idx]
		if !ok {
			m = make(map[dom.ContextKind]string)
			out[idx] = m
		}
		m[dom.ContextKind(string(r.CtxKind))] = r.Value
	}
	return out, nil
}

// buildEffectiveContext translates the dominance-resolved ctx_kind map for
// one node into candidates.EffectiveContext, resolving a DIRECTION value
// to its concrete anchor LocaleEntry when the gazetteer knows it.
func (s *CandidatesService) buildEffectiveContext(raw map[dom.ContextKind]string) candidates.EffectiveContext {
	effCtx := candidates.EffectiveContext{
		Region:    raw[dom.CtxRegion],
		Group:     raw[dom.CtxGroup],
		Direction: raw[dom.CtxDirection],
	}
	if effCtx.Direction == "" {
		return effCtx
	}
	dirEntry, ok := s.gaz.Index().SearchDirection(effCtx.Direction)
	if !ok {
		return effCtx
	}
	if anchor, ok := s.gaz.Index().LocaleByCID(dirEntry.Anchor); ok {
		effCtx.AnchorLocale = &anchor
	}
	return effCtx
}

// scoreNode runs narrowing, scoring, direction-axis construction and
// frontline-distance recording for a single LOCATION node's surface text.
func (s *CandidatesService) scoreNode(text string, effCtx candidates.EffectiveContext) []*candidates.Candidate {
	gaz := s.gaz.Index()
	narrowed := candidates.Narrow(gaz, text, effCtx, s.weights)

	var groupPolygon *spatial.GroupPolygon
	if effCtx.Group != "" {
		groupPolygon = s.gaz.GroupPolygon(normalize.Key(effCtx.Group))
	}

	frontline := s.gaz.Frontline()

	var axis *spatial.Axis
	if effCtx.AnchorLocale != nil && frontline != nil {
		cityPt := spatial.Point{Lat: effCtx.AnchorLocale.Lat, Lon: effCtx.AnchorLocale.Lon}
		if frontAnchor, ok := frontline.AnchorForPoint(cityPt); ok {
			axis = spatial.NewAxis(cityPt, frontAnchor)
		}
	}

	regionLookup := func(name string) ([]string, bool) {
		region, ok := gaz.SearchRegion(name)
		if !ok {
			return nil, false
		}
		return region.Neighbors, true
	}

	return candidates.Score(narrowed, effCtx, s.weights, regionLookup, groupPolygon, frontline, axis)
}
