package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/domcommiteligibility"
	"github.com/nuclearfall/sitrepc2-core/ent/domcontext"
	"github.com/nuclearfall/sitrepc2-core/ent/domlocationcandidate"
	"github.com/nuclearfall/sitrepc2-core/ent/domnode"
	"github.com/nuclearfall/sitrepc2-core/ent/domnodestate"
	"github.com/nuclearfall/sitrepc2-core/ent/dompost"
	"github.com/nuclearfall/sitrepc2-core/ent/domsnapshot"
	"github.com/nuclearfall/sitrepc2-core/ent/lssevent"
	"github.com/nuclearfall/sitrepc2-core/ent/lsssection"
	"github.com/nuclearfall/sitrepc2-core/ent/lsscontexthint"
	"github.com/nuclearfall/sitrepc2-core/ent/lssrun"
	"github.com/nuclearfall/sitrepc2-core/pkg/dom"
	"github.com/nuclearfall/sitrepc2-core/pkg/lss"
	"github.com/nuclearfall/sitrepc2-core/pkg/models"
)

// DomService materializes and advances the DOM tree built from a
// completed LSS run, persisting every operation pkg/dom exposes as a
// pure function.
type DomService struct {
	client *ent.Client
}

// NewDomService creates a new DomService.
func NewDomService(client *ent.Client) *DomService {
	return &DomService{client: client}
}

// Ingest materializes a fresh DomPost, its immutable node tree, and a
// CREATED snapshot's node states from a completed LSS run's result. If a
// DomPost already exists for ingestPostID, from this or any other LSS
// run, Ingest returns dom.ErrAlreadyExists: a post has at most one
// DomPost, so a later run of the same post cannot be ingested, and
// re-ingestion is never implicit.
func (s *DomService) Ingest(ctx context.Context, ingestPostID, lssRunID string, result lss.Result) (*ent.DomPost, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	run, err := tx.LSSRun.Get(ctx, lssRunID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lss run: %w", err)
	}
	if run.IngestPostID != ingestPostID {
		return nil, NewValidationError("ingest_post_id", "does not match the lss run's ingest post")
	}
	if run.Status != lssrun.StatusCompleted {
		return nil, NewValidationError("lss_run_id", "lss run has not completed")
	}

	exists, err := tx.DomPost.Query().
		Where(dompost.IngestPostID(ingestPostID)).
		Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing dom post: %w", err)
	}
	if exists {
		return nil, dom.ErrAlreadyExists
	}

	idFor, err := s.buildIDFor(ctx, tx, lssRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare node id resolver: %w", err)
	}

	tree, states, err := dom.Ingest(result, idFor)
	if err != nil {
		return nil, fmt.Errorf("failed to build dom tree: %w", err)
	}

	domPostID := uuid.New().String()
	domPost, err := tx.DomPost.Create().
		SetID(domPostID).
		SetIngestPostID(ingestPostID).
		SetLssRunID(lssRunID).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, NewIntegrityError("dom_posts", err)
		}
		return nil, fmt.Errorf("failed to create dom post: %w", err)
	}

	snapshotID := uuid.New().String()
	if _, err := tx.DomSnapshot.Create().
		SetID(snapshotID).
		SetDomPostID(domPostID).
		SetVersion(0).
		SetLifecycleStage(domsnapshot.LifecycleStageCreated).
		Save(ctx); err != nil {
		return nil, fmt.Errorf("failed to create initial dom snapshot: %w", err)
	}

	for _, node := range tree.Nodes {
		builder := tx.DomNode.Create().
			SetID(node.ID).
			SetDomPostID(domPostID).
			SetNodeType(domnode.NodeType(string(node.Type))).
			SetOrdinal(node.Ordinal)
		if node.Text != "" {
			builder = builder.SetText(node.Text)
		}
		if node.LSSEventID != nil {
			builder = builder.SetLssEventID(*node.LSSEventID)
		}
		if len(node.LSSSectionIDs) > 0 {
			builder = builder.SetLssSectionIds(node.LSSSectionIDs)
		}
		if node.ParentIdx != -1 {
			builder = builder.SetParentID(tree.Nodes[node.ParentIdx].ID)
		}
		if _, err := builder.Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to create dom node: %w", err)
		}
	}

	for _, st := range states {
		node := tree.Nodes[st.NodeIdx]
		if _, err := tx.DomNodeState.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(snapshotID).
			SetDomNodeID(node.ID).
			SetSelected(st.Selected).
			SetSummary(st.Summary).
			Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to create dom node state: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return domPost, nil
}

// buildIDFor returns the idFor closure dom.Ingest needs: section and
// event node identities are the real persisted LSSSection/LSSEvent ids,
// so DomNode.lss_section_ids and DomNode.lss_event_id carry genuine
// provenance; every other node kind gets a fresh id.
func (s *DomService) buildIDFor(ctx context.Context, tx *ent.Tx, lssRunID string) (func(parts ...string) string, error) {
	sections, err := tx.LSSSection.Query().
		Where(lsssection.LssRunID(lssRunID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lss sections: %w", err)
	}
	sectionIDs := make(map[int]string, len(sections))
	sectionIDList := make([]string, 0, len(sections))
	for _, sec := range sections {
		sectionIDs[sec.Ordinal] = sec.ID
		sectionIDList = append(sectionIDList, sec.ID)
	}

	events, err := tx.LSSEvent.Query().
		Where(lssevent.LssSectionIDIn(sectionIDList...)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lss events: %w", err)
	}
	sectionOrdinalByID := make(map[string]int, len(sectionIDs))
	for ord, id := range sectionIDs {
		sectionOrdinalByID[id] = ord
	}
	eventIDs := make(map[[2]int]string, len(events))
	for _, ev := range events {
		secOrd := sectionOrdinalByID[ev.LssSectionID]
		eventIDs[[2]int{secOrd, ev.Ordinal}] = ev.ID
	}

	return func(parts ...string) string {
		if len(parts) > 0 {
			switch parts[0] {
			case "section":
				if len(parts) >= 2 {
					if ord, err := strconv.Atoi(parts[1]); err == nil {
						if id, ok := sectionIDs[ord]; ok {
							return id
						}
					}
				}
			case "event":
				if len(parts) >= 3 {
					so, errA := strconv.Atoi(parts[1])
					eo, errB := strconv.Atoi(parts[2])
					if errA == nil && errB == nil {
						if id, ok := eventIDs[[2]int{so, eo}]; ok {
							return id
						}
					}
				}
			}
		}
		return uuid.New().String()
	}, nil
}

// MaterializeContext computes and persists the dominance-resolved
// context for every node of the snapshot's tree. It runs at most once
// per snapshot.
func (s *DomService) MaterializeContext(ctx context.Context, snapshotID string) error {
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

	already, err := tx.DomContext.Query().
		Where(domcontext.DomSnapshotID(snapshotID)).
		Exist(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing dom contexts: %w", err)
	}
	if already {
		return dom.ErrAlreadyMaterialized
	}

	domPost, err := tx.DomPost.Get(ctx, snapshot.DomPostID)
	if err != nil {
		return fmt.Errorf("failed to get dom post: %w", err)
	}

	tree, err := s.LoadTree(ctx, tx, domPost.ID)
	if err != nil {
		return fmt.Errorf("failed to load dom tree: %w", err)
	}

	hints, err := tx.LSSContextHint.Query().
		Where(lsscontexthint.LssRunID(domPost.LssRunID)).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load lss context hints: %w", err)
	}

	targets, err := s.resolveHintTargets(ctx, tx, domPost.LssRunID, tree, hints)
	if err != nil {
		return fmt.Errorf("failed to resolve context hint targets: %w", err)
	}

	values, err := dom.MaterializeContext(tree, targets, false)
	if err != nil {
		return fmt.Errorf("failed to materialize context: %w", err)
	}

	for _, cv := range values {
		node := tree.Nodes[cv.NodeIdx]
		if _, err := tx.DomContext.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(snapshotID).
			SetDomNodeID(node.ID).
			SetCtxKind(domcontext.CtxKind(string(cv.Kind))).
			SetValue(cv.Value).
			Save(ctx); err != nil {
			return fmt.Errorf("failed to create dom context: %w", err)
		}
	}

	return tx.Commit()
}

// resolveHintTargets maps each persisted LSSContextHint to the DOM node
// index it qualifies. POST/SECTION/EVENT scopes resolve unambiguously
// via the run's real section and event ids. SERIES/LOCATION scopes carry
// only an ordinal local to their owning event, so a hint at those scopes
// is applied to every series/location node sharing that ordinal.
func (s *DomService) resolveHintTargets(ctx context.Context, tx *ent.Tx, lssRunID string, t *dom.Tree, hints []*ent.LSSContextHint) ([]dom.HintTarget, error) {
	var targets []dom.HintTarget

	for _, h := range hints {
		kind, ok := toContextKind(h.CtxKind)
		if !ok || h.Text == nil {
			continue
		}

		switch h.Scope {
		case lsscontexthint.ScopePost:
			if root := t.Root(); root != -1 {
				targets = append(targets, dom.HintTarget{NodeIdx: root, Kind: kind, Value: *h.Text})
			}

		case lsscontexthint.ScopeSection:
			ord, err := targetOrdinal(h.TargetID)
			if err != nil {
				continue
			}
			for idx, n := range t.Nodes {
				if n.Type == dom.NodeSection && n.Ordinal == ord {
					targets = append(targets, dom.HintTarget{NodeIdx: idx, Kind: kind, Value: *h.Text})
				}
			}

		case lsscontexthint.ScopeEvent:
			ord, err := targetOrdinal(h.TargetID)
			if err != nil {
				continue
			}
			ev, err := tx.LSSEvent.Query().
				Where(
					lssevent.HasLssSectionWith(lsssection.LssRunID(lssRunID)),
					lssevent.Ordinal(ord),
				).
				Only(ctx)
			if err != nil {
				continue
			}
			for idx, n := range t.Nodes {
				if n.Type == dom.NodeEvent && n.LSSEventID != nil && *n.LSSEventID == ev.ID {
					targets = append(targets, dom.HintTarget{NodeIdx: idx, Kind: kind, Value: *h.Text})
				}
			}

		case lsscontexthint.ScopeSeries:
			ord, err := targetOrdinal(h.TargetID)
			if err != nil {
				continue
			}
			for idx, n := range t.Nodes {
				if n.Type == dom.NodeLocationSeries && n.Ordinal == ord {
					targets = append(targets, dom.HintTarget{NodeIdx: idx, Kind: kind, Value: *h.Text})
				}
			}

		case lsscontexthint.ScopeLocation:
			ord, err := targetOrdinal(h.TargetID)
			if err != nil {
				continue
			}
			for idx, n := range t.Nodes {
				if n.Type == dom.NodeLocation && n.Ordinal == ord {
					targets = append(targets, dom.HintTarget{NodeIdx: idx, Kind: kind, Value: *h.Text})
				}
			}
		}
	}

	return targets, nil
}

func targetOrdinal(raw *string) (int, error) {
	if raw == nil {
		return 0, fmt.Errorf("nil target id")
	}
	return strconv.Atoi(*raw)
}

func toContextKind(k lsscontexthint.CtxKind) (dom.ContextKind, bool) {
	switch k {
	case lsscontexthint.CtxKindRegion:
		return dom.CtxRegion, true
	case lsscontexthint.CtxKindGroup:
		return dom.CtxGroup, true
	case lsscontexthint.CtxKindDirection:
		return dom.CtxDirection, true
	default:
		return "", false
	}
}

// LoadTree reconstructs the in-memory arena representation of a
// DomPost's immutable node tree from its persisted rows. Exported for
// reuse by CandidatesService, which needs the same tree inside its own
// transaction.
func (s *DomService) LoadTree(ctx context.Context, tx *ent.Tx, domPostID string) (*dom.Tree, error) {
	rows, err := tx.DomNode.Query().
		Where(domnode.DomPostID(domPostID)).
		WithParent().
		Order(ent.Asc(domnode.FieldOrdinal)).
		All(ctx)
	if err != nil {
		return nil, err
	}

	idxByID := make(map[string]int, len(rows))
	for i, r := range rows {
		idxByID[r.ID] = i
	}

	t := &dom.Tree{Nodes: make([]dom.Node, len(rows))}
	for i, r := range rows {
		parentIdx := -1
		if r.Edges.Parent != nil {
			parentIdx = idxByID[r.Edges.Parent.ID]
		}
		n := dom.Node{
			ID:        r.ID,
			Type:      dom.NodeType(string(r.NodeType)),
			ParentIdx: parentIdx,
			Ordinal:   r.Ordinal,
		}
		if r.Text != nil {
			n.Text = *r.Text
		}
		if r.LssEventID != nil {
			n.LSSEventID = r.LssEventID
		}
		n.LSSSectionIDs = r.LssSectionIds
		t.Nodes[i] = n
	}
	return t, nil
}

// LoadNodeStates reconstructs the pkg/dom NodeState slice for a snapshot.
func (s *DomService) LoadNodeStates(ctx context.Context, tx *ent.Tx, t *dom.Tree, snapshotID string) ([]dom.NodeState, error) {
	rows, err := tx.DomNodeState.Query().
		Where(domnodestate.DomSnapshotID(snapshotID)).
		All(ctx)
	if err != nil {
		return nil, err
	}

	idxByID := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		idxByID[n.ID] = i
	}

	out := make([]dom.NodeState, 0, len(rows))
	for _, r := range rows {
		idx, ok := idxByID[r.DomNodeID]
		if !ok {
			continue
		}
		out = append(out, dom.NodeState{
			NodeIdx:          idx,
			Selected:         r.Selected,
			Summary:          r.Summary,
			Resolved:         r.Resolved,
			ResolutionSource: derefString(r.ResolutionSource),
		})
	}
	return out, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AdvanceSnapshot creates the next snapshot in a DomPost's lifecycle,
// cloning every snapshot-scoped row forward from the current one.
func (s *DomService) AdvanceSnapshot(ctx context.Context, domPostID string) (*ent.DomSnapshot, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := tx.DomSnapshot.Query().
		Where(domsnapshot.DomPostID(domPostID)).
		Order(ent.Desc(domsnapshot.FieldVersion)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current dom snapshot: %w", err)
	}

	nextStage, err := dom.NextStage(dom.LifecycleStage(string(current.LifecycleStage)))
	if err != nil {
		return nil, NewValidationError("dom_post_id", err.Error())
	}

	newSnapshotID := uuid.New().String()
	newSnapshot, err := tx.DomSnapshot.Create().
		SetID(newSnapshotID).
		SetDomPostID(domPostID).
		SetVersion(current.Version + 1).
		SetLifecycleStage(domsnapshot.LifecycleStage(string(nextStage))).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create new dom snapshot: %w", err)
	}

	priorStates, err := tx.DomNodeState.Query().
		Where(domnodestate.DomSnapshotID(current.ID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior node states: %w", err)
	}
	for _, r := range priorStates {
		builder := tx.DomNodeState.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(newSnapshotID).
			SetDomNodeID(r.DomNodeID).
			SetSelected(r.Selected).
			SetSummary(r.Summary)
		if r.Resolved != nil {
			builder = builder.SetResolved(*r.Resolved)
		}
		if r.ResolutionSource != nil {
			builder = builder.SetResolutionSource(*r.ResolutionSource)
		}
		if _, err := builder.Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to clone node state: %w", err)
		}
	}

	priorContexts, err := tx.DomContext.Query().
		Where(domcontext.DomSnapshotID(current.ID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior contexts: %w", err)
	}
	for _, r := range priorContexts {
		builder := tx.DomContext.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(newSnapshotID).
			SetDomNodeID(r.DomNodeID).
			SetCtxKind(r.CtxKind).
			SetValue(r.Value)
		if r.SourceLssContextHintID != nil {
			builder = builder.SetSourceLssContextHintID(*r.SourceLssContextHintID)
		}
		if _, err := builder.Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to clone context: %w", err)
		}
	}

	priorCandidates, err := tx.DomLocationCandidate.Query().
		Where(domlocationcandidate.DomSnapshotID(current.ID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior location candidates: %w", err)
	}
	for _, r := range priorCandidates {
		scores := make(map[string]float64, len(r.Scores))
		for k, v := range r.Scores {
			scores[k] = v
		}
		if _, err := tx.DomLocationCandidate.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(newSnapshotID).
			SetDomNodeID(r.DomNodeID).
			SetLocaleCid(r.LocaleCid).
			SetLocaleName(r.LocaleName).
			SetLat(r.Lat).
			SetLon(r.Lon).
			SetScores(scores).
			SetTotal(r.Total).
			SetDiscarded(r.Discarded).
			SetIsOutlier(r.IsOutlier).
			SetSelected(r.Selected).
			Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to clone location candidate: %w", err)
		}
	}

	priorEligibility, err := tx.DomCommitEligibility.Query().
		Where(domcommiteligibility.DomSnapshotID(current.ID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior commit eligibility: %w", err)
	}
	for _, r := range priorEligibility {
		if _, err := tx.DomCommitEligibility.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(newSnapshotID).
			SetDomNodeID(r.DomNodeID).
			SetEligible(r.Eligible).
			SetReason(r.Reason).
			Save(ctx); err != nil {
			return nil, fmt.Errorf("failed to clone commit eligibility: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newSnapshot, nil
}

// RecomputeCommitEligibility clears and rewrites the commit verdict for
// every node of a snapshot, based on its current node states.
func (s *DomService) RecomputeCommitEligibility(ctx context.Context, snapshotID string) error {
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

	tree, err := s.LoadTree(ctx, tx, snapshot.DomPostID)
	if err != nil {
		return fmt.Errorf("failed to load dom tree: %w", err)
	}
	states, err := s.LoadNodeStates(ctx, tx, tree, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to load node states: %w", err)
	}

	verdicts := dom.RecomputeCommitEligibility(tree, states)

	if _, err := tx.DomCommitEligibility.Delete().
		Where(domcommiteligibility.DomSnapshotID(snapshotID)).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear prior commit eligibility: %w", err)
	}

	for _, v := range verdicts {
		node := tree.Nodes[v.NodeIdx]
		reason := domcommiteligibility.ReasonNone
		switch v.Reason {
		case dom.ReasonDeselected:
			reason = domcommiteligibility.ReasonDeselected
		case dom.ReasonUnresolved:
			reason = domcommiteligibility.ReasonUnresolved
		}
		if _, err := tx.DomCommitEligibility.Create().
			SetID(uuid.New().String()).
			SetDomSnapshotID(snapshotID).
			SetDomNodeID(node.ID).
			SetEligible(v.Eligible).
			SetReason(reason).
			Save(ctx); err != nil {
			return fmt.Errorf("failed to create commit eligibility: %w", err)
		}
	}

	return tx.Commit()
}

// GetDomPostByIngestPostID retrieves the DomPost materialized for an
// ingest post, if the pipeline has reached that stage.
func (s *DomService) GetDomPostByIngestPostID(ctx context.Context, ingestPostID string) (*ent.DomPost, error) {
	post, err := s.client.DomPost.Query().
		Where(dompost.IngestPostID(ingestPostID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dom post: %w", err)
	}
	return post, nil
}

// GetSnapshot retrieves a DomSnapshot by id.
func (s *DomService) GetSnapshot(ctx context.Context, snapshotID string) (*ent.DomSnapshot, error) {
	snap, err := s.client.DomSnapshot.Get(ctx, snapshotID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dom snapshot: %w", err)
	}
	return snap, nil
}

// GetLatestSnapshot retrieves the highest-version snapshot for a DomPost.
func (s *DomService) GetLatestSnapshot(ctx context.Context, domPostID string) (*ent.DomSnapshot, error) {
	snap, err := s.client.DomSnapshot.Query().
		Where(domsnapshot.DomPostID(domPostID)).
		Order(ent.Desc(domsnapshot.FieldVersion)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest dom snapshot: %w", err)
	}
	return snap, nil
}

// BuildSnapshotView assembles the full read-only tree projection of a
// snapshot for the HTTP API: node structure, per-node disposition,
// materialized context, and (for LOCATION nodes) scored candidates and
// commit eligibility. It opens its own read-only transaction so the
// projection is internally consistent even while a worker is mid-pipeline
// on the same snapshot.
func (s *DomService) BuildSnapshotView(ctx context.Context, snapshotID string) (*models.DomSnapshotResponse, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	snapshot, err := tx.DomSnapshot.Get(ctx, snapshotID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dom snapshot: %w", err)
	}

	tree, err := s.LoadTree(ctx, tx, snapshot.DomPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dom tree: %w", err)
	}

	states, err := s.LoadNodeStates(ctx, tx, tree, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load node states: %w", err)
	}
	stateByIdx := make(map[int]dom.NodeState, len(states))
	for _, st := range states {
		stateByIdx[st.NodeIdx] = st
	}

	idxByID := make(map[string]int, len(tree.Nodes))
	for i, n := range tree.Nodes {
		idxByID[n.ID] = i
	}

	ctxRows, err := tx.DomContext.Query().
		Where(domcontext.DomSnapshotID(snapshotID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dom contexts: %w", err)
	}
	ctxByIdx := make(map[int]map[dom.ContextKind]string)
	for _, r := range ctxRows {
		idx, ok := idxByID[r.DomNodeID]
		if !ok {
			continue
		}
		m, ok := ctxByIdx[idx]
		if !ok {
			m = make(map[dom.ContextKind]string)
			ctxByIdx[idx] = m
		}
		m[dom.ContextKind(string(r.CtxKind))] = r.Value
	}

	candRows, err := tx.DomLocationCandidate.Query().
		Where(domlocationcandidate.DomSnapshotID(snapshotID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load location candidates: %w", err)
	}
	candByNodeID := make(map[string][]*ent.DomLocationCandidate)
	for _, c := range candRows {
		candByNodeID[c.DomNodeID] = append(candByNodeID[c.DomNodeID], c)
	}

	eligRows, err := tx.DomCommitEligibility.Query().
		Where(domcommiteligibility.DomSnapshotID(snapshotID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit eligibility: %w", err)
	}
	eligByNodeID := make(map[string]*ent.DomCommitEligibility, len(eligRows))
	for _, e := range eligRows {
		eligByNodeID[e.DomNodeID] = e
	}

	root := tree.Root()
	if root == -1 {
		return nil, fmt.Errorf("dom post %s has no root node", snapshot.DomPostID)
	}

	var build func(idx int) models.DomNodeResponse
	build = func(idx int) models.DomNodeResponse {
		node := tree.Nodes[idx]
		resp := models.DomNodeResponse{
			ID:      node.ID,
			Type:    string(node.Type),
			Ordinal: node.Ordinal,
			Text:    node.Text,
		}
		if node.ParentIdx != -1 {
			resp.ParentID = tree.Nodes[node.ParentIdx].ID
		}
		if st, ok := stateByIdx[idx]; ok {
			resp.State = models.DomNodeStateView{
				Selected:         st.Selected,
				Summary:          st.Summary,
				Resolved:         st.Resolved,
				ResolutionSource: st.ResolutionSource,
			}
		}

		if kinds, ok := ctxByIdx[idx]; ok {
			var parentKinds map[dom.ContextKind]string
			if node.ParentIdx != -1 {
				parentKinds = ctxByIdx[node.ParentIdx]
			}
			for kind, value := range kinds {
				overridden := true
				if pv, ok := parentKinds[kind]; ok && pv == value {
					overridden = false
				}
				resp.Context = append(resp.Context, models.DomContextView{
					Kind:       string(kind),
					Value:      value,
					Overridden: overridden,
				})
			}
		}

		if node.Type == dom.NodeLocation {
			for _, c := range candByNodeID[node.ID] {
				resp.Candidates = append(resp.Candidates, models.LocationCandidateView{
					LocaleCID:  c.LocaleCid,
					LocaleName: c.LocaleName,
					Lat:        c.Lat,
					Lon:        c.Lon,
					Scores:     c.Scores,
					Total:      c.Total,
					Discarded:  c.Discarded,
					IsOutlier:  c.IsOutlier,
					Selected:   c.Selected,
				})
			}
			if e, ok := eligByNodeID[node.ID]; ok {
				resp.Eligibility = &models.CommitEligibilityView{
					NodeID:   node.ID,
					Eligible: e.Eligible,
					Reason:   string(e.Reason),
				}
			}
		}

		for _, childIdx := range tree.Children(idx) {
			resp.Children = append(resp.Children, build(childIdx))
		}
		return resp
	}

	rootResp := build(root)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &models.DomSnapshotResponse{
		SnapshotID:     snapshot.ID,
		Version:        snapshot.Version,
		LifecycleStage: string(snapshot.LifecycleStage),
		Root:           rootResp,
	}, nil
}
