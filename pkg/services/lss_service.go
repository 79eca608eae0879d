package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nuclearfall/sitrepc2-core/ent"
	"github.com/nuclearfall/sitrepc2-core/ent/lsscontexthint"
	"github.com/nuclearfall/sitrepc2-core/ent/lssrolecandidate"
	"github.com/nuclearfall/sitrepc2-core/ent/lssrun"
	"github.com/nuclearfall/sitrepc2-core/pkg/lss"
)

// Annotator is the opaque NLP boundary: given a section's text, it
// returns the entity/event/sentence structure lss.Run scopes over.
// Production wiring plugs in whatever annotation service is deployed;
// this package only depends on the function signature.
type Annotator func(section lss.Section) lss.Annotation

// LSSService runs the linguistic-structural-scoping pipeline against an
// ingested post and persists every stage of its output.
type LSSService struct {
	client        *ent.Client
	annotate      Annotator
	engine        string
	engineVersion string
	minSimilarity float64
}

// NewLSSService creates a new LSSService. engine/engineVersion identify
// the annotator implementation behind the Annotator boundary and are
// recorded on every LSSRun for provenance, but are never interpreted by
// this package.
func NewLSSService(client *ent.Client, annotate Annotator, engine, engineVersion string, minSimilarity float64) *LSSService {
	return &LSSService{client: client, annotate: annotate, engine: engine, engineVersion: engineVersion, minSimilarity: minSimilarity}
}

// Run executes one LSS pass over ingestPostID's text and persists the
// run, its sections, its surviving events, and their role candidates,
// location series/items, and context hints inside a single transaction.
// Re-running a failed run for the same post is always allowed: a new
// LSSRun row is inserted rather than reusing a partial one, so prior
// partial attempts stay distinguishable by completed_at IS NULL.
func (s *LSSService) Run(ctx context.Context, ingestPostID, postText string) (*ent.LSSRun, lss.Result, error) {
	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, lss.Result{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	run, err := tx.LSSRun.Create().
		SetID(uuid.New().String()).
		SetIngestPostID(ingestPostID).
		SetEngine(s.engine).
		SetEngineVersion(s.engineVersion).
		SetMinSimilarity(s.minSimilarity).
		SetStartedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, lss.Result{}, fmt.Errorf("failed to create lss run: %w", err)
	}

	result := lss.Run(postText, s.minSimilarity, s.annotate)

	if err := s.persistResult(ctx, tx, run.ID, result); err != nil {
		_, _ = tx.LSSRun.UpdateOneID(run.ID).
			SetStatus(lssrun.StatusFailed).
			SetErrorMessage(err.Error()).
			Save(ctx)
		if cErr := tx.Commit(); cErr != nil {
			return nil, lss.Result{}, fmt.Errorf("failed to commit failed run: %w", cErr)
		}
		return nil, lss.Result{}, fmt.Errorf("failed to persist lss result: %w", err)
	}

	run, err = tx.LSSRun.UpdateOneID(run.ID).
		SetStatus(lssrun.StatusCompleted).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, lss.Result{}, fmt.Errorf("failed to finalize lss run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, lss.Result{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, result, nil
}

func (s *LSSService) persistResult(ctx context.Context, tx *ent.Tx, runID string, result lss.Result) error {
	sectionIDs := make(map[int]string, len(result.Sections))
	for _, sec := range result.Sections {
		id := uuid.New().String()
		if _, err := tx.LSSSection.Create().
			SetID(id).
			SetLssRunID(runID).
			SetOrdinal(sec.Ordinal).
			SetText(sec.Text).
			SetStartChar(sec.StartChar).
			SetEndChar(sec.EndChar).
			Save(ctx); err != nil {
			return fmt.Errorf("failed to create lss section %d: %w", sec.Ordinal, err)
		}
		sectionIDs[sec.Ordinal] = id
	}

	for _, ev := range result.Events {
		sectionID, ok := sectionIDs[ev.SectionOrdinal]
		if !ok {
			return fmt.Errorf("event references unknown section ordinal %d", ev.SectionOrdinal)
		}

		eventID := uuid.New().String()
		builder := tx.LSSEvent.Create().
			SetID(eventID).
			SetLssSectionID(sectionID).
			SetOrdinal(ev.EventOrdinal).
			SetLabel(ev.Label).
			SetText(ev.Text).
			SetStartToken(ev.StartToken).
			SetEndToken(ev.EndToken).
			SetSimilarity(ev.Similarity).
			SetNegated(ev.Negated).
			SetUncertain(ev.Uncertain).
			SetInvolvesCoreference(ev.InvolvesCoreference)
		if ev.SearchPhrase != "" {
			builder = builder.SetSearchPhrase(ev.SearchPhrase)
		}
		if _, err := builder.Save(ctx); err != nil {
			return fmt.Errorf("failed to create lss event: %w", err)
		}

		for _, rc := range ev.RoleCandidates {
			kind := lssrolecandidate.KindActor
			if rc.RoleKind == lss.RoleAction {
				kind = lssrolecandidate.KindAction
			}
			rcBuilder := tx.LSSRoleCandidate.Create().
				SetID(uuid.New().String()).
				SetLssEventID(eventID).
				SetKind(kind).
				SetText(rc.Text).
				SetDocumentWord(rc.DocumentWord).
				SetStartToken(rc.StartToken).
				SetEndToken(rc.EndToken).
				SetMatchType(string(rc.MatchType)).
				SetSimilarity(rc.Similarity).
				SetNegated(rc.Negated).
				SetUncertain(rc.Uncertain).
				SetInvolvesCoreference(rc.InvolvesCoreference)
			if rc.Explanation != "" {
				rcBuilder = rcBuilder.SetExplanation(rc.Explanation)
			}
			if _, err := rcBuilder.Save(ctx); err != nil {
				return fmt.Errorf("failed to create lss role candidate: %w", err)
			}
		}

		for sIdx, series := range ev.LocationSeries {
			seriesID := uuid.New().String()
			if _, err := tx.LSSLocationSeries.Create().
				SetID(seriesID).
				SetLssEventID(eventID).
				SetOrdinal(sIdx).
				Save(ctx); err != nil {
				return fmt.Errorf("failed to create lss location series: %w", err)
			}

			for lIdx, item := range series.Items {
				if _, err := tx.LSSLocationItem.Create().
					SetID(uuid.New().String()).
					SetLssLocationSeriesID(seriesID).
					SetOrdinal(lIdx).
					SetText(item.Text).
					SetStartToken(item.StartToken).
					SetEndToken(item.EndToken).
					Save(ctx); err != nil {
					return fmt.Errorf("failed to create lss location item: %w", err)
				}
			}
		}
	}

	for _, hint := range result.Context {
		builder := tx.LSSContextHint.Create().
			SetID(uuid.New().String()).
			SetLssRunID(runID).
			SetCtxKind(lsscontexthint.CtxKind(strings.ToLower(string(hint.CtxKind)))).
			SetScope(lsscontexthint.Scope(strings.ToLower(string(hint.Scope)))).
			SetSource(lsscontexthint.Source(strings.ToLower(string(hint.Source))))
		if hint.Text != "" {
			builder = builder.SetText(hint.Text)
		}
		if hint.StartToken != nil {
			builder = builder.SetStartToken(*hint.StartToken)
		}
		if hint.EndToken != nil {
			builder = builder.SetEndToken(*hint.EndToken)
		}
		if hint.TargetID != nil {
			builder = builder.SetTargetID(fmt.Sprint(*hint.TargetID))
		}
		if _, err := builder.Save(ctx); err != nil {
			return fmt.Errorf("failed to create lss context hint: %w", err)
		}
	}

	return nil
}
