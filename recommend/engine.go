// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelrank/metrics"
)

// Engine orchestrates the ranking pipeline: exclusion filtering, profile
// construction, per-item scoring, sort/cap/paginate, and selective
// hydration of the final page.
//
// The engine is stateless across requests: every request rebuilds its
// projections and profile from current data and discards them at request
// end, so concurrent Rank calls need no locking.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	store      ProjectionStore
	signals    SignalStore
	visibility VisibilityPredicate
	gateway    HydrationGateway

	profiles *ProfileBuilder
}

// Dependencies bundles the external collaborators of the engine.
type Dependencies struct {
	// Projections is the scoring projection store.
	Projections ProjectionStore

	// Signals is the user preference signal store.
	Signals SignalStore

	// Visibility is the caller's per-user visibility predicate.
	Visibility VisibilityPredicate

	// Hydration is the gateway for the final page fetch.
	Hydration HydrationGateway
}

// NewEngine creates a ranking engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if deps.Projections == nil {
		return nil, fmt.Errorf("projection store is required")
	}
	if deps.Signals == nil {
		return nil, fmt.Errorf("signal store is required")
	}
	if deps.Visibility == nil {
		return nil, fmt.Errorf("visibility predicate is required")
	}
	if deps.Hydration == nil {
		return nil, fmt.Errorf("hydration gateway is required")
	}

	log := logger.With().Str("component", "engine").Logger()

	return &Engine{
		cfg:        cfg,
		logger:     log,
		store:      deps.Projections,
		signals:    deps.Signals,
		visibility: deps.Visibility,
		gateway:    deps.Hydration,
		profiles:   NewProfileBuilder(cfg, deps.Signals, deps.Projections, logger),
	}, nil
}

// Rank computes one ranked, hydrated page for the request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Rank(ctx context.Context, req Request) (*RankedPage, error) {
	start := time.Now()
	req = e.prepareRequest(req)

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Str("mode", req.Mode.String()).
		Logger()
	logger.Debug().Int("page", req.Page).Int("per_page", req.PerPage).Msg("processing ranking request")

	page, err := e.rank(ctx, req, logger)

	mode := req.Mode.String()
	metrics.RankRequestDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RankRequests.WithLabelValues(mode, "failure").Inc()
		return nil, err
	}
	metrics.RankRequests.WithLabelValues(mode, "success").Inc()

	logger.Debug().
		Int("total_matches", page.TotalMatchCount).
		Int("returned", len(page.Items)).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("ranking complete")

	return page, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = e.cfg.Limits.DefaultPerPage
	}
	if req.PerPage > e.cfg.Limits.MaxPerPage {
		req.PerPage = e.cfg.Limits.MaxPerPage
	}
	return req
}

// rank runs the pipeline steps in order. The exclusion resolution and the
// catalog load depend only on the user id and run concurrently; every later
// step depends on its predecessor.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) rank(ctx context.Context, req Request, logger zerolog.Logger) (*RankedPage, error) {
	excluded, projections, err := e.loadCatalog(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	candidates := filterProjections(projections, excluded, req)

	var prof *PreferenceProfile
	var scoreFn func(*ScoringProjection) float64

	switch req.Mode {
	case ModeSimilar:
		scoreFn, err = e.similarityScorer(ctx, req, excluded)
		if err != nil {
			return nil, err
		}
		if scoreFn == nil {
			// Zero-relation reference: nothing can overlap.
			logger.Debug().Int("reference_id", req.ReferenceID).Msg("reference has no relations")
			return e.emptyPage(req, nil), nil
		}
	default:
		prof, scoreFn, err = e.personalizedScorer(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	scored, err := e.scoreCandidates(ctx, candidates, scoreFn)
	if err != nil {
		return nil, err
	}

	sortCandidates(scored)

	metrics.CandidatesScored.WithLabelValues(req.Mode.String()).Observe(float64(len(scored)))

	if req.Mode == ModePersonalized && len(scored) > e.cfg.Limits.CandidateCap {
		scored = scored[:e.cfg.Limits.CandidateCap]
	}

	if len(scored) == 0 {
		var diag *DiagnosticCounts
		if prof != nil {
			diag = prof.Counts()
		}
		return e.emptyPage(req, diag), nil
	}

	pageIDs := slicePage(scored, req.Page, req.PerPage)

	items, err := e.hydrate(ctx, req.UserID, pageIDs)
	if err != nil {
		return nil, err
	}

	return &RankedPage{
		Items:           items,
		TotalMatchCount: len(scored),
		Page:            req.Page,
		PerPage:         req.PerPage,
	}, nil
}

// loadCatalog resolves the exclusion set and loads the catalog projections
// concurrently.
func (e *Engine) loadCatalog(ctx context.Context, userID int) (IDSet, []ScoringProjection, error) {
	var excluded IDSet
	var projections []ScoringProjection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		excluded, err = e.visibility.ExcludedIDs(gctx, userID, true)
		if err != nil {
			return fmt.Errorf("resolve excluded ids: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projections, err = e.store.LoadProjections(gctx)
		if err != nil {
			return fmt.Errorf("%w: load projections: %w", ErrProjectionUnavailable, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return excluded, projections, nil
}

// filterProjections drops excluded items, and in similar mode the reference
// item itself, before any scoring work happens.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func filterProjections(projections []ScoringProjection, excluded IDSet, req Request) []ScoringProjection {
	kept := make([]ScoringProjection, 0, len(projections))
	for _, p := range projections {
		if excluded.Contains(p.ID) {
			continue
		}
		if req.Mode == ModeSimilar && p.ID == req.ReferenceID {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// personalizedScorer builds the user's profile and returns the affinity
// scoring function over it.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) personalizedScorer(ctx context.Context, req Request) (*PreferenceProfile, func(*ScoringProjection) float64, error) {
	tags, err := e.store.LoadTagIndex(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load tag index: %w", ErrProjectionUnavailable, err)
	}

	prof, err := e.profiles.Build(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}

	scorer := NewScorer(e.cfg, tags)
	now := time.Now()
	return prof, func(p *ScoringProjection) float64 {
		return scorer.Score(p, prof, now)
	}, nil
}

// similarityScorer resolves the reference projection and returns the overlap
// scoring function against it. A nil function (with nil error) means the
// reference has no relations and the ranking short-circuits to empty.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) similarityScorer(ctx context.Context, req Request, excluded IDSet) (func(*ScoringProjection) float64, error) {
	if excluded.Contains(req.ReferenceID) {
		return nil, fmt.Errorf("%w: id %d", ErrReferenceNotFound, req.ReferenceID)
	}

	ref, err := e.store.LoadProjection(ctx, req.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("%w: load reference: %w", ErrProjectionUnavailable, err)
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: id %d", ErrReferenceNotFound, req.ReferenceID)
	}
	if ref.RelationCount() == 0 {
		return nil, nil
	}

	scorer := NewScorer(e.cfg, nil)
	return func(p *ScoringProjection) float64 {
		return scorer.Similarity(p, ref)
	}, nil
}

// scoreCandidates scores every projection and keeps the ones with a
// positive score. Scoring is pure CPU work against read-only state, so it
// is sharded across workers for large candidate sets.
func (e *Engine) scoreCandidates(ctx context.Context, projections []ScoringProjection, scoreFn func(*ScoringProjection) float64) ([]ScoredCandidate, error) {
	shards := e.cfg.Limits.ScoringShards
	if shards <= 0 {
		shards = runtime.GOMAXPROCS(0)
	}
	if shards > len(projections) {
		shards = 1
	}

	results := make([][]ScoredCandidate, shards)
	chunk := (len(projections) + shards - 1) / shards

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		lo := i * chunk
		hi := lo + chunk
		if hi > len(projections) {
			hi = len(projections)
		}

		g.Go(func() error {
			out := make([]ScoredCandidate, 0, hi-lo)
			for j := lo; j < hi; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				p := &projections[j]
				if score := scoreFn(p); score > 0 {
					out = append(out, ScoredCandidate{
						ID:         p.ID,
						Score:      score,
						OccurredOn: p.OccurredOn,
					})
				}
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scored := make([]ScoredCandidate, 0, len(projections))
	for _, out := range results {
		scored = append(scored, out...)
	}
	return scored, nil
}

// sortCandidates orders candidates descending by score, tie-breaking
// descending by item date with nulls last, then descending by id so equal
// inputs always produce identical orderings.
func sortCandidates(scored []ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		switch {
		case a.OccurredOn == nil && b.OccurredOn == nil:
			// Fall through to id tie-break.
		case a.OccurredOn == nil:
			return false
		case b.OccurredOn == nil:
			return true
		case !a.OccurredOn.Equal(*b.OccurredOn):
			return a.OccurredOn.After(*b.OccurredOn)
		}

		return a.ID > b.ID
	})
}

// slicePage returns the item ids for the requested page.
func slicePage(scored []ScoredCandidate, page, perPage int) []int {
	lo := (page - 1) * perPage
	if lo >= len(scored) {
		return nil
	}
	hi := lo + perPage
	if hi > len(scored) {
		hi = len(scored)
	}

	ids := make([]int, 0, hi-lo)
	for _, c := range scored[lo:hi] {
		ids = append(ids, c.ID)
	}
	return ids
}

// hydrate fetches the page's entities and reimposes rank order; the
// gateway's own return order is unreliable.
func (e *Engine) hydrate(ctx context.Context, userID int, ids []int) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}

	fetched, err := e.gateway.FetchByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHydrationFailure, err)
	}

	byID := make(map[int]Item, len(fetched))
	for _, item := range fetched {
		byID[item.ID] = item
	}

	ordered := make([]Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// emptyPage builds the response for an empty candidate set.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyPage(req Request, diag *DiagnosticCounts) *RankedPage {
	return &RankedPage{
		Items:           []Item{},
		TotalMatchCount: 0,
		Page:            req.Page,
		PerPage:         req.PerPage,
		Diagnostics:     diag,
	}
}
