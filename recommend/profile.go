// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ProfileBuilder turns a user's stored signals into a PreferenceProfile.
//
// Explicit signals for the three relation kinds populate the favorite and
// high-rated sets directly. Item-level signals are walked once per request:
// each qualifying rated/favorited item contributes a multiplier to the
// derived weight of every contributor, owner, and direct tag on that item's
// projection. The walk is bounded by user activity, not catalog size, so
// rebuilding on every request stays cheap.
type ProfileBuilder struct {
	cfg     *Config
	signals SignalStore
	store   ProjectionStore
	logger  zerolog.Logger
}

// NewProfileBuilder creates a profile builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProfileBuilder(cfg *Config, signals SignalStore, store ProjectionStore, logger zerolog.Logger) *ProfileBuilder {
	return &ProfileBuilder{
		cfg:     cfg,
		signals: signals,
		store:   store,
		logger:  logger.With().Str("component", "profile").Logger(),
	}
}

// Build constructs the user's preference profile from stored signals.
// The returned profile is read-only and discarded at request end.
func (b *ProfileBuilder) Build(ctx context.Context, userID int) (*PreferenceProfile, error) {
	prof := &PreferenceProfile{
		Favorites: make(map[Kind]IDSet, len(Kinds)),
		HighRated: make(map[Kind]IDSet, len(Kinds)),
		Derived:   make(map[Kind]map[int]float64, len(Kinds)),
	}
	for _, kind := range Kinds {
		prof.Favorites[kind] = make(IDSet)
		prof.HighRated[kind] = make(IDSet)
		prof.Derived[kind] = make(map[int]float64)
	}

	if err := b.loadEntitySignals(ctx, userID, prof); err != nil {
		return nil, err
	}

	if err := b.accumulateDerivedWeights(ctx, userID, prof); err != nil {
		return nil, err
	}

	interactions, err := b.signals.ItemInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load interactions: %w", ErrProfileBuildFailure, err)
	}
	prof.LastInteraction = interactions

	b.logger.Debug().
		Int("user_id", userID).
		Int("favorite_items", prof.FavoriteItems).
		Int("rated_items", prof.RatedItems).
		Int("derived_contributors", len(prof.Derived[KindContributor])).
		Int("derived_owners", len(prof.Derived[KindOwner])).
		Int("derived_tags", len(prof.Derived[KindTag])).
		Msg("preference profile built")

	return prof, nil
}

// loadEntitySignals fills the explicit favorite and high-rated sets for all
// relation kinds.
func (b *ProfileBuilder) loadEntitySignals(ctx context.Context, userID int, prof *PreferenceProfile) error {
	for _, kind := range Kinds {
		sigs, err := b.signals.EntitySignals(ctx, userID, kind)
		if err != nil {
			return fmt.Errorf("%w: load %s signals: %w", ErrProfileBuildFailure, kind, err)
		}

		for _, sig := range sigs {
			if sig.Favorite {
				prof.Favorites[kind][sig.EntityID] = struct{}{}
			}
			if sig.Rating != nil && *sig.Rating >= b.cfg.Profile.HighRatedMin {
				prof.HighRated[kind][sig.EntityID] = struct{}{}
			}
		}
	}
	return nil
}

// accumulateDerivedWeights walks the user's item-level signals and sums each
// qualifying item's multiplier into the derived weight of every relation id
// on that item's projection. Accumulation, not max, across items.
func (b *ProfileBuilder) accumulateDerivedWeights(ctx context.Context, userID int, prof *PreferenceProfile) error {
	itemSigs, err := b.signals.ItemSignals(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: load item signals: %w", ErrProfileBuildFailure, err)
	}

	multipliers := make(map[int]float64, len(itemSigs))
	qualifying := make([]int, 0, len(itemSigs))
	for _, sig := range itemSigs {
		if sig.Favorite {
			prof.FavoriteItems++
		}
		if sig.Rating != nil {
			prof.RatedItems++
		}

		m := b.signalMultiplier(sig)
		if m <= 0 {
			continue
		}
		multipliers[sig.EntityID] = m
		qualifying = append(qualifying, sig.EntityID)
	}

	if len(qualifying) == 0 {
		return nil
	}

	projections, err := b.store.LoadProjectionsByIDs(ctx, qualifying)
	if err != nil {
		return fmt.Errorf("%w: load signal projections: %w", ErrProfileBuildFailure, err)
	}

	for i := range projections {
		p := &projections[i]
		m := multipliers[p.ID]
		if m <= 0 {
			continue
		}

		for id := range p.ContributorIDs {
			prof.Derived[KindContributor][id] += m
		}
		if p.OwnerID != 0 {
			prof.Derived[KindOwner][p.OwnerID] += m
		}
		for id := range p.TagIDs {
			prof.Derived[KindTag][id] += m
		}
	}

	return nil
}

// signalMultiplier computes the derived-weight multiplier for one item-level
// signal. Returns zero when the signal does not qualify.
func (b *ProfileBuilder) signalMultiplier(sig PreferenceSignal) float64 {
	rating := -1
	if sig.Rating != nil {
		rating = *sig.Rating
	} else if sig.Favorite {
		rating = b.cfg.Profile.ImplicitRating
	}

	if rating < 0 || rating < b.cfg.Profile.RatingFloor {
		return 0
	}

	m := float64(rating) / 100.0 * b.cfg.Profile.BaseWeight
	if sig.Favorite {
		m += b.cfg.Profile.FavoriteBonus
	}
	return m
}

// Counts summarizes the profile for diagnostics on empty rankings.
func (p *PreferenceProfile) Counts() *DiagnosticCounts {
	return &DiagnosticCounts{
		FavoriteContributors:  len(p.Favorites[KindContributor]),
		HighRatedContributors: len(p.HighRated[KindContributor]),
		FavoriteOwners:        len(p.Favorites[KindOwner]),
		HighRatedOwners:       len(p.HighRated[KindOwner]),
		FavoriteTags:          len(p.Favorites[KindTag]),
		HighRatedTags:         len(p.HighRated[KindTag]),
		FavoriteItems:         p.FavoriteItems,
		RatedItems:            p.RatedItems,
	}
}
