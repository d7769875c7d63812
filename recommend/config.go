// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Config contains all tunables for the scoring engine and ranking pipeline.
type Config struct {
	// Points defines the per-kind point constants for personalized scoring.
	Points PointsConfig `json:"points" koanf:"points"`

	// Profile defines the derived-weight accumulation constants.
	Profile ProfileConfig `json:"profile" koanf:"profile"`

	// Temporal defines the interaction-recency modifier bands.
	Temporal TemporalConfig `json:"temporal" koanf:"temporal"`

	// Engagement defines the engagement-quality multiplier.
	Engagement EngagementConfig `json:"engagement" koanf:"engagement"`

	// Similarity defines the per-kind overlap weights for similarity mode.
	Similarity SimilarityConfig `json:"similarity" koanf:"similarity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// PointsConfig defines the point constants converted to scores with
// diminishing returns. Contributor points exceed owner points, which exceed
// tag points; tag points shrink further with less specific origins.
type PointsConfig struct {
	// ContributorFavorite scores favorited-contributor matches.
	// Default: 5.0.
	ContributorFavorite float64 `json:"contributor_favorite" koanf:"contributor_favorite"`

	// ContributorRated scores high-rated-contributor matches.
	// Default: 3.0.
	ContributorRated float64 `json:"contributor_rated" koanf:"contributor_rated"`

	// OwnerFavorite scores favorited-owner matches.
	// Default: 3.0.
	OwnerFavorite float64 `json:"owner_favorite" koanf:"owner_favorite"`

	// OwnerRated scores high-rated-owner matches.
	// Default: 2.0.
	OwnerRated float64 `json:"owner_rated" koanf:"owner_rated"`

	// TagDirectFavorite scores favorited tags found directly on the item.
	// Default: 2.0.
	TagDirectFavorite float64 `json:"tag_direct_favorite" koanf:"tag_direct_favorite"`

	// TagDirectRated scores high-rated tags found directly on the item.
	// Default: 1.0.
	TagDirectRated float64 `json:"tag_direct_rated" koanf:"tag_direct_rated"`

	// TagContributorFavorite scores favorited tags inherited through a
	// contributor. Default: 1.0.
	TagContributorFavorite float64 `json:"tag_contributor_favorite" koanf:"tag_contributor_favorite"`

	// TagContributorRated scores high-rated tags inherited through a
	// contributor. Default: 0.5.
	TagContributorRated float64 `json:"tag_contributor_rated" koanf:"tag_contributor_rated"`

	// TagOwnerFavorite scores favorited tags inherited through the owner.
	// Default: 0.5.
	TagOwnerFavorite float64 `json:"tag_owner_favorite" koanf:"tag_owner_favorite"`

	// TagOwnerRated scores high-rated tags inherited through the owner.
	// Default: 0.25.
	TagOwnerRated float64 `json:"tag_owner_rated" koanf:"tag_owner_rated"`
}

// ProfileConfig defines how item-level signals become derived weights.
type ProfileConfig struct {
	// BaseWeight scales the rating fraction into a weight contribution.
	// Default: 1.0.
	BaseWeight float64 `json:"base_weight" koanf:"base_weight"`

	// ImplicitRating is substituted for favorited items with no explicit
	// rating. Default: 75.
	ImplicitRating int `json:"implicit_rating" koanf:"implicit_rating"`

	// RatingFloor is the minimum effective rating that contributes any
	// derived weight. Default: 60.
	RatingFloor int `json:"rating_floor" koanf:"rating_floor"`

	// FavoriteBonus is added to the multiplier of favorited items.
	// Default: 0.25.
	FavoriteBonus float64 `json:"favorite_bonus" koanf:"favorite_bonus"`

	// HighRatedMin is the explicit rating threshold for the high-rated
	// sets. Default: 80.
	HighRatedMin int `json:"high_rated_min" koanf:"high_rated_min"`
}

// TemporalConfig defines the four interaction-recency bands applied to the
// base score. Items the user never interacted with get the largest bonus;
// very recently watched items get the largest penalty.
type TemporalConfig struct {
	// NeverInteractedBonus applies to items with no recorded interaction.
	// Default: 2.0.
	NeverInteractedBonus float64 `json:"never_interacted_bonus" koanf:"never_interacted_bonus"`

	// StaleBonus applies to items last interacted with before StaleAfter.
	// Default: 1.0.
	StaleBonus float64 `json:"stale_bonus" koanf:"stale_bonus"`

	// RecentPenalty applies to items interacted with between
	// VeryRecentWithin and StaleAfter ago. Default: -1.0.
	RecentPenalty float64 `json:"recent_penalty" koanf:"recent_penalty"`

	// VeryRecentPenalty applies to items interacted with within
	// VeryRecentWithin. Default: -2.5.
	VeryRecentPenalty float64 `json:"very_recent_penalty" koanf:"very_recent_penalty"`

	// VeryRecentWithin bounds the very-recent band. Default: 720h (30d).
	VeryRecentWithin time.Duration `json:"very_recent_within" koanf:"very_recent_within"`

	// StaleAfter bounds the stale band. Default: 4320h (180d).
	StaleAfter time.Duration `json:"stale_after" koanf:"stale_after"`
}

// EngagementConfig defines the engagement-quality multiplier derived from an
// item's own engagement counter.
type EngagementConfig struct {
	// CounterCap clamps the engagement counter. Default: 10.
	CounterCap int `json:"counter_cap" koanf:"counter_cap"`

	// MaxBoost is the multiplier gain at the cap: a capped counter yields
	// a multiplier of 1+MaxBoost, scaling linearly below it.
	// Default: 0.5.
	MaxBoost float64 `json:"max_boost" koanf:"max_boost"`
}

// SimilarityConfig defines the per-kind overlap weights for similarity mode.
type SimilarityConfig struct {
	// ContributorWeight weights shared contributors. Default: 3.0.
	ContributorWeight float64 `json:"contributor_weight" koanf:"contributor_weight"`

	// OwnerWeight weights a shared owner. Default: 2.0.
	OwnerWeight float64 `json:"owner_weight" koanf:"owner_weight"`

	// TagWeight weights shared direct tags. Default: 1.0.
	TagWeight float64 `json:"tag_weight" koanf:"tag_weight"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// CandidateCap bounds the personalized candidate set before
	// pagination, to bound hydration cost. Similarity mode is uncapped.
	// Default: 500.
	CandidateCap int `json:"candidate_cap" koanf:"candidate_cap"`

	// DefaultPerPage is the page size when the request leaves it zero.
	// Default: 25.
	DefaultPerPage int `json:"default_per_page" koanf:"default_per_page"`

	// MaxPerPage is the maximum allowed page size. Default: 100.
	MaxPerPage int `json:"max_per_page" koanf:"max_per_page"`

	// ScoringShards is the number of worker goroutines for the pure
	// scoring phase. Zero means one shard per available CPU.
	ScoringShards int `json:"scoring_shards" koanf:"scoring_shards"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Points: PointsConfig{
			ContributorFavorite:    5.0,
			ContributorRated:       3.0,
			OwnerFavorite:          3.0,
			OwnerRated:             2.0,
			TagDirectFavorite:      2.0,
			TagDirectRated:         1.0,
			TagContributorFavorite: 1.0,
			TagContributorRated:    0.5,
			TagOwnerFavorite:       0.5,
			TagOwnerRated:          0.25,
		},
		Profile: ProfileConfig{
			BaseWeight:     1.0,
			ImplicitRating: 75,
			RatingFloor:    60,
			FavoriteBonus:  0.25,
			HighRatedMin:   80,
		},
		Temporal: TemporalConfig{
			NeverInteractedBonus: 2.0,
			StaleBonus:           1.0,
			RecentPenalty:        -1.0,
			VeryRecentPenalty:    -2.5,
			VeryRecentWithin:     30 * 24 * time.Hour,
			StaleAfter:           180 * 24 * time.Hour,
		},
		Engagement: EngagementConfig{
			CounterCap: 10,
			MaxBoost:   0.5,
		},
		Similarity: SimilarityConfig{
			ContributorWeight: 3.0,
			OwnerWeight:       2.0,
			TagWeight:         1.0,
		},
		Limits: LimitsConfig{
			CandidateCap:   500,
			DefaultPerPage: 25,
			MaxPerPage:     100,
			ScoringShards:  0,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	points := map[string]float64{
		"points.contributor_favorite":     c.Points.ContributorFavorite,
		"points.contributor_rated":        c.Points.ContributorRated,
		"points.owner_favorite":           c.Points.OwnerFavorite,
		"points.owner_rated":              c.Points.OwnerRated,
		"points.tag_direct_favorite":      c.Points.TagDirectFavorite,
		"points.tag_direct_rated":         c.Points.TagDirectRated,
		"points.tag_contributor_favorite": c.Points.TagContributorFavorite,
		"points.tag_contributor_rated":    c.Points.TagContributorRated,
		"points.tag_owner_favorite":       c.Points.TagOwnerFavorite,
		"points.tag_owner_rated":          c.Points.TagOwnerRated,
	}
	for name, v := range points {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}

	if c.Profile.BaseWeight <= 0 {
		return fmt.Errorf("profile.base_weight must be positive, got %f", c.Profile.BaseWeight)
	}
	if c.Profile.ImplicitRating < 0 || c.Profile.ImplicitRating > 100 {
		return fmt.Errorf("profile.implicit_rating must be in [0, 100], got %d", c.Profile.ImplicitRating)
	}
	if c.Profile.RatingFloor < 0 || c.Profile.RatingFloor > 100 {
		return fmt.Errorf("profile.rating_floor must be in [0, 100], got %d", c.Profile.RatingFloor)
	}
	if c.Profile.FavoriteBonus < 0 {
		return fmt.Errorf("profile.favorite_bonus must be non-negative, got %f", c.Profile.FavoriteBonus)
	}
	if c.Profile.HighRatedMin < 0 || c.Profile.HighRatedMin > 100 {
		return fmt.Errorf("profile.high_rated_min must be in [0, 100], got %d", c.Profile.HighRatedMin)
	}

	if c.Temporal.VeryRecentWithin <= 0 {
		return fmt.Errorf("temporal.very_recent_within must be positive, got %v", c.Temporal.VeryRecentWithin)
	}
	if c.Temporal.StaleAfter <= c.Temporal.VeryRecentWithin {
		return fmt.Errorf("temporal.stale_after must exceed temporal.very_recent_within, got %v <= %v",
			c.Temporal.StaleAfter, c.Temporal.VeryRecentWithin)
	}

	if c.Engagement.CounterCap < 1 {
		return fmt.Errorf("engagement.counter_cap must be positive, got %d", c.Engagement.CounterCap)
	}
	if c.Engagement.MaxBoost < 0 {
		return fmt.Errorf("engagement.max_boost must be non-negative, got %f", c.Engagement.MaxBoost)
	}

	if c.Similarity.ContributorWeight < 0 || c.Similarity.OwnerWeight < 0 || c.Similarity.TagWeight < 0 {
		return fmt.Errorf("similarity weights must be non-negative")
	}

	if c.Limits.CandidateCap < 1 {
		return fmt.Errorf("limits.candidate_cap must be positive, got %d", c.Limits.CandidateCap)
	}
	if c.Limits.DefaultPerPage < 1 {
		return fmt.Errorf("limits.default_per_page must be positive, got %d", c.Limits.DefaultPerPage)
	}
	if c.Limits.MaxPerPage < c.Limits.DefaultPerPage {
		return fmt.Errorf("limits.max_per_page must be >= limits.default_per_page, got %d < %d",
			c.Limits.MaxPerPage, c.Limits.DefaultPerPage)
	}
	if c.Limits.ScoringShards < 0 {
		return fmt.Errorf("limits.scoring_shards must be non-negative, got %d", c.Limits.ScoringShards)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	cp := *c
	return &cp
}

// Dump returns the configuration serialized as JSON, for logging and
// diagnostics endpoints.
func (c *Config) Dump() ([]byte, error) {
	return json.Marshal(c)
}
