// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"math"
	"time"
)

// Scorer computes per-item affinity and similarity scores. It holds only
// read-only state (config and the tag index), so one Scorer may be shared
// across scoring goroutines within a request.
type Scorer struct {
	cfg  *Config
	tags *TagIndex
}

// NewScorer creates a scorer over the given tag index.
func NewScorer(cfg *Config, tags *TagIndex) *Scorer {
	if tags == nil {
		tags = &TagIndex{}
	}
	return &Scorer{cfg: cfg, tags: tags}
}

// tagOrigin records the most specific source a tag id was found through.
// Direct beats contributor beats owner; a tag already claimed by a more
// specific origin is never re-counted through a less specific one.
type tagOrigin int

const (
	originDirect tagOrigin = iota
	originContributor
	originOwner
)

// Score computes the non-negative personalized affinity of an item against
// the profile. A zero return excludes the item from the ranking: either no
// relation matched (sparse ranking, not full-catalog ordering) or the
// temporal penalty consumed the whole base score.
func (s *Scorer) Score(p *ScoringProjection, prof *PreferenceProfile, now time.Time) float64 {
	base := s.contributorScore(p, prof) +
		s.ownerScore(p, prof) +
		s.tagScore(p, prof)
	if base == 0 {
		return 0
	}

	score := (base + s.temporalModifier(p.ID, prof, now)) * s.engagementMultiplier(p.EngagementCount)
	if score <= 0 {
		return 0
	}
	return score
}

// contributorScore scores the item's contributor relations with diminishing
// returns per component.
func (s *Scorer) contributorScore(p *ScoringProjection, prof *PreferenceProfile) float64 {
	var favorites, rated int
	var derived float64

	for id := range p.ContributorIDs {
		switch {
		case prof.Favorites[KindContributor].Contains(id):
			favorites++
		case prof.HighRated[KindContributor].Contains(id):
			rated++
		}
		derived += prof.Derived[KindContributor][id]
	}

	return s.cfg.Points.ContributorFavorite*math.Sqrt(float64(favorites)) +
		s.cfg.Points.ContributorRated*math.Sqrt(float64(rated)) +
		s.cfg.Points.ContributorFavorite*math.Sqrt(derived)
}

// ownerScore scores the item's single owner relation.
func (s *Scorer) ownerScore(p *ScoringProjection, prof *PreferenceProfile) float64 {
	if p.OwnerID == 0 {
		return 0
	}

	var score float64
	switch {
	case prof.Favorites[KindOwner].Contains(p.OwnerID):
		score += s.cfg.Points.OwnerFavorite
	case prof.HighRated[KindOwner].Contains(p.OwnerID):
		score += s.cfg.Points.OwnerRated
	}

	if w := prof.Derived[KindOwner][p.OwnerID]; w > 0 {
		score += s.cfg.Points.OwnerFavorite * math.Sqrt(w)
	}
	return score
}

// tagScore scores the item's tag relations, split by the most specific
// origin each tag was found through, with smaller constants for less
// specific origins.
func (s *Scorer) tagScore(p *ScoringProjection, prof *PreferenceProfile) float64 {
	origins := s.resolveTagOrigins(p)

	var favorites, rated [3]int
	var derived [3]float64

	for id, origin := range origins {
		switch {
		case prof.Favorites[KindTag].Contains(id):
			favorites[origin]++
		case prof.HighRated[KindTag].Contains(id):
			rated[origin]++
		}
		derived[origin] += prof.Derived[KindTag][id]
	}

	favPts := [3]float64{s.cfg.Points.TagDirectFavorite, s.cfg.Points.TagContributorFavorite, s.cfg.Points.TagOwnerFavorite}
	ratedPts := [3]float64{s.cfg.Points.TagDirectRated, s.cfg.Points.TagContributorRated, s.cfg.Points.TagOwnerRated}

	var score float64
	for o := originDirect; o <= originOwner; o++ {
		score += favPts[o]*math.Sqrt(float64(favorites[o])) +
			ratedPts[o]*math.Sqrt(float64(rated[o])) +
			favPts[o]*math.Sqrt(derived[o])
	}
	return score
}

// resolveTagOrigins assigns each reachable tag id its most specific origin,
// checking sources in priority order and short-circuiting on the first hit.
func (s *Scorer) resolveTagOrigins(p *ScoringProjection) map[int]tagOrigin {
	origins := make(map[int]tagOrigin, len(p.TagIDs))

	for id := range p.TagIDs {
		origins[id] = originDirect
	}

	for contributorID := range p.ContributorIDs {
		for id := range s.tags.ContributorTags[contributorID] {
			if _, claimed := origins[id]; !claimed {
				origins[id] = originContributor
			}
		}
	}

	if p.OwnerID != 0 {
		for id := range s.tags.OwnerTags[p.OwnerID] {
			if _, claimed := origins[id]; !claimed {
				origins[id] = originOwner
			}
		}
	}

	return origins
}

// temporalModifier maps the user's interaction recency with the item to one
// of four discrete bands.
func (s *Scorer) temporalModifier(itemID int, prof *PreferenceProfile, now time.Time) float64 {
	last, ok := prof.LastInteraction[itemID]
	if !ok {
		return s.cfg.Temporal.NeverInteractedBonus
	}

	age := now.Sub(last)
	switch {
	case age >= s.cfg.Temporal.StaleAfter:
		return s.cfg.Temporal.StaleBonus
	case age < s.cfg.Temporal.VeryRecentWithin:
		return s.cfg.Temporal.VeryRecentPenalty
	default:
		return s.cfg.Temporal.RecentPenalty
	}
}

// engagementMultiplier scales the item's engagement counter linearly up to
// the configured cap.
func (s *Scorer) engagementMultiplier(count int) float64 {
	if count < 0 {
		count = 0
	}
	if count > s.cfg.Engagement.CounterCap {
		count = s.cfg.Engagement.CounterCap
	}
	return 1.0 + float64(count)/float64(s.cfg.Engagement.CounterCap)*s.cfg.Engagement.MaxBoost
}
