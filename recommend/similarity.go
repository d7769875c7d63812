// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

// Similarity computes the overlap score of an item against a fixed
// reference. Simple per-kind overlap counts, no diminishing returns and no
// profile. A zero return excludes the item.
func (s *Scorer) Similarity(p, ref *ScoringProjection) float64 {
	var score float64

	score += s.cfg.Similarity.ContributorWeight * float64(intersectCount(p.ContributorIDs, ref.ContributorIDs))

	if p.OwnerID != 0 && p.OwnerID == ref.OwnerID {
		score += s.cfg.Similarity.OwnerWeight
	}

	score += s.cfg.Similarity.TagWeight * float64(intersectCount(p.TagIDs, ref.TagIDs))

	return score
}

// intersectCount returns |a ∩ b|, iterating the smaller set.
func intersectCount(a, b IDSet) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if b.Contains(id) {
			n++
		}
	}
	return n
}
