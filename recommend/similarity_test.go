// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "testing"

// --- Test: Similarity ---

func TestScorer_Similarity(t *testing.T) {
	t.Parallel()

	ref := ScoringProjection{
		ID:             100,
		OwnerID:        20,
		ContributorIDs: NewIDSet(10, 11, 12),
		TagIDs:         NewIDSet(30, 31),
	}

	tests := []struct {
		name    string
		project ScoringProjection
		want    float64
	}{
		{
			name:    "no overlap scores zero",
			project: ScoringProjection{ID: 1, OwnerID: 99, ContributorIDs: NewIDSet(50), TagIDs: NewIDSet(60)},
			want:    0,
		},
		{
			name:    "shared contributors scale linearly",
			project: ScoringProjection{ID: 1, ContributorIDs: NewIDSet(10, 11)},
			want:    3.0 * 2,
		},
		{
			name:    "shared owner",
			project: ScoringProjection{ID: 1, OwnerID: 20},
			want:    2.0,
		},
		{
			name:    "both unowned is not a match",
			project: ScoringProjection{ID: 1, OwnerID: 0, TagIDs: NewIDSet(30)},
			want:    1.0,
		},
		{
			name:    "shared tags",
			project: ScoringProjection{ID: 1, TagIDs: NewIDSet(30, 31)},
			want:    1.0 * 2,
		},
		{
			name: "kinds combine",
			project: ScoringProjection{
				ID:             1,
				OwnerID:        20,
				ContributorIDs: NewIDSet(10, 50),
				TagIDs:         NewIDSet(31, 60),
			},
			want: 3.0 + 2.0 + 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scorer := NewScorer(DefaultConfig(), nil)
			if got := scorer.Similarity(&tt.project, &ref); !almostEqual(got, tt.want) {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_Similarity_UnownedReference(t *testing.T) {
	t.Parallel()

	// An unowned candidate never earns owner points, even if the
	// reference is also unowned.
	ref := ScoringProjection{ID: 100, OwnerID: 0, TagIDs: NewIDSet(30)}
	p := ScoringProjection{ID: 1, OwnerID: 0, TagIDs: NewIDSet(30)}

	scorer := NewScorer(DefaultConfig(), nil)
	if got := scorer.Similarity(&p, &ref); !almostEqual(got, 1.0) {
		t.Errorf("Similarity() = %v, want 1.0", got)
	}
}

// --- Test: intersectCount ---

func TestIntersectCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b IDSet
		want int
	}{
		{"both empty", NewIDSet(), NewIDSet(), 0},
		{"disjoint", NewIDSet(1, 2), NewIDSet(3, 4), 0},
		{"partial overlap", NewIDSet(1, 2, 3), NewIDSet(2, 3, 4), 2},
		{"smaller set first", NewIDSet(2), NewIDSet(1, 2, 3, 4), 1},
		{"larger set first", NewIDSet(1, 2, 3, 4), NewIDSet(2), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := intersectCount(tt.a, tt.b); got != tt.want {
				t.Errorf("intersectCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
