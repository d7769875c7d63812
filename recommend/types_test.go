// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "testing"

func TestIDSet(t *testing.T) {
	t.Parallel()

	set := NewIDSet(1, 2, 2, 3)
	if len(set) != 3 {
		t.Errorf("len = %d, want 3 (duplicates collapsed)", len(set))
	}
	if !set.Contains(2) {
		t.Error("Contains(2) = false, want true")
	}
	if set.Contains(4) {
		t.Error("Contains(4) = true, want false")
	}

	var nilSet IDSet
	if nilSet.Contains(1) {
		t.Error("nil set Contains(1) = true, want false")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindContributor, "contributor"},
		{KindOwner, "owner"},
		{KindTag, "tag"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	if got := ModePersonalized.String(); got != "personalized" {
		t.Errorf("ModePersonalized.String() = %q", got)
	}
	if got := ModeSimilar.String(); got != "similar" {
		t.Errorf("ModeSimilar.String() = %q", got)
	}
	if got := Mode(99).String(); got != "unknown" {
		t.Errorf("Mode(99).String() = %q", got)
	}
}

func TestScoringProjection_RelationCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		project ScoringProjection
		want    int
	}{
		{"no relations", ScoringProjection{ID: 1}, 0},
		{"owner only", ScoringProjection{ID: 1, OwnerID: 20}, 1},
		{
			"all kinds",
			ScoringProjection{ID: 1, OwnerID: 20, ContributorIDs: NewIDSet(10, 11), TagIDs: NewIDSet(30)},
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.project.RelationCount(); got != tt.want {
				t.Errorf("RelationCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
