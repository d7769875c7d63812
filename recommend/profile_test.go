// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"
)

func intPtr(n int) *int {
	return &n
}

// --- Test: entity signal ingestion ---

func TestProfileBuilder_Build_EntitySignals(t *testing.T) {
	t.Parallel()

	signals := &mockSignalStore{
		entity: map[Kind][]PreferenceSignal{
			KindContributor: {
				{EntityID: 10, Favorite: true},
				{EntityID: 11, Rating: intPtr(85)},
				{EntityID: 12, Rating: intPtr(79)}, // below HighRatedMin
				{EntityID: 13, Favorite: true, Rating: intPtr(90)},
			},
			KindOwner: {
				{EntityID: 20, Favorite: true},
			},
			KindTag: {
				{EntityID: 30, Rating: intPtr(80)}, // boundary: included
			},
		},
	}

	builder := NewProfileBuilder(DefaultConfig(), signals, &mockProjectionStore{}, testLogger())
	prof, err := builder.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !prof.Favorites[KindContributor].Contains(10) {
		t.Error("contributor 10 missing from favorites")
	}
	if !prof.HighRated[KindContributor].Contains(11) {
		t.Error("contributor 11 missing from high-rated")
	}
	if prof.HighRated[KindContributor].Contains(12) {
		t.Error("contributor 12 rated below threshold should not be high-rated")
	}
	// A favorited and highly rated entity lands in both sets; scoring
	// gives the favorite set precedence.
	if !prof.Favorites[KindContributor].Contains(13) || !prof.HighRated[KindContributor].Contains(13) {
		t.Error("contributor 13 should be in both favorites and high-rated")
	}
	if !prof.Favorites[KindOwner].Contains(20) {
		t.Error("owner 20 missing from favorites")
	}
	if !prof.HighRated[KindTag].Contains(30) {
		t.Error("tag 30 at the threshold should be high-rated")
	}
}

// --- Test: derived weight accumulation ---

func TestProfileBuilder_Build_DerivedWeights(t *testing.T) {
	t.Parallel()

	store := &mockProjectionStore{
		projections: []ScoringProjection{
			{ID: 1, OwnerID: 20, ContributorIDs: NewIDSet(10), TagIDs: NewIDSet(30)},
			{ID: 2, ContributorIDs: NewIDSet(10)},
			{ID: 3, ContributorIDs: NewIDSet(11)},
		},
	}
	signals := &mockSignalStore{
		items: []PreferenceSignal{
			{EntityID: 1, Favorite: true},     // implicit 75: 0.75 + 0.25 = 1.0
			{EntityID: 2, Rating: intPtr(90)}, // 0.9
			{EntityID: 3, Rating: intPtr(59)}, // below floor: no weight
			{EntityID: 4, Favorite: true},     // no projection: no weight
		},
	}

	builder := NewProfileBuilder(DefaultConfig(), signals, store, testLogger())
	prof, err := builder.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Contributor 10 appears on both qualifying items: weights sum, they
	// do not take the max.
	if got := prof.Derived[KindContributor][10]; !almostEqual(got, 1.0+0.9) {
		t.Errorf("derived weight for contributor 10 = %v, want 1.9", got)
	}
	if got := prof.Derived[KindOwner][20]; !almostEqual(got, 1.0) {
		t.Errorf("derived weight for owner 20 = %v, want 1.0", got)
	}
	if got := prof.Derived[KindTag][30]; !almostEqual(got, 1.0) {
		t.Errorf("derived weight for tag 30 = %v, want 1.0", got)
	}
	if _, ok := prof.Derived[KindContributor][11]; ok {
		t.Error("below-floor item must contribute no derived weight")
	}

	// Signal counts include non-qualifying signals.
	if prof.FavoriteItems != 2 {
		t.Errorf("FavoriteItems = %d, want 2", prof.FavoriteItems)
	}
	if prof.RatedItems != 2 {
		t.Errorf("RatedItems = %d, want 2", prof.RatedItems)
	}
}

// --- Test: signal multiplier ---

func TestProfileBuilder_SignalMultiplier(t *testing.T) {
	t.Parallel()

	builder := NewProfileBuilder(DefaultConfig(), &mockSignalStore{}, &mockProjectionStore{}, testLogger())

	tests := []struct {
		name string
		sig  PreferenceSignal
		want float64
	}{
		{"unrated non-favorite", PreferenceSignal{EntityID: 1}, 0},
		{"rating below floor", PreferenceSignal{EntityID: 1, Rating: intPtr(59)}, 0},
		{"rating at floor", PreferenceSignal{EntityID: 1, Rating: intPtr(60)}, 0.6},
		{"rating above floor", PreferenceSignal{EntityID: 1, Rating: intPtr(90)}, 0.9},
		{"favorite without rating uses implicit", PreferenceSignal{EntityID: 1, Favorite: true}, 1.0},
		{"favorite with rating", PreferenceSignal{EntityID: 1, Favorite: true, Rating: intPtr(90)}, 1.15},
		// An explicit rating always wins over the implicit one: a
		// favorited item rated below the floor contributes nothing.
		{"favorite with low explicit rating", PreferenceSignal{EntityID: 1, Favorite: true, Rating: intPtr(40)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := builder.signalMultiplier(tt.sig); !almostEqual(got, tt.want) {
				t.Errorf("signalMultiplier() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Test: interactions ---

func TestProfileBuilder_Build_Interactions(t *testing.T) {
	t.Parallel()

	watched := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	signals := &mockSignalStore{
		interactions: map[int]time.Time{1: watched},
	}

	builder := NewProfileBuilder(DefaultConfig(), signals, &mockProjectionStore{}, testLogger())
	prof, err := builder.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got, ok := prof.LastInteraction[1]; !ok || !got.Equal(watched) {
		t.Errorf("LastInteraction[1] = %v (%v), want %v", got, ok, watched)
	}
	if _, ok := prof.LastInteraction[2]; ok {
		t.Error("item 2 should have no recorded interaction")
	}
}

// --- Test: failure wrapping ---

func TestProfileBuilder_Build_Failures(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")

	tests := []struct {
		name    string
		signals *mockSignalStore
		store   *mockProjectionStore
	}{
		{
			name:    "entity signal failure",
			signals: &mockSignalStore{entityErr: storeErr},
			store:   &mockProjectionStore{},
		},
		{
			name:    "item signal failure",
			signals: &mockSignalStore{itemsErr: storeErr},
			store:   &mockProjectionStore{},
		},
		{
			name:    "interaction load failure",
			signals: &mockSignalStore{interactionsErr: storeErr},
			store:   &mockProjectionStore{},
		},
		{
			name:    "projection load failure",
			signals: &mockSignalStore{items: favSignals(1)},
			store:   &mockProjectionStore{byIDsErr: storeErr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			builder := NewProfileBuilder(DefaultConfig(), tt.signals, tt.store, testLogger())
			_, err := builder.Build(context.Background(), 7)

			if !errors.Is(err, ErrProfileBuildFailure) {
				t.Errorf("Build() error = %v, want errors.Is ErrProfileBuildFailure", err)
			}
			if !errors.Is(err, storeErr) {
				t.Errorf("Build() error = %v, want wrapped cause", err)
			}
		})
	}
}

// --- Test: diagnostics counts ---

func TestPreferenceProfile_Counts(t *testing.T) {
	t.Parallel()

	prof := newTestProfile()
	prof.Favorites[KindContributor] = NewIDSet(1, 2)
	prof.HighRated[KindOwner] = NewIDSet(3)
	prof.Favorites[KindTag] = NewIDSet(4, 5, 6)
	prof.FavoriteItems = 7
	prof.RatedItems = 8

	counts := prof.Counts()

	if counts.FavoriteContributors != 2 {
		t.Errorf("FavoriteContributors = %d, want 2", counts.FavoriteContributors)
	}
	if counts.HighRatedOwners != 1 {
		t.Errorf("HighRatedOwners = %d, want 1", counts.HighRatedOwners)
	}
	if counts.FavoriteTags != 3 {
		t.Errorf("FavoriteTags = %d, want 3", counts.FavoriteTags)
	}
	if counts.FavoriteItems != 7 || counts.RatedItems != 8 {
		t.Errorf("item counts = %d/%d, want 7/8", counts.FavoriteItems, counts.RatedItems)
	}
}
