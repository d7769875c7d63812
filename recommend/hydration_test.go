// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"errors"
	"testing"
)

func TestBreakerGateway_FetchByIDs(t *testing.T) {
	t.Parallel()

	inner := &mockGateway{}
	gw := NewBreakerGateway(inner, testLogger())

	items, err := gw.FetchByIDs(context.Background(), 7, []int{1, 2})
	if err != nil {
		t.Fatalf("FetchByIDs() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("FetchByIDs() returned %d items, want 2", len(items))
	}
}

func TestBreakerGateway_PropagatesErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("gateway timeout")
	gw := NewBreakerGateway(&mockGateway{err: wantErr}, testLogger())

	_, err := gw.FetchByIDs(context.Background(), 7, []int{1})
	if !errors.Is(err, wantErr) {
		t.Errorf("FetchByIDs() error = %v, want %v", err, wantErr)
	}
}

func TestBreakerGateway_OpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	gw := NewBreakerGateway(&mockGateway{err: errors.New("down")}, testLogger())

	// The breaker needs at least 10 observed requests at a 60% failure
	// rate before it opens.
	var err error
	for i := 0; i < 15; i++ {
		_, err = gw.FetchByIDs(context.Background(), 7, []int{1})
	}
	if err == nil {
		t.Fatal("FetchByIDs() = nil error, want breaker rejection")
	}

	// Once open, calls fail fast without reaching the gateway.
	inner := &countingGateway{}
	gw.gateway = inner
	if _, err := gw.FetchByIDs(context.Background(), 7, []int{1}); err == nil {
		t.Fatal("FetchByIDs() = nil error while breaker open")
	}
	if inner.calls != 0 {
		t.Errorf("gateway called %d times through an open breaker, want 0", inner.calls)
	}
}

type countingGateway struct {
	calls int
}

func (g *countingGateway) FetchByIDs(ctx context.Context, userID int, ids []int) ([]Item, error) {
	g.calls++
	return nil, nil
}
