// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

import (
	"reflect"
	"testing"
)

func TestToIDSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   any
		want    []int
		wantErr bool
	}{
		{"nil list", nil, nil, false},
		{"empty list", []any{}, []int{}, false},
		{"int32 elements", []any{int32(1), int32(2)}, []int{1, 2}, false},
		{"int64 elements", []any{int64(3), int64(4)}, []int{3, 4}, false},
		{"mixed widths", []any{int32(1), int64(2), 3}, []int{1, 2, 3}, false},
		{"null elements skipped", []any{int32(1), nil, int32(2)}, []int{1, 2}, false},
		{"non-list value", "1,2,3", nil, true},
		{"non-integer element", []any{"x"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toIDSlice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("toIDSlice() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("toIDSlice() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toIDSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{1, "?"},
		{3, "?, ?, ?"},
	}

	for _, tt := range tests {
		if got := inPlaceholders(tt.n); got != tt.want {
			t.Errorf("inPlaceholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
