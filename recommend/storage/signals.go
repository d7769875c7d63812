// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reelrank/recommend"
)

// EntitySignals returns the user's explicit favorite/rating signals for
// one relation kind.
func (s *Store) EntitySignals(ctx context.Context, userID int, kind recommend.Kind) (signals []recommend.PreferenceSignal, err error) {
	start := time.Now()
	defer func() { observe("entity_signals", start, err) }()

	query := `SELECT entity_id, favorite, rating
		FROM entity_signals
		WHERE user_id = ? AND kind = ?`

	rows, err := s.conn.QueryContext(ctx, query, userID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query entity signals: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSignals(rows)
}

// ItemSignals returns the user's item-level favorite/rating signals.
func (s *Store) ItemSignals(ctx context.Context, userID int) (signals []recommend.PreferenceSignal, err error) {
	start := time.Now()
	defer func() { observe("item_signals", start, err) }()

	query := `SELECT item_id, favorite, rating
		FROM item_signals
		WHERE user_id = ?`

	rows, err := s.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item signals: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSignals(rows)
}

// ItemInteractions returns the user's most recent interaction time per
// item, folded by max(occurred_at) in a single grouped query.
func (s *Store) ItemInteractions(ctx context.Context, userID int) (interactions map[int]time.Time, err error) {
	start := time.Now()
	defer func() { observe("item_interactions", start, err) }()

	query := `SELECT item_id, max(occurred_at)
		FROM item_interactions
		WHERE user_id = ?
		GROUP BY item_id`

	rows, err := s.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query item interactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	interactions = make(map[int]time.Time)
	for rows.Next() {
		var itemID int
		var occurredAt time.Time
		if err = rows.Scan(&itemID, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions[itemID] = occurredAt
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return interactions, nil
}

// scanSignals decodes (id, favorite, rating) rows into preference signals.
func scanSignals(rows *sql.Rows) ([]recommend.PreferenceSignal, error) {
	var signals []recommend.PreferenceSignal
	for rows.Next() {
		var sig recommend.PreferenceSignal
		var rating sql.NullInt32
		if err := rows.Scan(&sig.EntityID, &sig.Favorite, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int32)
			sig.Rating = &r
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signals: %w", err)
	}
	return signals, nil
}
