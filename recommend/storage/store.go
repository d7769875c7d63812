// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver registration
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/metrics"
)

// Store reads scoring projections and preference signals from DuckDB.
// It implements recommend.ProjectionStore and recommend.SignalStore.
//
// The store is read-only over the catalog and signal tables; population
// and refresh of those tables belong to the host application's ingest
// path, not to the ranking library.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// NewStore wraps an existing DuckDB connection. The caller retains
// ownership of the connection's lifecycle.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(conn *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		conn:   conn,
		logger: logger.With().Str("component", "storage").Logger(),
	}
}

// Open opens a DuckDB database at the given path and returns a store over
// it. An empty path opens an in-memory database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*Store, error) {
	connStr := path
	if connStr == "" {
		connStr = ":memory:"
	}
	connStr += "?autoinstall_known_extensions=false&autoload_known_extensions=false"

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DuckDB serializes writes internally; a single connection avoids
	// lock contention on the file.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewStore(conn, logger), nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// EnsureSchema creates the catalog and signal tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// observe records the duration and outcome of one named query.
func observe(query string, start time.Time, err error) {
	metrics.StoreQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues(query).Inc()
	}
}

// inPlaceholders returns "?, ?, ..." for n parameters.
func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toIDSlice decodes a DuckDB LIST column scanned into any. The driver
// returns lists as []any with integer elements whose Go type depends on
// the column's declared width.
func toIDSlice(v any) ([]int, error) {
	if v == nil {
		return nil, nil
	}

	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected list type %T", v)
	}

	ids := make([]int, 0, len(raw))
	for _, elem := range raw {
		switch n := elem.(type) {
		case int32:
			ids = append(ids, int(n))
		case int64:
			ids = append(ids, int(n))
		case int:
			ids = append(ids, n)
		case nil:
			// Skip NULL elements from outer joins.
		default:
			return nil, fmt.Errorf("unexpected list element type %T", elem)
		}
	}
	return ids, nil
}
