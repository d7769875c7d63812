// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package storage provides the DuckDB-backed projection and signal stores
// used by the recommend package.
//
// Projections are read with a single aggregated query per operation:
// relation ids are folded into native LIST values by list(DISTINCT ...)
// and decoded straight into id sets, so the per-request cost stays flat
// regardless of how many relations an item carries. Signal reads follow
// the same one-grouped-query-per-operation rule.
//
// The package is read-only. Table population is the host application's
// concern; EnsureSchema exists so embedded and test databases can
// bootstrap the expected shape.
package storage
