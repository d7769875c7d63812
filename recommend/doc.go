// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package recommend computes personalized rankings and similarity scores
// over a media catalog.
//
// The package has two entry points on Engine: Rank in personalized mode
// scores the whole visible catalog against a preference profile built from
// the user's favorites and ratings, and Rank in similar mode scores it by
// relation overlap with a single reference item. Both modes share one
// pipeline: resolve the user's exclusion set, load scoring projections,
// score, sort deterministically, paginate, and hydrate only the final page
// through an external gateway.
//
// Scoring reads pre-aggregated ScoringProjection rows rather than the
// catalog's relational schema, so the per-item work during a request is
// pure in-memory arithmetic. Affinity scoring applies square-root
// diminishing returns to match counts, a temporal modifier from the user's
// last interaction with the item, and an engagement multiplier; tag matches
// are deduplicated by their most specific origin. See the Scorer methods
// for the exact formulas.
//
// All scoring state is rebuilt per request. Nothing is cached between
// calls and the Engine is safe for concurrent use.
package recommend
