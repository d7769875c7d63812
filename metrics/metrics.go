// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package metrics provides Prometheus instrumentation for the ranking
// pipeline, the projection store, and the hydration breaker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RankRequestDuration tracks end-to-end ranking latency per mode.
	RankRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_rank_request_duration_seconds",
			Help:    "Duration of ranking requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// RankRequests counts ranking requests by mode and outcome.
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"mode", "status"},
	)

	// CandidatesScored tracks how many projections survived scoring per
	// request, before capping and pagination.
	CandidatesScored = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_candidates_scored",
			Help:    "Pre-pagination candidate set size per ranking request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
		[]string{"mode"},
	)

	// StoreQueryDuration tracks projection/signal store query latency.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelrank_store_query_duration_seconds",
			Help:    "Duration of projection store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// StoreQueryErrors counts projection/signal store query failures.
	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_store_query_errors_total",
			Help: "Total number of projection store query errors",
		},
		[]string{"query"},
	)

	// HydrationRequests counts hydration gateway calls by outcome.
	HydrationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_hydration_requests_total",
			Help: "Total number of hydration gateway requests",
		},
		[]string{"status"},
	)

	// BreakerState reports the hydration circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelrank_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// BreakerTransitions counts circuit breaker state transitions.
	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelrank_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
