// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import "errors"

// Error taxonomy for the ranking pipeline. The engine never retries
// internally; callers classify failures with errors.Is and decide their own
// retry policy. The pure computation steps cannot fail, so every error
// wraps one of these I/O-boundary kinds.
var (
	// ErrProjectionUnavailable indicates the backing projection store
	// failed. Fatal for the request, retryable by the caller.
	ErrProjectionUnavailable = errors.New("projection store unavailable")

	// ErrReferenceNotFound indicates the similarity reference item is
	// absent from the visible catalog. Not retried.
	ErrReferenceNotFound = errors.New("reference item not found")

	// ErrProfileBuildFailure indicates the signal store failed while
	// building the preference profile. Fatal for the request.
	ErrProfileBuildFailure = errors.New("preference profile build failed")

	// ErrHydrationFailure indicates the hydration gateway failed on the
	// final page fetch. Already-computed scores are discarded rather than
	// returning ranked ids with no content.
	ErrHydrationFailure = errors.New("hydration gateway failure")
)
