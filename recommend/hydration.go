// Reelrank - Personalized Catalog Ranking and Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelrank/metrics"
)

// BreakerGateway wraps a HydrationGateway with a circuit breaker so a
// failing gateway sheds load instead of stalling every ranking request on
// its final page fetch.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests should stub the wrapped gateway, not the breaker.
type BreakerGateway struct {
	gateway HydrationGateway
	cb      *gobreaker.CircuitBreaker[[]Item]
	name    string
	logger  zerolog.Logger
}

// NewBreakerGateway wraps the gateway with a circuit breaker.
// The breaker opens after a 60% failure rate with at least 10 requests in a
// one-minute window, and probes again after two minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerGateway(gateway HydrationGateway, logger zerolog.Logger) *BreakerGateway {
	const name = "hydration-gateway"
	log := logger.With().Str("component", "hydration").Logger()

	metrics.BreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]Item](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening hydration circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)

			log.Info().Str("from", fromStr).Str("to", toStr).Msg("hydration breaker state transition")

			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.BreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerGateway{
		gateway: gateway,
		cb:      cb,
		name:    name,
		logger:  log,
	}
}

// FetchByIDs fetches hydrated items with circuit breaker protection.
func (g *BreakerGateway) FetchByIDs(ctx context.Context, userID int, ids []int) ([]Item, error) {
	items, err := g.cb.Execute(func() ([]Item, error) {
		return g.gateway.FetchByIDs(ctx, userID, ids)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.HydrationRequests.WithLabelValues("rejected").Inc()
			g.logger.Warn().Err(err).Msg("hydration request rejected by breaker")
		} else {
			metrics.HydrationRequests.WithLabelValues("failure").Inc()
		}
		return nil, err
	}

	metrics.HydrationRequests.WithLabelValues("success").Inc()
	return items, nil
}

// breakerStateValue converts a breaker state to a metric value.
func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// breakerStateString converts a breaker state to a label value.
func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
