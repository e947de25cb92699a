package services

import (
	"errors"
	"time"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// NewBreaker returns a circuit breaker that opens after more than three
// consecutive failures and lets a trial call through after timeout.
func NewBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// guard runs fn through cb. Rejections by an open breaker become typed errors
// naming service.
func guard(cb *gobreaker.CircuitBreaker, service string, fn func() (any, error)) (any, error) {
	if cb == nil {
		return fn()
	}
	result, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errs.NewCircuitBreakerOpenError(service, err)
	}
	return result, err
}
