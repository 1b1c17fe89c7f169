package llm

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lazypower/oracle/internal/logging"
	"github.com/lazypower/oracle/internal/metrics"
)

// Breaker wraps a Client in a circuit breaker so a failing provider is not
// hammered on every reading. While open, calls fail fast with
// gobreaker.ErrOpenState.
type Breaker struct {
	next Client
	cb   *gobreaker.CircuitBreaker[*Response]
}

// NewBreaker trips after maxFailures consecutive failures and tries again
// after coolDown.
func NewBreaker(name string, next Client, maxFailures uint32, coolDown time.Duration) *Breaker {
	cbName := "llm-" + name
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Timeout:     coolDown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WithComponent("llm").Warn().
				Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return &Breaker{next: next, cb: cb}
}

// Complete forwards to the wrapped client through the breaker.
func (b *Breaker) Complete(ctx context.Context, prompt string) (*Response, error) {
	return b.cb.Execute(func() (*Response, error) {
		return b.next.Complete(ctx, prompt)
	})
}
