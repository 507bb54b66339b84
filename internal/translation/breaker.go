package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerCompleter stops calling a failing endpoint for a cooldown period.
// While open, every call fails fast with gobreaker.ErrOpenState.
type BreakerCompleter struct {
	next    Completer
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerCompleter wraps next in a circuit breaker that opens after
// maxFailures consecutive failures and half-opens after cooldown
func NewBreakerCompleter(name string, next Completer, maxFailures uint32, cooldown time.Duration) *BreakerCompleter {
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}

	return &BreakerCompleter{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Complete forwards req through the breaker
func (b *BreakerCompleter) Complete(ctx context.Context, req ChatRequest) (string, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, req)
	})
	if err != nil {
		return "", err
	}

	text, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected completion type %T", out)
	}
	return text, nil
}

// State returns the breaker state name: closed, open or half-open
func (b *BreakerCompleter) State() string {
	return b.breaker.State().String()
}
