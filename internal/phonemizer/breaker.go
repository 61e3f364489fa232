package phonemizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig tunes the circuit breaker around a backend.
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures before opening
	Timeout     time.Duration // how long the breaker stays open
	MaxRequests uint32        // requests allowed while half-open
}

// DefaultBreakerConfig returns a breaker that opens after five consecutive
// failures for thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		MaxRequests: 1,
	}
}

// BreakerBackend stops calling a failing backend for a while. Calls made
// while the breaker is open fail with gobreaker.ErrOpenState.
type BreakerBackend struct {
	inner Backend
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerBackend wraps inner with a circuit breaker.
func NewBreakerBackend(inner Backend, cfg BreakerConfig, logger *zap.Logger) *BreakerBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}

	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Cancellation is the caller's doing, not the backend's.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Backend circuit breaker state changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerBackend{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Phonemize calls the inner backend unless the breaker is open.
func (b *BreakerBackend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Phonemize(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

// Name returns the inner backend name.
func (b *BreakerBackend) Name() string {
	return b.inner.Name()
}

// IsAvailable reports the inner backend's availability, or an error while
// the breaker is open.
func (b *BreakerBackend) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", b.inner.Name(), gobreaker.ErrOpenState)
	}
	return b.inner.IsAvailable()
}

// State returns the current breaker state.
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}
