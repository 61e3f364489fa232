package phonemizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend turns texts into phoneme strings. Implementations return exactly
// one result per input, in input order, or an error for the whole batch.
type Backend interface {
	// Phonemize transcribes every text in one round trip.
	Phonemize(ctx context.Context, texts []string) ([]string, error)

	// Name returns the backend name
	Name() string

	// IsAvailable checks if the backend is properly configured and available
	IsAvailable() error
}

// FallbackBackend wraps a primary backend with a fallback option
type FallbackBackend struct {
	primary  Backend
	fallback Backend
	logger   *zap.Logger
}

// NewFallbackBackend creates a backend that falls back to secondary if
// primary fails. The fallback may render fragments differently; any such
// drift surfaces as a restoration mismatch rather than silent corruption.
func NewFallbackBackend(primary, fallback Backend, logger *zap.Logger) Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackBackend{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Phonemize tries the primary backend first, falls back to secondary on error
func (b *FallbackBackend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	out, err := b.primary.Phonemize(ctx, texts)
	if err == nil {
		return out, nil
	}

	b.logger.Warn("Primary backend failed, falling back",
		zap.String("primary", b.primary.Name()),
		zap.String("fallback", b.fallback.Name()),
		zap.Error(err),
	)
	return b.fallback.Phonemize(ctx, texts)
}

// Name returns the backend name
func (b *FallbackBackend) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", b.primary.Name(), b.fallback.Name())
}

// IsAvailable checks if at least one backend is available
func (b *FallbackBackend) IsAvailable() error {
	primaryErr := b.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := b.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both backends unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
