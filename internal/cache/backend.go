package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/preserve"
)

// Backend serves repeated texts from a Store and sends only misses to the
// wrapped backend, in one batch and in their original order.
type Backend struct {
	inner       phonemizer.Backend
	store       Store
	fingerprint string
	logger      *zap.Logger
}

// NewBackend wraps inner. opts must be the options inner was built with;
// they are part of every key.
func NewBackend(inner phonemizer.Backend, store Store, opts phonemizer.Options, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		inner:       inner,
		store:       store,
		fingerprint: inner.Name() + "|" + opts.Fingerprint(),
		logger:      logger,
	}
}

// Name returns the inner backend name.
func (b *Backend) Name() string {
	return b.inner.Name()
}

// IsAvailable reports the inner backend's availability.
func (b *Backend) IsAvailable() error {
	return b.inner.IsAvailable()
}

// Phonemize answers cached texts from the store and the rest from the
// inner backend. Store read failures count as misses.
func (b *Backend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		keys[i] = b.key(text)
		value, ok, err := b.store.Get(ctx, keys[i])
		if err != nil {
			b.logger.Warn("Cache read failed", zap.Error(err))
		}
		if ok {
			out[i] = value
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	b.logger.Debug("Cache lookup",
		zap.Int("hits", len(texts)-len(missTexts)),
		zap.Int("misses", len(missTexts)),
	)

	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := b.inner.Phonemize(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("%s: sent %d texts, got %d: %w",
			b.inner.Name(), len(missTexts), len(fresh), preserve.ErrResultCount)
	}

	for j, i := range missIdx {
		out[i] = fresh[j]
		if err := b.store.Put(ctx, keys[i], fresh[j]); err != nil {
			b.logger.Warn("Cache write failed", zap.Error(err))
		}
	}

	return out, nil
}

func (b *Backend) key(text string) string {
	sum := sha256.Sum256([]byte(b.fingerprint + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
