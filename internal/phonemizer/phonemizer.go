package phonemizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/preserve"
)

// Config holds everything fixed when a Phonemizer is built.
type Config struct {
	Options          Options
	PreservePatterns []string
	Collision        preserve.CollisionPolicy
}

// Phonemizer runs a backend while keeping substrings that match the
// preservation patterns out of phonetic transformation. It holds only
// immutable state and is safe for concurrent use.
type Phonemizer struct {
	backend   Backend
	matcher   *preserve.Matcher
	options   Options
	collision preserve.CollisionPolicy
	logger    *zap.Logger
}

// New compiles the preservation patterns and returns a Phonemizer over
// backend. An invalid pattern fails with *preserve.PatternError. The
// backend must already be configured with cfg.Options.
func New(backend Backend, cfg Config, logger *zap.Logger) (*Phonemizer, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	matcher, err := preserve.Compile(cfg.PreservePatterns)
	if err != nil {
		return nil, err
	}

	logger.Debug("Phonemizer initialized",
		zap.String("backend", backend.Name()),
		zap.String("language", cfg.Options.Language),
		zap.Int("preserve_patterns", len(cfg.PreservePatterns)),
		zap.Stringer("collision", cfg.Collision),
	)

	return &Phonemizer{
		backend:   backend,
		matcher:   matcher,
		options:   cfg.Options,
		collision: cfg.Collision,
		logger:    logger,
	}, nil
}

// Options returns the phonology options the Phonemizer was built with.
func (p *Phonemizer) Options() Options {
	return p.options
}

// Backend returns the wrapped backend.
func (p *Phonemizer) Backend() Backend {
	return p.backend
}

// Phonemize returns one phonemized string per text, in order. Protected
// substrings appear verbatim in the output. Without preservation patterns
// this is exactly one backend call on texts.
func (p *Phonemizer) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	if p.matcher == nil {
		return p.backend.Phonemize(ctx, texts)
	}

	masked := make([]string, len(texts))
	maps := make([]*preserve.ReplacementMap, len(texts))
	for i, text := range texts {
		m, rm, err := p.matcher.Mask(ctx, text, p.backend.Phonemize, p.collision)
		if err != nil {
			return nil, fmt.Errorf("mask text %d: %w", i, err)
		}
		masked[i] = m
		maps[i] = rm
	}

	phonemized, err := p.backend.Phonemize(ctx, masked)
	if err != nil {
		return nil, err
	}
	if len(phonemized) != len(masked) {
		return nil, fmt.Errorf("%s: sent %d texts, got %d: %w",
			p.backend.Name(), len(masked), len(phonemized), preserve.ErrResultCount)
	}

	out := make([]string, len(phonemized))
	restored := 0
	for i, ph := range phonemized {
		r, err := preserve.Restore(ph, maps[i])
		if err != nil {
			return nil, fmt.Errorf("restore text %d: %w", i, err)
		}
		out[i] = r
		restored += maps[i].Len()
	}

	p.logger.Debug("Phonemized batch",
		zap.Int("texts", len(texts)),
		zap.Int("restored_spans", restored),
	)

	return out, nil
}
