package processor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/batch"
	"codeberg.org/snonux/phonemask/internal/cache"
	"codeberg.org/snonux/phonemask/internal/cli"
	"codeberg.org/snonux/phonemask/internal/espeak"
	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/phonetic"
	"codeberg.org/snonux/phonemask/internal/voices"
)

// backendFactory creates the named base backend.
type backendFactory func(ctx context.Context, name string) (phonemizer.Backend, error)

// Processor handles the main phonemization logic
type Processor struct {
	settings   *cli.Settings
	logger     *zap.Logger
	out        io.Writer
	newBackend backendFactory
	store      cache.Store
	phonemizer *phonemizer.Phonemizer
}

// NewProcessor creates a new processor writing results to out unless the
// settings name an output file.
func NewProcessor(settings *cli.Settings, logger *zap.Logger, out io.Writer) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		settings: settings,
		logger:   logger,
		out:      out,
	}
	p.newBackend = p.createBackend
	return p
}

// Phonemizer builds the backend chain on first use and returns the
// preserving phonemizer on top of it.
func (p *Processor) Phonemizer(ctx context.Context) (*phonemizer.Phonemizer, error) {
	if p.phonemizer != nil {
		return p.phonemizer, nil
	}

	backend, err := p.buildChain(ctx)
	if err != nil {
		return nil, err
	}

	ph, err := phonemizer.New(backend, p.settings.Phonemizer, p.logger)
	if err != nil {
		p.Close()
		return nil, err
	}

	p.phonemizer = ph
	return ph, nil
}

// buildChain wraps each backend in its own circuit breaker and cache, then
// joins primary and fallback. Cache entries are keyed per backend, so a
// fallback answer never stands in for the primary on a later run.
func (p *Processor) buildChain(ctx context.Context) (phonemizer.Backend, error) {
	store, err := cache.Open(p.settings.CacheDriver, p.settings.CacheDSN)
	if err != nil {
		return nil, err
	}
	if rs, ok := store.(*cache.RedisStore); ok && p.settings.CacheTTL > 0 {
		rs.WithTTL(p.settings.CacheTTL)
	}
	p.store = store

	backend, err := p.wrappedBackend(ctx, p.settings.Backend)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create %s backend: %w", p.settings.Backend, err)
	}

	if p.settings.Fallback != "" {
		fallback, err := p.wrappedBackend(ctx, p.settings.Fallback)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to create %s fallback backend: %w", p.settings.Fallback, err)
		}
		backend = phonemizer.NewFallbackBackend(backend, fallback, p.logger)
	}

	return backend, nil
}

// wrappedBackend returns the named backend behind its breaker and cache.
func (p *Processor) wrappedBackend(ctx context.Context, name string) (phonemizer.Backend, error) {
	backend, err := p.newBackend(ctx, name)
	if err != nil {
		return nil, err
	}

	if p.settings.BreakerFailures > 0 {
		cfg := phonemizer.DefaultBreakerConfig()
		cfg.MaxFailures = uint32(p.settings.BreakerFailures)
		backend = phonemizer.NewBreakerBackend(backend, cfg, p.logger)
	}

	if p.store != nil {
		backend = cache.NewBackend(backend, p.store, p.settings.Phonemizer.Options, p.logger)
	}
	return backend, nil
}

func (p *Processor) createBackend(ctx context.Context, name string) (phonemizer.Backend, error) {
	opts := p.settings.Phonemizer.Options

	switch name {
	case cli.BackendESpeak:
		b, err := espeak.New(&espeak.Config{
			Binary:  p.settings.ESpeakBinary,
			Options: opts,
		}, p.logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case cli.BackendOpenAI:
		b := phonetic.NewOpenAIBackend(&phonetic.OpenAIConfig{
			APIKey:            p.settings.OpenAIKey,
			Model:             p.settings.OpenAIModel,
			Timeout:           60 * time.Second,
			RequestsPerSecond: p.settings.RequestsPerSecond,
		}, opts)
		if err := b.IsAvailable(); err != nil {
			return nil, err
		}
		return b, nil
	case cli.BackendGemini:
		b, err := phonetic.NewGeminiBackend(ctx, &phonetic.GeminiConfig{
			APIKey:            p.settings.GeminiKey,
			Model:             p.settings.GeminiModel,
			Timeout:           60 * time.Second,
			RequestsPerSecond: p.settings.RequestsPerSecond,
		}, opts)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

// ProcessTexts phonemizes texts as one batch and writes the results.
func (p *Processor) ProcessTexts(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	results, err := p.phonemize(ctx, texts)
	if err != nil {
		return err
	}
	return p.writeResults(results)
}

func (p *Processor) phonemize(ctx context.Context, texts []string) ([]string, error) {
	ph, err := p.Phonemizer(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := ph.Phonemize(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("phonemization failed: %w", err)
	}

	p.logger.Info("Phonemized texts",
		zap.Int("count", len(texts)),
		zap.String("backend", ph.Backend().Name()),
		zap.Duration("took", time.Since(start)))

	return results, nil
}

// ProcessBatch phonemizes every text of a batch file.
func (p *Processor) ProcessBatch(ctx context.Context, filename string) error {
	texts, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}

	p.logger.Info("Processing batch file",
		zap.String("file", filename),
		zap.Int("texts", len(texts)))

	return p.ProcessTexts(ctx, texts)
}

// ProcessReader phonemizes every line of r and writes one result per input
// line. Blank lines stay blank; no line is treated as a comment.
func (p *Processor) ProcessReader(ctx context.Context, r io.Reader) error {
	lines, err := batch.ReadLines(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var texts []string
	var idx []int
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		texts = append(texts, line)
		idx = append(idx, i)
	}

	results := make([]string, len(lines))
	if len(texts) > 0 {
		out, err := p.phonemize(ctx, texts)
		if err != nil {
			return err
		}
		for j, i := range idx {
			results[i] = out[j]
		}
	}

	if len(results) == 0 {
		return nil
	}
	return p.writeResults(results)
}

// ListLanguages prints the languages supported by espeak-ng.
func (p *Processor) ListLanguages(ctx context.Context) error {
	return voices.NewLister(p.settings.ESpeakBinary).ListAvailableLanguages(ctx, p.out)
}

// Close releases the cache store, if any.
func (p *Processor) Close() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

func (p *Processor) writeResults(results []string) error {
	if p.settings.OutputFile != "" {
		if err := batch.WriteResultsFile(p.settings.OutputFile, results); err != nil {
			return err
		}
		p.logger.Info("Results written", zap.String("file", p.settings.OutputFile))
		return nil
	}
	return batch.WriteResults(p.out, results)
}
