package espeak

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
)

// DefaultBinary is the espeak-ng executable looked up in PATH.
const DefaultBinary = "espeak-ng"

// Config holds configuration for the espeak-ng backend
type Config struct {
	Binary  string // espeak-ng executable (default: espeak-ng)
	Options phonemizer.Options
}

// DefaultConfig returns the default configuration for American English
func DefaultConfig() *Config {
	return &Config{
		Binary:  DefaultBinary,
		Options: phonemizer.DefaultOptions(),
	}
}

// runFunc runs espeak-ng with args, feeding stdin, and returns stdout.
type runFunc func(ctx context.Context, binary string, args []string, stdin string) (string, error)

// Backend phonemizes text with espeak-ng
type Backend struct {
	binary string
	opts   phonemizer.Options
	punct  *regexp.Regexp
	logger *zap.Logger
	run    runFunc
}

// New creates an espeak-ng backend. It fails if espeak-ng is not
// installed or the punctuation expression does not compile.
func New(config *Config, logger *zap.Logger) (*Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	binary := config.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	if err := checkInstalled(binary); err != nil {
		return nil, err
	}

	return newBackend(binary, config.Options, logger, runESpeak)
}

func newBackend(binary string, opts phonemizer.Options, logger *zap.Logger, run runFunc) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Language == "" {
		return nil, fmt.Errorf("language cannot be empty")
	}

	var punct *regexp.Regexp
	if opts.Punctuation != "" {
		re, err := regexp.Compile(opts.Punctuation)
		if err != nil {
			return nil, fmt.Errorf("invalid punctuation pattern %q: %w", opts.Punctuation, err)
		}
		punct = re
	}

	return &Backend{
		binary: binary,
		opts:   opts,
		punct:  punct,
		logger: logger.With(zap.String("backend", "espeak-ng")),
		run:    run,
	}, nil
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (b *Backend) IsAvailable() error {
	return checkInstalled(b.binary)
}

// Options returns the phonology options the backend was built with.
func (b *Backend) Options() phonemizer.Options {
	return b.opts
}

// Phonemize transcribes each text to IPA, one espeak-ng run per text
// segment, and applies the configured policies to the whole batch.
func (b *Backend) Phonemize(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		ph, err := b.phonemizeText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = ph
	}

	out = b.applyLanguageSwitch(out)
	out = b.applyWordMismatch(texts, out)
	return out, nil
}

// phonemizeText transcribes one utterance, keeping punctuation marks
// verbatim between the transcribed segments.
func (b *Backend) phonemizeText(ctx context.Context, text string) (string, error) {
	var pieces []string
	prefix := ""

	for _, seg := range splitPunctuation(b.punct, text) {
		if seg.mark {
			mark := strings.TrimSpace(seg.text)
			if len(pieces) == 0 {
				prefix += mark
			} else {
				pieces[len(pieces)-1] += mark
			}
			continue
		}

		words := strings.TrimSpace(seg.text)
		if words == "" {
			continue
		}
		ph, err := b.transcribe(ctx, words)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, prefix+ph)
		prefix = ""
	}

	if prefix != "" {
		pieces = append(pieces, prefix)
	}
	return strings.Join(pieces, " "), nil
}

// transcribe runs espeak-ng on a punctuation-free segment.
func (b *Backend) transcribe(ctx context.Context, text string) (string, error) {
	raw, err := b.run(ctx, b.binary, b.args(), text)
	if err != nil {
		return "", err
	}

	// espeak-ng prints one line per clause
	ph := strings.Join(strings.Fields(raw), " ")
	if !b.opts.WithStress {
		ph = stripStress(ph)
	}
	return ph, nil
}

func (b *Backend) args() []string {
	args := []string{
		"-q",      // no audio
		"--ipa",   // IPA output on stdout
		"--stdin", // read text from stdin
		"-v", b.opts.Language,
	}
	if b.opts.Tie != "" {
		args = append(args, "--tie="+b.opts.Tie)
	}
	return args
}

func runESpeak(ctx context.Context, binary string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// checkInstalled verifies that espeak-ng is available on the system
func checkInstalled(binary string) error {
	cmd := exec.Command(binary, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", binary, err)
	}
	return nil
}
