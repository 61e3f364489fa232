package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/phonemask/internal/logger"
	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/preserve"
)

// Backend names accepted by --backend and --fallback.
const (
	BackendESpeak = "espeak"
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Settings is the validated configuration for one run, merged from flags,
// the config file and the environment.
type Settings struct {
	Phonemizer phonemizer.Config

	Backend           string
	Fallback          string
	ESpeakBinary      string
	OpenAIKey         string
	OpenAIModel       string
	GeminiKey         string
	GeminiModel       string
	RequestsPerSecond float64
	BreakerFailures   int

	CacheDriver string
	CacheDSN    string
	CacheTTL    time.Duration

	OutputFile string
	Log        logger.Config
}

// LoadSettings reads and validates every setting from v. Flags bound with
// bindFlagsToViper take precedence over the config file.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	opts := phonemizer.Options{
		Language:    v.GetString("phonemizer.language"),
		Punctuation: v.GetString("phonemizer.punctuation"),
		WithStress:  v.GetBool("phonemizer.with_stress"),
	}
	if opts.Language == "" {
		opts.Language = phonemizer.DefaultOptions().Language
	}

	var err error
	if opts.Tie, err = phonemizer.ParseTie(v.GetString("phonemizer.tie")); err != nil {
		return nil, err
	}
	if opts.LanguageSwitch, err = phonemizer.ParseLanguageSwitch(v.GetString("phonemizer.language_switch")); err != nil {
		return nil, err
	}
	if opts.WordMismatch, err = phonemizer.ParseWordMismatch(v.GetString("phonemizer.words_mismatch")); err != nil {
		return nil, err
	}
	collision, err := preserve.ParseCollisionPolicy(v.GetString("phonemizer.collision"))
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Phonemizer: phonemizer.Config{
			Options:          opts,
			PreservePatterns: nonEmpty(v.GetStringSlice("phonemizer.preserve")),
			Collision:        collision,
		},
		Backend:           strings.ToLower(v.GetString("backend.name")),
		Fallback:          strings.ToLower(v.GetString("backend.fallback")),
		ESpeakBinary:      v.GetString("backend.espeak_binary"),
		OpenAIKey:         GetOpenAIKey(),
		OpenAIModel:       v.GetString("backend.openai_model"),
		GeminiKey:         GetGeminiKey(),
		GeminiModel:       v.GetString("backend.gemini_model"),
		RequestsPerSecond: v.GetFloat64("backend.requests_per_second"),
		BreakerFailures:   v.GetInt("backend.breaker_failures"),
		CacheDriver:       strings.ToLower(v.GetString("cache.driver")),
		CacheDSN:          v.GetString("cache.dsn"),
		CacheTTL:          v.GetDuration("cache.ttl"),
		OutputFile:        v.GetString("output.file"),
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
	}

	if s.Backend == "" {
		s.Backend = BackendESpeak
	}
	if err := validateBackend(s.Backend); err != nil {
		return nil, err
	}
	if s.Fallback != "" {
		if err := validateBackend(s.Fallback); err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		if s.Fallback == s.Backend {
			return nil, fmt.Errorf("fallback backend must differ from %s", s.Backend)
		}
	}
	if s.BreakerFailures < 0 {
		return nil, fmt.Errorf("breaker failures must not be negative, got %d", s.BreakerFailures)
	}
	if s.CacheTTL < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative, got %s", s.CacheTTL)
	}
	if s.CacheDriver == "sqlite" && s.CacheDSN == "" {
		s.CacheDSN = defaultCacheDSN()
	}

	return s, nil
}

func validateBackend(name string) error {
	switch name {
	case BackendESpeak, BackendOpenAI, BackendGemini:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (valid: espeak, openai, gemini)", name)
	}
}

// nonEmpty drops blank patterns left by empty config entries.
func nonEmpty(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
