package cli

import (
	"time"

	"codeberg.org/snonux/phonemask/internal/espeak"
	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/phonetic"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	BatchFile     string
	OutputFile    string
	ListLanguages bool

	// Phonology flags
	Language       string
	Preserve       []string
	Punctuation    string
	WithStress     bool
	Tie            string
	LanguageSwitch string
	WordsMismatch  string
	Collision      string

	// Backend flags
	Backend           string
	Fallback          string
	ESpeakBinary      string
	OpenAIModel       string
	GeminiModel       string
	RequestsPerSecond float64
	BreakerFailures   int

	// Cache flags
	CacheDriver string
	CacheDSN    string
	CacheTTL    time.Duration

	// Logging flags
	LogLevel  string
	LogFormat string
	LogFile   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	opts := phonemizer.DefaultOptions()
	return &Flags{
		Language:        opts.Language,
		Punctuation:     opts.Punctuation,
		WithStress:      opts.WithStress,
		Tie:             "false",
		LanguageSwitch:  opts.LanguageSwitch.String(),
		WordsMismatch:   opts.WordMismatch.String(),
		Collision:       "error",
		Backend:         BackendESpeak,
		ESpeakBinary:    espeak.DefaultBinary,
		OpenAIModel:     "gpt-4o",
		GeminiModel:     phonetic.DefaultGeminiModel,
		BreakerFailures: 5,
		CacheDriver:     "none",
		LogLevel:        "warn",
		LogFormat:       "console",
	}
}
