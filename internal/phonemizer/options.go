package phonemizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultTie is the combining double inverted breve used when the tie
// option is simply switched on.
const DefaultTie = "͡"

// DefaultPunctuation matches runs of the marks preserved by default,
// together with surrounding whitespace.
const DefaultPunctuation = `\s*[;:,.!?¡¿—…"«»“”(){}\[\]]+\s*`

// LanguageSwitch controls what a backend does with utterances in which the
// engine switched to another language.
type LanguageSwitch int

const (
	// KeepFlags keeps the engine's language flags, e.g. "(en)".
	KeepFlags LanguageSwitch = iota
	// RemoveFlags strips the language flags and keeps the utterance.
	RemoveFlags
	// RemoveUtterance replaces the whole utterance with an empty string.
	RemoveUtterance
)

func (l LanguageSwitch) String() string {
	switch l {
	case KeepFlags:
		return "keep-flags"
	case RemoveFlags:
		return "remove-flags"
	case RemoveUtterance:
		return "remove-utterance"
	default:
		return fmt.Sprintf("LanguageSwitch(%d)", int(l))
	}
}

// ParseLanguageSwitch parses "keep-flags", "remove-flags" or
// "remove-utterance". The empty string selects keep-flags.
func ParseLanguageSwitch(s string) (LanguageSwitch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-flags":
		return KeepFlags, nil
	case "remove-flags":
		return RemoveFlags, nil
	case "remove-utterance":
		return RemoveUtterance, nil
	default:
		return KeepFlags, fmt.Errorf("unknown language switch %q (valid: keep-flags, remove-flags, remove-utterance)", s)
	}
}

// WordMismatch controls what a backend does when the number of words in
// its output differs from the input.
type WordMismatch int

const (
	// MismatchIgnore does nothing.
	MismatchIgnore WordMismatch = iota
	// MismatchWarn logs the mismatching lines.
	MismatchWarn
	// MismatchRemove replaces mismatching utterances with an empty string.
	MismatchRemove
)

func (w WordMismatch) String() string {
	switch w {
	case MismatchIgnore:
		return "ignore"
	case MismatchWarn:
		return "warn"
	case MismatchRemove:
		return "remove"
	default:
		return fmt.Sprintf("WordMismatch(%d)", int(w))
	}
}

// ParseWordMismatch parses "ignore", "warn" or "remove". The empty string
// selects ignore.
func ParseWordMismatch(s string) (WordMismatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return MismatchIgnore, nil
	case "warn":
		return MismatchWarn, nil
	case "remove":
		return MismatchRemove, nil
	default:
		return MismatchIgnore, fmt.Errorf("unknown words mismatch %q (valid: ignore, warn, remove)", s)
	}
}

// ParseTie accepts "", "false", "true" or a single character. It returns
// the glyph to place between the units of multi-letter phonemes, or "" for
// no tie.
func ParseTie(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "false":
		return "", nil
	case "true":
		return DefaultTie, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return "", fmt.Errorf("tie must be true, false or a single character, got %q", s)
	}
	return s, nil
}

// Options are the phonology settings handed to a backend at construction.
// The preservation layer never interprets them.
type Options struct {
	Language       string
	Punctuation    string // regexp of marks kept verbatim; empty disables
	WithStress     bool
	Tie            string // empty for no tie
	LanguageSwitch LanguageSwitch
	WordMismatch   WordMismatch
}

// DefaultOptions returns options for American English with stress marks
// and no tie.
func DefaultOptions() Options {
	return Options{
		Language:       "en-us",
		Punctuation:    DefaultPunctuation,
		WithStress:     true,
		LanguageSwitch: KeepFlags,
		WordMismatch:   MismatchIgnore,
	}
}

// Fingerprint identifies the options for cache keys.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("lang=%s;punct=%s;stress=%t;tie=%s;switch=%s;mismatch=%s",
		o.Language, o.Punctuation, o.WithStress, o.Tie, o.LanguageSwitch, o.WordMismatch)
}
