package preserve

import (
	"errors"
	"fmt"
)

// ErrResultCount is returned when a phonemizer does not return exactly one
// result per input.
var ErrResultCount = errors.New("phonemizer returned wrong number of results")

// ErrEmptySignature is returned when a protected fragment phonemizes to
// whitespace only. An empty key would match everywhere during restoration.
var ErrEmptySignature = errors.New("protected fragment phonemized to an empty string")

// PatternError reports a preservation pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid preserve pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// RestorationMismatchError reports a phonemized fragment signature that
// could not be found in the phonemized text it was recorded for. The
// phonemizer rendered the fragment differently in context than alone.
type RestorationMismatchError struct {
	Key  string
	Text string
}

func (e *RestorationMismatchError) Error() string {
	return fmt.Sprintf("replacement %q not found in %q", e.Key, e.Text)
}

// KeyCollisionError reports two different protected substrings that
// phonemized to the same signature within one text.
type KeyCollisionError struct {
	Key      string
	Existing string
	Incoming string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("signature %q already maps to %q, cannot also map %q",
		e.Key, e.Existing, e.Incoming)
}
