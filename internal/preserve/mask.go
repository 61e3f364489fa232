package preserve

import (
	"context"
	"fmt"
	"strings"
)

// Sentinel is prefixed to every protected substring so the phonemizer
// reads it the same way alone and in context.
const Sentinel = "<|begin_real_number|>"

// Wrap applies the sentinel template "<marker> {content}".
func Wrap(content string) string {
	return Sentinel + " " + content
}

// PhonemizeFunc phonemizes a batch of texts in one round trip and returns
// one result per input, in order.
type PhonemizeFunc func(ctx context.Context, texts []string) ([]string, error)

// Mask replaces every match in text with its sentinel-wrapped form. Each
// wrapped fragment is phonemized on its own and the trimmed result is
// recorded as the key for the original substring. With no matches the
// text is returned unchanged and phonemize is never called.
func (m *Matcher) Mask(ctx context.Context, text string, phonemize PhonemizeFunc, policy CollisionPolicy) (string, *ReplacementMap, error) {
	replacements := NewReplacementMap()

	spans := m.FindAll(text)
	if len(spans) == 0 {
		return text, replacements, nil
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(Sentinel)+1))

	last := 0
	for _, span := range spans {
		original := text[span[0]:span[1]]
		fragment := Wrap(original)

		out, err := phonemize(ctx, []string{fragment})
		if err != nil {
			return "", nil, fmt.Errorf("phonemize fragment %q: %w", fragment, err)
		}
		if len(out) != 1 {
			return "", nil, fmt.Errorf("phonemize fragment %q: got %d results: %w", fragment, len(out), ErrResultCount)
		}

		key := strings.TrimSpace(out[0])
		if key == "" {
			return "", nil, fmt.Errorf("fragment %q: %w", fragment, ErrEmptySignature)
		}
		if err := replacements.Record(key, original, policy); err != nil {
			return "", nil, err
		}

		b.WriteString(text[last:span[0]])
		b.WriteString(fragment)
		last = span[1]
	}
	b.WriteString(text[last:])

	return b.String(), replacements, nil
}
