package phonetic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/preserve"
)

var numberedLine = regexp.MustCompile(`^\s*(\d+)\s*[.):]\s?(.*)$`)

// systemPrompt describes the transcription rules for the given options.
// Language switch and word mismatch policies have no LLM equivalent and
// are not part of the prompt.
func systemPrompt(opts phonemizer.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a phonemizer for the language %q. ", opts.Language)
	b.WriteString("Transcribe every numbered input line into the International Phonetic Alphabet. ")
	b.WriteString("Answer with the same numbers, one line per input, in the form '<n>. <ipa>', and nothing else. ")
	fmt.Fprintf(&b, "When a line contains the marker %s followed by a token, read that token as a spoken number and leave the marker out. ", preserve.Sentinel)
	if opts.WithStress {
		b.WriteString("Mark primary stress with ˈ and secondary stress with ˌ. ")
	} else {
		b.WriteString("Do not write any stress marks. ")
	}
	if opts.Tie != "" {
		fmt.Fprintf(&b, "Join the letters of multi-letter phonemes with %q. ", opts.Tie)
	}
	if opts.Punctuation != "" {
		b.WriteString("Keep punctuation marks exactly where they are. ")
	}
	return strings.TrimSpace(b.String())
}

// userPrompt numbers texts from 1. Newlines inside a text are flattened so
// the numbering stays unambiguous.
func userPrompt(texts []string) string {
	var b strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(strings.Fields(text), " "))
	}
	return b.String()
}

// parseNumbered maps "<n>. <ipa>" lines back onto n texts. Every number
// from 1 to n must be present.
func parseNumbered(content string, n int) ([]string, error) {
	out := make([]string, n)
	seen := make([]bool, n)

	for _, line := range strings.Split(content, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		out[idx-1] = strings.TrimSpace(m[2])
		seen[idx-1] = true
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("model answer is missing line %d of %d", i+1, n)
		}
	}
	return out, nil
}
