package preserve

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is the alternation of all preservation patterns, compiled once.
// A nil *Matcher means no patterns are configured.
type Matcher struct {
	patterns []string
	re       *regexp.Regexp
}

// Compile combines patterns into (p1)|(p2)|... and compiles the result.
// An empty pattern set yields a nil Matcher and no error. Each pattern is
// checked on its own first so the error names the offending one.
func Compile(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	groups := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		groups = append(groups, "("+p+")")
	}

	combined := strings.Join(groups, "|")
	re, err := regexp.Compile(combined)
	if err != nil {
		return nil, &PatternError{Pattern: combined, Err: err}
	}

	return &Matcher{
		patterns: append([]string(nil), patterns...),
		re:       re,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(patterns ...string) *Matcher {
	m, err := Compile(patterns)
	if err != nil {
		panic(fmt.Sprintf("preserve: %v", err))
	}
	return m
}

// Patterns returns a copy of the source patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// String returns the combined expression.
func (m *Matcher) String() string {
	if m == nil {
		return ""
	}
	return m.re.String()
}

// FindAll returns the byte offsets of all non-empty, non-overlapping
// matches in text, left to right.
func (m *Matcher) FindAll(text string) [][]int {
	if m == nil {
		return nil
	}

	var spans [][]int
	for _, loc := range m.re.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		spans = append(spans, loc)
	}
	return spans
}
