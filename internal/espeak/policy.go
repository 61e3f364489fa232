package espeak

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
)

// languageFlag matches the "(en)" style markers espeak-ng inserts when it
// switches language inside an utterance.
var languageFlag = regexp.MustCompile(`\([a-z]{2,3}(?:-[a-z0-9]+)*\)`)

var stressMarks = strings.NewReplacer("ˈ", "", "ˌ", "")

func stripStress(s string) string {
	return stressMarks.Replace(s)
}

func (b *Backend) applyLanguageSwitch(out []string) []string {
	switched := 0
	for i, ph := range out {
		if !languageFlag.MatchString(ph) {
			continue
		}
		switched++

		switch b.opts.LanguageSwitch {
		case phonemizer.KeepFlags:
		case phonemizer.RemoveFlags:
			out[i] = strings.Join(strings.Fields(languageFlag.ReplaceAllString(ph, "")), " ")
		case phonemizer.RemoveUtterance:
			out[i] = ""
		}
	}

	if switched > 0 {
		b.logger.Warn("Language switch detected",
			zap.Int("utterances", switched),
			zap.Stringer("policy", b.opts.LanguageSwitch),
		)
	}
	return out
}

func (b *Backend) applyWordMismatch(texts, out []string) []string {
	if b.opts.WordMismatch == phonemizer.MismatchIgnore {
		return out
	}

	mismatched := 0
	for i := range out {
		in := b.countWords(texts[i])
		got := b.countWords(out[i])
		if in == got {
			continue
		}
		mismatched++

		switch b.opts.WordMismatch {
		case phonemizer.MismatchIgnore:
		case phonemizer.MismatchWarn:
			b.logger.Warn("Words count mismatch",
				zap.Int("line", i+1),
				zap.Int("input_words", in),
				zap.Int("output_words", got),
			)
		case phonemizer.MismatchRemove:
			out[i] = ""
		}
	}

	if mismatched > 0 {
		b.logger.Warn("Words count mismatch on some utterances",
			zap.Int("utterances", mismatched),
			zap.Int("total", len(out)),
			zap.Stringer("policy", b.opts.WordMismatch),
		)
	}
	return out
}

// countWords counts whitespace-separated words once punctuation and
// language flags are removed.
func (b *Backend) countWords(s string) int {
	s = languageFlag.ReplaceAllString(s, " ")
	if b.punct != nil {
		s = b.punct.ReplaceAllString(s, " ")
	}
	return len(strings.Fields(s))
}
