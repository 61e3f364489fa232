package espeak

import "regexp"

type segment struct {
	text string
	mark bool
}

// splitPunctuation cuts text into alternating word and mark segments. With
// a nil pattern the whole text is one word segment.
func splitPunctuation(punct *regexp.Regexp, text string) []segment {
	if punct == nil {
		return []segment{{text: text}}
	}

	var segs []segment
	last := 0
	for _, loc := range punct.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] > last {
			segs = append(segs, segment{text: text[last:loc[0]]})
		}
		segs = append(segs, segment{text: text[loc[0]:loc[1]], mark: true})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, segment{text: text[last:]})
	}
	return segs
}
