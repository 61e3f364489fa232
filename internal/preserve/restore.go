package preserve

import "strings"

// Restore substitutes every recorded signature in phonemized with its
// original substring, in insertion order. A signature that no longer
// occurs in the text fails the whole restoration.
func Restore(phonemized string, replacements *ReplacementMap) (string, error) {
	for _, r := range replacements.Entries() {
		if !strings.Contains(phonemized, r.Key) {
			return "", &RestorationMismatchError{Key: r.Key, Text: phonemized}
		}
		phonemized = strings.ReplaceAll(phonemized, r.Key, r.Original)
	}
	return phonemized, nil
}
