// Package preserve protects substrings from phonetic transformation. It
// compiles preservation patterns into a single matcher, masks matches with
// a sentinel before phonemization, and restores the original literals in
// the phonemized output afterwards.
package preserve
