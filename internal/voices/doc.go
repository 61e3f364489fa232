// Package voices lists the languages espeak-ng can phonemize. It helps
// users pick a value for the language option.
package voices
