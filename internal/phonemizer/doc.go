// Package phonemizer wraps a phoneme-generation backend with the
// preservation protocol from package preserve. It defines the Backend
// contract, the phonology options forwarded to backends, and decorators
// for fallback and circuit breaking.
package phonemizer
