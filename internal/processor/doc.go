// Package processor contains the run logic of the phonemask command. It
// assembles the backend chain (espeak-ng or an LLM backend, optional
// fallback, circuit breaker and transcription cache) behind a preserving
// Phonemizer, then feeds it texts from arguments, a batch file or stdin and
// writes one result per line.
package processor
