// Package cache memoizes phonemizer backend results. Entries are keyed by
// backend, phonology options and text, and kept in SQLite or Redis.
package cache
