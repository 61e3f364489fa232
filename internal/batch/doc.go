// Package batch reads input texts from files and writes phonemized
// results, one text per line.
package batch
