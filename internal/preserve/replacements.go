package preserve

import (
	"fmt"
	"strings"
)

// CollisionPolicy decides what happens when two different protected
// substrings in one text phonemize to the same signature.
type CollisionPolicy int

const (
	// CollisionError fails the text with a KeyCollisionError.
	CollisionError CollisionPolicy = iota
	// CollisionLastWins overwrites the earlier original.
	CollisionLastWins
	// CollisionFirstWins keeps the earlier original.
	CollisionFirstWins
)

var collisionNames = map[CollisionPolicy]string{
	CollisionError:     "error",
	CollisionLastWins:  "last-wins",
	CollisionFirstWins: "first-wins",
}

func (p CollisionPolicy) String() string {
	if name, ok := collisionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int(p))
}

// ParseCollisionPolicy parses "error", "last-wins" or "first-wins".
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return CollisionError, nil
	case "last-wins":
		return CollisionLastWins, nil
	case "first-wins":
		return CollisionFirstWins, nil
	default:
		return CollisionError, fmt.Errorf("unknown collision policy %q (valid: error, last-wins, first-wins)", s)
	}
}

// Replacement is one signature to original pair.
type Replacement struct {
	Key      string
	Original string
}

// ReplacementMap maps phonemized signatures back to the substrings they
// were produced from. Iteration follows insertion order.
type ReplacementMap struct {
	entries []Replacement
	index   map[string]int
}

// NewReplacementMap returns an empty map.
func NewReplacementMap() *ReplacementMap {
	return &ReplacementMap{index: make(map[string]int)}
}

// Record stores key -> original. Recording the same pair twice is a no-op.
// A key that already maps to a different original is resolved by policy.
// An overwritten key keeps its original position.
func (r *ReplacementMap) Record(key, original string, policy CollisionPolicy) error {
	i, exists := r.index[key]
	if !exists {
		r.index[key] = len(r.entries)
		r.entries = append(r.entries, Replacement{Key: key, Original: original})
		return nil
	}

	existing := r.entries[i].Original
	if existing == original {
		return nil
	}

	switch policy {
	case CollisionError:
		return &KeyCollisionError{Key: key, Existing: existing, Incoming: original}
	case CollisionLastWins:
		r.entries[i].Original = original
		return nil
	case CollisionFirstWins:
		return nil
	default:
		return fmt.Errorf("unhandled collision policy %v", policy)
	}
}

// Get returns the original recorded for key.
func (r *ReplacementMap) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	i, ok := r.index[key]
	if !ok {
		return "", false
	}
	return r.entries[i].Original, true
}

// Len returns the number of recorded keys.
func (r *ReplacementMap) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns the pairs in insertion order.
func (r *ReplacementMap) Entries() []Replacement {
	if r == nil {
		return nil
	}
	return append([]Replacement(nil), r.entries...)
}
