// Package resolve classifies short identifier prefixes against a
// candidate set. The same resolver serves task IDs and history record
// IDs; only the candidate set differs.
package resolve

import "sort"

// Kind classifies a resolution outcome.
type Kind int

const (
	// None means no candidate starts with the prefix.
	None Kind = iota
	// One means exactly one candidate matched.
	One
	// Ambiguous means two or more candidates matched.
	Ambiguous
)

// Resolution is the outcome of resolving a prefix. For One, IDs holds
// the single match; for Ambiguous, all matches in sorted order.
type Resolution struct {
	Kind Kind
	IDs  []string
}

// ID returns the single matched identifier, or "" if the resolution
// is not a unique match.
func (r Resolution) ID() string {
	if r.Kind == One {
		return r.IDs[0]
	}
	return ""
}

// Prefix resolves a candidate prefix against the full identifier set.
// Matching is a literal, case-sensitive prefix test over the canonical
// string form; every identifier is trivially reachable via itself.
// The result is deterministic for a given prefix and set.
//
// An empty prefix resolves to None even though it literally prefixes
// every identifier: it only ever reaches a command through a missing
// or blank argument, and treating it as matching the whole set would
// turn that mistake into an ambiguity listing every task.
func Prefix(prefix string, ids []string) Resolution {
	if prefix == "" {
		return Resolution{Kind: None}
	}

	var matches []string
	for _, id := range ids {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return Resolution{Kind: None}
	case 1:
		return Resolution{Kind: One, IDs: matches}
	default:
		sort.Strings(matches)
		return Resolution{Kind: Ambiguous, IDs: matches}
	}
}
