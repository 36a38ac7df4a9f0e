package index

import "strings"

// Similarity scores the likeness of two normalized names in [0,1].
// It sits behind an interface so the heuristic can be swapped or unit
// tested without touching the index's storage logic.
type Similarity interface {
	Score(a, b string) float64
	Threshold() float64
}

// DefaultThreshold is the score a pair must reach to merge. Missed
// aliases are cheap, wrong merges are not, so it errs high.
const DefaultThreshold = 0.8

// editSimilarity combines case-insensitive equality, substring
// containment, and normalized edit distance.
type editSimilarity struct {
	threshold float64
}

// DefaultSimilarity returns the standard heuristic with the default
// threshold.
func DefaultSimilarity() Similarity {
	return NewSimilarity(DefaultThreshold)
}

// NewSimilarity returns the standard heuristic with a custom merge
// threshold. Out-of-range values fall back to the default.
func NewSimilarity(threshold float64) Similarity {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return editSimilarity{threshold: threshold}
}

func (s editSimilarity) Threshold() float64 { return s.threshold }

func (s editSimilarity) Score(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	// Substring containment catches "due" vs "due_date" and
	// "proj" vs "project". Scored in the band above the threshold so a
	// clean prefix/suffix truncation always merges.
	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return s.threshold + (1-s.threshold)*float64(shorter)/float64(longer)
	}
	dist := levenshtein(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(dist)/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cur := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = cur
		}
	}
	return row[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
