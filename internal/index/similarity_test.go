package index

import "testing"

func TestEditSimilarityScore(t *testing.T) {
	sim := DefaultSimilarity()

	tests := []struct {
		a, b      string
		wantMerge bool
	}{
		{"project", "project", true},
		{"proj", "project", true},
		{"due", "due_date", true},
		{"Priority", "priority", true},
		{"deadline", "project", false},
		{"person", "priority", false},
		{"", "project", false},
	}
	for _, tt := range tests {
		score := sim.Score(tt.a, tt.b)
		if score < 0 || score > 1 {
			t.Errorf("Score(%q, %q) = %f out of [0,1]", tt.a, tt.b, score)
		}
		if got := score >= sim.Threshold(); got != tt.wantMerge {
			t.Errorf("Score(%q, %q) = %f, merge = %v, want %v", tt.a, tt.b, score, got, tt.wantMerge)
		}
	}
}

func TestNewSimilarityThreshold(t *testing.T) {
	strict := NewSimilarity(0.95)
	if strict.Threshold() != 0.95 {
		t.Errorf("Threshold: got %f, want 0.95", strict.Threshold())
	}
	// A one-letter edit on an eight-letter name scores 0.875: merges at
	// the default threshold, not at the strict one.
	if score := strict.Score("deadline", "deadlime"); score >= strict.Threshold() {
		t.Errorf("edit-distance pair merges at strict threshold: %f", score)
	}
	if score := DefaultSimilarity().Score("deadline", "deadlime"); score < DefaultThreshold {
		t.Errorf("edit-distance pair misses default threshold: %f", score)
	}
	// Clean truncations stay in the merge band at any threshold.
	if score := strict.Score("proj", "project"); score < strict.Threshold() {
		t.Errorf("substring pair misses strict threshold: %f", score)
	}
	// Out-of-range values fall back to the default.
	for _, bad := range []float64{0, -1, 1.5} {
		if got := NewSimilarity(bad).Threshold(); got != DefaultThreshold {
			t.Errorf("NewSimilarity(%f).Threshold() = %f, want %f", bad, got, DefaultThreshold)
		}
	}
}

func TestScoreSymmetric(t *testing.T) {
	sim := DefaultSimilarity()
	pairs := [][2]string{{"proj", "project"}, {"due", "deadline"}, {"a", "ab"}}
	for _, p := range pairs {
		if sim.Score(p[0], p[1]) != sim.Score(p[1], p[0]) {
			t.Errorf("Score(%q, %q) not symmetric", p[0], p[1])
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q): got %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
