// Package index maintains the process-wide semantic index: the
// discovered-field table, the alias table, and the template table.
// The index is loaded at command start and persisted atomically with
// the task write that mutated it.
package index

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/tasksense/tasksense/internal/task"
)

// DefaultSampleLimit bounds the observed sample values kept per field.
// Oldest samples are evicted first. Tunable, not a contract.
const DefaultSampleLimit = 5

// FieldEntry describes one discovered field.
type FieldEntry struct {
	Type    string   `yaml:"type" json:"type"`
	Samples []string `yaml:"samples,omitempty" json:"samples,omitempty"`
	Count   int      `yaml:"count" json:"count"`
}

// Template is a generalized text pattern seen across multiple tasks.
type Template struct {
	Pattern string   `yaml:"pattern" json:"pattern"`
	Fields  []string `yaml:"fields,omitempty" json:"fields,omitempty"`
	Count   int      `yaml:"count" json:"count"`
}

// Index is the persisted semantic index.
type Index struct {
	Version int `yaml:"version"`
	// Fields maps normalized field names to their entries.
	Fields map[string]*FieldEntry `yaml:"fields,omitempty"`
	// Aliases maps a canonical name to its literal variants. Canonical
	// names are first-seen or manually designated and never silently
	// renamed once merged.
	Aliases map[string][]string `yaml:"aliases,omitempty"`
	// Templates maps template IDs to generalized patterns.
	Templates map[string]*Template `yaml:"templates,omitempty"`

	SampleLimit      int `yaml:"-"`
	TemplateMinCount int `yaml:"-"`

	sim Similarity
}

const currentVersion = 1

// New returns an empty index with the default similarity heuristic.
func New() *Index {
	return &Index{
		Version:          currentVersion,
		Fields:           make(map[string]*FieldEntry),
		Aliases:          make(map[string][]string),
		Templates:        make(map[string]*Template),
		SampleLimit:      DefaultSampleLimit,
		TemplateMinCount: DefaultTemplateMinCount,
		sim:              DefaultSimilarity(),
	}
}

// SetSimilarity swaps the alias-detection heuristic.
func (ix *Index) SetSimilarity(s Similarity) {
	ix.sim = s
}

// Normalize canonicalizes a field name: lowercased, trimmed, inner
// whitespace collapsed to single underscores.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "_")
}

// Observe records every field of one extracted field map: entries are
// created or updated, occurrence counts incremented, and a bounded set
// of distinct sample values retained (oldest-first eviction).
func (ix *Index) Observe(fields map[string]task.Value) {
	for name, v := range fields {
		key := ix.CanonicalField(Normalize(name))
		e, ok := ix.Fields[key]
		if !ok {
			e = &FieldEntry{Type: v.Kind}
			ix.Fields[key] = e
		}
		e.Count++
		ix.addSample(e, v.String())
	}
}

func (ix *Index) addSample(e *FieldEntry, sample string) {
	for _, s := range e.Samples {
		if s == sample {
			return
		}
	}
	e.Samples = append(e.Samples, sample)
	limit := ix.SampleLimit
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	if len(e.Samples) > limit {
		e.Samples = e.Samples[len(e.Samples)-limit:]
	}
}

// CanonicalField maps a normalized field name through the alias table.
// Unknown names map to themselves.
func (ix *Index) CanonicalField(name string) string {
	for canonical, variants := range ix.Aliases {
		if canonical == name {
			return name
		}
		for _, v := range variants {
			if v == name {
				return canonical
			}
		}
	}
	return name
}

// CanonicalValue maps a field value through the alias table, so a query
// for a merged variant resolves under its canonical spelling.
func (ix *Index) CanonicalValue(value string) string {
	for canonical, variants := range ix.Aliases {
		if canonical == value {
			return value
		}
		for _, v := range variants {
			if v == value {
				return canonical
			}
		}
	}
	return value
}

// ProposeAlias checks a new name against existing canonical names with
// the similarity heuristic. On a strong match the name is recorded as a
// variant and the canonical name returned; otherwise the name is
// returned unchanged. False negatives are acceptable; wrong merges are
// correctable only via manual MergeAlias, so the threshold errs high.
func (ix *Index) ProposeAlias(name string) (canonical string, merged bool) {
	name = Normalize(name)
	if _, exists := ix.Fields[name]; exists {
		return name, false
	}
	if c := ix.CanonicalField(name); c != name {
		return c, true
	}

	best, bestScore := "", 0.0
	for existing := range ix.Fields {
		if score := ix.sim.Score(name, existing); score > bestScore {
			best, bestScore = existing, score
		}
	}
	if bestScore >= ix.sim.Threshold() {
		ix.Aliases[best] = appendUnique(ix.Aliases[best], name)
		return best, true
	}
	return name, false
}

// MergeAlias records variant under canonical. Manual correction path:
// it only changes the variant→canonical mapping and never rewrites
// stored task data. Merging an unknown canonical creates it.
func (ix *Index) MergeAlias(canonical, variant string) error {
	canonical = strings.TrimSpace(canonical)
	variant = strings.TrimSpace(variant)
	if canonical == "" || variant == "" {
		return fmt.Errorf("canonical and variant must be non-empty")
	}
	if canonical == variant {
		return fmt.Errorf("cannot merge %q into itself", variant)
	}
	// Re-point an already-merged variant rather than duplicating it.
	for c, variants := range ix.Aliases {
		if c == canonical {
			continue
		}
		ix.Aliases[c] = removeString(variants, variant)
		if len(ix.Aliases[c]) == 0 {
			delete(ix.Aliases, c)
		}
	}
	ix.Aliases[canonical] = appendUnique(ix.Aliases[canonical], variant)
	return nil
}

// Variants returns the alias variants of a canonical name, sorted.
func (ix *Index) Variants(canonical string) []string {
	out := append([]string(nil), ix.Aliases[canonical]...)
	sort.Strings(out)
	return out
}

// FieldNames returns all canonical field names, sorted.
func (ix *Index) FieldNames() []string {
	names := make([]string, 0, len(ix.Fields))
	for name := range ix.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads the index file. A missing file yields an empty index; a
// corrupt file is an error the caller reports (the index is a single
// unit, unlike the per-task records).
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path) //nolint:gosec // index path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	ix := New()
	if err := yaml.Unmarshal(data, ix); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}
	if ix.Fields == nil {
		ix.Fields = make(map[string]*FieldEntry)
	}
	if ix.Aliases == nil {
		ix.Aliases = make(map[string][]string)
	}
	if ix.Templates == nil {
		ix.Templates = make(map[string]*Template)
	}
	return ix, nil
}

// Save writes the index with an atomic replace so a concurrent reader
// never sees a partially written file.
func (ix *Index) Save(path string) error {
	data, err := yaml.Marshal(ix)
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func appendUnique(slice []string, s string) []string {
	for _, v := range slice {
		if v == s {
			return slice
		}
	}
	return append(slice, s)
}

func removeString(slice []string, s string) []string {
	out := slice[:0]
	for _, v := range slice {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
