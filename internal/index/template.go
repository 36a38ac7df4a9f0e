package index

import (
	"sort"
	"strings"
)

// DefaultTemplateMinCount is how many times a token shape must repeat
// before it is registered as a template.
const DefaultTemplateMinCount = 2

// DetectTemplate compares the text's token shape against known
// templates: tokens whose value appears in the extracted field map are
// generalized to a {field} slot, everything else is kept literal. When
// the same shape recurs, its template entry is strengthened; the first
// repetition registers it. Returns the template ID when a template was
// matched or registered, or "" otherwise.
func (ix *Index) DetectTemplate(raw string, fields map[string]string) string {
	pattern, slots := generalize(raw, fields)
	if pattern == "" || len(slots) == 0 {
		// A shape with no slots is just a sentence, not a template.
		return ""
	}

	id := templateID(pattern)
	if tpl, ok := ix.Templates[id]; ok {
		tpl.Count++
		tpl.Fields = mergeFields(tpl.Fields, slots)
		return id
	}

	// First sighting: remember the shape as a pending candidate with
	// count 1; it becomes a template entry immediately but only counts
	// reaching the registration threshold are treated as established.
	ix.Templates[id] = &Template{Pattern: pattern, Fields: slots, Count: 1}
	return id
}

// EstablishedTemplates returns template IDs whose match count reached
// the registration threshold, sorted by count descending.
func (ix *Index) EstablishedTemplates() []string {
	need := ix.TemplateMinCount
	if need <= 0 {
		need = DefaultTemplateMinCount
	}
	var ids []string
	for id, tpl := range ix.Templates {
		if tpl.Count >= need {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ix.Templates[ids[i]], ix.Templates[ids[j]]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return ids[i] < ids[j]
	})
	return ids
}

// generalize replaces field-valued tokens with {field} slots.
func generalize(raw string, fields map[string]string) (string, []string) {
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return "", nil
	}

	// Longest values first so "acme corp" wins over "acme".
	type fv struct{ name, value string }
	var pairs []fv
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		pairs = append(pairs, fv{Normalize(name), value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].value) != len(pairs[j].value) {
			return len(pairs[i].value) > len(pairs[j].value)
		}
		return pairs[i].name < pairs[j].name
	})

	text := raw
	var slots []string
	for _, p := range pairs {
		if containsFold(text, p.value) {
			text = replaceFold(text, p.value, "{"+p.name+"}")
			slots = append(slots, p.name)
		}
	}
	if len(slots) == 0 {
		return "", nil
	}
	sort.Strings(slots)
	return strings.Join(strings.Fields(strings.ToLower(text)), " "), slots
}

func templateID(pattern string) string {
	// The ID is the pattern's leading action verb plus slot shape,
	// compact enough to display and stable across runs.
	tokens := strings.Fields(pattern)
	verb := tokens[0]
	var slots []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "{") {
			slots = append(slots, strings.Trim(tok, "{},.!?"))
		}
	}
	return verb + ":" + strings.Join(slots, "+")
}

func mergeFields(existing, seen []string) []string {
	out := append([]string(nil), existing...)
	for _, s := range seen {
		out = appendUnique(out, s)
	}
	sort.Strings(out)
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func replaceFold(haystack, needle, replacement string) string {
	lower := strings.ToLower(haystack)
	idx := strings.Index(lower, strings.ToLower(needle))
	if idx < 0 {
		return haystack
	}
	return haystack[:idx] + replacement + haystack[idx+len(needle):]
}
