// Package view provides list-level operations over task collections:
// filtering, grouping, and sorting for the query surface.
package view

import (
	"strings"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/index"
	"github.com/tasksense/tasksense/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Status string // "", "open", or "completed"
	// FieldEquals matches discovered fields by exact (alias-resolved) value.
	FieldEquals map[string]string
	Search      string // case-insensitive substring over raw text and field values
	Overdue     bool   // deadline strictly before Today
	DueToday    bool   // deadline equals Today
	DueThisWeek bool   // deadline within Today's calendar week
	Blocked     *bool  // nil=no filter, true=only blocked, false=only unblocked
	Today       date.Date
}

// Filter returns tasks matching all specified criteria (AND logic).
// The graph supplies blocked-ness; the index resolves alias variants in
// field queries without touching stored task data.
func Filter(tasks []*task.Task, g *graph.Graph, ix *index.Index, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matches(t, g, ix, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matches(t *task.Task, g *graph.Graph, ix *index.Index, opts FilterOptions) bool {
	if opts.Status != "" && t.Status != opts.Status {
		return false
	}
	if !matchesDeadline(t, opts) {
		return false
	}
	if opts.Blocked != nil && g.IsBlocked(t.ID) != *opts.Blocked {
		return false
	}
	for name, want := range opts.FieldEquals {
		if !fieldEquals(t, ix, name, want) {
			return false
		}
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesDeadline(t *task.Task, opts FilterOptions) bool {
	if !opts.Overdue && !opts.DueToday && !opts.DueThisWeek {
		return true
	}
	if t.Deadline == nil {
		return false
	}
	d := *t.Deadline
	switch {
	case opts.Overdue:
		return d.Before(opts.Today.Time)
	case opts.DueToday:
		return d.Equal(opts.Today)
	default: // DueThisWeek
		start, end := opts.Today.StartOfWeek(), opts.Today.EndOfWeek()
		return !d.Before(start.Time) && !end.Before(d.Time)
	}
}

// fieldEquals resolves both the queried name and value through the
// alias table, so a query for a merged variant finds tasks stored under
// either spelling.
func fieldEquals(t *task.Task, ix *index.Index, name, want string) bool {
	name = ix.CanonicalField(index.Normalize(name))
	got, ok := t.Fields[name]
	if !ok {
		return false
	}
	if got.String() == want {
		return true
	}
	return ix.CanonicalValue(got.String()) == ix.CanonicalValue(want)
}

// matchesSearch performs case-insensitive substring matching across the
// raw text and field values.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Raw), q) {
		return true
	}
	for _, v := range t.Fields {
		if strings.Contains(strings.ToLower(v.String()), q) {
			return true
		}
	}
	return false
}
