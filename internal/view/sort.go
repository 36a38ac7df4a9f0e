package view

import (
	"sort"

	"github.com/tasksense/tasksense/internal/task"
)

// Sort fields accepted by the list surface.
const (
	SortCreated  = "created"
	SortDeadline = "deadline"
)

// Sort sorts tasks by the given field in place. Unknown fields fall
// back to creation order. Ties always break by ID for stable output.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compare(tasks[i], tasks[j], field)
		if reverse {
			return !less
		}
		return less
	})
}

func compare(a, b *task.Task, field string) bool {
	if field == SortDeadline {
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			// fall through to created
		case a.Deadline == nil:
			return false // nil sorts last
		case b.Deadline == nil:
			return true
		case !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(b.Deadline.Time)
		}
	}
	if !a.Created.Equal(b.Created) {
		return a.Created.Before(b.Created)
	}
	return a.ID < b.ID
}
