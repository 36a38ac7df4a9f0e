package view

import (
	"sort"

	"github.com/tasksense/tasksense/internal/index"
	"github.com/tasksense/tasksense/internal/task"
)

// Group holds the tasks sharing one value of the grouping field.
type Group struct {
	Key   string       `json:"key"`
	Tasks []*task.Task `json:"tasks"`
}

// GroupByField groups tasks by a discovered field's (alias-resolved)
// value. Tasks lacking the field land under "(none)". Groups are
// ordered by size descending, then key.
func GroupByField(tasks []*task.Task, ix *index.Index, field string) []Group {
	field = ix.CanonicalField(index.Normalize(field))

	buckets := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := "(none)"
		if v, ok := t.Fields[field]; ok {
			key = ix.CanonicalValue(v.String())
		}
		buckets[key] = append(buckets[key], t)
	}

	groups := make([]Group, 0, len(buckets))
	for key, members := range buckets {
		groups = append(groups, Group{Key: key, Tasks: members})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Tasks) != len(groups[j].Tasks) {
			return len(groups[i].Tasks) > len(groups[j].Tasks)
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
