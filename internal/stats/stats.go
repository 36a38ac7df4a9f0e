// Package stats folds the task set into completion and activity
// aggregates. The fold is read-only: it never touches the store.
package stats

import (
	"sort"
	"time"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/task"
)

// DefaultWindowDays is the default trailing window for daily counts.
const DefaultWindowDays = 14

// ProjectCount is a per-project completed-task count.
type ProjectCount struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
}

// TypeDuration is a per-task-type average recorded duration.
type TypeDuration struct {
	Type    string        `json:"type"`
	Count   int           `json:"count"` // completions with a recorded duration
	Average time.Duration `json:"average_ns"`
}

// DayCount is a completion count for one calendar day.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Report is the aggregate view over open and archived tasks.
type Report struct {
	TotalCreated   int            `json:"total_created"`
	TotalCompleted int            `json:"total_completed"`
	// CompletionRate is a percentage in [0,100]; 0 for an empty set.
	CompletionRate float64        `json:"completion_rate"`
	PerProject     []ProjectCount `json:"per_project,omitempty"`
	PerType        []TypeDuration `json:"per_type,omitempty"`
	Daily          []DayCount     `json:"daily"`
}

// Compute folds open and archived tasks into a Report. windowDays
// bounds the trailing daily-activity window; 0 uses the default.
func Compute(open, archived []*task.Task, now time.Time, windowDays int) Report {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	r := Report{
		TotalCreated: len(open) + len(archived),
	}

	projects := make(map[string]int)
	typeTotals := make(map[string]time.Duration)
	typeCounts := make(map[string]int)
	days := make(map[string]int)
	windowStart := date.FromTime(now).AddDays(-(windowDays - 1))

	for _, t := range archived {
		if t.Completion == nil {
			continue
		}
		r.TotalCompleted++

		if p := t.Field("project"); p != "" {
			projects[p]++
		}

		// Skipped durations count toward completions but not averages.
		if !t.Completion.Skip && t.Completion.Duration != "" {
			if d, err := time.ParseDuration(t.Completion.Duration); err == nil {
				typ := t.Field("type")
				if typ == "" {
					typ = "(untyped)"
				}
				typeTotals[typ] += d
				typeCounts[typ]++
			}
		}

		day := date.FromTime(t.Completion.CompletedAt)
		if !day.Before(windowStart.Time) {
			days[day.String()]++
		}
	}

	if r.TotalCreated > 0 {
		r.CompletionRate = 100 * float64(r.TotalCompleted) / float64(r.TotalCreated)
	}

	for p, n := range projects {
		r.PerProject = append(r.PerProject, ProjectCount{Project: p, Count: n})
	}
	sort.Slice(r.PerProject, func(i, j int) bool {
		if r.PerProject[i].Count != r.PerProject[j].Count {
			return r.PerProject[i].Count > r.PerProject[j].Count
		}
		return r.PerProject[i].Project < r.PerProject[j].Project
	})

	for typ, total := range typeTotals {
		n := typeCounts[typ]
		r.PerType = append(r.PerType, TypeDuration{
			Type:    typ,
			Count:   n,
			Average: total / time.Duration(n),
		})
	}
	sort.Slice(r.PerType, func(i, j int) bool {
		return r.PerType[i].Type < r.PerType[j].Type
	})

	// Every day in the window appears, zero counts included.
	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDays(i).String()
		r.Daily = append(r.Daily, DayCount{Day: day, Count: days[day]})
	}

	return r
}
