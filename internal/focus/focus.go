// Package focus ranks open tasks with a deterministic score. The
// scorer is a pure function over the current task set; nothing is
// cached on the task, and re-running it on an unchanged set yields
// the same order.
package focus

import (
	"sort"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/task"
)

// Score contributions, in fixed order of magnitude. These values are a
// compatibility contract: rankings must be reproducible bit-for-bit.
const (
	weightOverdue    = 200
	weightDueToday   = 100
	weightUrgent     = 100
	weightHigh       = 50
	weightPerBlocked = 40
	penaltyBlocked   = 50
)

// Score computes the focus score of one task against today's date.
func Score(t *task.Task, g *graph.Graph, today date.Date) int {
	score := 0
	if t.Deadline != nil {
		switch {
		case t.Deadline.Before(today.Time):
			score += weightOverdue
		case t.Deadline.Equal(today):
			score += weightDueToday
		}
	}
	switch t.Field("priority") {
	case "urgent":
		score += weightUrgent
	case "high":
		score += weightHigh
	}
	score += weightPerBlocked * g.BlocksOpen(t.ID)
	if g.IsBlocked(t.ID) {
		score -= penaltyBlocked
	}
	return score
}

// Ranked pairs a task with its computed score.
type Ranked struct {
	Task  *task.Task
	Score int
}

// Rank orders open tasks by score descending. Ties break by earliest
// deadline (no deadline sorts last), then earliest creation, then ID.
func Rank(open []*task.Task, g *graph.Graph, today date.Date) []Ranked {
	ranked := make([]Ranked, 0, len(open))
	for _, t := range open {
		ranked = append(ranked, Ranked{Task: t, Score: Score(t, g, today)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if c := compareDeadline(a.Task, b.Task); c != 0 {
			return c < 0
		}
		if !a.Task.Created.Equal(b.Task.Created) {
			return a.Task.Created.Before(b.Task.Created)
		}
		return a.Task.ID < b.Task.ID
	})
	return ranked
}

func compareDeadline(a, b *task.Task) int {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return 0
	case a.Deadline == nil:
		return 1
	case b.Deadline == nil:
		return -1
	case a.Deadline.Before(b.Deadline.Time):
		return -1
	case b.Deadline.Before(a.Deadline.Time):
		return 1
	default:
		return 0
	}
}
