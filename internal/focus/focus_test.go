package focus

import (
	"testing"
	"time"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/task"
)

var today = date.New(2026, time.March, 18)

func openTask(id string) *task.Task {
	return &task.Task{
		ID:      id,
		Status:  task.StatusOpen,
		Created: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func withDeadline(t *task.Task, d date.Date) *task.Task {
	t.Deadline = &d
	return t
}

func withPriority(t *task.Task, p string) *task.Task {
	if t.Fields == nil {
		t.Fields = map[string]task.Value{}
	}
	t.Fields["priority"] = task.Enum(p)
	return t
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		t    *task.Task
		want int
	}{
		{"bare task", openTask("a"), 0},
		{"overdue", withDeadline(openTask("a"), today.AddDays(-1)), 200},
		{"due today", withDeadline(openTask("a"), today), 100},
		{"due tomorrow", withDeadline(openTask("a"), today.AddDays(1)), 0},
		{"urgent", withPriority(openTask("a"), "urgent"), 100},
		{"high", withPriority(openTask("a"), "high"), 50},
		{"low adds nothing", withPriority(openTask("a"), "low"), 0},
		{"overdue and urgent stack", withPriority(withDeadline(openTask("a"), today.AddDays(-3)), "urgent"), 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New([]*task.Task{tt.t})
			if got := Score(tt.t, g, today); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreBlocking(t *testing.T) {
	blocker := openTask("blocker")
	blocker.Blocks = []string{"one", "two"}
	one := openTask("one")
	two := openTask("two")
	g := graph.New([]*task.Task{blocker, one, two})

	if got := Score(blocker, g, today); got != 80 {
		t.Errorf("blocker of two open tasks: got %d, want 80", got)
	}
	if got := Score(one, g, today); got != -50 {
		t.Errorf("blocked task: got %d, want -50", got)
	}
}

func TestScoreBlockedByArchivedBlocker(t *testing.T) {
	blocker := openTask("blocker")
	blocker.Status = task.StatusCompleted
	blocker.Blocks = []string{"one"}
	one := openTask("one")
	g := graph.New([]*task.Task{blocker, one})

	if got := Score(one, g, today); got != 0 {
		t.Errorf("released task still penalized: got %d", got)
	}
}

func TestRankOrderAndTies(t *testing.T) {
	hot := withPriority(withDeadline(openTask("hot"), today.AddDays(-1)), "urgent")
	warm := withDeadline(openTask("warm"), today)
	coldEarly := openTask("cold-early")
	coldLate := openTask("cold-late")
	coldLate.Created = coldEarly.Created.Add(time.Hour)

	open := []*task.Task{coldLate, warm, coldEarly, hot}
	g := graph.New(open)

	ranked := Rank(open, g, today)
	wantOrder := []string{"hot", "warm", "cold-early", "cold-late"}
	for i, want := range wantOrder {
		if ranked[i].Task.ID != want {
			t.Fatalf("rank %d: got %s, want %s", i, ranked[i].Task.ID, want)
		}
	}
	if ranked[0].Score != 300 {
		t.Errorf("top score: got %d, want 300", ranked[0].Score)
	}
}

func TestRankDeadlineTieBreak(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	soon := withDeadline(openTask("soon"), today.AddDays(2))
	later := withDeadline(openTask("later"), today.AddDays(9))
	never := openTask("never")
	for _, x := range []*task.Task{soon, later, never} {
		x.Created = created
	}

	open := []*task.Task{never, later, soon}
	g := graph.New(open)
	ranked := Rank(open, g, today)

	wantOrder := []string{"soon", "later", "never"}
	for i, want := range wantOrder {
		if ranked[i].Task.ID != want {
			t.Fatalf("rank %d: got %s, want %s", i, ranked[i].Task.ID, want)
		}
	}
}

func TestRankStable(t *testing.T) {
	open := []*task.Task{
		withDeadline(openTask("b"), today.AddDays(-2)),
		withPriority(openTask("a"), "high"),
		openTask("c"),
	}
	g := graph.New(open)

	first := Rank(open, g, today)
	second := Rank(open, g, today)
	for i := range first {
		if first[i].Task.ID != second[i].Task.ID || first[i].Score != second[i].Score {
			t.Fatal("repeated ranking of an unchanged set differs")
		}
	}
}
