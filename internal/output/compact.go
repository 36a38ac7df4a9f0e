package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, g *graph.Graph) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, g))
	}
}

func formatTaskLine(t *task.Task, g *graph.Graph) string {
	parts := []string{ShortID(t.ID), t.Status}
	if t.Deadline != nil {
		parts = append(parts, "due:"+t.Deadline.String())
	}
	if p := t.Field("priority"); p != "" {
		parts = append(parts, "prio:"+p)
	}
	if t.Recurrence != nil {
		parts = append(parts, "rec:"+t.Recurrence.Freq)
	}
	if g != nil && g.IsBlocked(t.ID) && t.IsOpen() {
		parts = append(parts, "blocked")
	}
	parts = append(parts, strings.Join(strings.Fields(t.Raw), " "))
	return strings.Join(parts, " ")
}
