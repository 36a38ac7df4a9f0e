package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/focus"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/index"
	"github.com/tasksense/tasksense/internal/stats"
	"github.com/tasksense/tasksense/internal/store"
	"github.com/tasksense/tasksense/internal/task"
	"github.com/tasksense/tasksense/internal/view"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("172"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	recurStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	priorityStyles = map[string]lipgloss.Style{
		"urgent": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	todayStyle = lipgloss.NewStyle()
	blockedStyle = lipgloss.NewStyle()
	scoreStyle = lipgloss.NewStyle()
	recurStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
}

// IDWidth is the displayed prefix length of task identifiers. Eight hex
// characters keep collisions implausible at personal-tool scale while
// staying typeable.
const IDWidth = 8

// ShortID returns the display prefix of an identifier.
func ShortID(id string) string {
	if len(id) > IDWidth {
		return id[:IDWidth]
	}
	return id
}

// rawWidth returns the column budget for raw text given the terminal.
func rawWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		w = 100
	}
	budget := w - 40
	if budget < 24 {
		budget = 24
	}
	return budget
}

// TaskTable renders a list of tasks as a formatted table. The graph
// marks blocked tasks; today colors deadlines.
func TaskTable(w io.Writer, tasks []*task.Task, g *graph.Graph, today date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	maxRaw := rawWidth()
	header := fmt.Sprintf("%-*s %-10s %-12s %-8s %s", IDWidth, "ID", "DEADLINE", "FIELDS", "FLAGS", "TASK")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		fmt.Fprintln(w, taskRow(t, g, today, maxRaw))
	}
}

func taskRow(t *task.Task, g *graph.Graph, today date.Date, maxRaw int) string {
	deadline := dimStyle.Render("--")
	if t.Deadline != nil {
		s := t.Deadline.String()
		switch {
		case t.IsOpen() && t.Deadline.Before(today.Time):
			deadline = overdueStyle.Render(s)
		case t.IsOpen() && t.Deadline.Equal(today):
			deadline = todayStyle.Render(s)
		default:
			deadline = s
		}
	}

	var flags []string
	if g != nil && g.IsBlocked(t.ID) && t.IsOpen() {
		flags = append(flags, blockedStyle.Render("blk"))
	}
	if t.Recurrence != nil {
		flags = append(flags, recurStyle.Render("rec"))
	}
	flagStr := strings.Join(flags, ",")
	if flagStr == "" {
		flagStr = dimStyle.Render("--")
	}

	return fmt.Sprintf("%-*s %s %s %s %s",
		IDWidth, ShortID(t.ID),
		padRight(deadline, 10),
		padRight(fieldsSummary(t, 12), 12),
		padRight(flagStr, 8),
		truncate(t.Raw, maxRaw))
}

// fieldsSummary renders the priority if set, else the field count.
func fieldsSummary(t *task.Task, width int) string {
	if p := t.Field("priority"); p != "" {
		if style, ok := priorityStyles[p]; ok {
			return style.Render(truncate(p, width))
		}
		return truncate(p, width)
	}
	if n := len(t.Fields); n > 0 {
		return dimStyle.Render(strconv.Itoa(n) + " fields")
	}
	return dimStyle.Render("--")
}

// FocusTable renders the ranked focus view with a score column.
func FocusTable(w io.Writer, ranked []focus.Ranked, g *graph.Graph, today date.Date) {
	if len(ranked) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to focus on.")
		return
	}

	maxRaw := rawWidth()
	header := fmt.Sprintf("%-6s %-*s %-10s %-8s %s", "SCORE", IDWidth, "ID", "DEADLINE", "FLAGS", "TASK")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, r := range ranked {
		row := taskRow(r.Task, g, today, maxRaw)
		fmt.Fprintf(w, "%s %s\n", padRight(scoreStyle.Render(strconv.Itoa(r.Score)), 6), row)
	}
}

// TaskDetail renders a single task with full detail. The rendered body
// is supplied by the caller (glamour in the CLI adapter).
func TaskDetail(w io.Writer, t *task.Task, g *graph.Graph, renderedRaw string) {
	titleLine := "Task " + ShortID(t.ID)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	fmt.Fprintf(w, "ID:       %s\n", t.ID)
	fmt.Fprintf(w, "Status:   %s\n", t.Status)
	fmt.Fprintf(w, "Created:  %s\n", t.Created.Format("2006-01-02 15:04"))
	if t.Deadline != nil {
		fmt.Fprintf(w, "Deadline: %s\n", t.Deadline.String())
	}
	if t.Recurrence != nil {
		fmt.Fprintf(w, "Repeats:  %s", t.Recurrence.Freq)
		if t.Recurrence.Anchor != "" {
			fmt.Fprintf(w, " (%s)", t.Recurrence.Anchor)
		}
		fmt.Fprintln(w)
	}
	if g != nil && g.IsBlocked(t.ID) {
		var ids []string
		for _, b := range g.Blockers(t.ID) {
			ids = append(ids, ShortID(b.ID))
		}
		fmt.Fprintf(w, "Blocked:  by %s\n", strings.Join(ids, ", "))
	}
	if len(t.Blocks) > 0 {
		short := make([]string, len(t.Blocks))
		for i, id := range t.Blocks {
			short[i] = ShortID(id)
		}
		fmt.Fprintf(w, "Blocks:   %s\n", strings.Join(short, ", "))
	}
	if t.Completion != nil {
		fmt.Fprintf(w, "Done:     %s", t.Completion.CompletedAt.Format("2006-01-02 15:04"))
		if t.Completion.Duration != "" {
			fmt.Fprintf(w, " (%s)", t.Completion.Duration)
		}
		if t.Completion.Skip {
			fmt.Fprint(w, " (duration skipped)")
		}
		fmt.Fprintln(w)
		if t.Completion.Note != "" {
			fmt.Fprintf(w, "Note:     %s\n", t.Completion.Note)
		}
	}

	if len(t.Fields) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Fields"))
		for _, name := range sortedFieldNames(t) {
			fmt.Fprintf(w, "  %-14s %s\n", name, t.Fields[name].String())
		}
	}

	if renderedRaw != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderedRaw)
	}
}

func sortedFieldNames(t *task.Task) []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupedTable renders grouped task lists.
func GroupedTable(w io.Writer, groups []view.Group, g *graph.Graph, today date.Date) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	maxRaw := rawWidth()
	for i, grp := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", headerStyle.Render(grp.Key), len(grp.Tasks))
		for _, t := range grp.Tasks {
			fmt.Fprintf(w, "  %s\n", taskRow(t, g, today, maxRaw))
		}
	}
}

// ChainNode is one task in a downstream dependency walk.
type ChainNode struct {
	ID     string `json:"id"`
	Depth  int    `json:"depth"`
	Status string `json:"status"`
	Raw    string `json:"raw"`
}

// ChainView renders a downstream dependency walk as an indented tree.
// Completed links are dimmed: they no longer block but still explain
// how the chain was shaped.
func ChainView(w io.Writer, nodes []ChainNode) {
	for _, n := range nodes {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", n.Depth), ShortID(n.ID), truncate(n.Raw, 60))
		if n.Status == task.StatusCompleted {
			line = dimStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// EdgeTable renders dependency graph edges.
func EdgeTable(w io.Writer, edges []graph.Edge, lookup func(string) *task.Task) {
	if len(edges) == 0 {
		fmt.Fprintln(os.Stderr, "No blocking edges.")
		return
	}
	for _, e := range edges {
		blocker, blocked := lookup(e.Blocker), lookup(e.Blocked)
		fmt.Fprintf(w, "%s %s %s %s\n",
			ShortID(e.Blocker), dimStyle.Render(truncate(rawOf(blocker), 30)+" →"),
			ShortID(e.Blocked), dimStyle.Render(truncate(rawOf(blocked), 30)))
	}
}

func rawOf(t *task.Task) string {
	if t == nil {
		return "(unknown)"
	}
	return t.Raw
}

// StatsView renders a statistics report.
func StatsView(w io.Writer, r stats.Report) {
	fmt.Fprintln(w, headerStyle.Render("Totals"))
	fmt.Fprintf(w, "  created:    %d\n", r.TotalCreated)
	fmt.Fprintf(w, "  completed:  %d\n", r.TotalCompleted)
	fmt.Fprintf(w, "  rate:       %.0f%%\n", r.CompletionRate)

	if len(r.PerProject) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Completed by project"))
		for _, p := range r.PerProject {
			fmt.Fprintf(w, "  %-16s %d\n", p.Project, p.Count)
		}
	}
	if len(r.PerType) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Average duration by type"))
		for _, td := range r.PerType {
			fmt.Fprintf(w, "  %-16s %s (%d)\n", td.Type, td.Average, td.Count)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Daily completions"))
	for _, dc := range r.Daily {
		bar := strings.Repeat("▇", dc.Count)
		if bar == "" {
			bar = dimStyle.Render("·")
		}
		fmt.Fprintf(w, "  %s %2d %s\n", dc.Day, dc.Count, bar)
	}
}

// FieldTable renders the semantic index's discovered-field table.
func FieldTable(w io.Writer, ix *index.Index) {
	names := ix.FieldNames()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "No fields discovered yet.")
		return
	}
	header := fmt.Sprintf("%-18s %-8s %-6s %s", "FIELD", "TYPE", "SEEN", "SAMPLES")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, name := range names {
		e := ix.Fields[name]
		fmt.Fprintf(w, "%-18s %-8s %-6d %s\n", name, e.Type, e.Count,
			dimStyle.Render(truncate(strings.Join(e.Samples, ", "), 48)))
	}
}

// AliasTable renders the alias table.
func AliasTable(w io.Writer, ix *index.Index) {
	if len(ix.Aliases) == 0 {
		fmt.Fprintln(os.Stderr, "No aliases recorded.")
		return
	}
	canonicals := make([]string, 0, len(ix.Aliases))
	for c := range ix.Aliases {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)
	for _, c := range canonicals {
		fmt.Fprintf(w, "%s %s %s\n", c, dimStyle.Render("←"), strings.Join(ix.Variants(c), ", "))
	}
}

// TemplateTable renders established templates.
func TemplateTable(w io.Writer, ix *index.Index) {
	ids := ix.EstablishedTemplates()
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "No templates established yet.")
		return
	}
	header := fmt.Sprintf("%-24s %-6s %s", "TEMPLATE", "SEEN", "PATTERN")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, id := range ids {
		tpl := ix.Templates[id]
		fmt.Fprintf(w, "%-24s %-6d %s\n", id, tpl.Count, truncate(tpl.Pattern, 60))
	}
}

// HistoryTable renders history records.
func HistoryTable(w io.Writer, records []store.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No history yet.")
		return
	}
	header := fmt.Sprintf("%-*s %-16s %-12s %-*s %s", IDWidth, "ID", "WHEN", "ACTION", IDWidth, "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, rec := range records {
		taskCol := dimStyle.Render("--")
		if rec.TaskID != "" {
			taskCol = ShortID(rec.TaskID)
		}
		fmt.Fprintf(w, "%-*s %-16s %-12s %s %s\n",
			IDWidth, ShortID(rec.ID),
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.Action,
			padRight(taskCol, IDWidth),
			truncate(rec.Detail, 48))
	}
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a possibly styled string to the target display width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
