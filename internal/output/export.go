package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tasksense/tasksense/internal/task"
)

const icsDateLayout = "20060102"

// Markdown writes tasks as a markdown checklist grouped by status.
func Markdown(w io.Writer, open, archived []*task.Task) error {
	fmt.Fprintln(w, "# Tasks")
	fmt.Fprintln(w)

	if len(open) > 0 {
		fmt.Fprintln(w, "## Open")
		fmt.Fprintln(w)
		for _, t := range open {
			writeMarkdownItem(w, t, false)
		}
		fmt.Fprintln(w)
	}
	if len(archived) > 0 {
		fmt.Fprintln(w, "## Completed")
		fmt.Fprintln(w)
		for _, t := range archived {
			writeMarkdownItem(w, t, true)
		}
	}
	return nil
}

func writeMarkdownItem(w io.Writer, t *task.Task, done bool) {
	mark := " "
	if done {
		mark = "x"
	}
	line := fmt.Sprintf("- [%s] %s", mark, strings.Join(strings.Fields(t.Raw), " "))
	var notes []string
	if t.Deadline != nil {
		notes = append(notes, "due "+t.Deadline.String())
	}
	for _, name := range sortedFieldNames(t) {
		notes = append(notes, name+": "+t.Fields[name].String())
	}
	if len(notes) > 0 {
		line += " *(" + strings.Join(notes, ", ") + ")*"
	}
	fmt.Fprintln(w, line)
}

// ICal writes open tasks with deadlines as an iCalendar feed of all-day
// events. Recurring tasks carry an RRULE matching their descriptor.
func ICal(w io.Writer, open []*task.Task, now time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//tasksense//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	for _, t := range open {
		if t.Deadline == nil {
			continue
		}
		start := t.Deadline.Time
		end := start.AddDate(0, 0, 1)
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:task-"+escapeICSText(t.ID)+"@tasksense",
			"DTSTAMP:"+now.UTC().Format("20060102T150405Z"),
			"SUMMARY:"+escapeICSText(strings.Join(strings.Fields(t.Raw), " ")),
			"DTSTART;VALUE=DATE:"+start.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.Format(icsDateLayout),
		)
		if rrule := recurrenceRRULE(t.Recurrence); rrule != "" {
			lines = append(lines, "RRULE:"+rrule)
		}
		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR", "")
	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return err
}

func recurrenceRRULE(r *task.Recurrence) string {
	if r == nil {
		return ""
	}
	switch r.Freq {
	case task.FreqDaily:
		return "FREQ=DAILY"
	case task.FreqWeekly:
		rule := "FREQ=WEEKLY"
		if day := icsWeekday(r.Anchor); day != "" {
			rule += ";BYDAY=" + day
		}
		return rule
	case task.FreqMonthly:
		rule := "FREQ=MONTHLY"
		if r.Anchor != "" {
			rule += ";BYMONTHDAY=" + r.Anchor
		}
		return rule
	case task.FreqYearly:
		return "FREQ=YEARLY"
	default:
		return ""
	}
}

func icsWeekday(anchor string) string {
	switch strings.ToLower(anchor) {
	case "monday":
		return "MO"
	case "tuesday":
		return "TU"
	case "wednesday":
		return "WE"
	case "thursday":
		return "TH"
	case "friday":
		return "FR"
	case "saturday":
		return "SA"
	case "sunday":
		return "SU"
	default:
		return ""
	}
}

// escapeICSText escapes commas, semicolons, backslashes, and newlines
// per RFC 5545.
func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
