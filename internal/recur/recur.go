// Package recur computes the next occurrence of recurring tasks and
// detects recurrence language in raw task text.
package recur

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/task"
)

// Next computes the next deadline for a recurrence, strictly after from.
//   - daily: one day later.
//   - weekly with a weekday anchor: next date on that weekday.
//   - weekly without anchor: seven days later.
//   - monthly with a day-of-month anchor: that day next month, clamped
//     to the month's last day.
//   - monthly without anchor: same day next month, clamped.
//   - yearly: same month/day next year, clamped.
//
// An unparseable anchor yields an error; the caller surfaces it as a
// warning rather than fabricating a date.
func Next(r task.Recurrence, from date.Date) (date.Date, error) {
	switch r.Freq {
	case task.FreqDaily:
		return from.AddDays(1), nil
	case task.FreqWeekly:
		if r.Anchor == "" {
			return from.AddDays(7), nil
		}
		wd, ok := date.ParseWeekday(r.Anchor)
		if !ok {
			return date.Date{}, fmt.Errorf("unparseable weekly anchor %q", r.Anchor)
		}
		return from.NextWeekday(wd), nil
	case task.FreqMonthly:
		if r.Anchor == "" {
			return from.AddMonthClamped(0), nil
		}
		day, err := strconv.Atoi(r.Anchor)
		if err != nil || day < 1 || day > 31 {
			return date.Date{}, fmt.Errorf("unparseable monthly anchor %q", r.Anchor)
		}
		return from.AddMonthClamped(day), nil
	case task.FreqYearly:
		return from.AddYearClamped(), nil
	default:
		return date.Date{}, fmt.Errorf("unknown frequency %q", r.Freq)
	}
}

// NextOccurrence derives the successor of a completed recurring task.
// It is a pure function: the input task is not modified, and the result
// is a brand-new open task with the same description and fields, the
// deadline advanced, and no completion record or blocking edges.
// The base date is the prior deadline, falling back to the completion
// date when no deadline was set.
func NextOccurrence(t *task.Task, completedAt time.Time) (*task.Task, error) {
	if t.Recurrence == nil {
		return nil, fmt.Errorf("task %s has no recurrence", t.ID)
	}

	from := date.FromTime(completedAt)
	if t.Deadline != nil {
		from = *t.Deadline
	}
	next, err := Next(*t.Recurrence, from)
	if err != nil {
		return nil, err
	}

	n := t.Clone()
	n.ID = uuid.NewString()
	n.Status = task.StatusOpen
	n.Created = completedAt
	n.Deadline = &next
	n.Completion = nil
	n.Blocks = nil
	n.File = ""
	return n, nil
}

// Phrase patterns for recurrence language. Kept deliberately small:
// the extractor may supply richer hints, these catch the common forms.
var (
	dailyRe   = regexp.MustCompile(`(?i)\b(every\s+day|daily|each\s+day)\b`)
	weekdayRe = regexp.MustCompile(`(?i)\bevery\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	weeklyRe  = regexp.MustCompile(`(?i)\b(every\s+week|weekly)\b`)
	domRe     = regexp.MustCompile(`(?i)\b(?:every\s+month|monthly)\s+on\s+the\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	monthlyRe = regexp.MustCompile(`(?i)\b(every\s+month|monthly)\b`)
	yearlyRe  = regexp.MustCompile(`(?i)\b(every\s+year|yearly|annually)\b`)
)

// Detect runs a lightweight phrase-pattern check over raw task text and
// returns a recurrence descriptor, or nil when no pattern matches.
func Detect(raw string) *task.Recurrence {
	switch {
	case dailyRe.MatchString(raw):
		return &task.Recurrence{Freq: task.FreqDaily}
	case weekdayRe.MatchString(raw):
		m := weekdayRe.FindStringSubmatch(raw)
		return &task.Recurrence{Freq: task.FreqWeekly, Anchor: strings.ToLower(m[1])}
	case weeklyRe.MatchString(raw):
		return &task.Recurrence{Freq: task.FreqWeekly}
	case domRe.MatchString(raw):
		m := domRe.FindStringSubmatch(raw)
		return &task.Recurrence{Freq: task.FreqMonthly, Anchor: m[1]}
	case monthlyRe.MatchString(raw):
		return &task.Recurrence{Freq: task.FreqMonthly}
	case yearlyRe.MatchString(raw):
		return &task.Recurrence{Freq: task.FreqYearly}
	default:
		return nil
	}
}
