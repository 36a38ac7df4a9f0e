package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/recur"
	"github.com/tasksense/tasksense/internal/task"
)

// Patterns is the built-in phrase-pattern extractor. It is deliberately
// shallow — dates, priority keywords, a "for <project>" capture, and
// recurrence phrases — and exists so the tool degrades gracefully when
// no external extractor is configured or the configured one fails.
type Patterns struct {
	// Today anchors relative phrases like "tomorrow"; zero means wall clock.
	Today date.Date
}

var (
	isoDateRe  = regexp.MustCompile(`\b(?:due|by|on|before)\s+(\d{4}-\d{2}-\d{2})\b`)
	relDateRe  = regexp.MustCompile(`(?i)\b(?:due|by)\s+(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	priorityRe = regexp.MustCompile(`(?i)\b(urgent|asap|high priority|low priority)\b`)
	projectRe  = regexp.MustCompile(`(?i)\bfor\s+(?:the\s+)?([a-z][a-z0-9_-]{2,})\b`)
	typeRe     = regexp.MustCompile(`(?i)\b(call|email|review|write|buy|fix|meet(?:ing)?|submit|pay)\b`)
)

// Extract implements Extractor. It never fails.
func (p Patterns) Extract(_ context.Context, raw string) (Result, error) {
	today := p.Today
	if today.IsZero() {
		today = date.Today()
	}

	fields := make(map[string]task.Value)

	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		if d, err := date.Parse(m[1]); err == nil {
			fields["deadline"] = task.DateVal(d)
		}
	} else if m := relDateRe.FindStringSubmatch(raw); m != nil {
		if d, ok := relativeDate(today, strings.ToLower(m[1])); ok {
			fields["deadline"] = task.DateVal(d)
		}
	}

	if m := priorityRe.FindStringSubmatch(raw); m != nil {
		switch strings.ToLower(m[1]) {
		case "urgent", "asap":
			fields["priority"] = task.Enum("urgent")
		case "high priority":
			fields["priority"] = task.Enum("high")
		case "low priority":
			fields["priority"] = task.Enum("low")
		}
	}

	if m := projectRe.FindStringSubmatch(raw); m != nil {
		fields["project"] = task.String(strings.ToLower(m[1]))
	}

	if m := typeRe.FindStringSubmatch(raw); m != nil {
		fields["type"] = task.Enum(strings.ToLower(m[1]))
	}

	return Result{Fields: fields, Recurrence: recur.Detect(raw)}, nil
}

func relativeDate(today date.Date, word string) (date.Date, bool) {
	switch word {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDays(1), true
	}
	if wd, ok := date.ParseWeekday(word); ok {
		return today.NextWeekday(wd), true
	}
	return date.Date{}, false
}
