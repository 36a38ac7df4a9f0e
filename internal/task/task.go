// Package task defines the task record and its on-disk form.
package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/tasksense/tasksense/internal/date"
)

// Status values for a task.
const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

// Frequency classes for recurring tasks.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// Recurrence describes how a task repeats. It is set at creation and
// never mutated; the next occurrence is always a brand-new task.
type Recurrence struct {
	// Freq is one of the Freq* constants.
	Freq string `yaml:"freq" json:"freq"`
	// Anchor is a weekday name (weekly) or day-of-month (monthly).
	// Empty means "relative to the prior deadline".
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
}

// Completion records how a task was finished.
type Completion struct {
	CompletedAt time.Time `yaml:"completed_at" json:"completed_at"`
	// Duration is a Go duration string ("45m", "2h"). Empty when skipped.
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`
	// Skip marks completions without a recorded duration; such tasks
	// count toward completion totals but not toward duration averages.
	Skip bool   `yaml:"skip,omitempty" json:"skip,omitempty"`
	Note string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Task is one work item. The raw description and creation time are
// immutable after ingestion; discovered fields form an open mapping
// that grows with the system's vocabulary rather than a fixed schema.
type Task struct {
	ID         string           `yaml:"id" json:"id"`
	Status     string           `yaml:"status" json:"status"`
	Created    time.Time        `yaml:"created" json:"created"`
	Fields     map[string]Value `yaml:"fields,omitempty" json:"fields,omitempty"`
	Deadline   *date.Date       `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Recurrence *Recurrence      `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	Completion *Completion      `yaml:"completion,omitempty" json:"completion,omitempty"`
	// Blocks holds IDs of tasks this one blocks (outgoing edges).
	Blocks []string `yaml:"blocks,omitempty" json:"blocks,omitempty"`

	// Raw is the original description text, stored as the file body (not in YAML).
	Raw string `yaml:"-" json:"raw,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// New creates an open task with a fresh identifier.
func New(raw string, now time.Time) *Task {
	return &Task{
		ID:      uuid.NewString(),
		Status:  StatusOpen,
		Created: now,
		Raw:     raw,
	}
}

// IsOpen reports whether the task is still open.
func (t *Task) IsOpen() bool {
	return t.Status == StatusOpen
}

// Field returns the string form of a discovered field, or "" if absent.
func (t *Task) Field(name string) string {
	v, ok := t.Fields[name]
	if !ok {
		return ""
	}
	return v.String()
}

// AddBlocks appends an outgoing edge, ignoring duplicates.
func (t *Task) AddBlocks(id string) bool {
	for _, b := range t.Blocks {
		if b == id {
			return false
		}
	}
	t.Blocks = append(t.Blocks, id)
	return true
}

// Clone returns a deep copy. The store hands out clones so no caller
// holds a mutable reference into its own state.
func (t *Task) Clone() *Task {
	c := *t
	if t.Fields != nil {
		c.Fields = make(map[string]Value, len(t.Fields))
		for k, v := range t.Fields {
			c.Fields[k] = v
		}
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	if t.Completion != nil {
		cp := *t.Completion
		c.Completion = &cp
	}
	if t.Blocks != nil {
		c.Blocks = append([]string(nil), t.Blocks...)
	}
	return &c
}
