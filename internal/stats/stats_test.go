package stats

import (
	"testing"
	"time"

	"github.com/tasksense/tasksense/internal/task"
)

var now = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

func completed(fields map[string]task.Value, duration string, skip bool, at time.Time) *task.Task {
	return &task.Task{
		ID:     "id-" + at.Format("150405.000"),
		Status: task.StatusCompleted,
		Fields: fields,
		Completion: &task.Completion{
			CompletedAt: at,
			Duration:    duration,
			Skip:        skip,
		},
	}
}

func TestComputeEmpty(t *testing.T) {
	r := Compute(nil, nil, now, 0)
	if r.TotalCreated != 0 || r.TotalCompleted != 0 {
		t.Errorf("totals: got %d/%d, want 0/0", r.TotalCreated, r.TotalCompleted)
	}
	if r.CompletionRate != 0 {
		t.Errorf("rate on empty set: got %f, want 0", r.CompletionRate)
	}
	if len(r.Daily) != DefaultWindowDays {
		t.Errorf("daily window: got %d days, want %d", len(r.Daily), DefaultWindowDays)
	}
	for _, d := range r.Daily {
		if d.Count != 0 {
			t.Errorf("day %s: got %d, want 0", d.Day, d.Count)
		}
	}
}

func TestCompletionRate(t *testing.T) {
	open := []*task.Task{{ID: "o1", Status: task.StatusOpen}}
	archived := []*task.Task{
		completed(nil, "30m", false, now.Add(-time.Hour)),
		completed(nil, "", true, now.Add(-2*time.Hour)),
		completed(nil, "1h", false, now.Add(-3*time.Hour)),
	}
	r := Compute(open, archived, now, 0)
	if r.TotalCreated != 4 || r.TotalCompleted != 3 {
		t.Fatalf("totals: got %d/%d, want 4/3", r.TotalCreated, r.TotalCompleted)
	}
	if r.CompletionRate != 75 {
		t.Errorf("rate: got %f, want 75", r.CompletionRate)
	}
}

func TestSkipExcludedFromAverages(t *testing.T) {
	fields := map[string]task.Value{"type": task.Enum("call")}
	archived := []*task.Task{
		completed(fields, "20m", false, now),
		completed(fields, "40m", false, now),
		completed(fields, "", true, now), // skipped, excluded
	}
	r := Compute(nil, archived, now, 0)

	if len(r.PerType) != 1 {
		t.Fatalf("PerType: got %d entries, want 1", len(r.PerType))
	}
	got := r.PerType[0]
	if got.Type != "call" || got.Count != 2 {
		t.Errorf("PerType: got %+v", got)
	}
	if got.Average != 30*time.Minute {
		t.Errorf("average: got %v, want 30m", got.Average)
	}
}

func TestPerProjectCounts(t *testing.T) {
	archived := []*task.Task{
		completed(map[string]task.Value{"project": task.String("website")}, "", true, now),
		completed(map[string]task.Value{"project": task.String("website")}, "", true, now),
		completed(map[string]task.Value{"project": task.String("taxes")}, "", true, now),
		completed(nil, "", true, now), // no project, uncounted
	}
	r := Compute(nil, archived, now, 0)

	if len(r.PerProject) != 2 {
		t.Fatalf("PerProject: got %d entries, want 2", len(r.PerProject))
	}
	if r.PerProject[0].Project != "website" || r.PerProject[0].Count != 2 {
		t.Errorf("largest project first: got %+v", r.PerProject[0])
	}
}

func TestDailyWindow(t *testing.T) {
	archived := []*task.Task{
		completed(nil, "", true, now),                       // today
		completed(nil, "", true, now.AddDate(0, 0, -1)),     // yesterday
		completed(nil, "", true, now.AddDate(0, 0, -1)),     // yesterday
		completed(nil, "", true, now.AddDate(0, 0, -30)),    // outside window
	}
	r := Compute(nil, archived, now, 7)

	if len(r.Daily) != 7 {
		t.Fatalf("daily: got %d days, want 7", len(r.Daily))
	}
	last := r.Daily[len(r.Daily)-1]
	if last.Day != "2026-03-18" || last.Count != 1 {
		t.Errorf("today: got %+v", last)
	}
	yesterday := r.Daily[len(r.Daily)-2]
	if yesterday.Day != "2026-03-17" || yesterday.Count != 2 {
		t.Errorf("yesterday: got %+v", yesterday)
	}
	total := 0
	for _, d := range r.Daily {
		total += d.Count
	}
	if total != 3 {
		t.Errorf("window total: got %d, want 3 (old completion excluded)", total)
	}
}

func TestMalformedDurationIgnored(t *testing.T) {
	archived := []*task.Task{
		completed(map[string]task.Value{"type": task.Enum("fix")}, "not-a-duration", false, now),
	}
	r := Compute(nil, archived, now, 0)
	if len(r.PerType) != 0 {
		t.Errorf("unparseable duration entered averages: %+v", r.PerType)
	}
	if r.TotalCompleted != 1 {
		t.Errorf("completion itself must still count: got %d", r.TotalCompleted)
	}
}
