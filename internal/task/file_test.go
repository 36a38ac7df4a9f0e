package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tasksense/tasksense/internal/date"
)

func sampleTask() *Task {
	deadline := date.New(2026, time.April, 1)
	return &Task{
		ID:       "11111111-2222-3333-4444-555555555555",
		Status:   StatusOpen,
		Created:  time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Raw:      "call Alice about the budget",
		Deadline: &deadline,
		Fields: map[string]Value{
			"person":   String("Alice"),
			"priority": Enum("high"),
			"due":      DateVal(deadline),
		},
		Recurrence: &Recurrence{Freq: FreqWeekly, Anchor: "friday"},
		Blocks:     []string{"66666666-7777-8888-9999-000000000000"},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	orig := sampleTask()
	path := Path(dir, orig.ID)

	if err := Write(path, orig); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.ID != orig.ID || got.Status != orig.Status {
		t.Errorf("identity: got %s/%s", got.ID, got.Status)
	}
	if !got.Created.Equal(orig.Created) {
		t.Errorf("Created: got %v, want %v", got.Created, orig.Created)
	}
	if got.Raw != orig.Raw {
		t.Errorf("Raw: got %q, want %q", got.Raw, orig.Raw)
	}
	if got.Deadline == nil || !got.Deadline.Equal(*orig.Deadline) {
		t.Errorf("Deadline: got %v", got.Deadline)
	}
	if got.Recurrence == nil || got.Recurrence.Freq != FreqWeekly || got.Recurrence.Anchor != "friday" {
		t.Errorf("Recurrence: got %+v", got.Recurrence)
	}
	if len(got.Blocks) != 1 || got.Blocks[0] != orig.Blocks[0] {
		t.Errorf("Blocks: got %v", got.Blocks)
	}
	if len(got.Fields) != 3 {
		t.Fatalf("Fields: got %d, want 3", len(got.Fields))
	}
	if v := got.Fields["person"]; v.Kind != KindString || v.Str != "Alice" {
		t.Errorf("person: got %+v", v)
	}
	if v := got.Fields["priority"]; v.Kind != KindEnum || v.Str != "high" {
		t.Errorf("priority: got %+v", v)
	}
	if v := got.Fields["due"]; v.Kind != KindDate || v.Date.String() != "2026-04-01" {
		t.Errorf("due: got %+v", v)
	}
	if got.File != path {
		t.Errorf("File: got %q, want %q", got.File, path)
	}
}

func TestRawStableAcrossWriteReadCycles(t *testing.T) {
	dir := t.TempDir()
	orig := sampleTask()
	path := Path(dir, orig.ID)

	// Each cycle writes the task exactly as read back; the raw text
	// must not accumulate trailing newlines along the way.
	current := orig
	for i := 0; i < 3; i++ {
		if err := Write(path, current); err != nil {
			t.Fatalf("cycle %d: Write failed: %v", i, err)
		}
		got, err := Read(path)
		if err != nil {
			t.Fatalf("cycle %d: Read failed: %v", i, err)
		}
		if got.Raw != orig.Raw {
			t.Fatalf("cycle %d: Raw: got %q, want %q", i, got.Raw, orig.Raw)
		}
		current = got
	}
}

func TestRoundTripMinimalTask(t *testing.T) {
	dir := t.TempDir()
	orig := &Task{
		ID:      "11111111-2222-3333-4444-555555555555",
		Status:  StatusOpen,
		Created: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Raw:     "water the plants",
	}
	path := Path(dir, orig.ID)
	if err := Write(path, orig); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Fields) != 0 {
		t.Errorf("empty field map grew entries: %v", got.Fields)
	}
	if got.Blocks != nil {
		t.Errorf("empty blocks grew entries: %v", got.Blocks)
	}
	if got.Deadline != nil || got.Recurrence != nil || got.Completion != nil {
		t.Error("optional members materialized on round trip")
	}
}

func TestRoundTripCompletedTask(t *testing.T) {
	dir := t.TempDir()
	orig := sampleTask()
	orig.Status = StatusCompleted
	orig.Completion = &Completion{
		CompletedAt: time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC),
		Duration:    "45m",
		Note:        "went fine",
	}
	path := Path(dir, orig.ID)
	if err := Write(path, orig); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Completion == nil {
		t.Fatal("completion record lost")
	}
	if got.Completion.Duration != "45m" || got.Completion.Note != "went fine" {
		t.Errorf("Completion: got %+v", got.Completion)
	}
	if got.Completion.Skip {
		t.Error("Skip should be false")
	}
	if !got.Completion.CompletedAt.Equal(orig.Completion.CompletedAt) {
		t.Errorf("CompletedAt: got %v", got.Completion.CompletedAt)
	}
}

func TestReadRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.md")
	content := "---\nstatus: open\n---\n\nno id here\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("record without an id parsed successfully")
	}
}

func TestReadRejectsMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.md")
	if err := os.WriteFile(path, []byte("just text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("file without frontmatter parsed successfully")
	}
}

func TestReadAllLenient(t *testing.T) {
	dir := t.TempDir()

	early := sampleTask()
	early.Created = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	late := sampleTask()
	late.ID = "99999999-0000-0000-0000-000000000000"
	late.Created = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, x := range []*Task{late, early} {
		if err := Write(Path(dir, x.ID), x); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "corrupt.md"), []byte("not a task"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, warnings, err := ReadAllLenient(dir)
	if err != nil {
		t.Fatalf("ReadAllLenient failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(tasks))
	}
	if tasks[0].ID != early.ID || tasks[1].ID != late.ID {
		t.Errorf("order: got %s, %s", tasks[0].ID, tasks[1].ID)
	}
	if len(warnings) != 1 || warnings[0].File != "corrupt.md" {
		t.Errorf("warnings: got %v", warnings)
	}
}

func TestReadAllMissingDir(t *testing.T) {
	tasks, err := ReadAll(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if tasks != nil {
		t.Errorf("got %v, want nil", tasks)
	}
}
