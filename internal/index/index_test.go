package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tasksense/tasksense/internal/task"
)

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Project", "project"},
		{"  due date  ", "due_date"},
		{"PRIORITY", "priority"},
		{"a  b   c", "a_b_c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObserve(t *testing.T) {
	ix := New()
	ix.Observe(map[string]task.Value{
		"project":  task.String("website"),
		"priority": task.Enum("high"),
	})
	ix.Observe(map[string]task.Value{
		"project": task.String("taxes"),
	})

	e, ok := ix.Fields["project"]
	if !ok {
		t.Fatal("project field not recorded")
	}
	if e.Count != 2 {
		t.Errorf("Count: got %d, want 2", e.Count)
	}
	if e.Type != task.KindString {
		t.Errorf("Type: got %s, want string", e.Type)
	}
	if len(e.Samples) != 2 {
		t.Errorf("Samples: got %v", e.Samples)
	}
	if ix.Fields["priority"].Type != task.KindEnum {
		t.Errorf("priority type: got %s, want enum", ix.Fields["priority"].Type)
	}
}

func TestObserveSampleBound(t *testing.T) {
	ix := New()
	ix.SampleLimit = 3
	values := []string{"a", "b", "c", "d", "e"}
	for _, v := range values {
		ix.Observe(map[string]task.Value{"project": task.String(v)})
	}

	e := ix.Fields["project"]
	if e.Count != 5 {
		t.Errorf("Count: got %d, want 5", e.Count)
	}
	if len(e.Samples) != 3 {
		t.Fatalf("Samples: got %v, want 3 newest", e.Samples)
	}
	// Oldest evicted first.
	want := []string{"c", "d", "e"}
	for i, s := range want {
		if e.Samples[i] != s {
			t.Errorf("Samples[%d]: got %s, want %s", i, e.Samples[i], s)
		}
	}
}

func TestObserveDuplicateSampleNotRepeated(t *testing.T) {
	ix := New()
	ix.Observe(map[string]task.Value{"project": task.String("website")})
	ix.Observe(map[string]task.Value{"project": task.String("website")})
	if got := len(ix.Fields["project"].Samples); got != 1 {
		t.Errorf("Samples: got %d, want 1 distinct", got)
	}
}

func TestProposeAlias(t *testing.T) {
	ix := New()
	ix.Observe(map[string]task.Value{"project": task.String("website")})

	// "proj" is a substring of "project": similar enough to merge.
	canonical, merged := ix.ProposeAlias("proj")
	if !merged || canonical != "project" {
		t.Fatalf("got (%q, %v), want (project, true)", canonical, merged)
	}
	if got := ix.CanonicalField("proj"); got != "project" {
		t.Errorf("CanonicalField after merge: got %q", got)
	}

	// An unrelated name stays itself.
	canonical, merged = ix.ProposeAlias("deadline")
	if merged || canonical != "deadline" {
		t.Errorf("got (%q, %v), want (deadline, false)", canonical, merged)
	}

	// An existing canonical name is never re-merged.
	canonical, merged = ix.ProposeAlias("project")
	if merged || canonical != "project" {
		t.Errorf("existing name: got (%q, %v)", canonical, merged)
	}
}

func TestProposeAliasIdempotent(t *testing.T) {
	ix := New()
	ix.Observe(map[string]task.Value{"project": task.String("x")})
	ix.ProposeAlias("proj")
	ix.ProposeAlias("proj")
	if got := len(ix.Aliases["project"]); got != 1 {
		t.Errorf("variant recorded %d times, want 1", got)
	}
}

func TestMergeAlias(t *testing.T) {
	ix := New()
	if err := ix.MergeAlias("project", "proj"); err != nil {
		t.Fatalf("MergeAlias failed: %v", err)
	}
	if got := ix.CanonicalField("proj"); got != "project" {
		t.Errorf("CanonicalField: got %q, want project", got)
	}

	// Re-pointing moves the variant, never duplicates it.
	if err := ix.MergeAlias("initiative", "proj"); err != nil {
		t.Fatalf("re-point failed: %v", err)
	}
	if got := ix.CanonicalField("proj"); got != "initiative" {
		t.Errorf("after re-point: got %q, want initiative", got)
	}
	if _, stale := ix.Aliases["project"]; stale {
		t.Error("empty alias group left behind")
	}

	if err := ix.MergeAlias("x", "x"); err == nil {
		t.Error("self-merge accepted")
	}
	if err := ix.MergeAlias("", "proj"); err == nil {
		t.Error("empty canonical accepted")
	}
}

func TestCanonicalValue(t *testing.T) {
	ix := New()
	if err := ix.MergeAlias("website", "site"); err != nil {
		t.Fatal(err)
	}
	if got := ix.CanonicalValue("site"); got != "website" {
		t.Errorf("got %q, want website", got)
	}
	if got := ix.CanonicalValue("unrelated"); got != "unrelated" {
		t.Errorf("unknown value rewritten to %q", got)
	}
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	ix, err := Load(filepath.Join(t.TempDir(), "index.yml"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(ix.Fields) != 0 || len(ix.Aliases) != 0 || len(ix.Templates) != 0 {
		t.Error("missing file did not yield an empty index")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yml")

	ix := New()
	ix.Observe(map[string]task.Value{
		"project":  task.String("website"),
		"priority": task.Enum("high"),
	})
	if err := ix.MergeAlias("project", "proj"); err != nil {
		t.Fatal(err)
	}
	ix.DetectTemplate("call Alice about budget", map[string]string{"person": "Alice", "topic": "budget"})
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Fields["project"].Count != 1 {
		t.Errorf("field count: got %d, want 1", loaded.Fields["project"].Count)
	}
	if got := loaded.CanonicalField("proj"); got != "project" {
		t.Errorf("alias lost on round trip: got %q", got)
	}
	if len(loaded.Templates) != 1 {
		t.Errorf("templates: got %d, want 1", len(loaded.Templates))
	}
}

func TestLoadCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yml")
	if err := os.WriteFile(path, []byte("fields: [not, a, map]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("corrupt index loaded without error")
	}
}
