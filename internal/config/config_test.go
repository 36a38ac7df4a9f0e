package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".tasksense")

	cfg, err := Init(dir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	for _, p := range []string{cfg.TasksPath(), cfg.ArchivePath()} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Errorf("partition %s not created: %v", p, err)
		}
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version: got %d, want %d", loaded.Version, CurrentVersion)
	}
	if loaded.TasksDir != DefaultTasksDir || loaded.ArchiveDir != DefaultArchiveDir {
		t.Errorf("dirs: got %s/%s", loaded.TasksDir, loaded.ArchiveDir)
	}
	if loaded.Index.SampleLimit != DefaultSampleLimit {
		t.Errorf("SampleLimit: got %d", loaded.Index.SampleLimit)
	}
	if loaded.Dir() != cfg.Dir() {
		t.Errorf("Dir: got %s, want %s", loaded.Dir(), cfg.Dir())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMigrateV1(t *testing.T) {
	dir := t.TempDir()
	v1 := "version: 1\ntasks_dir: tasks\narchive_dir: archive\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load of v1 config failed: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version after migration: got %d", cfg.Version)
	}
	if cfg.Extractor.Timeout != DefaultExtractorTimeout {
		t.Errorf("migrated timeout: got %q", cfg.Extractor.Timeout)
	}
	if cfg.Index.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Errorf("migrated threshold: got %f", cfg.Index.SimilarityThreshold)
	}

	// Migration persists: reloading sees the new version directly.
	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Version != CurrentVersion {
		t.Errorf("persisted version: got %d", reloaded.Version)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing tasks dir", func(c *Config) { c.TasksDir = "" }, true},
		{"same partitions", func(c *Config) { c.ArchiveDir = c.TasksDir }, true},
		{"bad timeout", func(c *Config) { c.Extractor.Timeout = "soon" }, true},
		{"threshold above one", func(c *Config) { c.Index.SimilarityThreshold = 1.5 }, true},
		{"negative window", func(c *Config) { c.Stats.WindowDays = -1 }, true},
		{"future version", func(c *Config) { c.Version = 99 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractorTimeout(t *testing.T) {
	cfg := NewDefault()
	if got := cfg.ExtractorTimeout(); got != 10*time.Second {
		t.Errorf("default: got %v", got)
	}
	cfg.Extractor.Timeout = "2m"
	if got := cfg.ExtractorTimeout(); got != 2*time.Minute {
		t.Errorf("explicit: got %v", got)
	}
	cfg.Extractor.Timeout = "garbage"
	if got := cfg.ExtractorTimeout(); got != 10*time.Second {
		t.Errorf("fallback: got %v", got)
	}
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(filepath.Join(root, DefaultDir)); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	// Upward walk from a nested directory finds the store.
	found, err := FindDir(nested)
	if err != nil {
		t.Fatalf("FindDir failed: %v", err)
	}
	if found != filepath.Join(root, DefaultDir) {
		t.Errorf("got %s", found)
	}

	// Starting inside the data directory itself also works.
	found, err = FindDir(filepath.Join(root, DefaultDir))
	if err != nil {
		t.Fatalf("FindDir inside store failed: %v", err)
	}
	if found != filepath.Join(root, DefaultDir) {
		t.Errorf("got %s", found)
	}
}

func TestFindDirNotFound(t *testing.T) {
	if _, err := FindDir(t.TempDir()); err == nil {
		t.Error("FindDir succeeded with no store anywhere")
	}
}
