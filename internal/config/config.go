package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/tasksense/tasksense/internal/clierr"
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tasksense store found (run 'tasksense init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the data directory configuration.
type Config struct {
	Version    int             `yaml:"version"`
	TasksDir   string          `yaml:"tasks_dir"`
	ArchiveDir string          `yaml:"archive_dir"`
	Extractor  ExtractorConfig `yaml:"extractor,omitempty"`
	Index      IndexConfig     `yaml:"index,omitempty"`
	Stats      StatsConfig     `yaml:"stats,omitempty"`
	Focus      FocusConfig     `yaml:"focus,omitempty"`

	// dir is the absolute path to the data directory (not serialized).
	dir string `yaml:"-"`
}

// ExtractorConfig points at the external semantic extractor.
type ExtractorConfig struct {
	// Command is a shell command receiving raw task text on stdin and
	// writing a JSON field map on stdout. Empty disables the external
	// extractor; the built-in phrase patterns still run.
	Command string `yaml:"command,omitempty"`
	// Timeout bounds one extractor call, e.g. "10s".
	Timeout string `yaml:"timeout,omitempty"`
}

// IndexConfig tunes the semantic index heuristics.
type IndexConfig struct {
	SampleLimit         int     `yaml:"sample_limit,omitempty"`
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`
	TemplateMinCount    int     `yaml:"template_min_count,omitempty"`
}

// StatsConfig tunes the statistics views.
type StatsConfig struct {
	WindowDays int `yaml:"window_days,omitempty"`
}

// FocusConfig tunes the focus view.
type FocusConfig struct {
	Limit int `yaml:"limit,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:    CurrentVersion,
		TasksDir:   DefaultTasksDir,
		ArchiveDir: DefaultArchiveDir,
		Extractor:  ExtractorConfig{Timeout: DefaultExtractorTimeout},
		Index: IndexConfig{
			SampleLimit:         DefaultSampleLimit,
			SimilarityThreshold: DefaultSimilarityThreshold,
			TemplateMinCount:    DefaultTemplateMinCount,
		},
		Stats: StatsConfig{WindowDays: DefaultStatsWindowDays},
		Focus: FocusConfig{Limit: DefaultFocusLimit},
	}
}

// Dir returns the absolute path to the data directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the data directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// TasksPath returns the absolute path to the open-task directory.
func (c *Config) TasksPath() string { return filepath.Join(c.dir, c.TasksDir) }

// ArchivePath returns the absolute path to the archive partition.
func (c *Config) ArchivePath() string { return filepath.Join(c.dir, c.ArchiveDir) }

// IndexPath returns the absolute path to the semantic index file.
func (c *Config) IndexPath() string { return filepath.Join(c.dir, "index.yml") }

// HistoryPath returns the absolute path to the history log.
func (c *Config) HistoryPath() string { return filepath.Join(c.dir, "history.jsonl") }

// LockPath returns the advisory lock file path.
func (c *Config) LockPath() string { return filepath.Join(c.dir, ".lock") }

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string { return filepath.Join(c.dir, ConfigFileName) }

// ExtractorTimeout parses the extractor timeout. Returns the default
// when the field is empty or unparseable.
func (c *Config) ExtractorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Extractor.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultExtractorTimeout)
	}
	return d
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if c.ArchiveDir == "" {
		return fmt.Errorf("%w: archive_dir is required", ErrInvalid)
	}
	if c.TasksDir == c.ArchiveDir {
		return fmt.Errorf("%w: tasks_dir and archive_dir must differ", ErrInvalid)
	}
	if c.Extractor.Timeout != "" {
		if _, err := time.ParseDuration(c.Extractor.Timeout); err != nil {
			return fmt.Errorf("%w: invalid extractor.timeout %q: %w", ErrInvalid, c.Extractor.Timeout, err)
		}
	}
	if c.Index.SampleLimit < 0 {
		return fmt.Errorf("%w: index.sample_limit must be >= 0", ErrInvalid)
	}
	if c.Index.SimilarityThreshold < 0 || c.Index.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: index.similarity_threshold must be in [0,1]", ErrInvalid)
	}
	if c.Stats.WindowDays < 0 {
		return fmt.Errorf("%w: stats.window_days must be >= 0", ErrInvalid)
	}
	return nil
}

// Init creates a new data directory with default settings.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ArchivePath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file with an atomic replace.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := atomic.WriteFile(c.ConfigPath(), strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load reads and validates a config from the given data directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a data directory
// containing config.yml. Returns the absolute path to the data directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the data directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.StoreNotFound,
				"no tasksense store found (run 'tasksense init' to create one)")
		}
		dir = parent
	}
}
