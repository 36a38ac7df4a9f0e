package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"
)

// Read parses a task file and returns the Task with the raw text populated.
func Read(path string) (*Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if t.ID == "" {
		return nil, fmt.Errorf("parsing %s: missing task id", path)
	}

	t.Raw = body
	t.File = path

	return &t, nil
}

// Write serializes a task to a markdown file with YAML frontmatter.
// The write goes through a temp file and an atomic rename so a reader
// never observes a half-written record.
func Write(path string, t *Task) error {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if t.Raw != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Raw)
		if !strings.HasSuffix(t.Raw, "\n") {
			buf.WriteString("\n")
		}
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing task file: %w", err)
	}
	return nil
}

// splitFrontmatter splits a task file into YAML frontmatter and body.
// The file must start with "---\n". Returns frontmatter bytes and body string.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := string(data)

	if !strings.HasPrefix(content, "---\n") {
		return nil, "", errors.New("file does not start with YAML frontmatter (---)")
	}

	// Find the closing ---.
	rest := content[4:] // skip opening ---\n
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		// Check if file ends with \n--- at EOF.
		closingLen := len("---")
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - closingLen
		} else {
			return nil, "", errors.New("unclosed frontmatter (missing closing ---)")
		}
	}

	fm := rest[:idx]
	body := ""
	closingEnd := idx + len("\n---\n")
	if closingEnd < len(rest) {
		body = strings.TrimLeft(rest[closingEnd:], "\n")
		// Write guarantees the body ends in exactly one newline; strip it
		// so repeated write/read cycles leave the text unchanged.
		body = strings.TrimSuffix(body, "\n")
	}

	return []byte(fm), body, nil
}
