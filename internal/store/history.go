package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/resolve"
)

const (
	historyFileMode   = 0o600
	maxHistoryRecords = 10000 // truncate oldest records when the log exceeds this size
)

// HistoryRecord is one line of the append-only activity log. Records
// carry their own identifiers so they are prefix-resolvable just like
// tasks.
type HistoryRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// appendHistory writes a history record. Errors are silently discarded
// because history logging must never fail a command.
func (s *Store) appendHistory(action, taskID, detail string, ts time.Time) {
	rec := HistoryRecord{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	}
	_ = appendHistoryRecord(s.cfg.HistoryPath(), rec)
}

func appendHistoryRecord(path string, rec HistoryRecord) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode) //nolint:gosec // history path from trusted data dir
	if err != nil {
		return fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling history record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing history record: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateHistoryIfNeeded(path)
	return nil
}

// truncateHistoryIfNeeded rewrites the log keeping only the most recent
// records once it exceeds maxHistoryRecords.
func truncateHistoryIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) <= maxHistoryRecords {
		return nil
	}

	lines = lines[len(lines)-maxHistoryRecords:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), historyFileMode)
}

// History returns all history records in log order. Malformed lines are
// skipped, mirroring the lenient task reads.
func (s *Store) History() ([]HistoryRecord, error) {
	f, err := os.Open(s.cfg.HistoryPath()) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()

	var records []HistoryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec HistoryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil || rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history log: %w", err)
	}
	return records, nil
}

// ResolveHistory resolves a record-ID prefix through the same resolver
// that serves task IDs.
func (s *Store) ResolveHistory(prefix string) (HistoryRecord, error) {
	records, err := s.History()
	if err != nil {
		return HistoryRecord{}, err
	}
	ids := make([]string, len(records))
	byID := make(map[string]HistoryRecord, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}

	res := resolve.Prefix(prefix, ids)
	switch res.Kind {
	case resolve.One:
		return byID[res.ID()], nil
	case resolve.Ambiguous:
		return HistoryRecord{}, clierr.Newf(clierr.AmbiguousPrefix, "prefix %q matches %d records", prefix, len(res.IDs)).
			WithDetails(map[string]any{"prefix": prefix, "candidates": res.IDs})
	default:
		return HistoryRecord{}, clierr.Newf(clierr.RecordNotFound, "no history record matches prefix %q", prefix).
			WithDetails(map[string]any{"prefix": prefix})
	}
}
