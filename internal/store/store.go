// Package store owns the on-disk task set: the open partition, the
// archive partition, the semantic index, and the history log. Every
// other component reads and writes through it. Mutations follow the
// write-to-temp-then-rename discipline so no operation leaves a record
// half-written on disk.
package store

import (
	"fmt"
	"os"
	"time"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/config"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/index"
	"github.com/tasksense/tasksense/internal/recur"
	"github.com/tasksense/tasksense/internal/resolve"
	"github.com/tasksense/tasksense/internal/task"
)

// Store is the transactional boundary around one data directory.
// It is loaded at command start and discarded at exit; no state
// outlives a single invocation.
type Store struct {
	cfg   *config.Config
	index *index.Index

	// warnings collects per-record corruption notices from lenient reads.
	warnings []task.ReadWarning
}

// Open loads the store for a data directory, including the semantic index.
func Open(cfg *config.Config) (*Store, error) {
	ix, err := index.Load(cfg.IndexPath())
	if err != nil {
		return nil, err
	}
	if cfg.Index.SampleLimit > 0 {
		ix.SampleLimit = cfg.Index.SampleLimit
	}
	if cfg.Index.TemplateMinCount > 0 {
		ix.TemplateMinCount = cfg.Index.TemplateMinCount
	}
	if cfg.Index.SimilarityThreshold > 0 {
		ix.SetSimilarity(index.NewSimilarity(cfg.Index.SimilarityThreshold))
	}
	return &Store{cfg: cfg, index: ix}, nil
}

// Index exposes the semantic index for read queries and manual merges.
func (s *Store) Index() *index.Index { return s.index }

// Config returns the store's configuration.
func (s *Store) Config() *config.Config { return s.cfg }

// Warnings returns per-record read warnings accumulated so far.
// Corrupt records are skipped, never fatal to a listing.
func (s *Store) Warnings() []task.ReadWarning { return s.warnings }

// OpenTasks returns the open partition, leniently read, sorted by creation.
func (s *Store) OpenTasks() ([]*task.Task, error) {
	tasks, warns, err := task.ReadAllLenient(s.cfg.TasksPath())
	if err != nil {
		return nil, err
	}
	s.warnings = append(s.warnings, warns...)
	return tasks, nil
}

// Archived returns the archive partition, leniently read.
func (s *Store) Archived() ([]*task.Task, error) {
	tasks, warns, err := task.ReadAllLenient(s.cfg.ArchivePath())
	if err != nil {
		return nil, err
	}
	s.warnings = append(s.warnings, warns...)
	return tasks, nil
}

// All returns open then archived tasks. Archived identifiers stay
// resolvable for graph and history queries.
func (s *Store) All() ([]*task.Task, error) {
	open, err := s.OpenTasks()
	if err != nil {
		return nil, err
	}
	archived, err := s.Archived()
	if err != nil {
		return nil, err
	}
	return append(open, archived...), nil
}

// Graph builds the dependency graph over the full task set.
func (s *Store) Graph() (*graph.Graph, []*task.Task, error) {
	all, err := s.All()
	if err != nil {
		return nil, nil, err
	}
	return graph.New(all), all, nil
}

// Get returns a copy of the task with the given full ID, searching the
// open partition first, then the archive.
func (s *Store) Get(id string) (*task.Task, error) {
	for _, dir := range []string{s.cfg.TasksPath(), s.cfg.ArchivePath()} {
		path := task.Path(dir, id)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		t, err := task.Read(path)
		if err != nil {
			return nil, clierr.Newf(clierr.CorruptRecord, "task record %s is corrupt: %v", id, err).
				WithDetails(map[string]any{"id": id})
		}
		return t.Clone(), nil
	}
	return nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// ResolveTask resolves a short prefix against the full task set (open
// and archived) and returns the matching task. Not-found and ambiguity
// are distinct typed outcomes carrying the candidate list.
func (s *Store) ResolveTask(prefix string) (*task.Task, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, t := range all {
		ids[i] = t.ID
	}

	res := resolve.Prefix(prefix, ids)
	switch res.Kind {
	case resolve.One:
		return s.Get(res.ID())
	case resolve.Ambiguous:
		return nil, clierr.Newf(clierr.AmbiguousPrefix, "prefix %q matches %d tasks", prefix, len(res.IDs)).
			WithDetails(map[string]any{"prefix": prefix, "candidates": res.IDs})
	default:
		return nil, clierr.Newf(clierr.TaskNotFound, "no task matches prefix %q", prefix).
			WithDetails(map[string]any{"prefix": prefix})
	}
}

// Create ingests one task from its raw text and extracted field map.
// The semantic index observes the fields (running alias and template
// bookkeeping) and is persisted together with the task record. A
// date-kind "deadline" or "due" field is promoted to the first-class
// deadline attribute.
func (s *Store) Create(raw string, fields map[string]task.Value, rec *task.Recurrence, now time.Time) (*task.Task, error) {
	t := task.New(raw, now)
	t.Recurrence = rec

	canonical := make(map[string]task.Value, len(fields))
	for name, v := range fields {
		key, _ := s.index.ProposeAlias(index.Normalize(name))
		canonical[key] = v
	}

	// The index sees every extracted field, promoted or not, so the
	// deadline vocabulary keeps accruing samples and counts.
	s.index.Observe(canonical)
	s.index.DetectTemplate(raw, fieldStrings(canonical))

	// Promote the deadline field: graph and scoring logic depend on it.
	for _, key := range []string{"deadline", "due", "due_date"} {
		if v, ok := canonical[key]; ok && v.Kind == task.KindDate {
			d := v.Date
			t.Deadline = &d
			delete(canonical, key)
			break
		}
	}
	if len(canonical) > 0 {
		t.Fields = canonical
	}

	if err := task.Write(task.Path(s.cfg.TasksPath(), t.ID), t); err != nil {
		return nil, err
	}
	if err := s.index.Save(s.cfg.IndexPath()); err != nil {
		return nil, err
	}
	s.appendHistory("add", t.ID, raw, now)
	return t.Clone(), nil
}

// AddEdge records "blocker blocks blocked". Both endpoints must resolve
// to known tasks; a self-edge is accepted as a caller error rather than
// a validation failure.
func (s *Store) AddEdge(blockerPrefix, blockedPrefix string) (blocker, blocked *task.Task, err error) {
	blocker, err = s.ResolveTask(blockerPrefix)
	if err != nil {
		return nil, nil, err
	}
	blocked, err = s.ResolveTask(blockedPrefix)
	if err != nil {
		return nil, nil, err
	}

	if !blocker.AddBlocks(blocked.ID) {
		return nil, nil, clierr.Newf(clierr.NoChanges, "task %s already blocks %s",
			short(blocker.ID), short(blocked.ID))
	}
	if err := task.Write(blocker.File, blocker); err != nil {
		return nil, nil, err
	}
	s.appendHistory("block", blocker.ID, "blocks "+blocked.ID, time.Now())
	return blocker, blocked, nil
}

// Complete finishes an open task: it writes the completion record,
// moves the file to the archive partition, and — when the task carries
// a recurrence descriptor — creates the next occurrence as a brand-new
// task. An unparseable recurrence anchor yields a warning string and no
// next occurrence, never a fabricated date.
func (s *Store) Complete(prefix, duration, note string, skip bool, now time.Time) (done, next *task.Task, warning string, err error) {
	t, err := s.ResolveTask(prefix)
	if err != nil {
		return nil, nil, "", err
	}
	if !t.IsOpen() {
		return nil, nil, "", clierr.Newf(clierr.AlreadyCompleted, "task %s is already completed", short(t.ID)).
			WithDetails(map[string]any{"id": t.ID})
	}
	if duration != "" {
		if _, derr := time.ParseDuration(duration); derr != nil {
			return nil, nil, "", clierr.Newf(clierr.InvalidDuration, "invalid duration %q", duration).
				WithDetails(map[string]any{"input": duration})
		}
	}

	t.Status = task.StatusCompleted
	t.Completion = &task.Completion{
		CompletedAt: now,
		Duration:    duration,
		Skip:        skip,
		Note:        note,
	}

	// Write the archive record first, then retire the open record, so a
	// crash in between leaves a duplicate rather than a lost task.
	archivePath := task.Path(s.cfg.ArchivePath(), t.ID)
	if err := task.Write(archivePath, t); err != nil {
		return nil, nil, "", err
	}
	openPath := task.Path(s.cfg.TasksPath(), t.ID)
	if rmErr := os.Remove(openPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, nil, "", fmt.Errorf("retiring open record: %w", rmErr)
	}
	t.File = archivePath
	s.appendHistory("complete", t.ID, note, now)

	if t.Recurrence != nil {
		n, rerr := recur.NextOccurrence(t, now)
		if rerr != nil {
			warning = fmt.Sprintf("no next occurrence scheduled: %v", rerr)
		} else {
			if err := task.Write(task.Path(s.cfg.TasksPath(), n.ID), n); err != nil {
				return nil, nil, "", err
			}
			s.appendHistory("recur", n.ID, "regenerated from "+t.ID, now)
			next = n.Clone()
		}
	}

	return t.Clone(), next, warning, nil
}

// MergeAlias records a manual alias merge and persists the index.
func (s *Store) MergeAlias(canonical, variant string) error {
	if err := s.index.MergeAlias(canonical, variant); err != nil {
		return clierr.Newf(clierr.InvalidField, "%v", err)
	}
	if err := s.index.Save(s.cfg.IndexPath()); err != nil {
		return err
	}
	s.appendHistory("merge-alias", "", variant+" -> "+canonical, time.Now())
	return nil
}

func fieldStrings(fields map[string]task.Value) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v.String()
	}
	return out
}

// short returns the display prefix of a task ID.
func short(id string) string {
	const n = 8
	if len(id) > n {
		return id[:n]
	}
	return id
}
