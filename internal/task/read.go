package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Ext is the file extension of task records.
const Ext = ".md"

// Path returns the record path for a task ID within a directory.
func Path(dir, id string) string {
	return filepath.Join(dir, id+Ext)
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAll reads all task files from the given directory, failing on the
// first malformed record. A missing directory yields an empty set.
func ReadAll(dir string) ([]*Task, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		t, err := Read(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		tasks = append(tasks, t)
	}

	sortByCreated(tasks)
	return tasks, nil
}

// ReadAllLenient reads all task files, skipping malformed records instead
// of aborting. One corrupt file must never prevent listing the rest.
func ReadAllLenient(dir string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		t, readErr := Read(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		tasks = append(tasks, t)
	}

	sortByCreated(tasks)
	return tasks, warnings, nil
}

func sortByCreated(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Created.Equal(tasks[j].Created) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].Created.Before(tasks[j].Created)
	})
}
