// Package extract turns raw task text into a discovered-field mapping.
// The external semantic extractor is an optional collaborator; its
// failure always degrades to the built-in phrase patterns and, at
// worst, an empty field map. Adding a task never aborts on extraction.
package extract

import (
	"context"

	"github.com/tasksense/tasksense/internal/task"
)

// Result is one extraction outcome.
type Result struct {
	// Fields maps raw field names (normalized later by the index) to
	// typed values.
	Fields map[string]task.Value
	// Recurrence is an optional recurrence hint.
	Recurrence *task.Recurrence
}

// Extractor produces a field mapping from raw task text.
type Extractor interface {
	Extract(ctx context.Context, raw string) (Result, error)
}

// chain tries extractors in order, falling through on error.
type chain struct {
	extractors []Extractor
}

// Chain returns an extractor that tries each given extractor in order
// and returns the first successful result. If all fail, the last error
// is returned together with an empty result; the caller treats that as
// a degraded add, not a fatal one.
func Chain(extractors ...Extractor) Extractor {
	return chain{extractors: extractors}
}

func (c chain) Extract(ctx context.Context, raw string) (Result, error) {
	var lastErr error
	for _, e := range c.extractors {
		res, err := e.Extract(ctx, raw)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return Result{Fields: map[string]task.Value{}}, lastErr
}
