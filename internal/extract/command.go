package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/task"
)

// Command runs a configured external extractor: raw text on stdin,
// JSON on stdout. The call is bounded by Timeout; on expiry or any
// error the chain falls back to the built-in patterns.
type Command struct {
	// Line is the shell command line, run via "sh -c".
	Line string
	// Timeout bounds one invocation.
	Timeout time.Duration
}

// commandOutput is the wire contract with the external extractor.
type commandOutput struct {
	Fields     map[string]commandField `json:"fields"`
	Recurrence *struct {
		Freq   string `json:"freq"`
		Anchor string `json:"anchor,omitempty"`
	} `json:"recurrence,omitempty"`
}

type commandField struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// Extract implements Extractor.
func (c Command) Extract(ctx context.Context, raw string) (Result, error) {
	if strings.TrimSpace(c.Line) == "" {
		return Result{}, fmt.Errorf("no extractor command configured")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", c.Line)
	cmd.Stdin = strings.NewReader(raw)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Killing the child does not close the output pipes if it forked:
	// a grandchild keeps them open and Run blocks on the pipe copy.
	// WaitDelay abandons the pipes shortly after cancellation so the
	// caller is never stalled past the timeout.
	cmd.WaitDelay = 100 * time.Millisecond

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("extractor timed out after %s", c.Timeout)
		}
		return Result{}, fmt.Errorf("extractor failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var out commandOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return Result{}, fmt.Errorf("parsing extractor output: %w", err)
	}

	res := Result{Fields: make(map[string]task.Value, len(out.Fields))}
	for name, f := range out.Fields {
		v, err := fieldValue(f)
		if err != nil {
			// One bad field does not poison the rest of the mapping.
			continue
		}
		res.Fields[name] = v
	}
	if out.Recurrence != nil && out.Recurrence.Freq != "" {
		res.Recurrence = &task.Recurrence{Freq: out.Recurrence.Freq, Anchor: out.Recurrence.Anchor}
	}
	return res, nil
}

func fieldValue(f commandField) (task.Value, error) {
	switch f.Type {
	case task.KindDate:
		d, err := date.Parse(f.Value)
		if err != nil {
			return task.Value{}, err
		}
		return task.DateVal(d), nil
	case task.KindEnum:
		return task.Enum(f.Value), nil
	case "", task.KindString:
		return task.String(f.Value), nil
	default:
		return task.Value{}, fmt.Errorf("unknown field type %q", f.Type)
	}
}
