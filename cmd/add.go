package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/extract"
	"github.com/tasksense/tasksense/internal/filelock"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/store"
	"github.com/tasksense/tasksense/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add TEXT...",
	Aliases: []string{"a"},
	Short:   "Add a task from free-form text",
	Long: `Captures a task from its plain-language description. Fields like
deadline, priority, and project are discovered by the extractor; an
extraction failure still stores the task with just its raw text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Lock across extract-create-index so two adds cannot interleave
	// their index writes.
	unlock, err := filelock.Lock(cfg.LockPath())
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	s, err := store.Open(cfg)
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	res := runExtractor(cmd.Context(), cfg.Extractor.Command, cfg.ExtractorTimeout(), raw)

	t, err := s.Create(raw, res.Fields, res.Recurrence, time.Now())
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Added %s", output.ShortID(t.ID))
	if t.Deadline != nil {
		output.Messagef(os.Stdout, "  deadline %s", t.Deadline.String())
	}
	if t.Recurrence != nil {
		output.Messagef(os.Stdout, "  repeats %s", t.Recurrence.Freq)
	}
	for name, v := range t.Fields {
		output.Messagef(os.Stdout, "  %s: %s", name, v.String())
	}
	return nil
}

// runExtractor runs the external extractor when configured, degrading
// to the built-in patterns on failure or timeout, and at worst to an
// empty field map. Adding never aborts on extraction.
func runExtractor(ctx context.Context, command string, timeout time.Duration, raw string) extract.Result {
	if command != "" {
		res, err := (extract.Command{Line: command, Timeout: timeout}).Extract(ctx, raw)
		if err == nil {
			return res
		}
		warn := clierr.Newf(clierr.ExtractorFailed, "%v", err)
		fmt.Fprintf(os.Stderr, "Warning: %s; falling back to built-in patterns\n", warn.Message)
	}

	res, err := extract.Patterns{}.Extract(ctx, raw)
	if err != nil || res.Fields == nil {
		res.Fields = map[string]task.Value{}
	}
	return res
}
