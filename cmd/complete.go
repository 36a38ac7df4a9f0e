package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/filelock"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/store"
)

var completeCmd = &cobra.Command{
	Use:     "complete PREFIX",
	Aliases: []string{"done"},
	Short:   "Complete a task by ID prefix",
	Long: `Marks a task completed, records how long it took, and moves it to
the archive. A recurring task spawns its next occurrence.

Without --duration or --skip, the elapsed time is prompted for
interactively (enter to skip).`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().String("duration", "", "elapsed time, e.g. 45m or 2h")
	completeCmd.Flags().Bool("skip", false, "complete without recording a duration")
	completeCmd.Flags().String("note", "", "free-text completion note")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	unlock, err := filelock.Lock(cfg.LockPath())
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	s, err := store.Open(cfg)
	if err != nil {
		return err
	}

	duration, _ := cmd.Flags().GetString("duration")
	skip, _ := cmd.Flags().GetBool("skip")
	note, _ := cmd.Flags().GetString("note")

	// Interactive prompt only when neither flag decided it and stdin is
	// a terminal session. Blocking on user input is fine here: the tool
	// is single-user and the prompt is the whole point.
	if duration == "" && !skip && !flagJSON {
		duration, note, skip = promptCompletion(note)
	}
	if duration == "" {
		skip = true
	}

	done, next, warning, err := s.Complete(args[0], duration, note, skip, time.Now())
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"completed": done,
			"next":      next,
			"warning":   warning,
		})
	}

	output.Messagef(os.Stdout, "Completed %s", output.ShortID(done.ID))
	if warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if next != nil {
		output.Messagef(os.Stdout, "Next occurrence %s due %s",
			output.ShortID(next.ID), next.Deadline.String())
	}
	return nil
}

// promptCompletion synchronously asks for duration and note.
func promptCompletion(note string) (string, string, bool) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprint(os.Stderr, "How long did it take? (e.g. 45m, enter to skip): ")
	line, _ := reader.ReadString('\n')
	duration := strings.TrimSpace(line)

	if note == "" {
		fmt.Fprint(os.Stderr, "Note (enter for none): ")
		line, _ = reader.ReadString('\n')
		note = strings.TrimSpace(line)
	}

	return duration, note, duration == ""
}
