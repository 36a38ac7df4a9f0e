package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/task"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as JSON, Markdown, or iCalendar",
	Long: `Writes every task — open and archived — in a portable format.
'ical' emits only open tasks with deadlines, as calendar events with
recurrence rules where applicable.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: json, markdown, ical")
	exportCmd.Flags().StringP("out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	open, err := s.OpenTasks()
	if err != nil {
		return err
	}
	archived, err := s.Archived()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	var w io.Writer = os.Stdout
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return output.JSON(w, map[string][]*task.Task{
			"open":     orEmpty(open),
			"archived": orEmpty(archived),
		})
	case "markdown", "md":
		return output.Markdown(w, open, archived)
	case "ical", "ics":
		return output.ICal(w, open, time.Now())
	default:
		return clierr.Newf(clierr.InvalidFormat, "unknown export format %q (json, markdown, ical)", format)
	}
}

func orEmpty(tasks []*task.Task) []*task.Task {
	if tasks == nil {
		return []*task.Task{}
	}
	return tasks
}
