package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/focus"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/task"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Rank open tasks by urgency",
	Long: `Scores every open task — overdue and due-today deadlines, priority,
how many open tasks it unblocks, whether it is itself blocked — and
lists the highest scorers first.`,
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().IntP("limit", "n", 0, "limit number of results (default from config)")
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	g, all, err := s.Graph()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	var open []*task.Task
	for _, t := range all {
		if t.IsOpen() {
			open = append(open, t)
		}
	}

	today := date.Today()
	ranked := focus.Rank(open, g, today)

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = s.Config().Focus.Limit
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if outputFormat() == output.FormatJSON {
		type scored struct {
			Score int        `json:"score"`
			Task  *task.Task `json:"task"`
		}
		out := make([]scored, len(ranked))
		for i, r := range ranked {
			out[i] = scored{Score: r.Score, Task: r.Task}
		}
		return output.JSON(os.Stdout, out)
	}

	output.FocusTable(os.Stdout, ranked, g, today)
	return nil
}
