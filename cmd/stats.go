package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Long: `Counts created and completed tasks, the completion rate, per-project
counts, average recorded duration per task type, and a daily
completion histogram over the recent window.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Int("window", 0, "histogram window in days (default from config)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	window, _ := cmd.Flags().GetInt("window")
	if window <= 0 {
		window = s.Config().Stats.WindowDays
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

	report := stats.Compute(open, archived, time.Now(), window)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, report)
	}
	output.StatsView(os.Stdout, report)
	return nil
}
