package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [PREFIX]",
	Short: "Show the activity log",
	Long: `Every add, block, and completion is appended to an activity log.
Without arguments the most recent records are shown; with an ID prefix
a single record is resolved and printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		rec, err := s.ResolveHistory(args[0])
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, rec)
		}
		output.HistoryTable(os.Stdout, []store.HistoryRecord{rec})
		return nil
	}

	records, err := s.History()
	if err != nil {
		return err
	}

	// Newest last in the file; show the tail.
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	if outputFormat() == output.FormatJSON {
		if records == nil {
			records = []store.HistoryRecord{}
		}
		return output.JSON(os.Stdout, records)
	}
	output.HistoryTable(os.Stdout, records)
	return nil
}
