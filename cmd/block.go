package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/filelock"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/store"
)

var blockCmd = &cobra.Command{
	Use:   "block BLOCKER BLOCKED",
	Short: "Record that one task blocks another",
	Long: `Records a dependency edge: the first task must be completed before
the second can start. Both arguments are ID prefixes. Blocked tasks
are pushed down in 'tasksense focus' until their blockers complete.`,
	Args: cobra.ExactArgs(2),
	RunE: runBlock,
}

func init() {
	rootCmd.AddCommand(blockCmd)
}

func runBlock(_ *cobra.Command, args []string) error {
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

	blocker, blocked, err := s.AddEdge(args[0], args[1])
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"blocker": blocker,
			"blocked": blocked,
		})
	}

	output.Messagef(os.Stdout, "%s now blocks %s",
		output.ShortID(blocker.ID), output.ShortID(blocked.ID))
	return nil
}
