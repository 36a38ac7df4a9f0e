package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/filelock"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/store"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Show field name aliases",
	Long: `Field names that look alike are merged under one canonical name as
tasks come in ("proj" and "project" become one field). This shows the
current alias table; 'alias merge' records a merge by hand.`,
	Args: cobra.NoArgs,
	RunE: runAlias,
}

var aliasMergeCmd = &cobra.Command{
	Use:   "merge CANONICAL VARIANT",
	Short: "Merge a field name variant into a canonical name",
	Args:  cobra.ExactArgs(2),
	RunE:  runAliasMerge,
}

func init() {
	aliasCmd.AddCommand(aliasMergeCmd)
	rootCmd.AddCommand(aliasCmd)
}

func runAlias(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, s.Index().Aliases)
	}
	output.AliasTable(os.Stdout, s.Index())
	return nil
}

func runAliasMerge(_ *cobra.Command, args []string) error {
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

	canonical, variant := args[0], args[1]
	if err := s.MergeAlias(canonical, variant); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"canonical": canonical,
			"variant":   variant,
		})
	}
	output.Messagef(os.Stdout, "Merged %q into %q", variant, canonical)
	return nil
}
