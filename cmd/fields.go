package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show discovered fields and their inferred types",
	Args:  cobra.NoArgs,
	RunE:  runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, s.Index().Fields)
	}
	output.FieldTable(os.Stdout, s.Index())
	return nil
}
