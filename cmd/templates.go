package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show recognized task phrasing patterns",
	Long: `Tasks phrased the same way ("call NAME about TOPIC") are grouped
into templates once the pattern has been seen enough times. Templates
make field extraction more reliable for familiar phrasings.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, s.Index().EstablishedTemplates())
	}
	output.TemplateTable(os.Stdout, s.Index())
	return nil
}
