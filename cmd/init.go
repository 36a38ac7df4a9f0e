package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/config"
	"github.com/tasksense/tasksense/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Create a tasksense data directory",
	Long: `Creates a data directory with default configuration. With no
argument, the directory is ` + config.DefaultDir + ` under the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	dir := flagDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = filepath.Join(cwd, config.DefaultDir)
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"dir": cfg.Dir()})
	}
	output.Messagef(os.Stdout, "Initialized tasksense store in %s", cfg.Dir())
	return nil
}
