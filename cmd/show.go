package cmd

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show PREFIX",
	Short: "Show one task by ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	t, err := s.ResolveTask(args[0])
	if err != nil {
		return err
	}

	g, _, err := s.Graph()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	rendered := renderMarkdown(t.Raw)
	output.TaskDetail(os.Stdout, t, g, rendered)
	return nil
}

// renderMarkdown renders the raw description with glamour, falling back
// to the plain text when rendering fails or color is disabled.
func renderMarkdown(raw string) string {
	if raw == "" {
		return ""
	}
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		return raw + "\n"
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return raw + "\n"
	}
	out, err := r.Render(raw)
	if err != nil {
		return raw + "\n"
	}
	return out
}
