package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/task"
	"github.com/tasksense/tasksense/internal/view"
)

var queryCmd = &cobra.Command{
	Use:     "query [FIELD=VALUE...]",
	Aliases: []string{"q"},
	Short:   "Query tasks by field values",
	Long: `Matches open tasks by field equality. Field names and values are
resolved through the alias table, so 'query proj=website' finds tasks
filed under 'project'.

With --nl the query itself is plain language: the extractor pulls
fields out of the text and those become the match criteria.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("nl", "", "natural-language query text")
	queryCmd.Flags().Bool("all", false, "include completed (archived) tasks")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	cfg := s.Config()

	nl, _ := cmd.Flags().GetString("nl")
	if nl == "" && len(args) == 0 {
		return clierr.Newf(clierr.InvalidField, "query needs FIELD=VALUE arguments or --nl TEXT")
	}

	criteria := make(map[string]string, len(args))
	for _, kv := range args {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return clierr.Newf(clierr.InvalidField, "invalid criterion %q: expected name=value", kv)
		}
		criteria[name] = value
	}

	if nl != "" {
		res := runExtractor(cmd.Context(), cfg.Extractor.Command, cfg.ExtractorTimeout(), nl)
		if len(res.Fields) == 0 {
			return clierr.Newf(clierr.InvalidField, "no fields recognized in %q", nl)
		}
		for name, v := range res.Fields {
			criteria[name] = v.String()
		}
	}

	opts := view.FilterOptions{Today: date.Today(), FieldEquals: criteria}
	if all, _ := cmd.Flags().GetBool("all"); !all {
		opts.Status = task.StatusOpen
	}

	g, tasks, err := s.Graph()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	tasks = view.Filter(tasks, g, s.Index(), opts)
	view.Sort(tasks, view.SortDeadline, false)
	return renderTaskList(tasks, g, opts.Today)
}
