package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tasksense/tasksense/internal/clierr"
	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/task"
	"github.com/tasksense/tasksense/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists open tasks with optional filtering, grouping, and sorting.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().Bool("all", false, "include completed (archived) tasks")
	listCmd.Flags().Bool("completed", false, "show only completed tasks")
	listCmd.Flags().StringSlice("field", nil, "filter by field equality, e.g. --field project=website")
	listCmd.Flags().StringP("search", "s", "", "search raw text and field values (case-insensitive)")
	listCmd.Flags().Bool("overdue", false, "only tasks with a deadline before today")
	listCmd.Flags().Bool("today", false, "only tasks due today")
	listCmd.Flags().Bool("week", false, "only tasks due this calendar week")
	listCmd.Flags().Bool("blocked", false, "only blocked tasks")
	listCmd.Flags().Bool("not-blocked", false, "only unblocked tasks")
	listCmd.Flags().String("group-by", "", "group results by a discovered field")
	listCmd.Flags().String("sort", view.SortDeadline, "sort field (deadline, created)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "fields":
			name = "field"
		case "this-week":
			name = "week"
		case "done":
			name = "completed"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	opts, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	completed, _ := cmd.Flags().GetBool("completed")
	switch {
	case completed:
		opts.Status = task.StatusCompleted
	case !all:
		opts.Status = task.StatusOpen
	}

	g, tasks, err := s.Graph()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	tasks = view.Filter(tasks, g, s.Index(), opts)

	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	view.Sort(tasks, sortBy, reverse)

	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" {
		groups := view.GroupByField(tasks, s.Index(), groupBy)
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, groups)
		}
		output.GroupedTable(os.Stdout, groups, g, opts.Today)
		return nil
	}

	return renderTaskList(tasks, g, opts.Today)
}

// filterFromFlags builds filter options shared by list and its view
// aliases (today, week, overdue, blocked).
func filterFromFlags(cmd *cobra.Command) (view.FilterOptions, error) {
	opts := view.FilterOptions{Today: date.Today()}

	fieldFlags, _ := cmd.Flags().GetStringSlice("field")
	if len(fieldFlags) > 0 {
		opts.FieldEquals = make(map[string]string, len(fieldFlags))
		for _, kv := range fieldFlags {
			name, value, ok := strings.Cut(kv, "=")
			if !ok || name == "" {
				return opts, clierr.Newf(clierr.InvalidField, "invalid --field %q: expected name=value", kv)
			}
			opts.FieldEquals[name] = value
		}
	}

	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Overdue, _ = cmd.Flags().GetBool("overdue")
	opts.DueToday, _ = cmd.Flags().GetBool("today")
	opts.DueThisWeek, _ = cmd.Flags().GetBool("week")

	blocked, _ := cmd.Flags().GetBool("blocked")
	notBlocked, _ := cmd.Flags().GetBool("not-blocked")
	if blocked {
		v := true
		opts.Blocked = &v
	} else if notBlocked {
		v := false
		opts.Blocked = &v
	}
	return opts, nil
}

func renderTaskList(tasks []*task.Task, g *graph.Graph, today date.Date) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks, g)
		return nil
	}
	output.TaskTable(os.Stdout, tasks, g, today)
	return nil
}
