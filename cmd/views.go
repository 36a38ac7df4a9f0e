package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/task"
	"github.com/tasksense/tasksense/internal/view"
)

// View aliases over the list surface. Each fixes one deadline/blocked
// filter and otherwise behaves like 'list'.

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Tasks due today",
	RunE:  makeViewRun(func(o *view.FilterOptions) { o.DueToday = true }),
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Tasks due this week",
	RunE:  makeViewRun(func(o *view.FilterOptions) { o.DueThisWeek = true }),
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Tasks past their deadline",
	RunE:  makeViewRun(func(o *view.FilterOptions) { o.Overdue = true }),
}

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "Tasks waiting on a blocker",
	RunE: makeViewRun(func(o *view.FilterOptions) {
		v := true
		o.Blocked = &v
	}),
}

func init() {
	for _, c := range []*cobra.Command{todayCmd, weekCmd, overdueCmd, blockedCmd} {
		addFilterFlags(c)
		rootCmd.AddCommand(c)
	}
}

// addFilterFlags registers the filter flags shared with 'list'.
func addFilterFlags(c *cobra.Command) {
	c.Flags().StringSlice("field", nil, "filter by field equality, e.g. --field project=website")
	c.Flags().StringP("search", "s", "", "search raw text and field values (case-insensitive)")
	c.Flags().Bool("overdue", false, "only tasks with a deadline before today")
	c.Flags().Bool("today", false, "only tasks due today")
	c.Flags().Bool("week", false, "only tasks due this calendar week")
	c.Flags().Bool("blocked", false, "only blocked tasks")
	c.Flags().Bool("not-blocked", false, "only unblocked tasks")
	c.Flags().String("sort", view.SortDeadline, "sort field (deadline, created)")
	c.Flags().BoolP("reverse", "r", false, "reverse sort order")
	c.Flags().IntP("limit", "n", 0, "limit number of results")
}

func makeViewRun(fix func(*view.FilterOptions)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		opts, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		fix(&opts)
		opts.Status = task.StatusOpen

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

		return renderTaskList(tasks, g, opts.Today)
	}
}
