package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/output"
	"github.com/tasksense/tasksense/internal/task"
)

var graphCmd = &cobra.Command{
	Use:     "graph [PREFIX]",
	Aliases: []string{"deps"},
	Short:   "Show dependency edges, or the chain downstream of one task",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(_ *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	g, all, err := s.Graph()
	if err != nil {
		return err
	}
	defer printWarnings(s.Warnings())

	if len(args) == 1 {
		root, err := s.ResolveTask(args[0])
		if err != nil {
			return err
		}
		var nodes []output.ChainNode
		g.Walk(root.ID, func(t *task.Task, depth int) {
			nodes = append(nodes, output.ChainNode{ID: t.ID, Depth: depth, Status: t.Status, Raw: t.Raw})
		})
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, nodes)
		}
		output.ChainView(os.Stdout, nodes)
		return nil
	}

	byID := make(map[string]*task.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	edges := g.Edges()
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, edges)
	}
	output.EdgeTable(os.Stdout, edges, func(id string) *task.Task {
		return byID[id]
	})
	return nil
}
