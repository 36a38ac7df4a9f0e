package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tasksense/tasksense/internal/tui"
	"github.com/tasksense/tasksense/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live focus view that refreshes as the data directory changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model := tui.NewBoard(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startWatchRefresh(ctx, model, p)

	_, err = p.Run()
	return err
}

func startWatchRefresh(ctx context.Context, model *tui.Board, p *tea.Program) {
	paths := model.WatchPaths()
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the view works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
