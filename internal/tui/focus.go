// Package tui renders a live focus board: the ranked open task list,
// refreshed whenever the data directory changes on disk.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tasksense/tasksense/internal/config"
	"github.com/tasksense/tasksense/internal/date"
	"github.com/tasksense/tasksense/internal/focus"
	"github.com/tasksense/tasksense/internal/graph"
	"github.com/tasksense/tasksense/internal/store"
)

// ReloadMsg asks the board to re-read the task set from disk.
type ReloadMsg struct{}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Refresh, k.Quit}}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("172"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Board is the bubbletea model for the focus view.
type Board struct {
	cfg    *config.Config
	ranked []focus.Ranked
	g      *graph.Graph
	cursor int
	width  int
	height int
	err    error
	help   help.Model
}

// NewBoard creates a focus board for the given data directory.
func NewBoard(cfg *config.Config) *Board {
	// Force a sane color profile when launched outside a rich terminal.
	lipgloss.SetColorProfile(termenv.ColorProfile())
	b := &Board{cfg: cfg, help: help.New()}
	b.reload()
	return b
}

// WatchPaths returns the directories whose changes invalidate the view.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.TasksPath(), b.cfg.ArchivePath(), b.cfg.Dir()}
}

func (b *Board) reload() {
	s, err := store.Open(b.cfg)
	if err != nil {
		b.err = err
		return
	}
	g, all, err := s.Graph()
	if err != nil {
		b.err = err
		return
	}
	openTasks := all[:0:0]
	for _, t := range all {
		if t.IsOpen() {
			openTasks = append(openTasks, t)
		}
	}
	b.g = g
	b.ranked = focus.Rank(openTasks, g, date.Today())
	b.err = nil
	if b.cursor >= len(b.ranked) {
		b.cursor = len(b.ranked) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
	case ReloadMsg:
		b.reload()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, keys.Up):
			if b.cursor > 0 {
				b.cursor--
			}
		case key.Matches(msg, keys.Down):
			if b.cursor < len(b.ranked)-1 {
				b.cursor++
			}
		case key.Matches(msg, keys.Refresh):
			b.reload()
		}
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("tasksense focus"))
	sb.WriteString("\n\n")

	if b.err != nil {
		sb.WriteString(errStyle.Render(fmt.Sprintf("error: %v", b.err)))
		sb.WriteString("\n")
		return sb.String()
	}
	if len(b.ranked) == 0 {
		sb.WriteString(dimStyle.Render("nothing open — add a task"))
		sb.WriteString("\n\n")
		sb.WriteString(b.help.View(keys))
		return sb.String()
	}

	today := date.Today()
	visible := b.ranked
	if b.height > 5 && len(visible) > b.height-5 {
		visible = visible[:b.height-5]
	}
	for i, r := range visible {
		line := b.renderRow(r, today)
		if i == b.cursor {
			line = selectedStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(b.help.View(keys))
	return sb.String()
}

func (b *Board) renderRow(r focus.Ranked, today date.Date) string {
	t := r.Task
	deadline := "          "
	if t.Deadline != nil {
		deadline = t.Deadline.String()
		if t.Deadline.Before(today.Time) {
			deadline = overdueStyle.Render(deadline)
		}
	}
	marker := "   "
	if b.g.IsBlocked(t.ID) {
		marker = blockedStyle.Render("blk")
	}

	raw := strings.Join(strings.Fields(t.Raw), " ")
	budget := b.width - 30
	if budget < 20 {
		budget = 20
	}
	if len(raw) > budget {
		raw = raw[:budget-3] + "..."
	}

	return fmt.Sprintf("%s %s %s %s %s",
		scoreStyle.Render(fmt.Sprintf("%4d", r.Score)),
		dimStyle.Render(shortID(t.ID)),
		deadline, marker, raw)
}

func shortID(id string) string {
	const n = 8
	if len(id) > n {
		return id[:n]
	}
	return id
}
