package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		m := newDashboardModel(cmd.Context(), services.Tracker)
		if os.Getenv("LEARNPATH_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

type palette struct {
	base   lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	border lipgloss.Color
}

func paletteFor(theme library.Theme) palette {
	if theme == library.ThemeDark {
		return palette{
			base:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#89B4FA")).Padding(0, 1),
			muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
			border: lipgloss.Color("238"),
		}
	}
	return palette{
		base:   lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#326CE5")).Padding(0, 1),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		border: lipgloss.Color("250"),
	}
}

var statusCycle = []planning.StatusFilter{planning.StatusAll, planning.StatusActive, planning.StatusDone}

// refreshMsg is sent after a mutation so the model re-reads the tracker.
type refreshMsg struct {
	note string
	err  error
}

type dashboardModel struct {
	ctx     context.Context
	tracker *application.Tracker
	table   table.Model
	tasks   []planning.Task
	filter  int
	note    string
	err     error
}

func newDashboardModel(ctx context.Context, tracker *application.Tracker) dashboardModel {
	if ctx == nil {
		ctx = context.Background()
	}
	columns := []table.Column{
		{Title: "Done", Width: 5},
		{Title: "Stage", Width: 8},
		{Title: "Due", Width: 11},
		{Title: "Task", Width: 40},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m := dashboardModel{ctx: ctx, tracker: tracker, table: t}
	m.reload()
	return m
}

func (m *dashboardModel) reload() {
	m.tasks = m.tracker.Tasks(planning.FilterAll, statusCycle[m.filter])
	rows := make([]table.Row, 0, len(m.tasks))
	for _, t := range m.tasks {
		mark := " "
		if t.Done {
			mark = "✓"
		}
		rows = append(rows, table.Row{mark, string(t.Stage), t.DueDate, t.Title})
	}
	m.table.SetRows(rows)

	p := paletteFor(m.tracker.Theme())
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.border).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	m.table.SetStyles(s)
}

func (m dashboardModel) selected() (planning.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return planning.Task{}, false
	}
	return m.tasks[i], true
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.note, m.err = msg.note, msg.err
		m.reload()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "x", " ":
			task, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.toggleTask(task.ID)
		case "t":
			return m, m.toggleTheme()
		case "tab":
			m.filter = (m.filter + 1) % len(statusCycle)
			m.reload()
			m.table.SetCursor(0)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		task, _, err := m.tracker.ToggleTask(m.ctx, id)
		if err != nil {
			return refreshMsg{err: err}
		}
		if task.Done {
			return refreshMsg{note: fmt.Sprintf("%q is done.", task.Title)}
		}
		return refreshMsg{note: fmt.Sprintf("%q reopened.", task.Title)}
	}
}

func (m dashboardModel) toggleTheme() tea.Cmd {
	return func() tea.Msg {
		theme := m.tracker.ToggleTheme(m.ctx)
		return refreshMsg{note: "theme: " + string(theme)}
	}
}

func (m dashboardModel) View() string {
	p := paletteFor(m.tracker.Theme())
	stats := m.tracker.TaskStats()
	percents := m.tracker.StagePercents()

	var stages []string
	for _, stage := range catalog.AllStages() {
		pct := int(math.Round(percents[stage]))
		stages = append(stages, fmt.Sprintf("%-13s %s %3d%%", stage.DisplayName(), progressBar(pct, 16), pct))
	}

	summary := fmt.Sprintf("Tasks %d/%d done · %d this week · %d overdue · %d due soon · next %s",
		stats.Done, stats.Total, stats.CompletedThisWeek, stats.Overdue, stats.DueSoon, stats.NearestDueLabel())

	footer := p.muted.Render(fmt.Sprintf("[%s] x toggle · tab filter · t theme · q quit", statusCycle[m.filter]))
	if m.err != nil {
		footer = overdueStyle.Render(m.err.Error()) + "\n" + footer
	} else if m.note != "" {
		footer = doneStyle.Render(m.note) + "\n" + footer
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			p.header.Render(fmt.Sprintf("learnpath · average %d%%", m.tracker.AverageProgress())),
			p.base.Render(strings.Join(stages, "\n")),
			"",
			p.base.Render(summary),
			"",
			m.table.View(),
			footer,
		))
}
