package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/events"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	toastStyles = map[events.NotificationLevel]lipgloss.Style{
		events.NotificationLevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		events.NotificationLevelSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		events.NotificationLevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

// toastNotifier prints notifications as one styled line.
type toastNotifier struct {
	w io.Writer
}

func newToastNotifier() *toastNotifier {
	return &toastNotifier{}
}

func (n *toastNotifier) Notify(_ context.Context, level events.NotificationLevel, title, message string) error {
	w := n.w
	if w == nil {
		w = os.Stdout
	}
	style, ok := toastStyles[level]
	if !ok {
		style = toastStyles[events.NotificationLevelInfo]
	}
	_, err := fmt.Fprintln(w, style.Render(fmt.Sprintf("★ %s: %s", title, message)))
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHeader(title string, count int) {
	line := title
	if count >= 0 {
		line = fmt.Sprintf("%s (%d)", title, count)
	}
	fmt.Println(titleStyle.Render(line))
	fmt.Println(strings.Repeat("-", len(line)+4))
}

func printNone() {
	fmt.Println(mutedStyle.Render("  (none)"))
}

func taskLine(t planning.Task) string {
	box := activeStyle.Render("[ ]")
	if t.Done {
		box = doneStyle.Render("[x]")
	}
	due := ""
	if t.DueDate != "" {
		due = "  due " + t.DueDate
	}
	link := ""
	if t.LinkedID != "" {
		link = fmt.Sprintf("  → %s:%s", t.LinkedType, t.LinkedID)
	}
	return fmt.Sprintf("  %s %-8s %-36s %s%s%s", box, t.Stage, t.ID, t.Title, due, link)
}

func statusLabel(s library.WatchStatus) string {
	switch s {
	case library.StatusDone:
		return doneStyle.Render(string(s))
	case library.StatusDoing:
		return activeStyle.Render(string(s))
	default:
		return mutedStyle.Render(string(s))
	}
}

func trackLine(t catalog.Track) string {
	level := t.Level
	if level == "" {
		level = "-"
	}
	return fmt.Sprintf("  %-20s %-6s %s  %s", t.ID, level, t.Title, mutedStyle.Render(strings.Join(t.Tags, ",")))
}

func resourceLine(r catalog.Resource) string {
	return fmt.Sprintf("  %-20s %-8s %s  %s", r.ID, r.Type, r.Title, mutedStyle.Render(strings.Join(r.Tags, ",")))
}

func progressBar(pct int, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return doneStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
