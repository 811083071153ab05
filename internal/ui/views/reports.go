package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

// ReportsView renders per-project statistics and the task timeline
type ReportsView struct {
	width  int
	height int

	report  *model.Report
	loading bool
	offset  int
}

func NewReportsView() ReportsView {
	return ReportsView{}
}

func (v ReportsView) SetSize(width, height int) ReportsView {
	v.width = width
	v.height = height
	return v
}

func (v ReportsView) SetState(s dashboard.State) ReportsView {
	v.report = s.Report
	v.loading = s.Loading
	return v
}

func (v ReportsView) Update(msg tea.Msg) (ReportsView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "j", "down":
		v.offset++
	case "k", "up":
		if v.offset > 0 {
			v.offset--
		}
	case "g":
		v.offset = 0
	}
	return v, nil
}

func (v ReportsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.report == nil {
		if v.loading {
			return emptyState(v.width, "Loading reports...")
		}
		return emptyState(v.width, "No report loaded", "press r to load it")
	}

	var lines []string
	lines = append(lines, strings.Split(v.renderStats(), "\n")...)
	lines = append(lines, "")
	lines = append(lines, strings.Split(v.renderTimeline(), "\n")...)

	// scroll the combined report
	visible := max(v.height-2, 1)
	offset := min(v.offset, max(len(lines)-visible, 0))
	end := min(offset+visible, len(lines))
	out := strings.Join(lines[offset:end], "\n")
	return out + "\n" + hints("j/k: scroll • r: refresh")
}

// renderStats draws one stacked bar per project: completed then pending
func (v ReportsView) renderStats() string {
	t := theme.Current.Theme
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	lines := []string{header.Render("Tasks by project")}
	if len(v.report.Stats) == 0 {
		return lines[0] + "\n" + emptyState(v.width, "No projects")
	}

	maxTotal := 1
	for _, s := range v.report.Stats {
		if s.TotalTasks > maxTotal {
			maxTotal = s.TotalTasks
		}
	}

	nameWidth := 24
	barMaxWidth := max(v.width-nameWidth-24, 10)
	done := lipgloss.NewStyle().Foreground(t.Success)
	pending := lipgloss.NewStyle().Foreground(t.Warning)

	for _, s := range v.report.Stats {
		doneW := s.CompletedTasks * barMaxWidth / maxTotal
		pendingW := s.PendingTasks * barMaxWidth / maxTotal
		if doneW == 0 && s.CompletedTasks > 0 {
			doneW = 1
		}
		if pendingW == 0 && s.PendingTasks > 0 {
			pendingW = 1
		}
		bar := done.Render(strings.Repeat("█", doneW)) + pending.Render(strings.Repeat("█", pendingW))
		name := lipgloss.NewStyle().Width(nameWidth).Render(truncate(s.Name, nameWidth-1))
		lines = append(lines, fmt.Sprintf("%s %s %d/%d (%d%%)", name, bar, s.CompletedTasks, s.TotalTasks, s.Percent()))
	}
	lines = append(lines,
		done.Render("█")+" completed  "+pending.Render("█")+" pending")
	return strings.Join(lines, "\n")
}

// renderTimeline lists tasks grouped by project in timeline order
func (v ReportsView) renderTimeline() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	lines := []string{header.Render("Task timeline")}
	if len(v.report.Timeline) == 0 {
		return lines[0] + "\n" + emptyState(v.width, "No tasks")
	}

	for _, project := range v.report.ProjectNames() {
		lines = append(lines, styles.Title.Render(project))
		for _, e := range v.report.Timeline {
			if e.ProjectName != project {
				continue
			}
			status := lipgloss.NewStyle().Foreground(t.Status(e.Status)).Width(14).Render(e.Status.Label())
			due := ""
			if e.DueDate != nil && *e.DueDate != "" {
				due = styles.DueDate.Render(" due " + *e.DueDate)
			}
			lines = append(lines, fmt.Sprintf("  %s %s %3d%%%s",
				status,
				lipgloss.NewStyle().Width(40).Render(truncate(e.TaskName, 38)),
				e.Progress(),
				due,
			))
		}
	}
	return strings.Join(lines, "\n")
}
