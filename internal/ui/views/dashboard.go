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

// DashboardView shows the summary cards and one card per project
type DashboardView struct {
	width    int
	height   int
	pageSize int

	projects []model.Project
	summary  model.Summary
	loading  bool

	cursor int
}

// NewDashboardView creates the dashboard. pageSize bounds how many
// projects are listed at once; 0 lists them all.
func NewDashboardView(pageSize int) DashboardView {
	return DashboardView{pageSize: pageSize}
}

func (v DashboardView) SetSize(width, height int) DashboardView {
	v.width = width
	v.height = height
	return v
}

// SetState copies what the view renders out of s
func (v DashboardView) SetState(s dashboard.State) DashboardView {
	v.projects = s.Projects
	v.summary = s.Summary()
	v.loading = s.Loading
	v.clampCursor()
	return v
}

func (v *DashboardView) clampCursor() {
	if v.cursor >= len(v.projects) {
		v.cursor = len(v.projects) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v DashboardView) perPage() int {
	if v.pageSize <= 0 {
		return max(len(v.projects), 1)
	}
	return v.pageSize
}

// Page returns the zero-based page holding the cursor and the page count
func (v DashboardView) Page() (int, int) {
	per := v.perPage()
	pages := (len(v.projects) + per - 1) / per
	return v.cursor / per, max(pages, 1)
}

// Cursor returns the selected project, if any
func (v DashboardView) Cursor() (model.Project, bool) {
	if v.cursor < 0 || v.cursor >= len(v.projects) {
		return model.Project{}, false
	}
	return v.projects[v.cursor], true
}

func (v DashboardView) Update(msg tea.Msg) (DashboardView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "j", "down":
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = len(v.projects) - 1
		v.clampCursor()
	case "pgdown", "ctrl+d", "right", "l":
		v.cursor += v.perPage()
		if v.cursor >= len(v.projects) {
			v.cursor = len(v.projects) - 1
		}
		v.clampCursor()
	case "pgup", "ctrl+u", "left", "h":
		v.cursor -= v.perPage()
		v.clampCursor()
	case "enter":
		if p, ok := v.Cursor(); ok {
			if id, persisted := p.Key.ID(); persisted {
				return v, request(OpenProjectRequest{ID: id})
			}
			return v, request(StatusMsg{Message: "this project has no server id yet"})
		}
	case "n", "a":
		return v, request(NavigateRequest{View: dashboard.ViewCreate})
	}
	return v, nil
}

func (v DashboardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, v.renderSummary(), "")

	if len(v.projects) == 0 {
		if v.loading {
			sections = append(sections, emptyState(v.width, "Loading projects..."))
		} else {
			sections = append(sections, emptyState(v.width,
				"No projects yet",
				"press n to create the first project",
			))
		}
		return strings.Join(sections, "\n")
	}

	page, pages := v.Page()
	per := v.perPage()
	start := page * per
	end := min(start+per, len(v.projects))

	title := "Projects"
	if pages > 1 {
		title = fmt.Sprintf("Projects ─ page %d/%d", page+1, pages)
	}
	sections = append(sections, styles.PanelTitle.Render(title))

	for i := start; i < end; i++ {
		sections = append(sections, v.renderProject(v.projects[i], i == v.cursor))
	}

	sections = append(sections, "", hints("j/k: move • enter: open • n: new project • h/l: page"))
	return strings.Join(sections, "\n")
}

func (v DashboardView) renderSummary() string {
	cardWidth := (v.width - 8) / 4
	if cardWidth < 16 {
		cardWidth = 16
	}
	s := v.summary
	overall := card(fmt.Sprintf("%d%%", s.Percent()), "Overall progress", cardWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", s.Projects), "Projects", cardWidth),
		card(fmt.Sprintf("%d", s.TotalTasks), "Total tasks", cardWidth),
		card(fmt.Sprintf("%d", s.CompletedTasks), "Completed", cardWidth),
		overall,
	) + "\n" + progressBar(s.Percent(), v.width-4)
}

func (v DashboardView) renderProject(p model.Project, selected bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	rowStyle := styles.Row
	if selected {
		rowStyle = styles.RowSelected
	}

	barWidth := v.width / 4
	nameWidth := v.width - barWidth - 36
	if nameWidth < 12 {
		nameWidth = 12
	}

	name := lipgloss.NewStyle().Bold(true).Render(truncate(p.Name, nameWidth))
	status := badge(p.Status.Label(), t.Project(p.Status))
	counts := styles.Label.Render(fmt.Sprintf("%d/%d tasks", p.Completed, p.Total))
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Width(nameWidth+1).Render(name),
		status, " ",
		progressBar(p.Completion(), barWidth), " ",
		counts,
	)

	if p.Description != "" {
		line += "\n" + styles.Subtitle.Render(truncate(p.Description, v.width-6))
	}
	return rowStyle.Width(v.width - 2).Render(line)
}
