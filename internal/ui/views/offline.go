package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/ui/theme"
)

// OfflineView replaces every other view when the startup health check
// fails.
type OfflineView struct {
	width   int
	height  int
	baseURL string

	result  health.Result
	loading bool
}

func NewOfflineView(baseURL string) OfflineView {
	return OfflineView{baseURL: baseURL}
}

func (v OfflineView) SetSize(width, height int) OfflineView {
	v.width = width
	v.height = height
	return v
}

func (v OfflineView) SetState(s dashboard.State) OfflineView {
	v.result = s.Health
	v.loading = s.Loading
	return v
}

func (v OfflineView) Update(msg tea.Msg) (OfflineView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !v.loading {
		switch key.String() {
		case "r", "enter":
			return v, request(RetryRequest{})
		}
	}
	return v, nil
}

func (v OfflineView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	lines := []string{
		lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Cannot reach the server"),
		"",
		"The backend at " + styles.Value.Render(v.baseURL) + " is not responding.",
		"Check that it is running and reachable, then retry.",
	}
	if v.result.Reason != "" {
		lines = append(lines, "", styles.Label.Render("Reason: "+v.result.Reason))
	}
	lines = append(lines, "")
	if v.loading {
		lines = append(lines, styles.StatusBanner.Render("Checking..."))
	} else {
		lines = append(lines, hints("r: retry • q: quit"))
	}

	panel := styles.Panel.Render(strings.Join(lines, "\n"))
	if v.width == 0 {
		return panel
	}
	return lipgloss.Place(v.width, max(v.height, lipgloss.Height(panel)), lipgloss.Center, lipgloss.Center, panel)
}
