package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dori/tablero/internal/ui/theme"
)

// truncate shortens s to at most width cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// progressBar renders a percentage with the bubbles progress bar
func progressBar(percent, width int) string {
	if width < 10 {
		width = 10
	}
	t := theme.Current.Theme
	bar := progress.New(
		progress.WithSolidFill(string(t.Success)),
		progress.WithWidth(width),
	)
	bar.EmptyColor = string(t.Highlight)
	return bar.ViewAs(float64(percent) / 100)
}

// badge renders a colored label
func badge(label string, color lipgloss.Color) string {
	return theme.Current.Styles.Badge.Background(color).Render(label)
}

// card renders a summary value with its label underneath
func card(value, label string, width int) string {
	styles := theme.Current.Styles
	return styles.Card.Width(width).Render(
		styles.Value.Render(value) + "\n" + styles.Label.Render(label),
	)
}

// emptyState renders a centered hint for an empty list
func emptyState(width int, lines ...string) string {
	t := theme.Current.Theme
	style := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Italic(true).
		Width(width).
		Align(lipgloss.Center)
	return style.Render(strings.Join(lines, "\n"))
}

// confirmLine renders a y/n question
func confirmLine(question string) string {
	return lipgloss.NewStyle().
		Foreground(theme.Current.Theme.Error).
		Bold(true).
		Render(question + " (y/n)")
}

func hints(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Current.Theme.Subtle).Render(s)
}
