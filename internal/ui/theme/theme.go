package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/model"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	// Task status
	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color

	// Project status
	ProjectActive lipgloss.Color
	ProjectPaused lipgloss.Color

	// Role badges
	RoleAdmin   lipgloss.Color
	RoleManager lipgloss.Color
	RoleUser    lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	// Rows and cards
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowDone     lipgloss.Style
	Card        lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	DueDate  lipgloss.Style
	Overdue  lipgloss.Style
	Badge    lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	InputError   lipgloss.Style
	Placeholder  lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Banners
	ErrorBanner  lipgloss.Style
	StatusBanner lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		RowSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		RowDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Value: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Overdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(t.Background).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		InputError: lipgloss.NewStyle().
			Foreground(t.Error).
			Italic(true),

		Placeholder: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		StatusBanner: lipgloss.NewStyle().
			Foreground(t.Info),
	}
}

// Priority returns the color of a task priority
func (t Theme) Priority(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityLow:
		return t.PriorityLow
	default:
		return t.PriorityMedium
	}
}

// Status returns the color of a task status
func (t Theme) Status(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusCompleted:
		return t.StatusDone
	case model.StatusInProgress:
		return t.StatusInProgress
	default:
		return t.StatusPending
	}
}

// Project returns the color of a project status
func (t Theme) Project(s model.ProjectStatus) lipgloss.Color {
	switch s {
	case model.ProjectPaused:
		return t.ProjectPaused
	case model.ProjectCompleted:
		return t.StatusDone
	default:
		return t.ProjectActive
	}
}

// Role returns the badge color of a user role
func (t Theme) Role(r model.Role) lipgloss.Color {
	switch r {
	case model.RoleAdmin:
		return t.RoleAdmin
	case model.RoleManager:
		return t.RoleManager
	default:
		return t.RoleUser
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Apply switches to the named theme. An empty name keeps the current one.
func Apply(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	t, ok := ByName(name)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	SetTheme(t)
	return nil
}

// Next switches to the theme after the current one and returns it
func Next() Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == Current.Theme.Name {
			next := themes[(i+1)%len(themes)]
			SetTheme(next)
			return next
		}
	}
	SetTheme(themes[0])
	return themes[0]
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// Names returns the names of all available themes
func Names() []string {
	var names []string
	for _, t := range Available() {
		names = append(names, t.Name)
	}
	return names
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
