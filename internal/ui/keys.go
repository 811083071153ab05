package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings of the application. Global bindings are
// matched by the root model; the rest are handled inside the views and
// listed here for the help screen.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Open   key.Binding
	Back   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Actions
	New      key.Binding
	Edit     key.Binding
	Complete key.Binding
	Delete   key.Binding
	EditProj key.Binding
	DelProj  key.Binding

	// Views
	DashboardView key.Binding
	UsersView     key.Binding
	ReportsView   key.Binding

	// General
	Refresh    key.Binding
	Dismiss    key.Binding
	ThemeCycle key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column/page"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column/page"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n/a", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c", "tab"),
			key.WithHelp("c", "complete task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		EditProj: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit project"),
		),
		DelProj: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete project"),
		),

		DashboardView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		UsersView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "users"),
		),
		ReportsView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "reports"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss error"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DashboardView, k.UsersView, k.ReportsView, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Open, k.Back, k.New, k.Edit, k.Delete},
		{k.Complete, k.EditProj, k.DelProj},
		{k.DashboardView, k.UsersView, k.ReportsView},
		{k.Refresh, k.Dismiss, k.ThemeCycle, k.Help, k.Quit},
	}
}
