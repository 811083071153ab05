package theme

import "github.com/charmbracelet/lipgloss"

// Gruvbox dark theme
// https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	Background: lipgloss.Color("#282828"),
	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#3C3836"),
	Border:     lipgloss.Color("#504945"),

	Primary:   lipgloss.Color("#83A598"), // Aqua
	Secondary: lipgloss.Color("#8EC07C"),
	Info:      lipgloss.Color("#83A598"),

	Success: lipgloss.Color("#B8BB26"),
	Warning: lipgloss.Color("#FABD2F"),
	Error:   lipgloss.Color("#FB4934"),

	PriorityLow:    lipgloss.Color("#B8BB26"),
	PriorityMedium: lipgloss.Color("#FABD2F"),
	PriorityHigh:   lipgloss.Color("#FE8019"),

	StatusPending:    lipgloss.Color("#FABD2F"),
	StatusInProgress: lipgloss.Color("#83A598"),
	StatusDone:       lipgloss.Color("#B8BB26"),

	ProjectActive: lipgloss.Color("#83A598"),
	ProjectPaused: lipgloss.Color("#FE8019"),

	RoleAdmin:   lipgloss.Color("#FB4934"),
	RoleManager: lipgloss.Color("#D3869B"), // Purple
	RoleUser:    lipgloss.Color("#8EC07C"),
}
