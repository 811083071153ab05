package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
// https://catppuccin.com/
var Catppuccin = Theme{
	Name: "catppuccin",

	Background: lipgloss.Color("#1E1E2E"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#89B4FA"), // Blue
	Secondary: lipgloss.Color("#CBA6F7"), // Mauve
	Info:      lipgloss.Color("#74C7EC"), // Sapphire

	Success: lipgloss.Color("#A6E3A1"),
	Warning: lipgloss.Color("#F9E2AF"),
	Error:   lipgloss.Color("#F38BA8"),

	PriorityLow:    lipgloss.Color("#A6E3A1"),
	PriorityMedium: lipgloss.Color("#F9E2AF"),
	PriorityHigh:   lipgloss.Color("#FAB387"), // Peach

	StatusPending:    lipgloss.Color("#F9E2AF"),
	StatusInProgress: lipgloss.Color("#89B4FA"),
	StatusDone:       lipgloss.Color("#A6E3A1"),

	ProjectActive: lipgloss.Color("#89B4FA"),
	ProjectPaused: lipgloss.Color("#FAB387"),

	RoleAdmin:   lipgloss.Color("#F38BA8"),
	RoleManager: lipgloss.Color("#CBA6F7"),
	RoleUser:    lipgloss.Color("#74C7EC"),
}
