package theme

import "github.com/charmbracelet/lipgloss"

// Nord theme - Arctic, north-bluish color palette
// https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	// Polar Night
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost
	Primary:   lipgloss.Color("#88C0D0"), // Nord8
	Secondary: lipgloss.Color("#81A1C1"), // Nord9
	Info:      lipgloss.Color("#5E81AC"), // Nord10

	// Aurora
	Success: lipgloss.Color("#A3BE8C"), // Nord14
	Warning: lipgloss.Color("#EBCB8B"), // Nord13
	Error:   lipgloss.Color("#BF616A"), // Nord11

	PriorityLow:    lipgloss.Color("#A3BE8C"),
	PriorityMedium: lipgloss.Color("#EBCB8B"),
	PriorityHigh:   lipgloss.Color("#D08770"),

	StatusPending:    lipgloss.Color("#EBCB8B"),
	StatusInProgress: lipgloss.Color("#88C0D0"),
	StatusDone:       lipgloss.Color("#A3BE8C"),

	ProjectActive: lipgloss.Color("#88C0D0"),
	ProjectPaused: lipgloss.Color("#D08770"),

	RoleAdmin:   lipgloss.Color("#BF616A"),
	RoleManager: lipgloss.Color("#B48EAD"), // Nord15
	RoleUser:    lipgloss.Color("#81A1C1"),
}
