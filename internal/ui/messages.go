package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/tablero/internal/dashboard"
)

// doneFunc runs on the update loop after an operation's result has been
// applied. err is the error carried by the result, if any.
type doneFunc func(m *RootModel, err error) tea.Cmd

// opDoneMsg carries the result of a dashboard operation back to the
// update loop
type opDoneMsg struct {
	name   string
	action dashboard.Action
	done   doneFunc
}
