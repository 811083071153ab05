package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/model"
)

// Views never call the API themselves. They emit these requests and the
// root model turns them into dashboard operations.

// OpenProjectRequest asks to open the detail of a project
type OpenProjectRequest struct {
	ID model.ID
}

// BackRequest asks to close the project detail
type BackRequest struct{}

// NavigateRequest asks to switch to another top-level view
type NavigateRequest struct {
	View dashboard.View
}

type DeleteProjectRequest struct {
	ID model.ID
}

type CompleteTaskRequest struct {
	Key model.Key
}

type DeleteTaskRequest struct {
	Key model.Key
}

type DeleteUserRequest struct {
	Key model.Key
}

// SubmitProjectRequest carries a form that has already passed Begin
type SubmitProjectRequest struct {
	Form *form.ProjectForm
}

type SubmitTaskRequest struct {
	Form *form.TaskForm
}

type SubmitUserRequest struct {
	Form *form.UserForm
}

// RetryRequest asks to run the startup health check again
type RetryRequest struct{}

// StatusMsg is a transient message for the status line
type StatusMsg struct {
	Message string
}

func request(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
