// Package dashboard holds the view state of the dashboard and the
// operations that change it.
//
// State only changes through Reduce. Remote calls live in Effects, which
// turns each operation into an Op: an action to apply up front and a
// function that performs the request and returns the resulting action.
// The TUI runs Ops as commands; Controller runs them synchronously.
package dashboard

import (
	"errors"

	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/model"
)

var (
	// ErrNoProjectSelected is returned by task operations when no project
	// detail is open.
	ErrNoProjectSelected = errors.New("no project selected")

	// ErrNotPersisted is returned when an operation targets an entity the
	// server has not assigned an identifier to.
	ErrNotPersisted = errors.New("item has no server identifier yet")

	// ErrNotFound is returned when the target key is not in the state.
	ErrNotFound = errors.New("item not found")

	// ErrUnhealthy is returned by Startup when the backend is not healthy.
	ErrUnhealthy = errors.New("backend unavailable")
)

// View is the screen currently shown
type View int

const (
	ViewDashboard View = iota
	ViewDetail
	ViewCreate
	ViewUsers
	ViewReports
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewDetail:
		return "detail"
	case ViewCreate:
		return "create"
	case ViewUsers:
		return "users"
	case ViewReports:
		return "reports"
	default:
		return "unknown"
	}
}

// ParseView maps a view name back to a View
func ParseView(s string) (View, bool) {
	for _, v := range []View{ViewDashboard, ViewDetail, ViewCreate, ViewUsers, ViewReports} {
		if v.String() == s {
			return v, true
		}
	}
	return ViewDashboard, false
}

// Detail is an open project with its tasks
type Detail struct {
	Project model.Project
	Tasks   []model.Task
}

// ProjectID returns the server id of the open project
func (d *Detail) ProjectID() (model.ID, bool) {
	return d.Project.Key.ID()
}

// Completion is computed from the attached task list, not the project's
// summary counters.
func (d *Detail) Completion() int {
	total, completed := model.TaskCounts(d.Tasks)
	return model.CompletionPercent(completed, total)
}

// Task looks a task up by key
func (d *Detail) Task(k model.Key) (model.Task, bool) {
	for _, t := range d.Tasks {
		if t.Key == k {
			return t, true
		}
	}
	return model.Task{}, false
}

// State is everything the views render
type State struct {
	Projects  []model.Project
	Selected  *Detail
	Users     []model.User
	Report    *model.Report
	Loading   bool
	Err       string
	View      View
	Health    health.Result
	SelectSeq uint64
}

// Offline reports whether the startup health check failed
func (s State) Offline() bool {
	return s.Health.Status == health.Unhealthy
}

// Summary aggregates the counters of every loaded project
func (s State) Summary() model.Summary {
	return model.Summarize(s.Projects)
}

// Project looks a project up by server id
func (s State) Project(id model.ID) (model.Project, bool) {
	for _, p := range s.Projects {
		if p.Key.Matches(string(id)) {
			return p, true
		}
	}
	return model.Project{}, false
}

// User looks a user up by key
func (s State) User(k model.Key) (model.User, bool) {
	for _, u := range s.Users {
		if u.Key == k {
			return u, true
		}
	}
	return model.User{}, false
}

// Assignees returns the options offered by the task form
func (s State) Assignees() []model.UserRef {
	refs := make([]model.UserRef, 0, len(s.Users))
	for i := range s.Users {
		refs = append(refs, s.Users[i].Ref())
	}
	return refs
}
