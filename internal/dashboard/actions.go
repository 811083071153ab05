package dashboard

import (
	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/model"
)

// Action is an event applied to State by Reduce
type Action interface {
	action()
}

// Started marks the beginning of a remote operation
type Started struct{}

// Failed carries the error of a remote operation
type Failed struct {
	Err error
}

// Batch applies several actions in order
type Batch []Action

type HealthChecked struct {
	Result health.Result
}

type ProjectsLoaded struct {
	Projects []model.Project
}

// SelectStarted begins loading a project detail. Seq becomes the only
// sequence number whose response is accepted.
type SelectStarted struct {
	Seq uint64
}

type ProjectSelected struct {
	Seq    uint64
	Detail Detail
}

type SelectFailed struct {
	Seq uint64
	Err error
}

type BackToDashboard struct{}

type ProjectCreated struct {
	Project model.Project
}

type ProjectUpdated struct {
	ID      model.ID
	Project model.Project
}

type ProjectDeleted struct {
	ID model.ID
}

// Task results name the project they were issued for; they are dropped if
// another project has been opened since.

type TaskCreated struct {
	ProjectID model.ID
	Task      model.Task
}

type TaskUpdated struct {
	ProjectID model.ID
	Key       model.Key
	Task      model.Task
}

type TaskDeleted struct {
	ProjectID model.ID
	Key       model.Key
}

type UsersLoaded struct {
	Users []model.User
}

type UserCreated struct {
	User model.User
}

type UserUpdated struct {
	Key  model.Key
	User model.User
}

type UserDeleted struct {
	Key model.Key
}

type ReportLoaded struct {
	Report model.Report
}

type Navigated struct {
	View View
}

type ErrorDismissed struct{}

func (Started) action()         {}
func (Failed) action()          {}
func (Batch) action()           {}
func (HealthChecked) action()   {}
func (ProjectsLoaded) action()  {}
func (SelectStarted) action()   {}
func (ProjectSelected) action() {}
func (SelectFailed) action()    {}
func (BackToDashboard) action() {}
func (ProjectCreated) action()  {}
func (ProjectUpdated) action()  {}
func (ProjectDeleted) action()  {}
func (TaskCreated) action()     {}
func (TaskUpdated) action()     {}
func (TaskDeleted) action()     {}
func (UsersLoaded) action()     {}
func (UserCreated) action()     {}
func (UserUpdated) action()     {}
func (UserDeleted) action()     {}
func (ReportLoaded) action()    {}
func (Navigated) action()       {}
func (ErrorDismissed) action()  {}

// Err returns the error carried by a, if any
func Err(a Action) error {
	switch a := a.(type) {
	case Failed:
		return a.Err
	case SelectFailed:
		return a.Err
	case Batch:
		for _, inner := range a {
			if err := Err(inner); err != nil {
				return err
			}
		}
	}
	return nil
}
