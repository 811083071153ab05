package form

import (
	"context"
	"slices"
	"strings"

	"github.com/dori/tablero/internal/model"
)

// ProjectForm is the create/edit form for a project
type ProjectForm struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	Users       int

	editing model.Key
	Submission
}

// NewProjectForm returns an empty create form
func NewProjectForm() *ProjectForm {
	return &ProjectForm{Status: model.ProjectActive}
}

// EditProjectForm returns a form seeded from p
func EditProjectForm(p model.Project) *ProjectForm {
	return &ProjectForm{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Users:       p.Users,
		editing:     p.Key,
	}
}

// Editing returns the key of the project being edited. The key may still
// be pending when the project has not been saved yet.
func (f *ProjectForm) Editing() (model.Key, bool) {
	return f.editing, !f.editing.IsZero()
}

func (f *ProjectForm) Validate() error {
	c := checker{}
	c.required("name", f.Name)
	c.check(f.Users >= 0, "users", "must not be negative")
	c.check(f.Status == "" || slices.Contains(model.ProjectStatuses, f.Status), "status", "unknown status")
	return c.err()
}

// Input returns the trimmed payload
func (f *ProjectForm) Input() model.ProjectInput {
	status := f.Status
	if status == "" {
		status = model.ProjectActive
	}
	return model.ProjectInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Status:      status,
		Users:       f.Users,
	}
}

// Begin validates and marks the form as submitting
func (f *ProjectForm) Begin() error {
	return f.begin(f.Validate)
}

// Finish records the outcome. A successful create clears the form; an
// edit form, or any failure, keeps what was typed.
func (f *ProjectForm) Finish(err error) {
	f.finish(err)
	if err == nil && f.editing.IsZero() {
		f.reset()
	}
}

// Submit validates, then calls fn with the payload. fn is not called when
// validation fails or a submission is already running.
func (f *ProjectForm) Submit(ctx context.Context, fn func(context.Context, model.ProjectInput) error) error {
	if err := f.Begin(); err != nil {
		return err
	}
	err := fn(ctx, f.Input())
	f.Finish(err)
	return err
}

func (f *ProjectForm) reset() {
	f.Name = ""
	f.Description = ""
	f.Status = model.ProjectActive
	f.Users = 0
}
