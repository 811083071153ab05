package form

import (
	"context"
	"slices"
	"strings"

	"github.com/dori/tablero/internal/model"
)

// TaskForm is the create/edit form for a task. The owning project is
// fixed when the form is built.
type TaskForm struct {
	Description string
	Priority    model.Priority
	Status      model.Status
	DueDate     string // YYYY-MM-DD or blank
	Assignee    string // a user's display name or blank

	projectID model.ID
	editing   model.Key
	assignees []model.UserRef
	Submission
}

// NewTaskForm returns an empty create form for project
func NewTaskForm(project model.ID, assignees []model.UserRef) *TaskForm {
	return &TaskForm{
		Priority:  model.PriorityMedium,
		Status:    model.StatusPending,
		projectID: project,
		assignees: slices.Clone(assignees),
	}
}

// EditTaskForm returns a form seeded from t
func EditTaskForm(t model.Task, assignees []model.UserRef) *TaskForm {
	f := &TaskForm{
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Assignee:    t.Assignee,
		projectID:   t.ProjectID,
		editing:     t.Key,
		assignees:   slices.Clone(assignees),
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.String()
	}
	if t.Completed {
		f.Status = model.StatusCompleted
	}
	return f
}

func (f *TaskForm) ProjectID() model.ID {
	return f.projectID
}

// Editing returns the key of the task being edited
func (f *TaskForm) Editing() (model.Key, bool) {
	return f.editing, !f.editing.IsZero()
}

// SetAssignees replaces the assignee options; they load separately from
// the form itself.
func (f *TaskForm) SetAssignees(refs []model.UserRef) {
	f.assignees = slices.Clone(refs)
}

func (f *TaskForm) Assignees() []model.UserRef {
	return f.assignees
}

// AssigneeHint is shown in place of the assignee picker when there is
// nobody to pick.
func (f *TaskForm) AssigneeHint() string {
	if len(f.assignees) > 0 {
		return ""
	}
	return "no users yet: create a user first to assign tasks"
}

// NextAssignee cycles through blank and every option
func (f *TaskForm) NextAssignee() {
	names := make([]string, 0, len(f.assignees)+1)
	names = append(names, "")
	for _, r := range f.assignees {
		names = append(names, r.Name)
	}
	f.Assignee = Cycle(names, f.Assignee)
}

func (f *TaskForm) Validate() error {
	c := checker{}
	c.required("description", f.Description)
	c.check(f.projectID != "", "project", "no project selected")
	c.check(f.Priority == "" || slices.Contains(model.Priorities, f.Priority), "priority", "unknown priority")
	c.check(f.Status == "" || slices.Contains(model.Statuses, f.Status), "status", "unknown status")
	if d := strings.TrimSpace(f.DueDate); d != "" {
		_, err := model.ParseDate(d)
		c.check(err == nil, "due_date", "use YYYY-MM-DD")
	}
	return c.err()
}

// Input returns the payload. Blank assignee and due date are sent as null.
func (f *TaskForm) Input() model.TaskInput {
	in := model.TaskInput{
		Description: strings.TrimSpace(f.Description),
		Priority:    f.Priority,
		Status:      f.Status,
		ProjectID:   f.projectID,
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	in.Completed = in.Status == model.StatusCompleted
	if a := strings.TrimSpace(f.Assignee); a != "" {
		in.Assignee = &a
	}
	if d, err := model.ParseDate(strings.TrimSpace(f.DueDate)); err == nil && strings.TrimSpace(f.DueDate) != "" {
		in.DueDate = &d
	}
	return in
}

func (f *TaskForm) Begin() error {
	return f.begin(f.Validate)
}

func (f *TaskForm) Finish(err error) {
	f.finish(err)
	if err == nil && f.editing.IsZero() {
		f.reset()
	}
}

// Submit validates, then calls fn with the payload
func (f *TaskForm) Submit(ctx context.Context, fn func(context.Context, model.TaskInput) error) error {
	if err := f.Begin(); err != nil {
		return err
	}
	err := fn(ctx, f.Input())
	f.Finish(err)
	return err
}

func (f *TaskForm) reset() {
	f.Description = ""
	f.Priority = model.PriorityMedium
	f.Status = model.StatusPending
	f.DueDate = ""
	f.Assignee = ""
}
