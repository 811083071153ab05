package form

import (
	"context"
	"errors"
	"testing"

	"github.com/dori/tablero/internal/model"
)

func TestProjectFormBlankNameNeverCalls(t *testing.T) {
	f := NewProjectForm()
	f.Name = "   "

	called := false
	err := f.Submit(context.Background(), func(context.Context, model.ProjectInput) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("submit called with a blank name")
	}
	if FieldError(err, "name") == "" {
		t.Fatalf("expected a name error, got %v", err)
	}
	if f.InFlight() {
		t.Fatal("form left in flight after validation failure")
	}
}

func TestProjectFormCreateResetsOnSuccess(t *testing.T) {
	f := NewProjectForm()
	f.Name = "  Alpha "
	f.Description = "desc"
	f.Status = model.ProjectPaused

	var got model.ProjectInput
	err := f.Submit(context.Background(), func(_ context.Context, in model.ProjectInput) error {
		got = in
		return nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Name != "Alpha" || got.Status != model.ProjectPaused || got.Users != 0 {
		t.Fatalf("unexpected payload %+v", got)
	}
	if f.Name != "" || f.Status != model.ProjectActive {
		t.Fatalf("create form not reset: %+v", f)
	}
}

func TestProjectFormKeepsValuesOnFailure(t *testing.T) {
	f := NewProjectForm()
	f.Name = "Alpha"
	boom := errors.New("Error 500: Internal Server Error")

	err := f.Submit(context.Background(), func(context.Context, model.ProjectInput) error { return boom })
	if !errors.Is(err, boom) || !errors.Is(f.Err(), boom) {
		t.Fatalf("error not recorded: %v / %v", err, f.Err())
	}
	if f.Name != "Alpha" {
		t.Fatal("values cleared after failure")
	}
}

func TestEditFormKeepsValuesOnSuccess(t *testing.T) {
	f := EditProjectForm(model.Project{Key: model.Persisted("p1"), Name: "Alpha", Status: model.ProjectCompleted, Users: 4})
	if k, ok := f.Editing(); !ok || !k.Matches("p1") {
		t.Fatalf("Editing() = %q, %v", k, ok)
	}

	f.Name = "Alpha 2"
	if err := f.Submit(context.Background(), func(context.Context, model.ProjectInput) error { return nil }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.Name != "Alpha 2" || f.Users != 4 {
		t.Fatal("edit form was reset")
	}
}

func TestEditFormOfUnsavedProject(t *testing.T) {
	f := EditProjectForm(model.Project{Key: model.Pending(), Name: "Draft"})
	k, ok := f.Editing()
	if !ok {
		t.Fatal("form for an unsaved project reports create mode")
	}
	if k.IsPersisted() {
		t.Errorf("Editing() = %s, want a pending key", k)
	}
}

func TestSubmissionInFlight(t *testing.T) {
	f := NewUserForm()
	f.Name = "Ana"
	f.Email = "ana@example.com"

	if err := f.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	called := false
	err := f.Submit(context.Background(), func(context.Context, model.UserInput) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrInFlight) || called {
		t.Fatalf("second submission not refused: err=%v called=%v", err, called)
	}

	f.Finish(nil)
	if f.InFlight() || f.Name != "" {
		t.Fatal("finish did not release and reset the form")
	}
}

func TestUserFormEmail(t *testing.T) {
	tests := []struct {
		name, email string
		wantField   string
	}{
		{"Ana", "", "email"},
		{"Ana", "not-an-email", "email"},
		{"Ana", "Ana <ana@example.com>", "email"},
		{"Ana", "ana@", "email"},
		{"", "ana@example.com", "name"},
		{"Ana", "ana@example.com", ""},
		{"Ana", "ana@localhost", ""},
	}

	for _, tt := range tests {
		f := NewUserForm()
		f.Name, f.Email = tt.name, tt.email
		err := f.Validate()

		if tt.wantField == "" {
			if err != nil {
				t.Errorf("%q/%q: unexpected error %v", tt.name, tt.email, err)
			}
			continue
		}
		if FieldError(err, tt.wantField) == "" {
			t.Errorf("%q/%q: expected %s error, got %v", tt.name, tt.email, tt.wantField, err)
		}
	}
}

func TestUserFormBlankEmailNeverCalls(t *testing.T) {
	f := NewUserForm()
	f.Name = "Ana"

	called := false
	f.Submit(context.Background(), func(context.Context, model.UserInput) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("submit called without an email")
	}
	if f.Input().Role != model.RoleUser {
		t.Fatal("default role should be user")
	}
}

func TestTaskForm(t *testing.T) {
	f := NewTaskForm("p1", nil)
	if f.AssigneeHint() == "" {
		t.Fatal("empty assignee list should produce a hint")
	}

	f.SetAssignees([]model.UserRef{{Name: "Ana", Email: "ana@example.com"}, {Name: "Luis", Email: "luis@example.com"}})
	if f.AssigneeHint() != "" {
		t.Fatal("hint shown although users exist")
	}
	f.NextAssignee()
	if f.Assignee != "Ana" {
		t.Fatalf("NextAssignee() = %q, want Ana", f.Assignee)
	}
	f.NextAssignee()
	f.NextAssignee()
	if f.Assignee != "" {
		t.Fatalf("assignee should wrap to blank, got %q", f.Assignee)
	}

	f.Description = "Write docs"
	f.DueDate = "30/06/2024"
	if FieldError(f.Validate(), "due_date") == "" {
		t.Fatal("bad date accepted")
	}

	f.DueDate = "2024-06-30"
	f.Assignee = "Luis"
	var got model.TaskInput
	if err := f.Submit(context.Background(), func(_ context.Context, in model.TaskInput) error {
		got = in
		return nil
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.ProjectID != "p1" || got.Priority != model.PriorityMedium || got.Status != model.StatusPending {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.Assignee == nil || *got.Assignee != "Luis" || got.DueDate == nil || got.DueDate.String() != "2024-06-30" {
		t.Fatalf("assignee or date missing: %+v", got)
	}
	if f.Description != "" || f.ProjectID() != "p1" {
		t.Fatal("create form should reset but keep its project")
	}
}

func TestEditTaskForm(t *testing.T) {
	d, _ := model.ParseDate("2024-01-15")
	task := model.Task{
		Key:         model.Persisted("t1"),
		Description: "x",
		Priority:    model.PriorityHigh,
		Completed:   true,
		DueDate:     &d,
		ProjectID:   "p1",
	}

	f := EditTaskForm(task, nil)
	if k, ok := f.Editing(); !ok || !k.Matches("t1") {
		t.Fatal("edit form lost its key")
	}
	if f.Status != model.StatusCompleted || f.DueDate != "2024-01-15" {
		t.Fatalf("unexpected seed %+v", f)
	}
	in := f.Input()
	if !in.Completed || in.Assignee != nil {
		t.Fatalf("unexpected payload %+v", in)
	}
}

func TestCycle(t *testing.T) {
	if got := Cycle(model.Priorities, model.PriorityLow); got != model.Priorities[0] {
		t.Fatalf("Cycle wrapped to %q", got)
	}
	if got := Cycle(model.Roles, model.Role("nope")); got != model.Roles[0] {
		t.Fatalf("unknown value cycled to %q", got)
	}
}
