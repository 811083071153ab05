package views

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/model"
)

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, v ProjectFormView, text string) ProjectFormView {
	t.Helper()
	for _, r := range text {
		v, _ = v.Update(press(string(r)))
	}
	return v
}

// result runs cmd and returns its message, or nil for a nil command
func result(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func projects(n int) []model.Project {
	out := make([]model.Project, n)
	for i := range out {
		out[i] = model.Project{
			Key:    model.Persisted(model.ID(fmt.Sprintf("p%d", i))),
			Name:   fmt.Sprintf("Project %d", i),
			Status: model.ProjectActive,
		}
	}
	return out
}

func TestDashboardPaging(t *testing.T) {
	v := NewDashboardView(10).SetSize(100, 40).SetState(dashboard.State{Projects: projects(25)})

	if page, pages := v.Page(); page != 0 || pages != 3 {
		t.Fatalf("Page() = %d/%d, want 0/3", page, pages)
	}

	v, _ = v.Update(press("l"))
	if page, _ := v.Page(); page != 1 {
		t.Errorf("after next page, page = %d, want 1", page)
	}

	v, _ = v.Update(press("G"))
	if p, _ := v.Cursor(); p.Name != "Project 24" {
		t.Errorf("G selected %q, want Project 24", p.Name)
	}
	if page, _ := v.Page(); page != 2 {
		t.Errorf("last page = %d, want 2", page)
	}

	v, _ = v.Update(press("h"))
	if page, _ := v.Page(); page != 1 {
		t.Errorf("after prev page, page = %d, want 1", page)
	}

	// shrinking the list keeps the cursor in range
	v = v.SetState(dashboard.State{Projects: projects(3)})
	if p, ok := v.Cursor(); !ok || p.Name != "Project 2" {
		t.Errorf("cursor after shrink = %q, %v", p.Name, ok)
	}
}

func TestDashboardZeroPageSizeShowsAll(t *testing.T) {
	v := NewDashboardView(0).SetState(dashboard.State{Projects: projects(25)})
	if page, pages := v.Page(); page != 0 || pages != 1 {
		t.Errorf("Page() = %d/%d, want 0/1", page, pages)
	}
}

func TestDashboardOpenProject(t *testing.T) {
	ps := projects(2)
	ps[1].Key = model.Pending()
	v := NewDashboardView(10).SetState(dashboard.State{Projects: ps})

	v, cmd := v.Update(press("enter"))
	if got, ok := result(cmd).(OpenProjectRequest); !ok || got.ID != "p0" {
		t.Fatalf("enter = %#v, want OpenProjectRequest{p0}", result(cmd))
	}

	v, _ = v.Update(press("j"))
	_, cmd = v.Update(press("enter"))
	if _, ok := result(cmd).(StatusMsg); !ok {
		t.Errorf("enter on a pending project = %#v, want StatusMsg", result(cmd))
	}
}

func TestDashboardNewProject(t *testing.T) {
	v := NewDashboardView(10)
	_, cmd := v.Update(press("n"))
	if got, ok := result(cmd).(NavigateRequest); !ok || got.View != dashboard.ViewCreate {
		t.Errorf("n = %#v, want NavigateRequest{create}", result(cmd))
	}
}

func TestDashboardRendersCompletion(t *testing.T) {
	ps := []model.Project{{
		Key:       model.Persisted("1"),
		Name:      "Sistema de Gestión",
		Status:    model.ProjectActive,
		Total:     12,
		Completed: 8,
	}}
	out := NewDashboardView(10).SetSize(120, 30).SetState(dashboard.State{Projects: ps}).View()

	if !strings.Contains(out, "Sistema de Gestión") {
		t.Errorf("project card missing:\n%s", out)
	}
	if !strings.Contains(out, "67%") {
		t.Errorf("completion 67%% not shown:\n%s", out)
	}
	if !strings.Contains(out, "8/12 tasks") {
		t.Errorf("task counts not shown:\n%s", out)
	}
}

func TestDashboardEmptyState(t *testing.T) {
	v := NewDashboardView(10).SetSize(100, 30)

	out := v.SetState(dashboard.State{}).View()
	if !strings.Contains(out, "No projects yet") {
		t.Errorf("empty dashboard does not show the empty state:\n%s", out)
	}

	out = v.SetState(dashboard.State{Loading: true}).View()
	if !strings.Contains(out, "Loading projects") {
		t.Errorf("loading dashboard does not say so:\n%s", out)
	}
}

func TestColumnOf(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want int
	}{
		{"pending", model.Task{Status: model.StatusPending}, 0},
		{"in progress", model.Task{Status: model.StatusInProgress}, 1},
		{"completed status", model.Task{Status: model.StatusCompleted}, 2},
		{"completed flag wins", model.Task{Status: model.StatusPending, Completed: true}, 2},
		{"unknown status", model.Task{Status: "otro"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := columnOf(tt.task); got != tt.want {
				t.Errorf("columnOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func boardState(id string, tasks ...model.Task) dashboard.State {
	return dashboard.State{
		View: dashboard.ViewDetail,
		Selected: &dashboard.Detail{
			Project: model.Project{Key: model.Persisted(model.ID(id)), Name: "Board " + id},
			Tasks:   tasks,
		},
	}
}

func task(id string, status model.Status) model.Task {
	t := model.Task{Key: model.Persisted(model.ID(id)), Description: "task " + id, Status: status}
	if status == model.StatusCompleted {
		t.Completed = true
	}
	return t
}

func TestBoardDeleteTaskNeedsConfirmation(t *testing.T) {
	v := NewBoardView().SetSize(120, 40).SetState(boardState("p1",
		task("t1", model.StatusPending),
		task("t2", model.StatusPending),
	))

	v, _ = v.Update(press("j"))
	v, cmd := v.Update(press("d"))
	if cmd != nil || v.Mode() != BoardModeConfirmDeleteTask {
		t.Fatalf("d: mode = %v, cmd = %v", v.Mode(), cmd)
	}

	// anything but y cancels
	v, cmd = v.Update(press("n"))
	if cmd != nil || v.Mode() != BoardModeNormal {
		t.Fatalf("cancel: mode = %v, cmd = %v", v.Mode(), cmd)
	}

	v, _ = v.Update(press("d"))
	_, cmd = v.Update(press("y"))
	got, ok := result(cmd).(DeleteTaskRequest)
	if !ok || got.Key != model.Persisted("t2") {
		t.Errorf("confirm = %#v, want DeleteTaskRequest{t2}", result(cmd))
	}
}

func TestBoardDeleteProject(t *testing.T) {
	v := NewBoardView().SetState(boardState("p1"))

	v, _ = v.Update(press("D"))
	if v.Mode() != BoardModeConfirmDeleteProject {
		t.Fatalf("D: mode = %v", v.Mode())
	}
	_, cmd := v.Update(press("y"))
	if got, ok := result(cmd).(DeleteProjectRequest); !ok || got.ID != "p1" {
		t.Errorf("confirm = %#v, want DeleteProjectRequest{p1}", result(cmd))
	}
}

func TestBoardEditUnsavedProject(t *testing.T) {
	s := boardState("p1")
	s.Selected.Project.Key = model.Pending()
	v := NewBoardView().SetState(s)

	v, cmd := v.Update(press("E"))
	if v.Mode() != BoardModeNormal {
		t.Errorf("E opened mode %v for an unsaved project", v.Mode())
	}
	if _, ok := result(cmd).(StatusMsg); !ok {
		t.Errorf("E = %#v, want StatusMsg", result(cmd))
	}

	v = NewBoardView().SetState(boardState("p1"))
	v, _ = v.Update(press("E"))
	if v.Mode() != BoardModeProjectForm {
		t.Errorf("E on a saved project: mode = %v", v.Mode())
	}
}

func TestBoardCompleteTask(t *testing.T) {
	v := NewBoardView().SetState(boardState("p1",
		task("t1", model.StatusInProgress),
		task("t2", model.StatusCompleted),
	))

	v, _ = v.Update(press("l"))
	if cur, ok := v.Current(); !ok || cur.Key != model.Persisted("t1") {
		t.Fatalf("in progress column cursor = %v, %v", cur.Key, ok)
	}
	_, cmd := v.Update(press("c"))
	if got, ok := result(cmd).(CompleteTaskRequest); !ok || got.Key != model.Persisted("t1") {
		t.Errorf("c = %#v, want CompleteTaskRequest{t1}", result(cmd))
	}

	// completed tasks are not completed again
	v, _ = v.Update(press("l"))
	if _, cmd = v.Update(press("c")); cmd != nil {
		t.Errorf("c on a completed task returned %#v", result(cmd))
	}
}

func TestBoardResetsOnProjectChange(t *testing.T) {
	v := NewBoardView().SetState(boardState("p1", task("t1", model.StatusInProgress)))
	v, _ = v.Update(press("l"))
	v, _ = v.Update(press("D"))

	v = v.SetState(boardState("p2", task("t9", model.StatusPending)))
	if v.Mode() != BoardModeNormal {
		t.Errorf("mode after switching project = %v", v.Mode())
	}
	if cur, ok := v.Current(); !ok || cur.Key != model.Persisted("t9") {
		t.Errorf("cursor after switching project = %v, %v", cur.Key, ok)
	}
}

func TestBoardTaskFormIsInputMode(t *testing.T) {
	v := NewBoardView().SetSize(100, 30).SetState(boardState("p1"))

	v, _ = v.Update(press("a"))
	if v.Mode() != BoardModeTaskForm || !v.IsInputMode() {
		t.Fatalf("a: mode = %v, input = %v", v.Mode(), v.IsInputMode())
	}

	// q is text here, not quit, and esc only closes the form
	v, _ = v.Update(press("q"))
	if v.Mode() != BoardModeTaskForm {
		t.Fatal("q inside the form left it")
	}
	v, _ = v.Update(press("esc"))
	if v.Mode() != BoardModeNormal {
		t.Errorf("esc: mode = %v, want normal", v.Mode())
	}

	_, cmd := v.Update(press("esc"))
	if _, ok := result(cmd).(BackRequest); !ok {
		t.Errorf("esc on the board = %#v, want BackRequest", result(cmd))
	}
}

func TestProjectFormSubmit(t *testing.T) {
	f := form.NewProjectForm()
	v := NewProjectFormView(f)

	// blank name: nothing is sent, the error is kept for display
	v, cmd := v.Update(press("ctrl+s"))
	if cmd != nil {
		t.Fatalf("blank form submitted: %#v", result(cmd))
	}
	if form.FieldError(f.Err(), "name") == "" {
		t.Fatalf("no name error after blank submit: %v", f.Err())
	}

	v = typeText(t, v, "Alpha")
	if f.Name != "Alpha" {
		t.Fatalf("Name = %q, want Alpha", f.Name)
	}

	v, cmd = v.Update(press("ctrl+s"))
	got, ok := result(cmd).(SubmitProjectRequest)
	if !ok || got.Form != f {
		t.Fatalf("submit = %#v, want SubmitProjectRequest", result(cmd))
	}
	if !f.InFlight() {
		t.Fatal("form not in flight after submit")
	}

	// a second submit while the first runs is ignored
	if _, cmd = v.Update(press("ctrl+s")); cmd != nil {
		t.Errorf("double submit returned %#v", result(cmd))
	}
	if !strings.Contains(v.View(), "Saving") {
		t.Errorf("in-flight form does not say it is saving:\n%s", v.View())
	}
}

func TestProjectFormMembersAreNumeric(t *testing.T) {
	f := form.NewProjectForm()
	v := NewProjectFormView(f)

	for range 3 {
		v, _ = v.Update(press("tab"))
	}
	v = typeText(t, v, "4x2")
	if f.Users != 42 {
		t.Errorf("Users = %d, want 42", f.Users)
	}
}

func TestProjectFormCyclesStatus(t *testing.T) {
	f := form.NewProjectForm()
	v := NewProjectFormView(f)

	v, _ = v.Update(press("tab"))
	v, _ = v.Update(press("tab"))
	_, _ = v.Update(press(" "))
	if f.Status != model.ProjectPaused {
		t.Errorf("Status = %q, want %q", f.Status, model.ProjectPaused)
	}
}

func TestUsersDeleteNeedsConfirmation(t *testing.T) {
	users := []model.User{
		{Key: model.Persisted("u1"), Name: "Ana", Email: "ana@example.com", Role: model.RoleAdmin},
		{Key: model.Persisted("u2"), Name: "Juan", Email: "juan@example.com", Role: model.RoleUser},
	}
	v := NewUsersView().SetSize(100, 30).SetState(dashboard.State{Users: users})

	v, _ = v.Update(press("j"))
	v, cmd := v.Update(press("d"))
	if cmd != nil {
		t.Fatalf("d sent %#v before confirmation", result(cmd))
	}
	_, cmd = v.Update(press("y"))
	if got, ok := result(cmd).(DeleteUserRequest); !ok || got.Key != model.Persisted("u2") {
		t.Errorf("confirm = %#v, want DeleteUserRequest{u2}", result(cmd))
	}
}

func TestOfflineRetry(t *testing.T) {
	v := NewOfflineView("http://localhost:8000/api").SetSize(80, 24)

	_, cmd := v.Update(press("r"))
	if _, ok := result(cmd).(RetryRequest); !ok {
		t.Errorf("r = %#v, want RetryRequest", result(cmd))
	}

	// no retry while a check is running
	v = v.SetState(dashboard.State{Loading: true})
	if _, cmd = v.Update(press("r")); cmd != nil {
		t.Errorf("r while loading = %#v", result(cmd))
	}
	if !strings.Contains(v.View(), "localhost:8000") {
		t.Errorf("offline view does not name the backend:\n%s", v.View())
	}
}
