package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
	"github.com/dori/tablero/internal/ui/views"
)

var errFake = errors.New("fake failure")

// fakeRepo serves canned data and records task updates
type fakeRepo struct {
	mu      sync.Mutex
	healthy bool
	updates []model.TaskInput
	created []model.ProjectInput
	failAdd bool
}

func (f *fakeRepo) CheckHealth(ctx context.Context) health.Result {
	if f.healthy {
		return health.Result{Status: health.Healthy}
	}
	return health.Result{Status: health.Unhealthy, Reason: "connection refused"}
}

func (f *fakeRepo) ListProjects(ctx context.Context) ([]model.Project, error) {
	return []model.Project{
		{Key: model.Persisted("p1"), Name: "Website", Status: model.ProjectActive, Total: 2, Completed: 1},
		{Key: model.Persisted("p2"), Name: "Mobile app", Status: model.ProjectPaused},
	}, nil
}

func (f *fakeRepo) GetProject(ctx context.Context, id model.ID) (*model.Project, error) {
	return &model.Project{Key: model.Persisted(id), Name: "Website", Status: model.ProjectActive}, nil
}

func (f *fakeRepo) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd {
		return nil, errFake
	}
	f.created = append(f.created, in)
	return &model.Project{Key: model.Persisted("p3"), Name: in.Name, Status: in.Status}, nil
}

func (f *fakeRepo) UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) (*model.Project, error) {
	return &model.Project{Key: model.Persisted(id), Name: in.Name, Status: in.Status}, nil
}

func (f *fakeRepo) DeleteProject(ctx context.Context, id model.ID) error { return nil }

func (f *fakeRepo) ListProjectTasks(ctx context.Context, id model.ID) ([]model.Task, error) {
	return []model.Task{
		{Key: model.Persisted("t1"), Description: "Design", Status: model.StatusPending, Priority: model.PriorityHigh, ProjectID: id},
		{Key: model.Persisted("t2"), Description: "Deploy", Status: model.StatusCompleted, Completed: true, ProjectID: id},
	}, nil
}

func (f *fakeRepo) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	return &model.Task{Key: model.Persisted("t3"), Description: in.Description, Status: in.Status, ProjectID: in.ProjectID}, nil
}

func (f *fakeRepo) UpdateTask(ctx context.Context, id model.ID, in model.TaskInput) (*model.Task, error) {
	f.mu.Lock()
	f.updates = append(f.updates, in)
	f.mu.Unlock()
	return &model.Task{
		Key:         model.Persisted(id),
		Description: in.Description,
		Status:      in.Status,
		Completed:   in.Completed,
		ProjectID:   in.ProjectID,
	}, nil
}

func (f *fakeRepo) DeleteTask(ctx context.Context, id model.ID) error { return nil }

func (f *fakeRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	return []model.User{{Key: model.Persisted("u1"), Name: "Ana", Email: "ana@example.com", Role: model.RoleAdmin}}, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	return &model.User{Key: model.Persisted("u2"), Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, id model.ID, in model.UserInput) (*model.User, error) {
	return &model.User{Key: model.Persisted(id), Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, id model.ID) error { return nil }

func (f *fakeRepo) ProjectStats(ctx context.Context) ([]model.ProjectStat, error) {
	return []model.ProjectStat{{ProjectID: "p1", Name: "Website", TotalTasks: 2, CompletedTasks: 1, PendingTasks: 1}}, nil
}

func (f *fakeRepo) TaskTimeline(ctx context.Context) ([]model.TimelineEntry, error) {
	return []model.TimelineEntry{{TaskID: "t1", TaskName: "Design", ProjectName: "Website", Status: model.StatusPending}}, nil
}

func newTestModel(t *testing.T, repo *fakeRepo) RootModel {
	t.Helper()
	m := NewRootModel(context.Background(), dashboard.NewEffects(repo, nil), Options{PageSize: 10})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(RootModel)
}

// drain runs cmd and feeds every message it produces back into m until
// nothing is left to run.
func drain(t *testing.T, m RootModel, cmd tea.Cmd) RootModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, cmd := m.Update(msg)
			m = next.(RootModel)
			queue = append(queue, cmd)
		}
	}
	return m
}

func send(t *testing.T, m RootModel, msg tea.Msg) RootModel {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(RootModel), cmd)
}

func started(t *testing.T, repo *fakeRepo) RootModel {
	t.Helper()
	m := newTestModel(t, repo)
	return drain(t, m, m.Init())
}

func TestStartupLoadsProjects(t *testing.T) {
	m := newTestModel(t, &fakeRepo{healthy: true})
	if !m.State().Loading {
		t.Fatal("not loading before the startup check ran")
	}

	m = drain(t, m, m.Init())
	s := m.State()
	if s.Offline() || s.Loading {
		t.Fatalf("after startup: offline=%v loading=%v", s.Offline(), s.Loading)
	}
	if len(s.Projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(s.Projects))
	}
	if !strings.Contains(m.View(), "Website") {
		t.Errorf("dashboard does not list the project:\n%s", m.View())
	}
}

func TestStartupOffline(t *testing.T) {
	repo := &fakeRepo{}
	m := started(t, repo)

	if !m.State().Offline() {
		t.Fatal("state is not offline")
	}
	if m.State().Projects != nil {
		t.Error("projects were loaded although the backend is down")
	}
	if !strings.Contains(m.View(), "Cannot reach the server") {
		t.Errorf("offline screen not shown:\n%s", m.View())
	}

	// view switching is blocked while offline
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if m.State().View != dashboard.ViewDashboard {
		t.Errorf("view changed to %s while offline", m.State().View)
	}

	// retry recovers once the backend is up
	repo.healthy = true
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.State().Offline() || len(m.State().Projects) != 2 {
		t.Errorf("retry: offline=%v projects=%d", m.State().Offline(), len(m.State().Projects))
	}
}

func TestOpenProjectAndCompleteTask(t *testing.T) {
	repo := &fakeRepo{healthy: true}
	m := started(t, repo)

	m = send(t, m, views.OpenProjectRequest{ID: "p1"})
	s := m.State()
	if s.View != dashboard.ViewDetail || s.Selected == nil {
		t.Fatalf("detail not open: view=%s", s.View)
	}
	if len(s.Selected.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(s.Selected.Tasks))
	}
	if len(s.Users) != 1 {
		t.Errorf("assignees not loaded: %d users", len(s.Users))
	}

	m = send(t, m, views.CompleteTaskRequest{Key: model.Persisted("t1")})
	if len(repo.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(repo.updates))
	}
	in := repo.updates[0]
	if !in.Completed || in.Status != model.StatusCompleted || in.ProjectID != "p1" {
		t.Errorf("update payload = %+v", in)
	}
	task, _ := m.State().Selected.Task(model.Persisted("t1"))
	if !task.Completed {
		t.Error("task not completed in state")
	}

	m = send(t, m, views.BackRequest{})
	if m.State().View != dashboard.ViewDashboard || m.State().Selected != nil {
		t.Errorf("back: view=%s selected=%v", m.State().View, m.State().Selected)
	}
}

func TestOpenProjectStaysLoadingUntilUsersArrive(t *testing.T) {
	m := started(t, &fakeRepo{healthy: true})

	next, cmd := m.Update(views.OpenProjectRequest{ID: "p1"})
	m = next.(RootModel)
	if !m.State().Loading {
		t.Fatal("not loading after opening a project")
	}

	// the board arrives first; the assignee load keeps the indicator up
	next, cmd = m.Update(cmd())
	m = next.(RootModel)
	if m.State().Selected == nil {
		t.Fatal("board not loaded")
	}
	if !m.State().Loading {
		t.Error("loading cleared before the assignees were loaded")
	}
	if cmd == nil {
		t.Fatal("assignees were not requested")
	}

	m = drain(t, m, cmd)
	if m.State().Loading || len(m.State().Users) != 1 {
		t.Errorf("after users: loading=%v users=%d", m.State().Loading, len(m.State().Users))
	}
}

func TestTaskRequestWithoutProjectFails(t *testing.T) {
	m := started(t, &fakeRepo{healthy: true})

	m = send(t, m, views.DeleteTaskRequest{Key: model.Persisted("t1")})
	if !strings.Contains(m.State().Err, dashboard.ErrNoProjectSelected.Error()) {
		t.Errorf("Err = %q", m.State().Err)
	}

	// x dismisses the banner
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.State().Err != "" {
		t.Errorf("error not dismissed: %q", m.State().Err)
	}
}

func TestSubmitProject(t *testing.T) {
	repo := &fakeRepo{healthy: true}
	m := started(t, repo)

	m = send(t, m, views.NavigateRequest{View: dashboard.ViewCreate})
	if m.State().View != dashboard.ViewCreate {
		t.Fatalf("view = %s, want create", m.State().View)
	}

	f := form.NewProjectForm()
	f.Name = "  Backoffice  "
	if err := f.Begin(); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, views.SubmitProjectRequest{Form: f})

	if len(repo.created) != 1 || repo.created[0].Name != "Backoffice" {
		t.Fatalf("created = %+v", repo.created)
	}
	if f.InFlight() {
		t.Error("form still in flight")
	}
	if f.Name != "" {
		t.Errorf("create form kept %q after success", f.Name)
	}
	s := m.State()
	if s.View != dashboard.ViewDashboard || len(s.Projects) != 3 {
		t.Errorf("after create: view=%s projects=%d", s.View, len(s.Projects))
	}
}

func TestSubmitProjectFailureKeepsForm(t *testing.T) {
	repo := &fakeRepo{healthy: true, failAdd: true}
	m := started(t, repo)

	f := form.NewProjectForm()
	f.Name = "Backoffice"
	if err := f.Begin(); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, views.SubmitProjectRequest{Form: f})

	if f.InFlight() || f.Err() == nil {
		t.Errorf("form: inFlight=%v err=%v", f.InFlight(), f.Err())
	}
	if f.Name != "Backoffice" {
		t.Errorf("form lost its values: %q", f.Name)
	}
	if m.State().Err == "" {
		t.Error("no error banner after a failed create")
	}
}

func TestEditUnsavedProjectDoesNotCreate(t *testing.T) {
	repo := &fakeRepo{healthy: true}
	m := started(t, repo)

	f := form.EditProjectForm(model.Project{Key: model.Pending(), Name: "Draft", Status: model.ProjectActive})
	if err := f.Begin(); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, views.SubmitProjectRequest{Form: f})

	if len(repo.created) != 0 {
		t.Fatalf("edit of an unsaved project created %+v", repo.created)
	}
	if n := len(m.State().Projects); n != 2 {
		t.Errorf("got %d projects, want 2", n)
	}
	if !errors.Is(f.Err(), dashboard.ErrNotPersisted) {
		t.Errorf("form err = %v, want ErrNotPersisted", f.Err())
	}
	if f.InFlight() || f.Name != "Draft" {
		t.Errorf("form: inFlight=%v name=%q", f.InFlight(), f.Name)
	}
	if !strings.Contains(m.State().Err, dashboard.ErrNotPersisted.Error()) {
		t.Errorf("Err = %q", m.State().Err)
	}
}

func TestNavigateLoadsReports(t *testing.T) {
	m := started(t, &fakeRepo{healthy: true})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	s := m.State()
	if s.View != dashboard.ViewReports || s.Report == nil {
		t.Fatalf("view=%s report=%v", s.View, s.Report)
	}
	if !strings.Contains(m.View(), "Task timeline") {
		t.Errorf("reports view not rendered:\n%s", m.View())
	}
}

func TestKeyHintsFollowTheme(t *testing.T) {
	t.Cleanup(func() { theme.SetTheme(theme.Nord) })
	theme.SetTheme(theme.Nord)
	m := started(t, &fakeRepo{healthy: true})

	check := func(when string) {
		t.Helper()
		want := theme.Current.Styles
		hs := m.help.Styles
		if hs.ShortKey.GetForeground() != want.HelpKey.GetForeground() {
			t.Errorf("%s: key hint color %v, want %v", when, hs.ShortKey.GetForeground(), want.HelpKey.GetForeground())
		}
		if hs.ShortSeparator.GetForeground() != want.HelpSeparator.GetForeground() {
			t.Errorf("%s: separator color %v, want %v", when, hs.ShortSeparator.GetForeground(), want.HelpSeparator.GetForeground())
		}
	}
	check("startup")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if theme.Current.Theme.Name == "nord" {
		t.Fatal("ctrl+t did not change the theme")
	}
	check("after ctrl+t")
}
