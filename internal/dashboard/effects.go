package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/model"
)

// Repository is the remote API the dashboard talks to. *api.Client
// implements it.
type Repository interface {
	CheckHealth(ctx context.Context) health.Result

	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id model.ID) (*model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, id model.ID) error
	ListProjectTasks(ctx context.Context, id model.ID) ([]model.Task, error)

	CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id model.ID, in model.TaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, id model.ID) error

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, in model.UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id model.ID, in model.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id model.ID) error

	ProjectStats(ctx context.Context) ([]model.ProjectStat, error)
	TaskTimeline(ctx context.Context) ([]model.TimelineEntry, error)
}

// Op is one dashboard operation. Begin (if set) is applied before Run
// starts; the action Run returns is applied when it finishes.
type Op struct {
	Name  string
	Begin Action
	Run   func(ctx context.Context) Action
}

// Effects builds Ops against a Repository
type Effects struct {
	repo Repository
	log  *slog.Logger
}

// NewEffects creates an Effects. A nil logger discards output.
func NewEffects(repo Repository, logger *slog.Logger) *Effects {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Effects{repo: repo, log: logger.With("component", "dashboard")}
}

func (e *Effects) fail(op string, err error) Action {
	e.log.Warn("operation failed", "op", op, "err", err)
	return Failed{Err: err}
}

// Startup checks backend health and, only if it is healthy, loads the
// project list.
func (e *Effects) Startup() Op {
	return Op{
		Name:  "startup",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			res := e.repo.CheckHealth(ctx)
			if !res.OK() {
				e.log.Warn("backend unhealthy", "reason", res.Reason)
				return HealthChecked{Result: res}
			}
			return Batch{HealthChecked{Result: res}, e.loadProjects(ctx)}
		},
	}
}

// LoadProjects replaces the project list
func (e *Effects) LoadProjects() Op {
	return Op{Name: "load projects", Begin: Started{}, Run: e.loadProjects}
}

func (e *Effects) loadProjects(ctx context.Context) Action {
	projects, err := e.repo.ListProjects(ctx)
	if err != nil {
		return e.fail("load projects", err)
	}
	return ProjectsLoaded{Projects: projects}
}

// SelectProject opens the detail of project id. Only the most recent
// selection in s is honoured; older responses are discarded.
func (e *Effects) SelectProject(s State, id model.ID) Op {
	seq := s.SelectSeq + 1
	return Op{
		Name:  "select project",
		Begin: SelectStarted{Seq: seq},
		Run: func(ctx context.Context) Action {
			p, err := e.repo.GetProject(ctx, id)
			if err != nil {
				e.log.Warn("operation failed", "op", "select project", "id", id, "err", err)
				return SelectFailed{Seq: seq, Err: err}
			}
			tasks, err := e.repo.ListProjectTasks(ctx, id)
			if err != nil {
				e.log.Warn("operation failed", "op", "select project tasks", "id", id, "err", err)
				return SelectFailed{Seq: seq, Err: err}
			}
			return ProjectSelected{Seq: seq, Detail: Detail{Project: *p, Tasks: tasks}}
		},
	}
}

// BackToDashboard closes the project detail
func (e *Effects) BackToDashboard() Op {
	return Op{Name: "back", Begin: BackToDashboard{}}
}

func (e *Effects) CreateProject(in model.ProjectInput) Op {
	return Op{
		Name:  "create project",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			p, err := e.repo.CreateProject(ctx, in)
			if err != nil {
				return e.fail("create project", err)
			}
			return ProjectCreated{Project: *p}
		},
	}
}

func (e *Effects) UpdateProject(id model.ID, in model.ProjectInput) Op {
	return Op{
		Name:  "update project",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			p, err := e.repo.UpdateProject(ctx, id, in)
			if err != nil {
				return e.fail("update project", err)
			}
			return ProjectUpdated{ID: id, Project: *p}
		},
	}
}

// DeleteProject removes a project; the list is only changed once the
// server confirms.
func (e *Effects) DeleteProject(id model.ID) Op {
	return Op{
		Name:  "delete project",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			if err := e.repo.DeleteProject(ctx, id); err != nil {
				return e.fail("delete project", err)
			}
			return ProjectDeleted{ID: id}
		},
	}
}

// selectedProject returns the id of the open project
func selectedProject(s State) (model.ID, error) {
	if s.Selected == nil {
		return "", ErrNoProjectSelected
	}
	id, ok := s.Selected.ProjectID()
	if !ok {
		return "", ErrNotPersisted
	}
	return id, nil
}

// targetTask resolves k against the open project
func targetTask(s State, k model.Key) (model.ID, model.Task, model.ID, error) {
	pid, err := selectedProject(s)
	if err != nil {
		return "", model.Task{}, "", err
	}
	t, ok := s.Selected.Task(k)
	if !ok {
		return "", model.Task{}, "", fmt.Errorf("task %s: %w", k, ErrNotFound)
	}
	id, ok := t.Key.ID()
	if !ok {
		return "", model.Task{}, "", fmt.Errorf("task %s: %w", k, ErrNotPersisted)
	}
	return pid, t, id, nil
}

// CreateTask adds a task to the open project. The payload always carries
// the open project's id, whatever in says.
func (e *Effects) CreateTask(s State, in model.TaskInput) (Op, error) {
	pid, err := selectedProject(s)
	if err != nil {
		return Op{}, err
	}
	in.ProjectID = pid

	return Op{
		Name:  "create task",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			t, err := e.repo.CreateTask(ctx, in)
			if err != nil {
				return e.fail("create task", err)
			}
			return TaskCreated{ProjectID: pid, Task: *t}
		},
	}, nil
}

func (e *Effects) UpdateTask(s State, k model.Key, in model.TaskInput) (Op, error) {
	pid, _, id, err := targetTask(s, k)
	if err != nil {
		return Op{}, err
	}
	in.ProjectID = pid
	return e.updateTask("update task", pid, k, id, in), nil
}

// CompleteTask marks a task completed through a full update round trip
func (e *Effects) CompleteTask(s State, k model.Key) (Op, error) {
	pid, t, id, err := targetTask(s, k)
	if err != nil {
		return Op{}, err
	}
	t.MarkCompleted()
	in := t.Input()
	in.ProjectID = pid
	return e.updateTask("complete task", pid, k, id, in), nil
}

func (e *Effects) updateTask(name string, pid model.ID, k model.Key, id model.ID, in model.TaskInput) Op {
	return Op{
		Name:  name,
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			t, err := e.repo.UpdateTask(ctx, id, in)
			if err != nil {
				return e.fail(name, err)
			}
			return TaskUpdated{ProjectID: pid, Key: k, Task: *t}
		},
	}
}

func (e *Effects) DeleteTask(s State, k model.Key) (Op, error) {
	pid, _, id, err := targetTask(s, k)
	if err != nil {
		return Op{}, err
	}
	return Op{
		Name:  "delete task",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			if err := e.repo.DeleteTask(ctx, id); err != nil {
				return e.fail("delete task", err)
			}
			return TaskDeleted{ProjectID: pid, Key: k}
		},
	}, nil
}

func (e *Effects) LoadUsers() Op {
	return Op{
		Name:  "load users",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			users, err := e.repo.ListUsers(ctx)
			if err != nil {
				return e.fail("load users", err)
			}
			return UsersLoaded{Users: users}
		},
	}
}

func (e *Effects) CreateUser(in model.UserInput) Op {
	return Op{
		Name:  "create user",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			u, err := e.repo.CreateUser(ctx, in)
			if err != nil {
				return e.fail("create user", err)
			}
			return UserCreated{User: *u}
		},
	}
}

func targetUser(s State, k model.Key) (model.ID, error) {
	u, ok := s.User(k)
	if !ok {
		return "", fmt.Errorf("user %s: %w", k, ErrNotFound)
	}
	id, ok := u.Key.ID()
	if !ok {
		return "", fmt.Errorf("user %s: %w", k, ErrNotPersisted)
	}
	return id, nil
}

func (e *Effects) UpdateUser(s State, k model.Key, in model.UserInput) (Op, error) {
	id, err := targetUser(s, k)
	if err != nil {
		return Op{}, err
	}
	return Op{
		Name:  "update user",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			u, err := e.repo.UpdateUser(ctx, id, in)
			if err != nil {
				return e.fail("update user", err)
			}
			return UserUpdated{Key: k, User: *u}
		},
	}, nil
}

func (e *Effects) DeleteUser(s State, k model.Key) (Op, error) {
	id, err := targetUser(s, k)
	if err != nil {
		return Op{}, err
	}
	return Op{
		Name:  "delete user",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			if err := e.repo.DeleteUser(ctx, id); err != nil {
				return e.fail("delete user", err)
			}
			return UserDeleted{Key: k}
		},
	}, nil
}

// LoadReport fetches both report endpoints concurrently. Nothing is
// applied unless both succeed.
func (e *Effects) LoadReport() Op {
	return Op{
		Name:  "load report",
		Begin: Started{},
		Run: func(ctx context.Context) Action {
			var r model.Report
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				stats, err := e.repo.ProjectStats(gctx)
				r.Stats = stats
				return err
			})
			g.Go(func() error {
				timeline, err := e.repo.TaskTimeline(gctx)
				r.Timeline = timeline
				return err
			})
			if err := g.Wait(); err != nil {
				return e.fail("load report", err)
			}
			return ReportLoaded{Report: r}
		},
	}
}

// Refresh reloads the project list and then, if a detail is open, the
// detail.
func (e *Effects) Refresh(s State) []Op {
	ops := []Op{e.LoadProjects()}
	if s.View == ViewDetail && s.Selected != nil {
		if id, ok := s.Selected.ProjectID(); ok {
			ops = append(ops, e.SelectProject(s, id))
		}
	}
	return ops
}

func (e *Effects) Navigate(v View) Op {
	return Op{Name: "navigate", Begin: Navigated{View: v}}
}

func (e *Effects) DismissError() Op {
	return Op{Name: "dismiss", Begin: ErrorDismissed{}}
}
