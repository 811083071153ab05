package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dori/tablero/internal/model"
)

// Controller runs operations one after another and keeps the resulting
// state. The CLI uses it; the TUI drives Effects directly.
type Controller struct {
	mu    sync.Mutex
	state State
	fx    *Effects
}

// NewController creates a controller with an empty dashboard state
func NewController(repo Repository, logger *slog.Logger) *Controller {
	return &Controller{fx: NewEffects(repo, logger)}
}

// Effects exposes the op builder shared with the TUI
func (c *Controller) Effects() *Effects {
	return c.fx
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) apply(a Action) {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	c.mu.Unlock()
}

// Run applies op.Begin, performs op.Run and applies its result. It
// returns the error carried by the result, if any.
func (c *Controller) Run(ctx context.Context, op Op) error {
	if op.Begin != nil {
		c.apply(op.Begin)
	}
	if op.Run == nil {
		return nil
	}
	result := op.Run(ctx)
	c.apply(result)
	return Err(result)
}

// build runs an op whose construction needs the current state
func (c *Controller) build(ctx context.Context, mk func(State) (Op, error)) error {
	op, err := mk(c.State())
	if err != nil {
		return err
	}
	return c.Run(ctx, op)
}

// Startup returns ErrUnhealthy (wrapped with the reason) when the backend
// failed its health check.
func (c *Controller) Startup(ctx context.Context) error {
	if err := c.Run(ctx, c.fx.Startup()); err != nil {
		return err
	}
	if s := c.State(); s.Offline() {
		return fmt.Errorf("%w: %s", ErrUnhealthy, s.Health.Reason)
	}
	return nil
}

func (c *Controller) LoadProjects(ctx context.Context) error {
	return c.Run(ctx, c.fx.LoadProjects())
}

func (c *Controller) SelectProject(ctx context.Context, id model.ID) error {
	c.mu.Lock()
	op := c.fx.SelectProject(c.state, id)
	c.state = Reduce(c.state, op.Begin)
	c.mu.Unlock()

	result := op.Run(ctx)
	c.apply(result)
	return Err(result)
}

func (c *Controller) BackToDashboard() {
	c.apply(BackToDashboard{})
}

func (c *Controller) CreateProject(ctx context.Context, in model.ProjectInput) error {
	return c.Run(ctx, c.fx.CreateProject(in))
}

func (c *Controller) UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) error {
	return c.Run(ctx, c.fx.UpdateProject(id, in))
}

func (c *Controller) DeleteProject(ctx context.Context, id model.ID) error {
	return c.Run(ctx, c.fx.DeleteProject(id))
}

func (c *Controller) CreateTask(ctx context.Context, in model.TaskInput) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.CreateTask(s, in) })
}

func (c *Controller) UpdateTask(ctx context.Context, k model.Key, in model.TaskInput) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.UpdateTask(s, k, in) })
}

func (c *Controller) CompleteTask(ctx context.Context, k model.Key) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.CompleteTask(s, k) })
}

func (c *Controller) DeleteTask(ctx context.Context, k model.Key) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.DeleteTask(s, k) })
}

func (c *Controller) LoadUsers(ctx context.Context) error {
	return c.Run(ctx, c.fx.LoadUsers())
}

func (c *Controller) CreateUser(ctx context.Context, in model.UserInput) error {
	return c.Run(ctx, c.fx.CreateUser(in))
}

func (c *Controller) UpdateUser(ctx context.Context, k model.Key, in model.UserInput) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.UpdateUser(s, k, in) })
}

func (c *Controller) DeleteUser(ctx context.Context, k model.Key) error {
	return c.build(ctx, func(s State) (Op, error) { return c.fx.DeleteUser(s, k) })
}

func (c *Controller) LoadReport(ctx context.Context) error {
	return c.Run(ctx, c.fx.LoadReport())
}

// Refresh reloads the project list, then the open detail if there is one.
func (c *Controller) Refresh(ctx context.Context) error {
	for _, op := range c.fx.Refresh(c.State()) {
		if err := c.Run(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) Navigate(v View) {
	c.apply(Navigated{View: v})
}

func (c *Controller) DismissError() {
	c.apply(ErrorDismissed{})
}
