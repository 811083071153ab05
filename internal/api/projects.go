package api

import (
	"context"
	"net/http"

	"github.com/dori/tablero/internal/model"
)

// ListProjects returns every project with its task counters
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project
func (c *Client) GetProject(ctx context.Context, id model.ID) (*model.Project, error) {
	path, err := idPath("/projects", id)
	if err != nil {
		return nil, err
	}

	var p model.Project
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a project. A blank status defaults to Activo.
func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	if in.Status == "" {
		in.Status = model.ProjectActive
	}

	var p model.Project
	if err := c.do(ctx, http.MethodPost, "/projects", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject replaces the editable fields of a project
func (c *Client) UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) (*model.Project, error) {
	path, err := idPath("/projects", id)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.ProjectActive
	}

	var p model.Project
	if err := c.do(ctx, http.MethodPut, path, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject deletes a project; the backend removes its tasks with it.
func (c *Client) DeleteProject(ctx context.Context, id model.ID) error {
	path, err := idPath("/projects", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListProjectTasks returns the tasks that belong to a project
func (c *Client) ListProjectTasks(ctx context.Context, id model.ID) ([]model.Task, error) {
	path, err := idPath("/projects", id)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
