package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dori/tablero/internal/model"
)

func taskDefaults(in *model.TaskInput) error {
	if in.ProjectID == "" {
		return errors.New("task: missing project id")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	// the flag and the status must agree whichever one the caller set
	in.Completed = in.Completed || in.Status == model.StatusCompleted
	if in.Completed {
		in.Status = model.StatusCompleted
	}
	return nil
}

// CreateTask creates a task inside the project named by in.ProjectID
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	if err := taskDefaults(&in); err != nil {
		return nil, err
	}

	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask replaces the fields of a task
func (c *Client) UpdateTask(ctx context.Context, id model.ID, in model.TaskInput) (*model.Task, error) {
	path, err := idPath("/tasks", id)
	if err != nil {
		return nil, err
	}
	if err := taskDefaults(&in); err != nil {
		return nil, err
	}

	var t model.Task
	if err := c.do(ctx, http.MethodPut, path, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id model.ID) error {
	path, err := idPath("/tasks", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
