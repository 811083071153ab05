package api

import (
	"context"
	"net/http"

	"github.com/dori/tablero/internal/model"
)

// ListUsers returns every user
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a user. A blank role defaults to "user".
func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	var u model.User
	if err := c.do(ctx, http.MethodPost, "/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the fields of a user
func (c *Client) UpdateUser(ctx context.Context, id model.ID, in model.UserInput) (*model.User, error) {
	path, err := idPath("/users", id)
	if err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	var u model.User
	if err := c.do(ctx, http.MethodPut, path, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	path, err := idPath("/users", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
