package devserver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dori/tablero/internal/model"
	"github.com/google/uuid"
)

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u  model.User
		id string
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Key = model.Persisted(model.ID(id))
	return u, nil
}

// ListUsers returns every user in creation order
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.QueryContext(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser returns a single user
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.QueryRowContext(ctx, `SELECT id, name, email, role, created_at FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user
func (s *Store) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, created_at) VALUES (?, ?, ?, ?, ?)
	`, id, in.Name, in.Email, string(in.Role), now)
	if err != nil {
		return nil, err
	}
	return &model.User{Key: model.Persisted(model.ID(id)), Name: in.Name, Email: in.Email, Role: in.Role, CreatedAt: now}, nil
}

// UpdateUser replaces the fields of a user
func (s *Store) UpdateUser(ctx context.Context, id string, in model.UserInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	res, err := s.ExecContext(ctx, `UPDATE users SET name = ?, email = ?, role = ? WHERE id = ?`,
		in.Name, in.Email, string(in.Role), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// DeleteUser deletes a user. Tasks keep the assignee name they had.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
