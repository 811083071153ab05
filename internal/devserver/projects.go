package devserver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dori/tablero/internal/model"
	"github.com/google/uuid"
)

const projectColumns = `
	p.id, p.name, p.description, p.status, p.users, p.created_at,
	(SELECT COUNT(*) FROM tasks WHERE project_id = p.id) AS total,
	(SELECT COUNT(*) FROM tasks WHERE project_id = p.id AND completada = 1) AS completed`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var (
		p  model.Project
		id string
	)
	err := row.Scan(&id, &p.Name, &p.Description, &p.Status, &p.Users, &p.CreatedAt, &p.Total, &p.Completed)
	if err != nil {
		return model.Project{}, err
	}
	p.Key = model.Persisted(model.ID(id))
	p.Pending = p.Total - p.Completed
	return p, nil
}

// ListProjects returns every project with its task counters
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects p ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project with its counters
func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a project
func (s *Store) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	if in.Status == "" {
		in.Status = model.ProjectActive
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, status, users, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, in.Name, in.Description, string(in.Status), in.Users, now)
	if err != nil {
		return nil, err
	}

	return &model.Project{
		Key:         model.Persisted(model.ID(id)),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Users:       in.Users,
		CreatedAt:   now,
	}, nil
}

// UpdateProject replaces the editable fields of a project
func (s *Store) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error) {
	if in.Status == "" {
		in.Status = model.ProjectActive
	}
	res, err := s.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, status = ?, users = ? WHERE id = ?
	`, in.Name, in.Description, string(in.Status), in.Users, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetProject(ctx, id)
}

// DeleteProject deletes a project and its tasks
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
