package devserver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dori/tablero/internal/model"
	"github.com/google/uuid"
)

const taskColumns = `id, descripcion, prioridad, estado, completada, usuario, project_id, fecha_limite, creada_en`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var (
		t         model.Task
		id, pid   string
		completed int
		assignee  sql.NullString
		due       sql.NullString
	)
	err := row.Scan(&id, &t.Description, &t.Priority, &t.Status, &completed, &assignee, &pid, &due, &t.CreatedAt)
	if err != nil {
		return model.Task{}, err
	}
	t.Key = model.Persisted(model.ID(id))
	t.ProjectID = model.ID(pid)
	t.Completed = completed == 1
	t.Assignee = assignee.String
	if due.Valid {
		if d, err := model.ParseDate(due.String); err == nil {
			t.DueDate = &d
		}
	}
	return t, nil
}

// taskArgs normalises a task payload into column values
func taskArgs(in model.TaskInput) (completed int, assignee, due any) {
	if in.Completed || in.Status == model.StatusCompleted {
		completed = 1
	}
	if in.Assignee != nil && *in.Assignee != "" {
		assignee = *in.Assignee
	}
	if in.DueDate != nil {
		due = in.DueDate.String()
	}
	return completed, assignee, due
}

func withTaskDefaults(in model.TaskInput) model.TaskInput {
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	if in.Completed {
		in.Status = model.StatusCompleted
	}
	return in
}

// ListTasks returns the tasks of a project in creation order
func (s *Store) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY creada_en, id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns a single task
func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	t, err := scanTask(s.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) projectExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// CreateTask inserts a task into an existing project
func (s *Store) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	in = withTaskDefaults(in)
	ok, err := s.projectExists(ctx, string(in.ProjectID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	completed, assignee, due := taskArgs(in)

	_, err = s.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, in.Description, string(in.Priority), string(in.Status), completed, assignee, string(in.ProjectID), due, now)
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// UpdateTask replaces every field of a task
func (s *Store) UpdateTask(ctx context.Context, id string, in model.TaskInput) (*model.Task, error) {
	in = withTaskDefaults(in)
	ok, err := s.projectExists(ctx, string(in.ProjectID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	completed, assignee, due := taskArgs(in)
	res, err := s.ExecContext(ctx, `
		UPDATE tasks
		SET descripcion = ?, prioridad = ?, estado = ?, completada = ?, usuario = ?, project_id = ?, fecha_limite = ?
		WHERE id = ?
	`, in.Description, string(in.Priority), string(in.Status), completed, assignee, string(in.ProjectID), due, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// DeleteTask deletes a task
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
