package devserver

import (
	"context"
	"database/sql"

	"github.com/dori/tablero/internal/model"
)

// ProjectStats returns task totals per project
func (s *Store) ProjectStats(ctx context.Context) ([]model.ProjectStat, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT p.id, p.name,
		       COUNT(t.id),
		       COALESCE(SUM(t.completada), 0)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.created_at, p.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.ProjectStat{}
	for rows.Next() {
		var st model.ProjectStat
		if err := rows.Scan(&st.ProjectID, &st.Name, &st.TotalTasks, &st.CompletedTasks); err != nil {
			return nil, err
		}
		st.PendingTasks = st.TotalTasks - st.CompletedTasks
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// TaskTimeline returns every task with the name of its project
func (s *Store) TaskTimeline(ctx context.Context) ([]model.TimelineEntry, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT t.id, t.descripcion, p.name, t.estado, t.completada, t.prioridad, t.fecha_limite
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		ORDER BY p.created_at, t.creada_en, t.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.TimelineEntry{}
	for rows.Next() {
		var (
			e         model.TimelineEntry
			completed int
			due       sql.NullString
		)
		if err := rows.Scan(&e.TaskID, &e.TaskName, &e.ProjectName, &e.Status, &completed, &e.Priority, &due); err != nil {
			return nil, err
		}
		e.Completed = completed == 1
		if due.Valid {
			d := due.String
			e.DueDate = &d
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
