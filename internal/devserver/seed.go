package devserver

import (
	"context"
	"fmt"

	"github.com/dori/tablero/internal/model"
)

type seedTask struct {
	desc     string
	priority model.Priority
	status   model.Status
	assignee string
}

var seedData = []struct {
	project model.ProjectInput
	tasks   []seedTask
}{
	{
		project: model.ProjectInput{Name: "Sistema de Gestión", Description: "Desarrollo del sistema de gestión de proyectos", Status: model.ProjectActive, Users: 3},
		tasks: []seedTask{
			{"Diseño de la base de datos", model.PriorityHigh, model.StatusCompleted, "Ana Martínez"},
			{"Implementación de API", model.PriorityHigh, model.StatusCompleted, "Carlos Ruiz"},
			{"Desarrollo del frontend", model.PriorityMedium, model.StatusInProgress, "Juan Pérez"},
			{"Pruebas de integración", model.PriorityMedium, model.StatusPending, ""},
			{"Configuración del servidor", model.PriorityHigh, model.StatusCompleted, "Ana Martínez"},
			{"Documentación técnica", model.PriorityLow, model.StatusPending, ""},
		},
	},
	{
		project: model.ProjectInput{Name: "Portal de Clientes", Description: "Creación del nuevo portal para clientes", Status: model.ProjectActive, Users: 2},
		tasks: []seedTask{
			{"Diseño de la interfaz", model.PriorityHigh, model.StatusCompleted, "Ana Martínez"},
			{"Desarrollo del backend", model.PriorityHigh, model.StatusInProgress, "Carlos Ruiz"},
			{"Implementación de autenticación", model.PriorityMedium, model.StatusPending, ""},
		},
	},
	{
		project: model.ProjectInput{Name: "Migración de Datos", Description: "Migración de la base de datos a la nueva versión", Status: model.ProjectCompleted, Users: 1},
		tasks: []seedTask{
			{"Análisis de datos existentes", model.PriorityHigh, model.StatusCompleted, "Juan Pérez"},
			{"Migración de registros", model.PriorityHigh, model.StatusCompleted, "Carlos Ruiz"},
		},
	},
}

var seedUsers = []model.UserInput{
	{Name: "Ana Martínez", Email: "ana.martinez@empresa.com", Role: model.RoleAdmin},
	{Name: "Carlos Ruiz", Email: "carlos.ruiz@empresa.com", Role: model.RoleManager},
	{Name: "Juan Pérez", Email: "juan.perez@empresa.com", Role: model.RoleUser},
}

// Seed fills an empty database with sample users, projects and tasks. It
// does nothing if any project exists.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, u := range seedUsers {
		if _, err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Name, err)
		}
	}

	for _, sd := range seedData {
		p, err := s.CreateProject(ctx, sd.project)
		if err != nil {
			return fmt.Errorf("seed project %s: %w", sd.project.Name, err)
		}
		id, _ := p.Key.ID()
		for _, st := range sd.tasks {
			in := model.TaskInput{
				Description: st.desc,
				Priority:    st.priority,
				Status:      st.status,
				Completed:   st.status == model.StatusCompleted,
				ProjectID:   id,
			}
			if st.assignee != "" {
				a := st.assignee
				in.Assignee = &a
			}
			if _, err := s.CreateTask(ctx, in); err != nil {
				return fmt.Errorf("seed task %s: %w", st.desc, err)
			}
		}
	}
	return nil
}
