package model

import (
	"encoding/json"
	"time"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Activo"
	ProjectPaused    ProjectStatus = "Pausado"
	ProjectCompleted ProjectStatus = "Completado"
)

// ProjectStatuses lists the statuses in display order.
var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectPaused, ProjectCompleted}

// Label returns the display name for a status
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectPaused:
		return "Paused"
	case ProjectCompleted:
		return "Completed"
	default:
		return "Active"
	}
}

// Project represents a unit of work holding tasks
type Project struct {
	Key         Key
	Name        string
	Description string
	Status      ProjectStatus
	Users       int
	CreatedAt   time.Time

	// Summary counters as reported by the server (not derived locally)
	Total     int
	Completed int
	Pending   int
}

// Completion returns the completion percentage from the server counters
func (p *Project) Completion() int {
	return CompletionPercent(p.Completed, p.Total)
}

// ProjectInput is the payload for creating or updating a project
type ProjectInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Users       int           `json:"users"`
}

// Input returns the editable fields of p as a payload
func (p *Project) Input() ProjectInput {
	return ProjectInput{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Users:       p.Users,
	}
}

type projectWire struct {
	ID          string        `json:"_id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Users       int           `json:"users"`
	CreatedAt   string        `json:"created_at,omitempty"`
	Total       int           `json:"total"`
	Completed   int           `json:"completadas"`
	Pending     int           `json:"pendientes"`
}

// UnmarshalJSON decodes the server representation of a project
func (p *Project) UnmarshalJSON(data []byte) error {
	var w projectWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Project{
		Key:         keyFor(w.ID),
		Name:        w.Name,
		Description: w.Description,
		Status:      w.Status,
		Users:       w.Users,
		Total:       w.Total,
		Completed:   w.Completed,
		Pending:     w.Pending,
	}
	if p.Status == "" {
		p.Status = ProjectActive
	}
	p.CreatedAt = parseTimestamp(w.CreatedAt)
	return nil
}

// MarshalJSON encodes the project using the server field names. Pending
// keys are never written out.
func (p Project) MarshalJSON() ([]byte, error) {
	w := projectWire{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Users:       p.Users,
		Total:       p.Total,
		Completed:   p.Completed,
		Pending:     p.Pending,
	}
	if id, ok := p.Key.ID(); ok {
		w.ID = string(id)
	}
	w.CreatedAt = formatTimestamp(p.CreatedAt)
	return json.Marshal(w)
}
