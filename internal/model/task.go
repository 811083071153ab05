package model

import (
	"encoding/json"
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en progreso"
	StatusCompleted  Status = "completada"
)

// Statuses lists task statuses in board column order
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Label returns the display name for a status
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Pending"
	}
}

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

// Priorities lists priorities from highest to lowest
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Label returns the display name for a priority
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// Weight returns a numeric weight for sorting by priority
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Task represents an actionable item inside a project
type Task struct {
	Key         Key
	Description string
	Priority    Priority
	DueDate     *Date
	Assignee    string // display name of a user, not a user ID
	Completed   bool
	Status      Status
	ProjectID   ID
	CreatedAt   time.Time
}

// MarkCompleted sets the completion flag and the status together
func (t *Task) MarkCompleted() {
	t.Completed = true
	t.Status = StatusCompleted
}

// IsOverdue returns true if the task is past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return now.After(t.DueDate.AddDate(0, 0, 1))
}

// TaskInput is the payload for creating or updating a task
type TaskInput struct {
	Description string   `json:"descripcion"`
	Priority    Priority `json:"prioridad"`
	Status      Status   `json:"estado"`
	Completed   bool     `json:"completada"`
	Assignee    *string  `json:"usuario"`
	ProjectID   ID       `json:"project_id"`
	DueDate     *Date    `json:"fecha_limite"`
}

// Input returns the fields of t as a payload. An empty assignee is sent
// as null.
func (t *Task) Input() TaskInput {
	in := TaskInput{
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Completed:   t.Completed,
		ProjectID:   t.ProjectID,
		DueDate:     t.DueDate,
	}
	if t.Assignee != "" {
		a := t.Assignee
		in.Assignee = &a
	}
	return in
}

type taskWire struct {
	MongoID     string   `json:"_id,omitempty"`
	ID          string   `json:"id,omitempty"`
	Description string   `json:"descripcion"`
	Priority    Priority `json:"prioridad"`
	DueDate     *string  `json:"fecha_limite"`
	Assignee    *string  `json:"usuario"`
	Completed   bool     `json:"completada"`
	Status      Status   `json:"estado"`
	ProjectID   string   `json:"project_id"`
	CreatedAt   string   `json:"creada_en,omitempty"`
}

// UnmarshalJSON decodes the server representation of a task
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.MongoID
	if id == "" {
		id = w.ID
	}
	*t = Task{
		Key:         keyFor(id),
		Description: w.Description,
		Priority:    w.Priority,
		Completed:   w.Completed,
		Status:      w.Status,
		ProjectID:   ID(w.ProjectID),
		CreatedAt:   parseTimestamp(w.CreatedAt),
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
		if t.Completed {
			t.Status = StatusCompleted
		}
	}
	if w.Assignee != nil {
		t.Assignee = *w.Assignee
	}
	if w.DueDate != nil {
		// Older records carry an empty string instead of null.
		if d, err := ParseDate(*w.DueDate); err == nil {
			t.DueDate = &d
		} else if ts := parseTimestamp(*w.DueDate); !ts.IsZero() {
			t.DueDate = &Date{Time: ts}
		}
	}
	return nil
}

// MarshalJSON encodes the task using the server field names
func (t Task) MarshalJSON() ([]byte, error) {
	w := taskWire{
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		Status:      t.Status,
		ProjectID:   string(t.ProjectID),
		CreatedAt:   formatTimestamp(t.CreatedAt),
	}
	if id, ok := t.Key.ID(); ok {
		w.MongoID = string(id)
		w.ID = string(id)
	}
	if t.Assignee != "" {
		a := t.Assignee
		w.Assignee = &a
	}
	if t.DueDate != nil {
		d := t.DueDate.String()
		w.DueDate = &d
	}
	return json.Marshal(w)
}
