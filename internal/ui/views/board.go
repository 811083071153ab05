package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

// BoardMode is the input mode of the board
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeTaskForm
	BoardModeProjectForm
	BoardModeConfirmDeleteTask
	BoardModeConfirmDeleteProject
)

// boardColumns are the task statuses shown as columns, left to right
var boardColumns = model.Statuses

// BoardView is the detail of one project: a column per task status
type BoardView struct {
	width  int
	height int

	detail    *dashboard.Detail
	assignees []model.UserRef
	now       func() time.Time

	column int
	row    int

	mode        BoardMode
	taskForm    TaskFormView
	projectForm ProjectFormView
	deleteKey   model.Key
}

func NewBoardView() BoardView {
	return BoardView{now: time.Now}
}

func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	v.taskForm = v.taskForm.SetSize(width, height)
	v.projectForm = v.projectForm.SetSize(width, height)
	return v
}

// SetState copies the open project out of s. When a different project is
// opened the cursor and any open form are reset.
func (v BoardView) SetState(s dashboard.State) BoardView {
	if s.Selected == nil {
		v.detail = nil
		v.mode = BoardModeNormal
		return v
	}
	if v.detail == nil || v.detail.Project.Key != s.Selected.Project.Key {
		v.column, v.row = 0, 0
		v.mode = BoardModeNormal
	}
	d := *s.Selected
	v.detail = &d
	v.assignees = s.Assignees()
	if v.mode == BoardModeTaskForm {
		v.taskForm = v.taskForm.SetAssignees(v.assignees)
	}
	v.clampCursor()
	return v
}

// CloseForms returns to the board after a successful submission
func (v BoardView) CloseForms() BoardView {
	if v.mode == BoardModeTaskForm || v.mode == BoardModeProjectForm {
		v.mode = BoardModeNormal
	}
	return v
}

// Mode returns the current input mode
func (v BoardView) Mode() BoardMode {
	return v.mode
}

// columnTasks returns the tasks of column i in server order
func (v BoardView) columnTasks(i int) []model.Task {
	if v.detail == nil {
		return nil
	}
	var tasks []model.Task
	for _, t := range v.detail.Tasks {
		if columnOf(t) == i {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// columnOf places a task by status; the completion flag wins over a stale
// status.
func columnOf(t model.Task) int {
	if t.Completed {
		return 2
	}
	switch t.Status {
	case model.StatusInProgress:
		return 1
	case model.StatusCompleted:
		return 2
	default:
		return 0
	}
}

func (v *BoardView) clampCursor() {
	n := len(v.columnTasks(v.column))
	if v.row >= n {
		v.row = n - 1
	}
	if v.row < 0 {
		v.row = 0
	}
}

// Current returns the task under the cursor
func (v BoardView) Current() (model.Task, bool) {
	tasks := v.columnTasks(v.column)
	if v.row < 0 || v.row >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[v.row], true
}

func (v BoardView) Update(msg tea.Msg) (BoardView, tea.Cmd) {
	if v.detail == nil {
		return v, nil
	}

	switch v.mode {
	case BoardModeTaskForm:
		var cmd tea.Cmd
		v.taskForm, cmd = v.taskForm.Update(msg)
		if v.taskForm.Cancelled() {
			v.mode = BoardModeNormal
		}
		return v, cmd

	case BoardModeProjectForm:
		var cmd tea.Cmd
		v.projectForm, cmd = v.projectForm.Update(msg)
		if v.projectForm.Cancelled() {
			v.mode = BoardModeNormal
		}
		return v, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch v.mode {
	case BoardModeConfirmDeleteTask:
		v.mode = BoardModeNormal
		if key.String() == "y" {
			return v, request(DeleteTaskRequest{Key: v.deleteKey})
		}
		return v, nil

	case BoardModeConfirmDeleteProject:
		v.mode = BoardModeNormal
		if key.String() == "y" {
			if id, ok := v.detail.ProjectID(); ok {
				return v, request(DeleteProjectRequest{ID: id})
			}
		}
		return v, nil
	}

	return v.handleNormalMode(key)
}

func (v BoardView) handleNormalMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if v.column > 0 {
			v.column--
			v.clampCursor()
		}

	case "l", "right":
		if v.column < len(boardColumns)-1 {
			v.column++
			v.clampCursor()
		}

	case "j", "down":
		if v.row < len(v.columnTasks(v.column))-1 {
			v.row++
		}

	case "k", "up":
		if v.row > 0 {
			v.row--
		}

	case "a", "n":
		id, ok := v.detail.ProjectID()
		if !ok {
			return v, request(StatusMsg{Message: "this project has no server id yet"})
		}
		v.taskForm = NewTaskFormView(form.NewTaskForm(id, v.assignees)).SetSize(v.width, v.height)
		v.mode = BoardModeTaskForm

	case "e", "enter":
		if t, ok := v.Current(); ok {
			v.taskForm = NewTaskFormView(form.EditTaskForm(t, v.assignees)).SetSize(v.width, v.height)
			v.mode = BoardModeTaskForm
		}

	case "c", "tab":
		if t, ok := v.Current(); ok && !t.Completed {
			return v, request(CompleteTaskRequest{Key: t.Key})
		}

	case "d":
		if t, ok := v.Current(); ok {
			v.deleteKey = t.Key
			v.mode = BoardModeConfirmDeleteTask
		}

	case "E":
		if _, ok := v.detail.ProjectID(); !ok {
			return v, request(StatusMsg{Message: "this project has no server id yet"})
		}
		v.projectForm = NewProjectFormView(form.EditProjectForm(v.detail.Project)).SetSize(v.width, v.height)
		v.mode = BoardModeProjectForm

	case "D":
		v.mode = BoardModeConfirmDeleteProject

	case "esc", "backspace", "b":
		return v, request(BackRequest{})
	}

	return v, nil
}

func (v BoardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.detail == nil {
		return emptyState(v.width, "No project selected")
	}

	switch v.mode {
	case BoardModeTaskForm:
		return v.renderHeader() + "\n\n" + v.taskForm.View()
	case BoardModeProjectForm:
		return v.projectForm.View()
	}

	var footer string
	switch v.mode {
	case BoardModeConfirmDeleteTask:
		t, _ := v.detail.Task(v.deleteKey)
		footer = confirmLine(fmt.Sprintf("Delete task '%s'?", truncate(t.Description, 40)))
	case BoardModeConfirmDeleteProject:
		footer = confirmLine(fmt.Sprintf("Delete project '%s' and all its tasks?", v.detail.Project.Name))
	default:
		footer = hints("h/l: column • j/k: nav • a: add • e: edit • c: complete • d: delete • E: edit project • D: delete project • esc: back")
	}

	return lipgloss.JoinVertical(lipgloss.Left, v.renderHeader(), "", v.renderColumns(), footer)
}

func (v BoardView) renderHeader() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	p := v.detail.Project

	title := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.Title.Render(p.Name), " ",
		badge(p.Status.Label(), t.Project(p.Status)),
	)
	lines := []string{title}
	if p.Description != "" {
		lines = append(lines, styles.Subtitle.Render(truncate(p.Description, v.width-4)))
	}

	total, completed := model.TaskCounts(v.detail.Tasks)
	pct := v.detail.Completion()
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Center,
		progressBar(pct, v.width/2), " ",
		styles.Label.Render(fmt.Sprintf("%d of %d tasks completed", completed, total)),
	))
	return strings.Join(lines, "\n")
}

func (v BoardView) renderColumns() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	colWidth := (v.width - 4) / len(boardColumns)
	if colWidth < 24 {
		colWidth = 24
	}
	colHeight := v.height - 9
	if colHeight < 3 {
		colHeight = 3
	}

	var cols []string
	for i, status := range boardColumns {
		tasks := v.columnTasks(i)
		active := i == v.column

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Status(status)).
			Width(colWidth - 2).
			Align(lipgloss.Center)
		if active {
			header = header.Background(t.Highlight)
		}

		items := []string{header.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks)))}
		for j, task := range tasks {
			items = append(items, v.renderTask(task, colWidth-4, active && j == v.row))
		}
		if len(tasks) == 0 {
			items = append(items, styles.Placeholder.Italic(true).Render("(empty)"))
		}

		style := lipgloss.NewStyle().
			Width(colWidth).
			Height(colHeight).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border)
		if active {
			style = style.BorderForeground(t.Primary)
		}
		cols = append(cols, style.Render(strings.Join(items, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v BoardView) renderTask(task model.Task, width int, selected bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	style := styles.Row.Width(width)
	switch {
	case selected:
		style = styles.RowSelected.Width(width)
	case task.Completed:
		style = styles.RowDone.Width(width)
	}

	marker := lipgloss.NewStyle().Foreground(t.Priority(task.Priority)).Render("●")
	lines := []string{marker + " " + truncate(task.Description, width-4)}

	var meta []string
	if task.Assignee != "" {
		meta = append(meta, "@"+task.Assignee)
	}
	if task.DueDate != nil {
		due := task.DueDate.String()
		if task.IsOverdue(v.now()) {
			meta = append(meta, styles.Overdue.Render("due "+due))
		} else {
			meta = append(meta, styles.DueDate.Render("due "+due))
		}
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+styles.Label.Render(strings.Join(meta, " · ")))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// IsInputMode returns whether keys should go to the board before global
// bindings.
func (v BoardView) IsInputMode() bool {
	return v.mode != BoardModeNormal
}
