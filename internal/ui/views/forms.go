package views

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

// formField is either a text input or a choice that cycles through a fixed
// set of options. Both read and write the underlying form directly.
type formField struct {
	name    string // validation key
	label   string
	input   textinput.Model
	numeric bool
	set     func(string)

	choice func() string
	cycle  func()
	hint   func() string
}

func textField(name, label, placeholder, value string, set func(string)) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return formField{name: name, label: label, input: ti, set: set}
}

func choiceField(name, label string, choice func() string, cycle func()) formField {
	return formField{name: name, label: label, choice: choice, cycle: cycle}
}

func (f formField) isChoice() bool {
	return f.choice != nil
}

// formView is the shared editor behind the project, task and user forms
type formView struct {
	title     string
	fields    []formField
	focus     int
	width     int
	cancelled bool
}

func newFormView(title string, fields ...formField) formView {
	v := formView{title: title, fields: fields}
	v.focusField(0)
	return v
}

func (v *formView) focusField(i int) {
	for j := range v.fields {
		v.fields[j].input.Blur()
	}
	v.focus = i
	if !v.fields[i].isChoice() {
		v.fields[i].input.Focus()
	}
}

func (v *formView) blurAll() {
	for j := range v.fields {
		v.fields[j].input.Blur()
	}
}

// update handles one key. It returns true when the user asked to submit.
func (v *formView) update(msg tea.KeyMsg, inFlight bool) (bool, tea.Cmd) {
	// inputs are disabled while a submission runs
	if inFlight {
		return false, nil
	}

	cur := &v.fields[v.focus]
	switch msg.String() {
	case "esc":
		v.cancelled = true
		v.blurAll()
		return false, nil
	case "tab", "down":
		v.focusField((v.focus + 1) % len(v.fields))
		return false, nil
	case "shift+tab", "up":
		v.focusField((v.focus - 1 + len(v.fields)) % len(v.fields))
		return false, nil
	case "ctrl+s":
		return true, nil
	case "enter":
		if v.focus == len(v.fields)-1 {
			return true, nil
		}
		v.focusField(v.focus + 1)
		return false, nil
	}

	if cur.isChoice() {
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			if cur.cycle != nil {
				cur.cycle()
			}
		}
		return false, nil
	}

	prev := cur.input.Value()
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	if cur.numeric && !isDigits(cur.input.Value()) {
		cur.input.SetValue(prev)
	}
	cur.set(cur.input.Value())
	return false, cmd
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (v formView) render(err error, inFlight bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	labelStyle := styles.Label.Width(14)
	boxWidth := v.width - 24
	if boxWidth < 20 {
		boxWidth = 20
	}

	var lines []string
	lines = append(lines, styles.Title.Render(v.title), "")

	for i, f := range v.fields {
		focused := i == v.focus && !inFlight
		box := styles.Input.Width(boxWidth)
		if focused {
			box = styles.InputFocused.Width(boxWidth)
		}

		var content string
		switch {
		case f.isChoice():
			value := f.choice()
			if h := f.hint; h != nil && h() != "" {
				value = styles.Placeholder.Render(h())
			}
			if focused {
				content = "‹ " + value + " ›"
			} else {
				content = "  " + value
			}
		case inFlight:
			content = styles.Placeholder.Render(f.input.Value())
		default:
			content = f.input.View()
		}

		row := lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(f.label), box.Render(content))
		lines = append(lines, row)
		if msg := form.FieldError(err, f.name); msg != "" {
			lines = append(lines, strings.Repeat(" ", 14)+styles.InputError.Render(f.label+" "+msg))
		}
	}

	lines = append(lines, "")
	var ve *form.ValidationError
	switch {
	case inFlight:
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render("Saving..."))
	case err != nil && !errors.As(err, &ve):
		lines = append(lines, styles.ErrorBanner.Render(err.Error()))
	}
	lines = append(lines, styles.HelpDesc.Render("tab: next field • space: change option • enter/ctrl+s: save • esc: cancel"))

	return strings.Join(lines, "\n")
}

// ProjectFormView edits a form.ProjectForm
type ProjectFormView struct {
	form *form.ProjectForm
	fv   formView
}

// NewProjectFormView builds the editor for f
func NewProjectFormView(f *form.ProjectForm) ProjectFormView {
	title := "New project"
	if _, ok := f.Editing(); ok {
		title = "Edit project"
	}
	users := ""
	if f.Users > 0 {
		users = strconv.Itoa(f.Users)
	}
	usersField := textField("users", "Members", "0", users, func(s string) {
		f.Users, _ = strconv.Atoi(s)
	})
	usersField.numeric = true

	return ProjectFormView{
		form: f,
		fv: newFormView(title,
			textField("name", "Name", "Project name", f.Name, func(s string) { f.Name = s }),
			textField("description", "Description", "What is it about?", f.Description, func(s string) { f.Description = s }),
			choiceField("status", "Status",
				func() string { return f.Status.Label() },
				func() { f.Status = form.Cycle(model.ProjectStatuses, f.Status) }),
			usersField,
		),
	}
}

func (v ProjectFormView) Form() *form.ProjectForm {
	return v.form
}

// Cancelled reports whether the user left the form with esc
func (v ProjectFormView) Cancelled() bool {
	return v.fv.cancelled
}

func (v ProjectFormView) SetSize(width, height int) ProjectFormView {
	v.fv.width = width
	return v
}

func (v ProjectFormView) Update(msg tea.Msg) (ProjectFormView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.form == nil {
		return v, nil
	}
	submit, cmd := v.fv.update(key, v.form.InFlight())
	if submit && v.form.Begin() == nil {
		return v, request(SubmitProjectRequest{Form: v.form})
	}
	return v, cmd
}

func (v ProjectFormView) View() string {
	if v.form == nil {
		return ""
	}
	return v.fv.render(v.form.Err(), v.form.InFlight())
}

// TaskFormView edits a form.TaskForm
type TaskFormView struct {
	form *form.TaskForm
	fv   formView
}

func NewTaskFormView(f *form.TaskForm) TaskFormView {
	title := "New task"
	if _, ok := f.Editing(); ok {
		title = "Edit task"
	}

	assignee := choiceField("assignee", "Assignee",
		func() string {
			if f.Assignee == "" {
				return "unassigned"
			}
			return f.Assignee
		},
		f.NextAssignee)
	assignee.hint = f.AssigneeHint

	return TaskFormView{
		form: f,
		fv: newFormView(title,
			textField("description", "Description", "What needs doing?", f.Description, func(s string) { f.Description = s }),
			choiceField("priority", "Priority",
				func() string { return f.Priority.Label() },
				func() { f.Priority = form.Cycle(model.Priorities, f.Priority) }),
			choiceField("status", "Status",
				func() string { return f.Status.Label() },
				func() { f.Status = form.Cycle(model.Statuses, f.Status) }),
			textField("due_date", "Due date", model.DateLayout, f.DueDate, func(s string) { f.DueDate = s }),
			assignee,
		),
	}
}

func (v TaskFormView) Form() *form.TaskForm {
	return v.form
}

func (v TaskFormView) Cancelled() bool {
	return v.fv.cancelled
}

func (v TaskFormView) SetSize(width, height int) TaskFormView {
	v.fv.width = width
	return v
}

// SetAssignees refreshes the assignee options once users have loaded
func (v TaskFormView) SetAssignees(refs []model.UserRef) TaskFormView {
	if v.form != nil && !v.form.InFlight() {
		v.form.SetAssignees(refs)
	}
	return v
}

func (v TaskFormView) Update(msg tea.Msg) (TaskFormView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.form == nil {
		return v, nil
	}
	submit, cmd := v.fv.update(key, v.form.InFlight())
	if submit && v.form.Begin() == nil {
		return v, request(SubmitTaskRequest{Form: v.form})
	}
	return v, cmd
}

func (v TaskFormView) View() string {
	if v.form == nil {
		return ""
	}
	return v.fv.render(v.form.Err(), v.form.InFlight())
}

// UserFormView edits a form.UserForm
type UserFormView struct {
	form *form.UserForm
	fv   formView
}

func NewUserFormView(f *form.UserForm) UserFormView {
	title := "New user"
	if _, ok := f.Editing(); ok {
		title = "Edit user"
	}
	return UserFormView{
		form: f,
		fv: newFormView(title,
			textField("name", "Name", "Full name", f.Name, func(s string) { f.Name = s }),
			textField("email", "Email", "name@example.com", f.Email, func(s string) { f.Email = s }),
			choiceField("role", "Role",
				func() string { return f.Role.Label() },
				func() { f.Role = form.Cycle(model.Roles, f.Role) }),
		),
	}
}

func (v UserFormView) Form() *form.UserForm {
	return v.form
}

func (v UserFormView) Cancelled() bool {
	return v.fv.cancelled
}

func (v UserFormView) SetSize(width, height int) UserFormView {
	v.fv.width = width
	return v
}

func (v UserFormView) Update(msg tea.Msg) (UserFormView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.form == nil {
		return v, nil
	}
	submit, cmd := v.fv.update(key, v.form.InFlight())
	if submit && v.form.Begin() == nil {
		return v, request(SubmitUserRequest{Form: v.form})
	}
	return v, cmd
}

func (v UserFormView) View() string {
	if v.form == nil {
		return ""
	}
	return v.fv.render(v.form.Err(), v.form.InFlight())
}
