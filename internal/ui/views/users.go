package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/form"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

type usersMode int

const (
	usersModeNormal usersMode = iota
	usersModeForm
	usersModeConfirmDelete
)

// UsersView lists users with their role
type UsersView struct {
	width  int
	height int

	users   []model.User
	loading bool
	cursor  int

	mode      usersMode
	userForm  UserFormView
	deleteKey model.Key
}

func NewUsersView() UsersView {
	return UsersView{}
}

func (v UsersView) SetSize(width, height int) UsersView {
	v.width = width
	v.height = height
	v.userForm = v.userForm.SetSize(width, height)
	return v
}

func (v UsersView) SetState(s dashboard.State) UsersView {
	v.users = s.Users
	v.loading = s.Loading
	if v.cursor >= len(v.users) {
		v.cursor = max(len(v.users)-1, 0)
	}
	return v
}

// CloseForm returns to the list after a successful submission
func (v UsersView) CloseForm() UsersView {
	if v.mode == usersModeForm {
		v.mode = usersModeNormal
	}
	return v
}

func (v UsersView) Update(msg tea.Msg) (UsersView, tea.Cmd) {
	if v.mode == usersModeForm {
		var cmd tea.Cmd
		v.userForm, cmd = v.userForm.Update(msg)
		if v.userForm.Cancelled() {
			v.mode = usersModeNormal
		}
		return v, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.mode == usersModeConfirmDelete {
		v.mode = usersModeNormal
		if key.String() == "y" {
			return v, request(DeleteUserRequest{Key: v.deleteKey})
		}
		return v, nil
	}

	switch key.String() {
	case "j", "down":
		if v.cursor < len(v.users)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "a", "n":
		v.userForm = NewUserFormView(form.NewUserForm()).SetSize(v.width, v.height)
		v.mode = usersModeForm
	case "e", "enter":
		if u, ok := v.current(); ok {
			v.userForm = NewUserFormView(form.EditUserForm(u)).SetSize(v.width, v.height)
			v.mode = usersModeForm
		}
	case "d":
		if u, ok := v.current(); ok {
			v.deleteKey = u.Key
			v.mode = usersModeConfirmDelete
		}
	}
	return v, nil
}

func (v UsersView) current() (model.User, bool) {
	if v.cursor < 0 || v.cursor >= len(v.users) {
		return model.User{}, false
	}
	return v.users[v.cursor], true
}

func (v UsersView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	if v.mode == usersModeForm {
		return v.userForm.View()
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	sections := []string{styles.PanelTitle.Render(fmt.Sprintf("Users (%d)", len(v.users))), ""}

	if len(v.users) == 0 {
		if v.loading {
			sections = append(sections, emptyState(v.width, "Loading users..."))
		} else {
			sections = append(sections, emptyState(v.width, "No users yet", "press a to add one"))
		}
		sections = append(sections, "", hints("a: add user"))
		return strings.Join(sections, "\n")
	}

	nameW, emailW := 28, 34
	head := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	sections = append(sections, styles.Row.Render(
		head.Width(nameW).Render("Name")+
			head.Width(emailW).Render("Email")+
			head.Render("Role"),
	))

	for i, u := range v.users {
		row := styles.Row
		if i == v.cursor {
			row = styles.RowSelected
		}
		sections = append(sections, row.Width(v.width-2).Render(
			lipgloss.NewStyle().Width(nameW).Render(truncate(u.Name, nameW-2))+
				lipgloss.NewStyle().Width(emailW).Render(truncate(u.Email, emailW-2))+
				badge(u.Role.Label(), t.Role(u.Role)),
		))
	}

	footer := hints("j/k: move • a: add • e: edit • d: delete")
	if v.mode == usersModeConfirmDelete {
		u, _ := v.current()
		footer = confirmLine(fmt.Sprintf("Delete user '%s'?", u.Name))
	}
	sections = append(sections, "", footer)
	return strings.Join(sections, "\n")
}

func (v UsersView) IsInputMode() bool {
	return v.mode != usersModeNormal
}
