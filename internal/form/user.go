package form

import (
	"context"
	"net/mail"
	"slices"
	"strings"

	"github.com/dori/tablero/internal/model"
)

// UserForm is the create/edit form for a user
type UserForm struct {
	Name  string
	Email string
	Role  model.Role

	editing model.Key
	Submission
}

func NewUserForm() *UserForm {
	return &UserForm{Role: model.RoleUser}
}

func EditUserForm(u model.User) *UserForm {
	return &UserForm{Name: u.Name, Email: u.Email, Role: u.Role, editing: u.Key}
}

// Editing returns the key of the user being edited
func (f *UserForm) Editing() (model.Key, bool) {
	return f.editing, !f.editing.IsZero()
}

func (f *UserForm) Validate() error {
	c := checker{}
	c.required("name", f.Name)
	c.required("email", f.Email)
	if e := strings.TrimSpace(f.Email); e != "" {
		c.check(validEmail(e), "email", "not a valid address")
	}
	c.check(f.Role == "" || slices.Contains(model.Roles, f.Role), "role", "unknown role")
	return c.err()
}

// validEmail accepts a bare local@domain address
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && at < len(s)-1
}

func (f *UserForm) Input() model.UserInput {
	role := f.Role
	if role == "" {
		role = model.RoleUser
	}
	return model.UserInput{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Role:  role,
	}
}

func (f *UserForm) Begin() error {
	return f.begin(f.Validate)
}

func (f *UserForm) Finish(err error) {
	f.finish(err)
	if err == nil && f.editing.IsZero() {
		f.Name = ""
		f.Email = ""
		f.Role = model.RoleUser
	}
}

// Submit validates, then calls fn with the payload
func (f *UserForm) Submit(ctx context.Context, fn func(context.Context, model.UserInput) error) error {
	if err := f.Begin(); err != nil {
		return err
	}
	err := fn(ctx, f.Input())
	f.Finish(err)
	return err
}
