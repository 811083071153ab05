package model

import (
	"encoding/json"
	"time"
)

// Role is the permission level of a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Roles lists the roles in display order
var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

// Label returns the display name for a role
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleManager:
		return "Manager"
	default:
		return "User"
	}
}

// User represents a named actor. Tasks refer to users by Name only.
type User struct {
	Key       Key
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// UserRef is the reduced projection used to fill the assignee selector
type UserRef struct {
	Name  string
	Email string
}

// Ref returns the name+email projection of u
func (u *User) Ref() UserRef {
	return UserRef{Name: u.Name, Email: u.Email}
}

// UserInput is the payload for creating or updating a user
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Input returns the editable fields of u as a payload
func (u *User) Input() UserInput {
	return UserInput{Name: u.Name, Email: u.Email, Role: u.Role}
}

type userWire struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UnmarshalJSON decodes the server representation of a user
func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = User{
		Key:       keyFor(w.ID),
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		CreatedAt: parseTimestamp(w.CreatedAt),
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// MarshalJSON encodes the user using the server field names
func (u User) MarshalJSON() ([]byte, error) {
	w := userWire{
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: formatTimestamp(u.CreatedAt),
	}
	if id, ok := u.Key.ID(); ok {
		w.ID = string(id)
	}
	return json.Marshal(w)
}
