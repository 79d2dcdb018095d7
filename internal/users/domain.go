package users

import (
	"errors"
	"time"
)

// User represents a user account for management.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	RoleIDs   []int64   `json:"role_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest represents a request to create a user.
type CreateRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Name     string  `json:"name" validate:"required,max=200"`
	Password string  `json:"password" validate:"required,min=8"`
	RoleIDs  []int64 `json:"role_ids,omitempty"`
}

// UpdateRequest represents a partial user update.
type UpdateRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Password *string  `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive *bool    `json:"is_active,omitempty"`
	RoleIDs  *[]int64 `json:"role_ids,omitempty"`
}

var (
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("users: not found")
	// ErrDuplicateUsername indicates the username is taken.
	ErrDuplicateUsername = errors.New("users: username already exists")
)
