package roles

import (
	"errors"
	"time"
)

// Role groups a named set of permissions.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission is a grantable capability code.
type Permission struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CreateRequest represents a request to create a role.
type CreateRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateRequest represents a partial role update.
type UpdateRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Permissions *[]string `json:"permissions,omitempty"`
}

var (
	// ErrNotFound indicates the role does not exist.
	ErrNotFound = errors.New("roles: not found")
	// ErrDuplicateName indicates the role name is taken.
	ErrDuplicateName = errors.New("roles: name already exists")
	// ErrUnknownPermission indicates an assignment referenced a permission code that does not exist.
	ErrUnknownPermission = errors.New("roles: unknown permission code")
)
