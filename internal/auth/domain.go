package auth

import "time"

// User is the authentication view of a user account.
type User struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
