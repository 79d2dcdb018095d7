package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, username, name, passwordHash string, roleIDs []int64) (*User, error)
	UpdateUserName(ctx context.Context, id int64, name string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	SetUserActive(ctx context.Context, id int64, active bool) error
	SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns a single user.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser creates a user, hashing the supplied password.
func (s *Service) CreateUser(ctx context.Context, input CreateRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, input.Username, input.Name, string(hash), input.RoleIDs)
}

// UpdateUser applies a partial update.
func (s *Service) UpdateUser(ctx context.Context, id int64, input UpdateRequest) (*User, error) {
	if input.Name != nil {
		if err := s.repo.UpdateUserName(ctx, id, *input.Name); err != nil {
			return nil, err
		}
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateUserPassword(ctx, id, string(hash)); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		if err := s.repo.SetUserActive(ctx, id, *input.IsActive); err != nil {
			return nil, err
		}
	}
	if input.RoleIDs != nil {
		if err := s.repo.SetUserRoles(ctx, id, *input.RoleIDs); err != nil {
			return nil, err
		}
	}
	return s.repo.GetUser(ctx, id)
}

// DeactivateUser disables login without deleting history.
func (s *Service) DeactivateUser(ctx context.Context, id int64) error {
	return s.repo.SetUserActive(ctx, id, false)
}
