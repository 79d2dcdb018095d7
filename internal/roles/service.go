package roles

import (
	"context"
	"strings"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	CreateRole(ctx context.Context, name, description string, permissions []string) (*Role, error)
	UpdateRole(ctx context.Context, id int64, name, description *string) error
	DeleteRole(ctx context.Context, id int64) error
	SetRolePermissions(ctx context.Context, roleID int64, codes []string) error
	ListPermissions(ctx context.Context) ([]Permission, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole returns a single role.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole creates a role with its permission assignments.
func (s *Service) CreateRole(ctx context.Context, input CreateRequest) (*Role, error) {
	return s.repo.CreateRole(ctx, strings.TrimSpace(input.Name), strings.TrimSpace(input.Description), normalizeCodes(input.Permissions))
}

// UpdateRole applies a partial update.
func (s *Service) UpdateRole(ctx context.Context, id int64, input UpdateRequest) (*Role, error) {
	if input.Name != nil || input.Description != nil {
		if err := s.repo.UpdateRole(ctx, id, input.Name, input.Description); err != nil {
			return nil, err
		}
	}
	if input.Permissions != nil {
		if err := s.repo.SetRolePermissions(ctx, id, normalizeCodes(*input.Permissions)); err != nil {
			return nil, err
		}
	}
	return s.repo.GetRole(ctx, id)
}

// DeleteRole removes a role and its assignments.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(strings.ToLower(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
