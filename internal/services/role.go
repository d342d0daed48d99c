package services

import (
	"context"

	"blogapi/internal/domain"
)

type roleService struct {
	roleRepo domain.RoleRepository
}

func NewRoleService(roleRepo domain.RoleRepository) domain.RoleService {
	return &roleService{roleRepo: roleRepo}
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roleRepo.GetByID(ctx, id)
}

func (s *roleService) Create(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{Name: name}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id int64, name string) error {
	return s.roleRepo.Update(ctx, &domain.Role{ID: id, Name: name})
}

// Delete refuses the seeded admin and standard roles; access checks depend on their ids.
func (s *roleService) Delete(ctx context.Context, id int64) error {
	if id == domain.RoleAdmin || id == domain.RoleStandard {
		return domain.NewValidationError("id", "built-in roles cannot be deleted")
	}
	return s.roleRepo.Delete(ctx, id)
}
