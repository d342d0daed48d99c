package services

import (
	"context"
	"fmt"
	"strings"

	"blogapi/internal/domain"
)

type userService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
}

// NewUserService creates a UserService that stores passwords hashed by hasher.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher) domain.UserService {
	return &userService{userRepo: userRepo, hasher: hasher}
}

func (s *userService) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	roleID := in.RoleID
	if roleID == 0 {
		roleID = domain.RoleStandard
	}
	u := &domain.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		RoleID:       roleID,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.UserWithRole, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ListOthers(ctx context.Context, self int64) ([]*domain.UserWithRole, error) {
	return s.userRepo.ListExcept(ctx, self)
}

func (s *userService) UpdateSelf(ctx context.Context, self int64, changes domain.UserChanges) error {
	changes.RoleID = nil
	changes.Active = nil
	return s.Update(ctx, self, changes)
}

func (s *userService) Update(ctx context.Context, id int64, changes domain.UserChanges) error {
	upd := domain.UserUpdate{
		FirstName: changes.FirstName,
		LastName:  changes.LastName,
		RoleID:    changes.RoleID,
		Active:    changes.Active,
	}
	if changes.Email != nil {
		email := normalizeEmail(*changes.Email)
		upd.Email = &email
	}
	if changes.Password != nil {
		hash, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}
	if upd.IsEmpty() {
		// nothing to write, but a missing user is still reported
		_, err := s.userRepo.GetByID(ctx, id)
		return err
	}
	return s.userRepo.Update(ctx, id, upd)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) ConfirmPassword(ctx context.Context, id int64, password string) error {
	hash, err := s.userRepo.GetPasswordHash(ctx, id)
	if err != nil {
		return err
	}
	if hash == "" {
		return domain.ErrUnauthorized
	}
	return s.hasher.Verify(hash, password)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
