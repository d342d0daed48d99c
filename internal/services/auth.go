package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogapi/internal/domain"
)

type authService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	issuer   domain.TokenIssuer
	now      func() time.Time
}

// NewAuthService creates an AuthService that verifies passwords with hasher and signs sessions with issuer.
func NewAuthService(userRepo domain.UserRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer) domain.AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	u, err := s.userRepo.GetByEmailWithRole(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if u.Active != nil && !*u.Active {
		return nil, domain.ErrUnauthorized
	}

	token, expiresAt, err := s.issuer.Issue(domain.Principal{
		UserID:   u.ID,
		Email:    u.Email,
		RoleID:   u.RoleID,
		RoleName: u.RoleName,
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.userRepo.TouchLastAccess(ctx, u.ID, today); err != nil {
		return nil, err
	}
	u.LastAccess = &today
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
