package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blogapi/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	RoleID int64  `json:"role_id"`
	Role   string `json:"role"`
}

// JWTIssuer signs and verifies HS256 session tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer returns a JWTIssuer that signs JWTs with HS256 using the given secret.
// Issued tokens expire after ttl.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) Issue(p domain.Principal) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: p.UserID,
		Email:  p.Email,
		RoleID: p.RoleID,
		Role:   p.RoleName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported as domain.ErrUnauthorized.
func (i *JWTIssuer) Verify(tokenString string) (*domain.Claims, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token has no user", domain.ErrUnauthorized)
	}
	return &domain.Claims{
		Principal: domain.Principal{
			UserID:   claims.UserID,
			Email:    claims.Email,
			RoleID:   claims.RoleID,
			RoleName: claims.Role,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
