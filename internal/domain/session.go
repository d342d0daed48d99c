package domain

import (
	"context"
	"time"
)

// AccessLevel is the minimum role a route requires.
type AccessLevel int

const (
	// LevelSession admits any authenticated caller.
	LevelSession AccessLevel = iota
	// LevelStandard admits standard users and admins.
	LevelStandard
	// LevelAdmin admits admins only.
	LevelAdmin
)

// Principal is the authenticated caller derived from a verified token.
type Principal struct {
	UserID   int64
	Email    string
	RoleID   int64
	RoleName string
}

// Satisfies reports whether the principal's role meets level. Admins satisfy every level.
func (p Principal) Satisfies(level AccessLevel) bool {
	switch level {
	case LevelSession:
		return true
	case LevelStandard:
		return p.RoleID == RoleAdmin || p.RoleID == RoleStandard
	case LevelAdmin:
		return p.RoleID == RoleAdmin
	}
	return false
}

// Claims is the content of a session token.
type Claims struct {
	Principal
	ExpiresAt time.Time
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns ErrUnauthorized on mismatch and another error when hash is unreadable.
	Verify(hash, password string) error
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Issue(p Principal) (token string, expiresAt time.Time, err error)
}

// TokenVerifier verifies a session token. Any failure returns ErrUnauthorized.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *UserWithRole
}

// AuthService defines login.
type AuthService interface {
	// Login returns ErrUnauthorized for unknown emails, wrong passwords and inactive users.
	Login(ctx context.Context, email, password string) (*Session, error)
}
