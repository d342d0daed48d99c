package domain

import (
	"context"
	"time"
)

// Role ids seeded by the schema migration.
const (
	RoleAdmin    int64 = 1
	RoleStandard int64 = 2
)

// User represents a registered account.
// swagger:model User
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Created      *time.Time `json:"created"`
	RoleID       int64      `json:"role_id"`
	Active       *bool      `json:"active"`
	LastAccess   *time.Time `json:"last_access"`
}

// UserWithRole is a user joined with its role name.
type UserWithRole struct {
	User
	RoleName string `json:"role_name"`
}

// UserUpdate holds a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	RoleID       *int64
	Active       *bool
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.PasswordHash == nil && u.FirstName == nil &&
		u.LastName == nil && u.RoleID == nil && u.Active == nil
}

// NewUser holds the input for creating a user. Password is the plain text password.
type NewUser struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	RoleID    int64
}

// UserChanges is the caller facing partial update. Password is plain text.
type UserChanges struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	RoleID    *int64
	Active    *bool
}

// Role represents an access role.
// swagger:model Role
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"role_name"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*UserWithRole, error)
	GetByEmailWithRole(ctx context.Context, email string) (*UserWithRole, error)
	// ListExcept returns every user except the one with the given id.
	ListExcept(ctx context.Context, id int64) ([]*UserWithRole, error)
	Update(ctx context.Context, id int64, upd UserUpdate) error
	Delete(ctx context.Context, id int64) error
	TouchLastAccess(ctx context.Context, id int64, day time.Time) error
	GetPasswordHash(ctx context.Context, id int64) (string, error)
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	List(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error
}

// UserService defines the business logic for accounts.
type UserService interface {
	Create(ctx context.Context, in NewUser) (*User, error)
	Get(ctx context.Context, id int64) (*UserWithRole, error)
	ListOthers(ctx context.Context, self int64) ([]*UserWithRole, error)
	// UpdateSelf applies changes to the caller's own account. Role and active flag are ignored.
	UpdateSelf(ctx context.Context, self int64, changes UserChanges) error
	Update(ctx context.Context, id int64, changes UserChanges) error
	Delete(ctx context.Context, id int64) error
	// ConfirmPassword returns ErrUnauthorized when password does not match the stored hash.
	ConfirmPassword(ctx context.Context, id int64, password string) error
}

// RoleService defines the business logic for roles.
type RoleService interface {
	List(ctx context.Context) ([]*Role, error)
	Get(ctx context.Context, id int64) (*Role, error)
	Create(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}
