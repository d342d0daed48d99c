package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"blogapi/internal/domain"
)

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name, u.created, u.role_id, u.active, u.last_access, r.role_name`

type userRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) domain.UserRepository {
	return &userRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.UserWithRole, error) {
	var (
		u                   domain.UserWithRole
		hash, first, last   sql.NullString
		created, lastAccess sql.NullTime
		active              sql.NullBool
	)
	err := row.Scan(&u.ID, &u.Email, &hash, &first, &last, &created, &u.RoleID, &active, &lastAccess, &u.RoleName)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	u.FirstName = nullString(first)
	u.LastName = nullString(last)
	u.Created = nullTime(created)
	u.Active = nullBool(active)
	u.LastAccess = nullTime(lastAccess)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created, active
	`
	var (
		created sql.NullTime
		active  sql.NullBool
	)
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.RoleID).
		Scan(&u.ID, &created, &active)
	if err != nil {
		return fmt.Errorf("create user: %w", classify(err))
	}
	u.Created = nullTime(created)
	u.Active = nullBool(active)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.UserWithRole, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		INNER JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByEmailWithRole(ctx context.Context, email string) (*domain.UserWithRole, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		INNER JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.UserWithRole, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) ListExcept(ctx context.Context, id int64) ([]*domain.UserWithRole, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		INNER JOIN roles r ON r.id = u.role_id
		WHERE u.id <> $1
		ORDER BY u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.UserWithRole
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update writes only the non-nil fields of upd.
func (r *userRepository) Update(ctx context.Context, id int64, upd domain.UserUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	b := entsql.Dialect(dialect.Postgres).Update("users")
	if upd.Email != nil {
		b.Set("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		b.Set("password_hash", *upd.PasswordHash)
	}
	if upd.FirstName != nil {
		b.Set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		b.Set("last_name", *upd.LastName)
	}
	if upd.RoleID != nil {
		b.Set("role_id", *upd.RoleID)
	}
	if upd.Active != nil {
		b.Set("active", *upd.Active)
	}
	query, args := b.Where(entsql.EQ("id", id)).Query()

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return affectedOne(n)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return affectedOne(n)
}

func (r *userRepository) TouchLastAccess(ctx context.Context, id int64, day time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET last_access = $1 WHERE id = $2`, day, id)
	if err != nil {
		return fmt.Errorf("touch last access: %w", err)
	}
	return nil
}

func (r *userRepository) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	var hash sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash.String, nil
}
