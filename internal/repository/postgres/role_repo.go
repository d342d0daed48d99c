package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogapi/internal/domain"
)

type roleRepository struct {
	DB DBTX
}

func NewRoleRepository(db DBTX) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, role_name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, role_name FROM roles WHERE id = $1`, id).Scan(&role.ID, &role.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.DB.QueryRowContext(ctx, `INSERT INTO roles (role_name) VALUES ($1) RETURNING id`, role.Name).Scan(&role.ID)
	if err != nil {
		return fmt.Errorf("create role: %w", classify(err))
	}
	return nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE roles SET role_name = $1 WHERE id = $2`, role.Name, role.ID)
	if err != nil {
		return fmt.Errorf("update role: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return affectedOne(n)
}

// Delete fails with ErrForeignKeyViolation while users still hold the role.
func (r *roleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return affectedOne(n)
}
