package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/domain"
)

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, role_name FROM roles ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_name"}).AddRow(int64(1), "admin").AddRow(int64(2), "standard"))
	mock.ExpectQuery(`SELECT id, role_name FROM roles WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO roles \(role_name\) VALUES \(\$1\) RETURNING id`).
		WithArgs("editor").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`UPDATE roles SET role_name = \$1 WHERE id = \$2`).
		WithArgs("writer", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM roles WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnError(&pq.Error{Code: "23503", Detail: `Key (id)=(2) is still referenced from table "users".`})

	repo := NewRoleRepository(db)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = repo.GetByID(ctx, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)

	role := &domain.Role{Name: "editor"}
	require.NoError(t, repo.Create(ctx, role))
	assert.Equal(t, int64(3), role.ID)

	require.NoError(t, repo.Update(ctx, &domain.Role{ID: 3, Name: "writer"}))
	require.ErrorIs(t, repo.Delete(ctx, 2), domain.ErrForeignKeyViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}
