package postgres

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"blogapi/internal/domain"
)

func fkError() error {
	return &pq.Error{Code: codeForeignKeyViolation, Message: "insert or update violates foreign key constraint"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		errIs error
		msg   string
	}{
		{
			name:  "unique",
			err:   &pq.Error{Code: "23505", Message: "duplicate key", Detail: "Key (name)=(go) already exists."},
			errIs: domain.ErrUniqueViolation,
			msg:   "Key (name)=(go) already exists.",
		},
		{
			name:  "not null",
			err:   &pq.Error{Code: "23502", Message: `null value in column "title"`},
			errIs: domain.ErrNotNullViolation,
			msg:   `null value in column "title"`,
		},
		{
			name:  "foreign key",
			err:   fkError(),
			errIs: domain.ErrForeignKeyViolation,
		},
		{
			name:  "other pq error is untouched",
			err:   &pq.Error{Code: "42601", Message: "syntax error"},
			errIs: nil,
			msg:   "syntax error",
		},
		{
			name:  "non pq error is untouched",
			err:   sql.ErrConnDone,
			errIs: sql.ErrConnDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.errIs != nil {
				require.ErrorIs(t, got, tt.errIs)
			} else {
				require.Same(t, tt.err, got)
			}
			if tt.msg != "" {
				require.Contains(t, got.Error(), tt.msg)
			}
		})
	}
}
