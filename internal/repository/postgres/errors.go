package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"blogapi/internal/domain"
)

// Postgres SQLSTATE codes for constraint violations.
const (
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
)

// classify maps constraint violations onto the domain sentinels, keeping the backend detail.
// Any other error is returned unchanged.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	detail := pqErr.Message
	if pqErr.Detail != "" {
		detail = pqErr.Detail
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrUniqueViolation, detail)
	case codeNotNullViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotNullViolation, detail)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrForeignKeyViolation, detail)
	}
	return err
}

// affectedOne returns ErrNotFound when an UPDATE or DELETE touched no row.
func affectedOne(n int64) error {
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
