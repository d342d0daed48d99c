package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogapi/internal/domain"
)

// TxManager runs units of work in a single database transaction.
type TxManager struct {
	DB *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{DB: db}
}

// Do begins a transaction, hands fn repositories bound to it, and commits when fn succeeds.
// Any error from fn rolls the transaction back and is returned as is.
func (m *TxManager) Do(ctx context.Context, fn func(repos domain.Repositories) error) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories binds the post, tag and post_tag repositories to db.
func NewRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Posts:    NewPostRepository(db),
		Tags:     NewTagRepository(db),
		PostTags: NewPostTagRepository(db),
	}
}
