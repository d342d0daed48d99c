package postgres

import (
	"context"
	"fmt"

	"blogapi/internal/domain"
	"blogapi/internal/query"
)

type tagRepository struct {
	DB DBTX
}

func NewTagRepository(db DBTX) domain.TagRepository {
	return &tagRepository{DB: db}
}

func (r *tagRepository) List(ctx context.Context, params domain.QueryParams) ([]*domain.Tag, error) {
	c := query.Compile(query.TagSchema, params)
	rows, err := r.DB.QueryContext(ctx, c.SQL, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t := &domain.Tag{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, t *domain.Tag) error {
	query := `INSERT INTO tags (name) VALUES ($1) RETURNING id`
	if err := r.DB.QueryRowContext(ctx, query, t.Name).Scan(&t.ID); err != nil {
		return fmt.Errorf("create tag: %w", classify(err))
	}
	return nil
}

func (r *tagRepository) Update(ctx context.Context, t *domain.Tag) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE tags SET name = $1 WHERE id = $2`, t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return affectedOne(n)
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return affectedOne(n)
}
