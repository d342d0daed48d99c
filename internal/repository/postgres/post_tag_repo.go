package postgres

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"blogapi/internal/domain"
)

const postTagsTable = "post_tags"

type postTagRepository struct {
	DB DBTX
}

func NewPostTagRepository(db DBTX) domain.PostTagRepository {
	return &postTagRepository{DB: db}
}

func (r *postTagRepository) DeleteBy(ctx context.Context, sel domain.PostTagSelector) (int64, error) {
	var pred *sql.Predicate
	switch sel.Kind {
	case domain.SelectByPost:
		if len(sel.PostIDs) == 0 {
			return 0, nil
		}
		pred = sql.In("post_id", anys(sel.PostIDs)...)
	case domain.SelectByTag:
		if len(sel.TagIDs) == 0 {
			return 0, nil
		}
		pred = sql.In("tag_id", anys(sel.TagIDs)...)
	case domain.SelectByPair:
		if len(sel.PostIDs) == 0 || len(sel.TagIDs) == 0 {
			return 0, nil
		}
		pred = sql.And(
			sql.In("post_id", anys(sel.PostIDs)...),
			sql.In("tag_id", anys(sel.TagIDs)...),
		)
	default:
		return 0, fmt.Errorf("delete post tags: unknown selector kind %d", sel.Kind)
	}

	query, args := sql.Dialect(dialect.Postgres).
		Delete(postTagsTable).
		Where(pred).
		Query()
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete post tags: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete post tags: %w", err)
	}
	return n, nil
}

func (r *postTagRepository) Add(ctx context.Context, post *domain.Post, tags []*domain.Tag) (int64, error) {
	if post == nil || len(tags) == 0 {
		return 0, nil
	}

	ins := sql.Dialect(dialect.Postgres).
		Insert(postTagsTable).
		Columns("post_id", "tag_id")
	for _, t := range tags {
		ins.Values(post.ID, t.ID)
	}
	query, args := ins.
		OnConflict(sql.ConflictColumns("post_id", "tag_id"), sql.DoNothing()).
		Query()

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("add post tags: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("add post tags: %w", err)
	}
	return n, nil
}

func anys(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
