package services

import (
	"context"
	"fmt"

	"blogapi/internal/domain"
)

// retrieveOne expects a lookup to match exactly one row.
// No row is ErrNotFound; more than one means the data broke a uniqueness assumption.
func retrieveOne[T any](items []T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	switch len(items) {
	case 1:
		return items[0], nil
	case 0:
		return zero, domain.ErrNotFound
	default:
		return zero, fmt.Errorf("%w: expected one row, got %d", domain.ErrInconsistentState, len(items))
	}
}

func findPost(ctx context.Context, posts domain.PostRepository, id int64) (*domain.Post, error) {
	found, err := posts.List(ctx, domain.NewLookupFilter(id))
	return retrieveOne(found, err)
}

func findTag(ctx context.Context, tags domain.TagRepository, id int64) (*domain.Tag, error) {
	found, err := tags.List(ctx, domain.NewLookupFilter(id))
	return retrieveOne(found, err)
}

// withTags loads the tags of every post in a single query.
func withTags(ctx context.Context, posts domain.PostRepository, list []*domain.Post) ([]*domain.PostWithTags, error) {
	ids := make([]int64, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	tags, err := posts.TagsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PostWithTags, len(list))
	for i, p := range list {
		pt := tags[p.ID]
		if pt == nil {
			pt = []*domain.Tag{}
		}
		out[i] = &domain.PostWithTags{Post: p, Tags: pt}
	}
	return out, nil
}
