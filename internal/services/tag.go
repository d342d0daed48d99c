package services

import (
	"context"
	"strconv"

	"blogapi/internal/domain"
)

type tagService struct {
	repos domain.Repositories
	tx    domain.TxManager
}

// NewTagService creates a TagService. Tag deletion runs through tx.
func NewTagService(repos domain.Repositories, tx domain.TxManager) domain.TagService {
	return &tagService{repos: repos, tx: tx}
}

func (s *tagService) List(ctx context.Context, params domain.QueryParams) ([]*domain.Tag, error) {
	return s.repos.Tags.List(ctx, params)
}

func (s *tagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return findTag(ctx, s.repos.Tags, id)
}

func (s *tagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	tag := &domain.Tag{Name: name}
	if err := s.repos.Tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id int64, name string) error {
	return s.repos.Tags.Update(ctx, &domain.Tag{ID: id, Name: name})
}

// Delete removes every post link of the tag and then the tag, in one transaction.
func (s *tagService) Delete(ctx context.Context, id int64) (*domain.TagDeletion, error) {
	var out *domain.TagDeletion
	err := s.tx.Do(ctx, func(r domain.Repositories) error {
		tag, err := findTag(ctx, r.Tags, id)
		if err != nil {
			return err
		}
		removed, err := r.PostTags.DeleteBy(ctx, domain.ByTags(tag))
		if err != nil {
			return err
		}
		if err := r.Tags.Delete(ctx, tag.ID); err != nil {
			return err
		}
		out = &domain.TagDeletion{ID: tag.ID, Name: tag.Name, RemovedAssociations: removed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Posts applies only the order and page parameters; the filter is the set of posts carrying the tag.
// An unknown or deleted tag yields an empty list.
func (s *tagService) Posts(ctx context.Context, tagID int64, params domain.QueryParams) ([]*domain.PostWithTags, error) {
	ids, err := s.repos.Posts.PostIDsByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.PostWithTags{}, nil
	}
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = "id=" + strconv.FormatInt(id, 10)
	}
	q := domain.QueryParams{
		Filter: domain.Filters{EQ: tokens},
		Order:  params.Order,
		Start:  params.Start,
		Step:   params.Step,
	}
	posts, err := s.repos.Posts.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return withTags(ctx, s.repos.Posts, posts)
}
