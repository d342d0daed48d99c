package services

import (
	"context"
	"fmt"
	"strconv"

	"blogapi/internal/domain"
)

type postService struct {
	repos domain.Repositories
	tx    domain.TxManager
}

// NewPostService creates a PostService. Multi-step mutations run through tx.
func NewPostService(repos domain.Repositories, tx domain.TxManager) domain.PostService {
	return &postService{repos: repos, tx: tx}
}

func (s *postService) List(ctx context.Context, params domain.QueryParams) ([]*domain.PostWithTags, error) {
	posts, err := s.repos.Posts.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return withTags(ctx, s.repos.Posts, posts)
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.PostWithTags, error) {
	post, err := findPost(ctx, s.repos.Posts, id)
	if err != nil {
		return nil, err
	}
	out, err := withTags(ctx, s.repos.Posts, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *postService) Create(ctx context.Context, post *domain.Post) error {
	return s.repos.Posts.Create(ctx, post)
}

func (s *postService) Update(ctx context.Context, post *domain.Post) error {
	return s.repos.Posts.Update(ctx, post)
}

// Delete removes the post's tag links and then the post, in one transaction.
func (s *postService) Delete(ctx context.Context, id int64) error {
	return s.tx.Do(ctx, func(r domain.Repositories) error {
		post, err := findPost(ctx, r.Posts, id)
		if err != nil {
			return err
		}
		if _, err := r.PostTags.DeleteBy(ctx, domain.ByPosts(post)); err != nil {
			return err
		}
		return r.Posts.Delete(ctx, post.ID)
	})
}

func (s *postService) AttachTags(ctx context.Context, postID int64, refs domain.TagRefs) (int64, error) {
	if refs.IsEmpty() {
		return 0, domain.NewValidationError("tags", "at least one tag id or name is required")
	}
	var added int64
	err := s.tx.Do(ctx, func(r domain.Repositories) error {
		post, err := findPost(ctx, r.Posts, postID)
		if err != nil {
			return err
		}
		tags, err := resolveTags(ctx, r.Tags, refs)
		if err != nil {
			return err
		}
		added, err = r.PostTags.Add(ctx, post, tags)
		return err
	})
	return added, err
}

func (s *postService) AttachTagsByQuery(ctx context.Context, postID int64, params domain.QueryParams) (int64, error) {
	var added int64
	err := s.tx.Do(ctx, func(r domain.Repositories) error {
		post, err := findPost(ctx, r.Posts, postID)
		if err != nil {
			return err
		}
		tags, err := r.Tags.List(ctx, params)
		if err != nil {
			return err
		}
		added, err = r.PostTags.Add(ctx, post, tags)
		return err
	})
	return added, err
}

// ReplaceTags drops every tag of the post and attaches refs. Empty refs clear the post's tags.
func (s *postService) ReplaceTags(ctx context.Context, postID int64, refs domain.TagRefs) error {
	return s.tx.Do(ctx, func(r domain.Repositories) error {
		post, err := findPost(ctx, r.Posts, postID)
		if err != nil {
			return err
		}
		var tags []*domain.Tag
		if !refs.IsEmpty() {
			if tags, err = resolveTags(ctx, r.Tags, refs); err != nil {
				return err
			}
		}
		if _, err := r.PostTags.DeleteBy(ctx, domain.ByPosts(post)); err != nil {
			return err
		}
		_, err = r.PostTags.Add(ctx, post, tags)
		return err
	})
}

func (s *postService) AttachTag(ctx context.Context, postID, tagID int64) error {
	return s.tx.Do(ctx, func(r domain.Repositories) error {
		post, err := findPost(ctx, r.Posts, postID)
		if err != nil {
			return err
		}
		tag, err := findTag(ctx, r.Tags, tagID)
		if err != nil {
			return err
		}
		_, err = r.PostTags.Add(ctx, post, []*domain.Tag{tag})
		return err
	})
}

func (s *postService) DetachTag(ctx context.Context, postID, tagID int64) (int64, error) {
	post, err := findPost(ctx, s.repos.Posts, postID)
	if err != nil {
		return 0, err
	}
	tag, err := findTag(ctx, s.repos.Tags, tagID)
	if err != nil {
		return 0, err
	}
	return s.repos.PostTags.DeleteBy(ctx, domain.ByPair([]*domain.Post{post}, []*domain.Tag{tag}))
}

// resolveTags looks up every referenced tag. Any reference that matches no tag fails the whole lookup.
func resolveTags(ctx context.Context, repo domain.TagRepository, refs domain.TagRefs) ([]*domain.Tag, error) {
	tokens := make([]string, 0, len(refs.IDs)+len(refs.Names))
	for _, id := range refs.IDs {
		tokens = append(tokens, "id="+strconv.FormatInt(id, 10))
	}
	for _, name := range refs.Names {
		tokens = append(tokens, "name="+name)
	}
	found, err := repo.List(ctx, domain.NewEQFilter(tokens...).WithStep(len(tokens)))
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	byID := make(map[int64]bool, len(found))
	byName := make(map[string]bool, len(found))
	for _, t := range found {
		byID[t.ID] = true
		byName[t.Name] = true
	}
	var missing []string
	for _, id := range refs.IDs {
		if !byID[id] {
			missing = append(missing, "id="+strconv.FormatInt(id, 10))
		}
	}
	for _, name := range refs.Names {
		if !byName[name] {
			missing = append(missing, "name="+name)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ReferenceError{Kind: "tags", Missing: missing}
	}
	return found, nil
}
