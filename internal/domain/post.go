package domain

import (
	"context"
	"time"
)

// Post represents a blog post.
// swagger:model Post
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Created     *time.Time `json:"created"`
	LastUpdated *time.Time `json:"last_updated"`
	Content     *string    `json:"content"`
}

// PostWithTags pairs a post with the tags attached to it.
// swagger:model PostWithTags
type PostWithTags struct {
	Post *Post  `json:"post"`
	Tags []*Tag `json:"tags"`
}

// TagRefs names tags by id, by name, or both.
type TagRefs struct {
	IDs   []int64  `json:"id"`
	Names []string `json:"name"`
}

// IsEmpty reports whether no tag was referenced.
func (r TagRefs) IsEmpty() bool {
	return len(r.IDs) == 0 && len(r.Names) == 0
}

// PostRepository defines storage for posts.
type PostRepository interface {
	// List runs the filter/sort/page parameters against the posts table.
	List(ctx context.Context, params QueryParams) ([]*Post, error)
	Create(ctx context.Context, post *Post) error
	// Update replaces title, author and content and stamps last_updated.
	// Returns ErrNotFound when no row matches.
	Update(ctx context.Context, post *Post) error
	// Delete removes the post row only. Returns ErrNotFound when no row matches.
	Delete(ctx context.Context, id int64) error
	// TagsForPosts returns the tags of each given post, keyed by post id.
	TagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]*Tag, error)
	// PostIDsByTag returns the distinct ids of posts carrying the tag.
	PostIDsByTag(ctx context.Context, tagID int64) ([]int64, error)
}

// PostService defines the business logic for posts and their tags.
type PostService interface {
	List(ctx context.Context, params QueryParams) ([]*PostWithTags, error)
	Get(ctx context.Context, id int64) (*PostWithTags, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
	// AttachTags attaches every referenced tag or none of them.
	AttachTags(ctx context.Context, postID int64, refs TagRefs) (int64, error)
	// AttachTagsByQuery attaches whatever tags the filter parameters resolve to.
	AttachTagsByQuery(ctx context.Context, postID int64, params QueryParams) (int64, error)
	// ReplaceTags drops all tags of the post and attaches the referenced ones.
	ReplaceTags(ctx context.Context, postID int64, refs TagRefs) error
	AttachTag(ctx context.Context, postID, tagID int64) error
	DetachTag(ctx context.Context, postID, tagID int64) (int64, error)
}
