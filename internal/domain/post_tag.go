package domain

import "context"

// PostTag is a row of the post/tag join table.
type PostTag struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	TagID  int64 `json:"tag_id"`
}

// SelectorKind identifies which foreign keys a PostTagSelector matches on.
type SelectorKind int

const (
	// SelectByPost matches join rows of the given posts.
	SelectByPost SelectorKind = iota
	// SelectByTag matches join rows of the given tags.
	SelectByTag
	// SelectByPair matches join rows of the given posts restricted to the given tags.
	SelectByPair
)

// PostTagSelector selects join rows for deletion.
type PostTagSelector struct {
	Kind    SelectorKind
	PostIDs []int64
	TagIDs  []int64
}

// ByPosts selects every join row of the given posts.
func ByPosts(posts ...*Post) PostTagSelector {
	return PostTagSelector{Kind: SelectByPost, PostIDs: postIDs(posts)}
}

// ByTags selects every join row of the given tags.
func ByTags(tags ...*Tag) PostTagSelector {
	return PostTagSelector{Kind: SelectByTag, TagIDs: tagIDs(tags)}
}

// ByPair selects the join rows linking any of posts to any of tags.
func ByPair(posts []*Post, tags []*Tag) PostTagSelector {
	return PostTagSelector{Kind: SelectByPair, PostIDs: postIDs(posts), TagIDs: tagIDs(tags)}
}

func postIDs(posts []*Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func tagIDs(tags []*Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// PostTagRepository maintains the post/tag join table.
type PostTagRepository interface {
	// DeleteBy removes the selected join rows and returns how many were removed.
	// Removing nothing is not an error.
	DeleteBy(ctx context.Context, sel PostTagSelector) (int64, error)
	// Add links post to each tag and returns the number of rows inserted.
	// Pairs that already exist are skipped. A nil post is a no-op returning 0.
	Add(ctx context.Context, post *Post, tags []*Tag) (int64, error)
}

// Repositories groups the repositories that take part in a transaction.
type Repositories struct {
	Posts    PostRepository
	Tags     TagRepository
	PostTags PostTagRepository
}

// TxManager runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
