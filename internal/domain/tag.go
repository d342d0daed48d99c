package domain

import "context"

// Tag represents a named label that can be attached to posts.
// swagger:model Tag
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagDeletion reports a removed tag and how many post associations went with it.
// swagger:model TagDeletion
type TagDeletion struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	RemovedAssociations int64  `json:"removed_associations"`
}

// TagRepository defines storage for tags.
type TagRepository interface {
	// List runs the filter/sort/page parameters against the tags table.
	List(ctx context.Context, params QueryParams) ([]*Tag, error)
	Create(ctx context.Context, tag *Tag) error
	// Update renames a tag. Returns ErrNotFound when no row matches.
	Update(ctx context.Context, tag *Tag) error
	// Delete removes the tag row. Returns ErrNotFound when no row matches.
	Delete(ctx context.Context, id int64) error
}

// TagService defines the business logic for tags.
type TagService interface {
	List(ctx context.Context, params QueryParams) ([]*Tag, error)
	Get(ctx context.Context, id int64) (*Tag, error)
	Create(ctx context.Context, name string) (*Tag, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) (*TagDeletion, error)
	// Posts returns the posts carrying the tag, paged and ordered by params.
	Posts(ctx context.Context, tagID int64, params QueryParams) ([]*PostWithTags, error)
}
