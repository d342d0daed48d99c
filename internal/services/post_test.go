package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/domain"
)

func newPostFixture() (*memStore, *fakeTx, domain.PostService) {
	m := newMemStore()
	m.addPost(1, "Hello")
	m.addPost(2, "World")
	m.addTag(10, "go")
	m.addTag(11, "sql")
	m.links[link{1, 10}] = true
	tx := &fakeTx{m: m}
	return m, tx, NewPostService(m.repos(), tx)
}

func TestPostService_List(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newPostFixture()

	got, err := svc.List(ctx, domain.NewEQFilter("id=1", "id=2"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "go", got[0].Tags[0].Name)
	assert.NotNil(t, got[1].Tags)
	assert.Empty(t, got[1].Tags)

	none, err := svc.List(ctx, domain.QueryParams{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		_, _, svc := newPostFixture()
		got, err := svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Post.Title)
		assert.Len(t, got.Tags, 1)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, svc := newPostFixture()
		_, err := svc.Get(ctx, 99)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("random unknown ids", func(t *testing.T) {
		m, _, svc := newPostFixture()
		for range 50 {
			id := rand.Int64N(1<<40) + 1000
			if _, taken := m.posts[id]; taken {
				continue
			}
			_, err := svc.Get(ctx, id)
			require.ErrorIs(t, err, domain.ErrNotFound, "id %d", id)
		}
	})

	t.Run("duplicate rows", func(t *testing.T) {
		m, _, svc := newPostFixture()
		m.extraMatches = 1
		_, err := svc.Get(ctx, 1)
		require.ErrorIs(t, err, domain.ErrInconsistentState)
	})

	t.Run("backend error", func(t *testing.T) {
		m, _, svc := newPostFixture()
		m.listErr = errors.New("connection reset")
		_, err := svc.Get(ctx, 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes links then post", func(t *testing.T) {
		m, tx, svc := newPostFixture()
		require.NoError(t, svc.Delete(ctx, 1))
		assert.NotContains(t, m.posts, int64(1))
		assert.False(t, m.linked(1, 10))
		assert.Contains(t, m.tags, int64(10), "tags survive")
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("missing post", func(t *testing.T) {
		_, _, svc := newPostFixture()
		require.ErrorIs(t, svc.Delete(ctx, 99), domain.ErrNotFound)
	})
}

func TestPostService_AttachTags(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		postID    int64
		refs      domain.TagRefs
		want      int64
		errIs     error
		wantLinks []link
		missing   []string
	}{
		{
			name:      "by id and name",
			postID:    2,
			refs:      domain.TagRefs{IDs: []int64{10}, Names: []string{"sql"}},
			want:      2,
			wantLinks: []link{{2, 10}, {2, 11}},
		},
		{
			name:      "already attached is idempotent",
			postID:    1,
			refs:      domain.TagRefs{IDs: []int64{10}},
			want:      0,
			wantLinks: []link{{1, 10}},
		},
		{
			name:    "any missing reference writes nothing",
			postID:  2,
			refs:    domain.TagRefs{IDs: []int64{10, 77}, Names: []string{"rust"}},
			missing: []string{"id=77", "name=rust"},
		},
		{
			name:   "missing post",
			postID: 99,
			refs:   domain.TagRefs{IDs: []int64{10}},
			errIs:  domain.ErrNotFound,
		},
		{
			name:   "empty refs",
			postID: 2,
			refs:   domain.TagRefs{},
			errIs:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, svc := newPostFixture()
			before := len(m.links)

			got, err := svc.AttachTags(ctx, tt.postID, tt.refs)
			switch {
			case tt.missing != nil:
				var refErr *domain.ReferenceError
				require.ErrorAs(t, err, &refErr)
				assert.Equal(t, tt.missing, refErr.Missing)
				assert.Len(t, m.links, before)
			case tt.errIs != nil:
				require.ErrorIs(t, err, tt.errIs)
				assert.Len(t, m.links, before)
			case tt.refs.IsEmpty():
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				for _, l := range tt.wantLinks {
					assert.True(t, m.linked(l.postID, l.tagID), "%v", l)
				}
			}
		})
	}
}

func TestPostService_AttachTagsByQuery(t *testing.T) {
	ctx := context.Background()
	m, _, svc := newPostFixture()

	n, err := svc.AttachTagsByQuery(ctx, 2, domain.NewEQFilter("name=go", "name=nope"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, m.linked(2, 10))

	n, err = svc.AttachTagsByQuery(ctx, 2, domain.QueryParams{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_ReplaceTags(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces", func(t *testing.T) {
		m, tx, svc := newPostFixture()
		require.NoError(t, svc.ReplaceTags(ctx, 1, domain.TagRefs{Names: []string{"sql"}}))
		assert.False(t, m.linked(1, 10))
		assert.True(t, m.linked(1, 11))
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("empty clears", func(t *testing.T) {
		m, _, svc := newPostFixture()
		require.NoError(t, svc.ReplaceTags(ctx, 1, domain.TagRefs{}))
		assert.Empty(t, m.links)
	})

	t.Run("insert failure rolls back the delete", func(t *testing.T) {
		m, _, svc := newPostFixture()
		m.addErr = errors.New("insert failed")
		require.Error(t, svc.ReplaceTags(ctx, 1, domain.TagRefs{IDs: []int64{11}}))
		assert.True(t, m.linked(1, 10))
	})

	t.Run("unknown tag keeps old links", func(t *testing.T) {
		m, _, svc := newPostFixture()
		var refErr *domain.ReferenceError
		require.ErrorAs(t, svc.ReplaceTags(ctx, 1, domain.TagRefs{IDs: []int64{55}}), &refErr)
		assert.True(t, m.linked(1, 10))
	})
}

func TestPostService_AttachDetachTag(t *testing.T) {
	ctx := context.Background()
	m, _, svc := newPostFixture()

	require.NoError(t, svc.AttachTag(ctx, 2, 11))
	assert.True(t, m.linked(2, 11))
	require.NoError(t, svc.AttachTag(ctx, 2, 11))
	require.ErrorIs(t, svc.AttachTag(ctx, 2, 99), domain.ErrNotFound)

	n, err := svc.DetachTag(ctx, 2, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DetachTag(ctx, 2, 11)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.DetachTag(ctx, 99, 11)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
