package services

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"blogapi/internal/domain"
	"blogapi/internal/query"
)

type link struct{ postID, tagID int64 }

// memStore backs the fake post, tag and post_tag repositories.
type memStore struct {
	posts  map[int64]*domain.Post
	tags   map[int64]*domain.Tag
	links  map[link]bool
	nextID int64

	listErr      error
	addErr       error
	extraMatches int // copies of every post row, as if the id were not unique
}

func newMemStore() *memStore {
	return &memStore{
		posts:  make(map[int64]*domain.Post),
		tags:   make(map[int64]*domain.Tag),
		links:  make(map[link]bool),
		nextID: 100,
	}
}

func (m *memStore) addPost(id int64, title string) *domain.Post {
	p := &domain.Post{ID: id, Title: title, Author: "ann"}
	m.posts[id] = p
	return p
}

func (m *memStore) addTag(id int64, name string) *domain.Tag {
	t := &domain.Tag{ID: id, Name: name}
	m.tags[id] = t
	return t
}

func (m *memStore) repos() domain.Repositories {
	return domain.Repositories{
		Posts:    &fakePostRepo{m},
		Tags:     &fakeTagRepo{m},
		PostTags: &fakePostTagRepo{m},
	}
}

func (m *memStore) linked(postID, tagID int64) bool {
	return m.links[link{postID, tagID}]
}

// matches applies the eq bucket of params the way the compiled SQL would, then the page.
func matches[T any](params domain.QueryParams, schema query.Schema, rows []T, field func(T, string) string) []T {
	var out []T
	for _, row := range rows {
		for _, tok := range params.Filter.EQ {
			term, ok := schema.Parse(tok)
			if ok && field(row, term.Field.Column) == strings.TrimSpace(term.Raw) {
				out = append(out, row)
				break
			}
		}
	}
	if off := params.Offset(); off < len(out) {
		out = out[off:]
	} else {
		out = nil
	}
	if lim := params.Limit(); lim < len(out) {
		out = out[:lim]
	}
	return out
}

type fakePostRepo struct{ m *memStore }

func (f *fakePostRepo) List(ctx context.Context, params domain.QueryParams) ([]*domain.Post, error) {
	if f.m.listErr != nil {
		return nil, f.m.listErr
	}
	all := slices.SortedFunc(maps.Values(f.m.posts), func(a, b *domain.Post) int { return int(a.ID - b.ID) })
	for _, p := range slices.Clone(all) {
		for i := 0; i < f.m.extraMatches; i++ {
			all = append(all, p)
		}
	}
	out := matches(params, query.PostSchema, all, func(p *domain.Post, col string) string {
		switch col {
		case "id":
			return itoa(p.ID)
		case "title":
			return p.Title
		}
		return ""
	})
	return out, nil
}

func (f *fakePostRepo) Create(ctx context.Context, p *domain.Post) error {
	f.m.nextID++
	p.ID = f.m.nextID
	f.m.posts[p.ID] = p
	return nil
}

func (f *fakePostRepo) Update(ctx context.Context, p *domain.Post) error {
	if _, ok := f.m.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.m.posts[p.ID] = p
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.m.posts[id]; !ok {
		return domain.ErrNotFound
	}
	for l := range f.m.links {
		if l.postID == id {
			return domain.ErrForeignKeyViolation
		}
	}
	delete(f.m.posts, id)
	return nil
}

func (f *fakePostRepo) TagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Tag, error) {
	out := make(map[int64][]*domain.Tag)
	for _, id := range postIDs {
		for _, t := range f.m.sortedTags() {
			if f.m.linked(id, t.ID) {
				out[id] = append(out[id], t)
			}
		}
	}
	return out, nil
}

func (f *fakePostRepo) PostIDsByTag(ctx context.Context, tagID int64) ([]int64, error) {
	var ids []int64
	for l := range f.m.links {
		if l.tagID == tagID {
			ids = append(ids, l.postID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *memStore) sortedTags() []*domain.Tag {
	return slices.SortedFunc(maps.Values(m.tags), func(a, b *domain.Tag) int { return int(a.ID - b.ID) })
}

type fakeTagRepo struct{ m *memStore }

func (f *fakeTagRepo) List(ctx context.Context, params domain.QueryParams) ([]*domain.Tag, error) {
	if f.m.listErr != nil {
		return nil, f.m.listErr
	}
	return matches(params, query.TagSchema, f.m.sortedTags(), func(t *domain.Tag, col string) string {
		switch col {
		case "id":
			return itoa(t.ID)
		case "name":
			return t.Name
		}
		return ""
	}), nil
}

func (f *fakeTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	for _, existing := range f.m.tags {
		if existing.Name == t.Name {
			return domain.ErrUniqueViolation
		}
	}
	f.m.nextID++
	t.ID = f.m.nextID
	f.m.tags[t.ID] = t
	return nil
}

func (f *fakeTagRepo) Update(ctx context.Context, t *domain.Tag) error {
	if _, ok := f.m.tags[t.ID]; !ok {
		return domain.ErrNotFound
	}
	f.m.tags[t.ID] = t
	return nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.m.tags[id]; !ok {
		return domain.ErrNotFound
	}
	for l := range f.m.links {
		if l.tagID == id {
			return domain.ErrForeignKeyViolation
		}
	}
	delete(f.m.tags, id)
	return nil
}

type fakePostTagRepo struct{ m *memStore }

func (f *fakePostTagRepo) DeleteBy(ctx context.Context, sel domain.PostTagSelector) (int64, error) {
	var n int64
	for l := range f.m.links {
		hit := false
		switch sel.Kind {
		case domain.SelectByPost:
			hit = slices.Contains(sel.PostIDs, l.postID)
		case domain.SelectByTag:
			hit = slices.Contains(sel.TagIDs, l.tagID)
		case domain.SelectByPair:
			hit = slices.Contains(sel.PostIDs, l.postID) && slices.Contains(sel.TagIDs, l.tagID)
		}
		if hit {
			delete(f.m.links, l)
			n++
		}
	}
	return n, nil
}

func (f *fakePostTagRepo) Add(ctx context.Context, post *domain.Post, tags []*domain.Tag) (int64, error) {
	if f.m.addErr != nil {
		return 0, f.m.addErr
	}
	if post == nil {
		return 0, nil
	}
	var n int64
	for _, t := range tags {
		l := link{post.ID, t.ID}
		if !f.m.links[l] {
			f.m.links[l] = true
			n++
		}
	}
	return n, nil
}

// fakeTx restores the join table when fn fails, standing in for a rollback.
type fakeTx struct {
	m     *memStore
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(repos domain.Repositories) error) error {
	f.calls++
	snapshot := maps.Clone(f.m.links)
	posts := maps.Clone(f.m.posts)
	tags := maps.Clone(f.m.tags)
	if err := fn(f.m.repos()); err != nil {
		f.m.links, f.m.posts, f.m.tags = snapshot, posts, tags
		return err
	}
	return nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
