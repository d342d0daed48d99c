package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/delivery/http/middleware"
	"blogapi/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newRequest builds a request with chi URL params given as name/value pairs.
func newRequest(method, target, body string, params ...string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withPrincipal(req *http.Request, p domain.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

type envelope struct {
	helpers.APIResponse
	Data json.RawMessage `json:"data,omitempty"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

type fakePostService struct {
	posts      []*domain.PostWithTags
	err        error
	lastParams domain.QueryParams
	lastPost   *domain.Post
	lastRefs   domain.TagRefs
	lastPair   [2]int64
	byQuery    bool
	deleted    int64
}

func (f *fakePostService) List(_ context.Context, params domain.QueryParams) ([]*domain.PostWithTags, error) {
	f.lastParams = params
	return f.posts, f.err
}

func (f *fakePostService) Get(_ context.Context, id int64) (*domain.PostWithTags, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.posts {
		if p.Post.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePostService) Create(_ context.Context, post *domain.Post) error {
	if f.err != nil {
		return f.err
	}
	post.ID = 42
	f.lastPost = post
	return nil
}

func (f *fakePostService) Update(_ context.Context, post *domain.Post) error {
	f.lastPost = post
	return f.err
}

func (f *fakePostService) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakePostService) AttachTags(_ context.Context, postID int64, refs domain.TagRefs) (int64, error) {
	f.lastPair[0] = postID
	f.lastRefs = refs
	return int64(len(refs.IDs) + len(refs.Names)), f.err
}

func (f *fakePostService) AttachTagsByQuery(_ context.Context, postID int64, params domain.QueryParams) (int64, error) {
	f.lastPair[0] = postID
	f.lastParams = params
	f.byQuery = true
	return 1, f.err
}

func (f *fakePostService) ReplaceTags(_ context.Context, postID int64, refs domain.TagRefs) error {
	f.lastPair[0] = postID
	f.lastRefs = refs
	return f.err
}

func (f *fakePostService) AttachTag(_ context.Context, postID, tagID int64) error {
	f.lastPair = [2]int64{postID, tagID}
	return f.err
}

func (f *fakePostService) DetachTag(_ context.Context, postID, tagID int64) (int64, error) {
	f.lastPair = [2]int64{postID, tagID}
	return 1, f.err
}

type fakeTagService struct {
	tags       []*domain.Tag
	posts      []*domain.PostWithTags
	err        error
	lastParams domain.QueryParams
	lastName   string
	lastTagID  int64
}

func (f *fakeTagService) List(_ context.Context, params domain.QueryParams) ([]*domain.Tag, error) {
	f.lastParams = params
	return f.tags, f.err
}

func (f *fakeTagService) Get(_ context.Context, id int64) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTagService) Create(_ context.Context, name string) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastName = name
	return &domain.Tag{ID: 7, Name: name}, nil
}

func (f *fakeTagService) Update(_ context.Context, id int64, name string) error {
	f.lastTagID, f.lastName = id, name
	return f.err
}

func (f *fakeTagService) Delete(_ context.Context, id int64) (*domain.TagDeletion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TagDeletion{ID: id, Name: "go", RemovedAssociations: 3}, nil
}

func (f *fakeTagService) Posts(_ context.Context, tagID int64, params domain.QueryParams) ([]*domain.PostWithTags, error) {
	f.lastTagID = tagID
	f.lastParams = params
	return f.posts, f.err
}

type fakeUserService struct {
	user        *domain.UserWithRole
	users       []*domain.UserWithRole
	err         error
	lastID      int64
	lastChanges domain.UserChanges
	lastNew     domain.NewUser
	selfUpdate  bool
}

func (f *fakeUserService) Create(_ context.Context, in domain.NewUser) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastNew = in
	return &domain.User{ID: 9, Email: in.Email, RoleID: domain.RoleStandard}, nil
}

func (f *fakeUserService) Get(_ context.Context, id int64) (*domain.UserWithRole, error) {
	f.lastID = id
	return f.user, f.err
}

func (f *fakeUserService) ListOthers(_ context.Context, self int64) ([]*domain.UserWithRole, error) {
	f.lastID = self
	return f.users, f.err
}

func (f *fakeUserService) UpdateSelf(_ context.Context, self int64, changes domain.UserChanges) error {
	f.lastID, f.lastChanges, f.selfUpdate = self, changes, true
	return f.err
}

func (f *fakeUserService) Update(_ context.Context, id int64, changes domain.UserChanges) error {
	f.lastID, f.lastChanges = id, changes
	return f.err
}

func (f *fakeUserService) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeUserService) ConfirmPassword(_ context.Context, id int64, _ string) error {
	f.lastID = id
	return f.err
}

type fakeRoleService struct {
	roles    []*domain.Role
	err      error
	lastID   int64
	lastName string
}

func (f *fakeRoleService) List(context.Context) ([]*domain.Role, error) {
	return f.roles, f.err
}

func (f *fakeRoleService) Get(_ context.Context, id int64) (*domain.Role, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Role{ID: id, Name: "admin"}, nil
}

func (f *fakeRoleService) Create(_ context.Context, name string) (*domain.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastName = name
	return &domain.Role{ID: 3, Name: name}, nil
}

func (f *fakeRoleService) Update(_ context.Context, id int64, name string) error {
	f.lastID, f.lastName = id, name
	return f.err
}

func (f *fakeRoleService) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

type fakeAuthService struct {
	session *domain.Session
	err     error
}

func (f *fakeAuthService) Login(context.Context, string, string) (*domain.Session, error) {
	return f.session, f.err
}
