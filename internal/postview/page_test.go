package postview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"postviewer/internal/posts"
	"postviewer/internal/session"
)

type deleteCall struct {
	id       string
	authorID string
}

type fakePosts struct {
	post      *posts.Post
	getErr    error
	deleteErr error

	getCalls    []string
	deleteCalls []deleteCall
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*posts.Post, error) {
	f.getCalls = append(f.getCalls, id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.post, nil
}

func (f *fakePosts) DeletePost(_ context.Context, id string, authorID string) error {
	f.deleteCalls = append(f.deleteCalls, deleteCall{id: id, authorID: authorID})
	return f.deleteErr
}

func samplePost() *posts.Post {
	return &posts.Post{
		ID:        "42",
		Title:     "Hello",
		Content:   "# Title\n\nBody text",
		AuthorID:  "u1",
		CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func quiet(string, ...any) {}

func newPage(svc *fakePosts, token session.TokenSource) *Page {
	return New("42", svc, token, Routes{}, WithLogger(quiet))
}

func TestNewPageStartsLoading(t *testing.T) {
	page := newPage(&fakePosts{}, session.Static("jwt"))

	assert.Equal(t, Loading{}, page.State())
}

func TestActivateWithoutTokenRedirectsToLogin(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := newPage(svc, session.Static(""))

	result := page.Activate(context.Background())

	assert.Equal(t, "/login", result.Redirect)
	assert.True(t, result.Navigates())
	assert.Empty(t, svc.getCalls)
}

func TestActivateNilTokenSourceRedirects(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := New("42", svc, nil, Routes{Login: "/auth"}, WithLogger(quiet))

	assert.Equal(t, "/auth", page.Activate(context.Background()).Redirect)
	assert.Empty(t, svc.getCalls)
}

func TestActivateLoadsPost(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := newPage(svc, session.Static("jwt"))

	result := page.Activate(context.Background())

	require.False(t, result.Navigates())
	loaded, ok := result.State.(Loaded)
	require.True(t, ok, "expected Loaded, got %T", result.State)
	assert.Equal(t, *samplePost(), loaded.Post)
	assert.False(t, loaded.Armed())
	assert.Equal(t, []string{"42"}, svc.getCalls)
}

func TestActivateFetchFailureHidesDetail(t *testing.T) {
	var logged []string
	svc := &fakePosts{getErr: errors.New("upstream exploded")}
	page := New("42", svc, session.Static("jwt"), Routes{}, WithLogger(func(format string, _ ...any) {
		logged = append(logged, format)
	}))

	result := page.Activate(context.Background())

	failed, ok := result.State.(Failed)
	require.True(t, ok, "expected Failed, got %T", result.State)
	assert.Equal(t, "Erro ao carregar post", failed.Message)
	assert.Equal(t, "/posts/42", failed.RetryURL)
	assert.Len(t, logged, 1)
}

func TestActivateAbsentPostIsNotFound(t *testing.T) {
	page := newPage(&fakePosts{}, session.Static("jwt"))

	result := page.Activate(context.Background())

	assert.Equal(t, NotFound{BackURL: "/posts"}, result.State)
}

func TestConfirmDeleteCallsServiceWithIDAndAuthor(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := newPage(svc, session.Static("jwt"))
	page.Activate(context.Background())

	armed := page.ArmDelete()
	require.True(t, armed.(Loaded).Armed())

	result := page.ConfirmDelete(context.Background())

	assert.Equal(t, []deleteCall{{id: "42", authorID: "u1"}}, svc.deleteCalls)
	assert.Equal(t, "/posts", result.Redirect)
}

func TestConfirmDeleteFailureStaysOnPage(t *testing.T) {
	svc := &fakePosts{post: samplePost(), deleteErr: errors.New("forbidden")}
	page := newPage(svc, session.Static("jwt"))
	page.Activate(context.Background())
	page.ArmDelete()

	result := page.ConfirmDelete(context.Background())

	assert.False(t, result.Navigates())
	assert.Equal(t, Failed{Message: "Erro ao excluir post", RetryURL: "/posts/42"}, result.State)
	assert.Equal(t, result.State, page.State())
	assert.Len(t, svc.deleteCalls, 1)
}

func TestCancelDeleteLeavesLoadedViewUnchanged(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := newPage(svc, session.Static("jwt"))
	before := page.Activate(context.Background()).State

	page.ArmDelete()
	after := page.CancelDelete()

	assert.Equal(t, before, after)
	assert.Empty(t, svc.deleteCalls)
}

func TestConfirmDeleteRequiresArmedLoadedPost(t *testing.T) {
	svc := &fakePosts{post: samplePost()}
	page := newPage(svc, session.Static("jwt"))

	page.ConfirmDelete(context.Background())
	page.Activate(context.Background())
	result := page.ConfirmDelete(context.Background())

	assert.Empty(t, svc.deleteCalls)
	assert.False(t, result.Navigates())
	assert.IsType(t, Loaded{}, result.State)
}

func TestArmDeleteIgnoredOutsideLoaded(t *testing.T) {
	page := newPage(&fakePosts{getErr: errors.New("boom")}, session.Static("jwt"))
	page.Activate(context.Background())

	assert.IsType(t, Failed{}, page.ArmDelete())
	assert.IsType(t, Failed{}, page.CancelDelete())
}

func TestNavigationTargets(t *testing.T) {
	page := New("a b", &fakePosts{}, session.Static("jwt"), Routes{List: "/blog/posts/"}, WithLogger(quiet))

	assert.Equal(t, "/blog/posts/a%20b/edit", page.EditURL())
	assert.Equal(t, "/blog/posts/", page.BackURL())
	assert.Equal(t, "/blog/posts/a%20b", page.ReloadURL())
	assert.Equal(t, Loading{}, page.State(), "navigation must not change state")
}

func TestDetailURLEscapesID(t *testing.T) {
	assert.Equal(t, "/posts/42", DetailURL("/posts", "42"))
	assert.Equal(t, "/posts/a%2Fb", DetailURL("/posts/", "a/b"))
	assert.Equal(t, "/42", DetailURL("", "42"))
	assert.Equal(t, "/po[sts/7", DetailURL("/po[sts", "7"))
}
