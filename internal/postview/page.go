// Package postview drives the post detail page: fetch on activation, edit and
// back navigation, and delete behind an explicit confirmation step.
package postview

import (
	"context"
	"log"
	"net/url"
	"strings"

	"postviewer/framework/router"
	"postviewer/internal/posts"
	"postviewer/internal/session"
)

type PostService interface {
	GetPostByID(ctx context.Context, id string) (*posts.Post, error)
	DeletePost(ctx context.Context, id string, authorID string) error
}

type Routes struct {
	Login string
	List  string
}

func DefaultRoutes() Routes {
	return Routes{Login: "/login", List: "/posts"}
}

type Page struct {
	id     string
	posts  PostService
	token  session.TokenSource
	routes Routes
	logf   func(format string, args ...any)

	state State
}

type Option func(*Page)

// WithLogger replaces log.Printf for failures that are hidden from the user.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(p *Page) {
		if logf != nil {
			p.logf = logf
		}
	}
}

func New(id string, service PostService, token session.TokenSource, routes Routes, opts ...Option) *Page {
	defaults := DefaultRoutes()
	if strings.TrimSpace(routes.Login) == "" {
		routes.Login = defaults.Login
	}
	if strings.TrimSpace(routes.List) == "" {
		routes.List = defaults.List
	}

	page := &Page{
		id:     strings.TrimSpace(id),
		posts:  service,
		token:  token,
		routes: routes,
		logf:   log.Printf,
		state:  Loading{},
	}
	for _, opt := range opts {
		opt(page)
	}

	return page
}

func (p *Page) ID() string {
	return p.id
}

func (p *Page) State() State {
	return p.state
}

// Activate checks the session and fetches the post. Without a token it
// redirects to the login route and never calls the post service.
func (p *Page) Activate(ctx context.Context) Result {
	if !session.HasToken(p.token) {
		return Result{State: p.state, Redirect: p.routes.Login}
	}

	p.state = Loading{}
	post, err := p.posts.GetPostByID(ctx, p.id)
	switch {
	case err != nil:
		p.logf("load post %q: %v", p.id, err)
		p.state = Failed{Message: MessageLoadFailed, RetryURL: p.ReloadURL()}
	case post == nil:
		p.state = NotFound{BackURL: p.BackURL()}
	default:
		p.state = Loaded{Post: *post}
	}

	return Result{State: p.state}
}

// ArmDelete asks for confirmation. Only a loaded post can be armed.
func (p *Page) ArmDelete() State {
	if loaded, ok := p.state.(Loaded); ok {
		loaded.Confirm = ConfirmArmed
		p.state = loaded
	}

	return p.state
}

func (p *Page) CancelDelete() State {
	if loaded, ok := p.state.(Loaded); ok {
		loaded.Confirm = ConfirmIdle
		p.state = loaded
	}

	return p.state
}

// ConfirmDelete deletes the armed post. On success the page navigates to the
// list; on failure it stays and shows the delete error.
func (p *Page) ConfirmDelete(ctx context.Context) Result {
	loaded, ok := p.state.(Loaded)
	if !ok || !loaded.Armed() {
		return Result{State: p.state}
	}

	if err := p.posts.DeletePost(ctx, p.id, loaded.Post.AuthorID); err != nil {
		p.logf("delete post %q: %v", p.id, err)
		p.state = Failed{Message: MessageDeleteFailed, RetryURL: p.ReloadURL()}
		return Result{State: p.state}
	}

	return Result{State: p.state, Redirect: p.routes.List}
}

func (p *Page) EditURL() string {
	return DetailURL(p.routes.List, p.id) + "/edit"
}

func (p *Page) BackURL() string {
	return p.routes.List
}

func (p *Page) ReloadURL() string {
	return DetailURL(p.routes.List, p.id)
}

// DetailURL builds "{listPath}/[id]" with the id escaped as one path segment.
func DetailURL(listPath string, id string) string {
	base := strings.TrimRight(listPath, "/")
	pattern, err := router.Compile(base + "/[id]")
	if err == nil {
		if built, buildErr := pattern.Build(map[string]string{"id": id}); buildErr == nil {
			return built
		}
	}

	return base + "/" + url.PathEscape(id)
}
