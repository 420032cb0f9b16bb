package appcore

import (
	"errors"
	"strings"

	"postviewer/internal/markdown"
	"postviewer/internal/postview"
)

var errPostServiceUnavailable = errors.New("post service unavailable")

type Settings struct {
	SessionCookie string
	Routes        postview.Routes
	DateLayout    string
	Markdown      markdown.Options
	Logf          func(format string, args ...any)
}

type Context struct {
	service  postview.PostService
	settings Settings
}

func NewContext(service postview.PostService, settings Settings) *Context {
	defaults := postview.DefaultRoutes()
	if strings.TrimSpace(settings.Routes.Login) == "" {
		settings.Routes.Login = defaults.Login
	}
	if strings.TrimSpace(settings.Routes.List) == "" {
		settings.Routes.List = defaults.List
	}

	return &Context{service: service, settings: settings}
}

func (c *Context) Settings() Settings {
	if c == nil {
		return Settings{Routes: postview.DefaultRoutes()}
	}
	return c.settings
}

func postService(appCtx *Context) (postview.PostService, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errPostServiceUnavailable
	}

	return appCtx.service, nil
}
