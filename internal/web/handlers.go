package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"postviewer/framework"
	"postviewer/framework/httpserver"
	"postviewer/framework/router"
	"postviewer/internal/config"
	"postviewer/internal/markdown"
	"postviewer/internal/postview"
	"postviewer/internal/session"
	"postviewer/internal/web/appcore"
	"postviewer/internal/web/components"
)

const staticURLPrefix = "/static/"

// NewHandler serves the post detail page, its live region and the delete action.
func NewHandler(cfg config.Config, service postview.PostService) (http.Handler, error) {
	appCtx := appcore.NewContext(service, appcore.Settings{
		SessionCookie: cfg.SessionCookie,
		Routes: postview.Routes{
			Login: cfg.LoginPath,
			List:  cfg.PostsPath,
		},
		DateLayout: cfg.DateLayout,
		Markdown: markdown.Options{
			RootURL:        cfg.RootURL,
			CodeStyleLight: cfg.CodeStyleLight,
			CodeStyleDark:  cfg.CodeStyleDark,
		},
		Logf: log.Printf,
	})

	detail, _, _ := routePatterns(cfg.PostsPath)
	if _, err := router.Compile(detail); err != nil {
		return nil, fmt.Errorf("post routes: %w", err)
	}

	cachePolicies := httpserver.DefaultCachePolicies()
	if strings.TrimSpace(cfg.CacheHTML) != "" {
		cachePolicies.HTML = cfg.CacheHTML
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext:   appCtx,
		Handlers:     Handlers(cfg.PostsPath),
		NotFoundPage: components.NotFoundPage(staticURLPrefix),
		Static: httpserver.StaticMount{
			URLPrefix: staticURLPrefix,
			Dir:       cfg.StaticDir,
		},
		CachePolicies: cachePolicies,
		LogServerError: func(err error) {
			log.Printf("post viewer server error: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	return session.WithCSRF(cfg.SecureCookies, handler), nil
}

// Handlers lists the post routes under postsPath, e.g. "/posts/[id]".
func Handlers(postsPath string) []framework.RouteHandler[*appcore.Context] {
	detail, live, remove := routePatterns(postsPath)
	layouts := []framework.LayoutRenderer[appcore.PostPageView]{layout}

	return []framework.RouteHandler[*appcore.Context]{
		framework.LiveRouteHandler[*appcore.Context, framework.IDParams, appcore.PostPageView]{
			Live: framework.LiveModule[*appcore.Context, framework.IDParams, appcore.PostPageView]{
				Pattern:     live,
				ParseParams: framework.IDParser(live),
				Load:        appcore.LoadPostLive,
				SelectorID:  components.PostDetailSelectorID,
				Render:      components.PostDetail,
			},
		},
		framework.ActionRouteHandler[*appcore.Context, framework.IDParams, appcore.PostPageView]{
			Action: framework.ActionModule[*appcore.Context, framework.IDParams, appcore.PostPageView]{
				Pattern:     remove,
				Method:      http.MethodPost,
				ParseParams: framework.IDParser(remove),
				Handle:      appcore.DeletePost,
				SelectorID:  components.PostDetailSelectorID,
				Render:      components.PostDetail,
				Layouts:     layouts,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, framework.IDParams, appcore.PostPageView]{
			Page: framework.PageModule[*appcore.Context, framework.IDParams, appcore.PostPageView]{
				Pattern:     detail,
				ParseParams: framework.IDParser(detail),
				Load:        appcore.LoadPostPage,
				Render:      components.PostDetail,
				Layouts:     layouts,
			},
		},
	}
}

func routePatterns(postsPath string) (detail string, live string, remove string) {
	detail = strings.TrimRight(postsPath, "/") + "/[id]"
	return detail, detail + "/live", detail + "/delete"
}

func layout(view appcore.PostPageView, child templ.Component) templ.Component {
	return components.Layout(view, strings.TrimRight(staticURLPrefix, "/"), child)
}
