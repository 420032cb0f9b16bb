package appcore

import (
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"postviewer/framework"
	"postviewer/internal/postview"
	"postviewer/internal/session"
)

// LoadPostPage renders the shell in the loading state; the fetch runs in
// LoadPostLive once the page is in the browser. With ?confirm=delete the post
// is resolved here and the confirmation rendered, so the delete form works
// without scripts.
func LoadPostPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.IDParams,
) (PostPageView, error) {
	page, err := newPage(appCtx, r, params)
	if err != nil {
		return PostPageView{}, err
	}
	if !session.HasToken(session.FromRequest(r, appCtx.Settings().SessionCookie)) {
		return PostPageView{}, framework.Redirect(appCtx.Settings().Routes.Login)
	}

	if confirmRequested(r.URL.Query()) {
		result := page.Activate(ctx)
		if result.Navigates() {
			return PostPageView{}, framework.Redirect(result.Redirect)
		}
		page.ArmDelete()
	}

	return newPostPageView(page, appCtx.Settings(), session.CSRFTokenFromContext(ctx)), nil
}

func LoadPostLive(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.IDParams,
) (PostPageView, error) {
	page, err := newPage(appCtx, r, params)
	if err != nil {
		return PostPageView{}, err
	}

	fallback := PostSignalState{}
	if confirmRequested(r.URL.Query()) {
		fallback.Confirm = confirmArmedSignal
	}
	state, err := readDatastarState(r, fallback)
	if err != nil {
		return PostPageView{}, framework.BadRequest("invalid datastar signal payload")
	}

	result := page.Activate(ctx)
	if result.Navigates() {
		return PostPageView{}, framework.Redirect(result.Redirect)
	}

	if state.Armed() {
		page.ArmDelete()
	} else {
		page.CancelDelete()
	}

	return newPostPageView(page, appCtx.Settings(), session.CSRFTokenFromContext(ctx)), nil
}

// DeletePost runs the confirmed delete. Submitting the confirmation form is
// the confirmation, so the page is armed before ConfirmDelete.
func DeletePost(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.IDParams,
) (framework.ActionResult[PostPageView], error) {
	page, err := newPage(appCtx, r, params)
	if err != nil {
		return framework.ActionResult[PostPageView]{}, err
	}
	if !session.ValidCSRF(r) {
		return framework.ActionResult[PostPageView]{}, framework.BadRequest("invalid csrf token")
	}

	result := page.Activate(ctx)
	if result.Navigates() {
		return framework.ActionResult[PostPageView]{RedirectTo: result.Redirect}, nil
	}

	if _, loaded := result.State.(postview.Loaded); loaded {
		page.ArmDelete()
		result = page.ConfirmDelete(ctx)
		if result.Navigates() {
			return framework.ActionResult[PostPageView]{RedirectTo: result.Redirect}, nil
		}
	}

	view := newPostPageView(page, appCtx.Settings(), session.CSRFTokenFromContext(ctx))
	if failed, ok := view.State.(postview.Failed); ok {
		// Refetch failures surface as delete failures.
		failed.Message = postview.MessageDeleteFailed
		view.State = failed
	}

	return framework.ActionResult[PostPageView]{
		View:       view,
		StatusCode: statusForState(view.State),
	}, nil
}

func newPage(appCtx *Context, r *http.Request, params framework.IDParams) (*postview.Page, error) {
	service, err := postService(appCtx)
	if err != nil {
		return nil, err
	}

	settings := appCtx.Settings()
	opts := []postview.Option{}
	if settings.Logf != nil {
		opts = append(opts, postview.WithLogger(settings.Logf))
	}

	return postview.New(
		params.ID,
		service,
		session.FromRequest(r, settings.SessionCookie),
		settings.Routes,
		opts...,
	), nil
}

func statusForState(state postview.State) int {
	switch state.(type) {
	case postview.Failed:
		return http.StatusBadGateway
	case postview.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

func readDatastarState[T interface{}](r *http.Request, fallback T) (T, error) {
	if r.Method == http.MethodGet && strings.TrimSpace(r.URL.Query().Get(datastar.DatastarKey)) == "" {
		return fallback, nil
	}

	parsed := fallback
	if err := datastar.ReadSignals(r, &parsed); err != nil {
		return fallback, err
	}

	return parsed, nil
}
