package framework

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"postviewer/framework/router"
)

type IDParams struct {
	ID string
}

type ParamsParser[P interface{}] func(path string) (P, bool)

// IDParser matches patterns with a single [id] segment, e.g. "/posts/[id]/live".
func IDParser(pattern string) ParamsParser[IDParams] {
	compiled := router.MustCompile(pattern)
	return func(path string) (IDParams, bool) {
		params, ok := compiled.Match(path)
		if !ok {
			return IDParams{}, false
		}

		id, ok := params["id"]
		return IDParams{ID: id}, ok
	}
}

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]
}

// LiveModule answers Datastar requests by patching the element SelectorID.
type LiveModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	SelectorID  string
	Render      PageRenderer[VM]
}

type ActionResult[VM interface{}] struct {
	// RedirectTo navigates away; View is ignored when it is set.
	RedirectTo string
	View       VM
	StatusCode int
}

type ActionHandler[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (ActionResult[VM], error)

// ActionModule handles a state-changing request. Partial requests get an SSE
// redirect or patch; plain form posts get a 303 or a full page.
type ActionModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	Method      string
	ParseParams ParamsParser[P]
	Handle      ActionHandler[C, P, VM]
	SelectorID  string
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	IsPartialRequest(r *http.Request) bool
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component, statusCode int) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	Redirect(w http.ResponseWriter, r *http.Request, location string) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondBadRequest(w http.ResponseWriter, message string)
	RespondServerError(w http.ResponseWriter, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
}

// RedirectError lets loaders and actions navigate instead of rendering.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.Location
}

func Redirect(location string) error {
	return &RedirectError{Location: location}
}

var ErrBadRequest = errors.New("bad request")

func BadRequest(message string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, message)
}

type RouteHandler[C interface{}] interface {
	TryServe(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return servePageModule(runtime, w, r, h.Page)
}

type LiveRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Live LiveModule[C, P, VM]
}

func (h LiveRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return serveLiveModule(runtime, w, r, h.Live)
}

type ActionRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Action ActionModule[C, P, VM]
}

func (h ActionRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	method := h.Action.Method
	if method == "" {
		method = http.MethodPost
	}
	if r.Method != method {
		return false
	}
	return serveActionModule(runtime, w, r, h.Action)
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.EscapedPath())
	if !ok {
		return false
	}

	view, err := module.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
		return true
	}

	component := module.Render(view)
	if !runtime.IsPartialRequest(r) {
		component = applyLayouts(module.Layouts, view, component)
	}
	if err := runtime.RenderPage(r, w, component, 0); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("render route %q: %w", module.Pattern, err))
	}
	return true
}

func serveLiveModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module LiveModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.EscapedPath())
	if !ok {
		return false
	}

	view, err := module.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
		return true
	}

	if err := runtime.PatchLive(w, r, module.SelectorID, module.Render(view)); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("patch live route %q: %w", module.Pattern, err))
	}
	return true
}

func serveActionModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module ActionModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.EscapedPath())
	if !ok {
		return false
	}

	result, err := module.Handle(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
		return true
	}

	if result.RedirectTo != "" {
		if err := runtime.Redirect(w, r, result.RedirectTo); err != nil {
			runtime.RespondServerError(w, fmt.Errorf("redirect action %q: %w", module.Pattern, err))
		}
		return true
	}

	component := module.Render(result.View)
	if runtime.IsPartialRequest(r) {
		err = runtime.PatchLive(w, r, module.SelectorID, component)
	} else {
		err = runtime.RenderPage(r, w, applyLayouts(module.Layouts, result.View, component), result.StatusCode)
	}
	if err != nil {
		runtime.RespondServerError(w, fmt.Errorf("render action %q: %w", module.Pattern, err))
	}
	return true
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	source NotFoundSource,
) {
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		if redirectErr := runtime.Redirect(w, r, redirect.Location); redirectErr != nil {
			runtime.RespondServerError(w, fmt.Errorf("redirect route %q: %w", routePattern, redirectErr))
		}
		return
	}

	if errors.Is(err, ErrBadRequest) {
		runtime.RespondBadRequest(w, err.Error())
		return
	}

	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
		})
		return
	}

	runtime.RespondServerError(w, fmt.Errorf("load route %q: %w", routePattern, err))
}
