package components

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"postviewer/framework"
	"postviewer/internal/posts"
	"postviewer/internal/postview"
	"postviewer/internal/web/appcore"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()

	var b bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &b))
	return b.String()
}

func baseView(state postview.State) appcore.PostPageView {
	return appcore.PostPageView{
		PageTitle:  "Hello",
		PostID:     "42",
		State:      state,
		CSRFToken:  "tok",
		DetailURL:  "/posts/42",
		LiveURL:    "/posts/42/live",
		DeleteURL:  "/posts/42/delete",
		EditURL:    "/posts/42/edit",
		BackURL:    "/posts",
		DateLayout: "02/01/2006",
	}
}

func loaded(confirm postview.Confirmation) postview.Loaded {
	return postview.Loaded{
		Post: posts.Post{
			ID:        "42",
			Title:     "Hello <world>",
			Content:   "Plain paragraph",
			AuthorID:  "u1",
			CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Confirm: confirm,
	}
}

func TestPostDetailLoading(t *testing.T) {
	html := render(t, PostDetail(baseView(postview.Loading{})))

	assert.Contains(t, html, `id="post-detail"`)
	assert.Contains(t, html, "Carregando post...")
	assert.Contains(t, html, `data-init="@get(&#34;/posts/42/live&#34;)"`)
}

func TestPostDetailFailed(t *testing.T) {
	html := render(t, PostDetail(baseView(postview.Failed{Message: postview.MessageLoadFailed, RetryURL: "/posts/42"})))

	assert.Contains(t, html, "Erro ao carregar post")
	assert.Contains(t, html, `href="/posts/42"`)
	assert.NotContains(t, html, "data-init")
}

func TestPostDetailNotFound(t *testing.T) {
	html := render(t, PostDetail(baseView(postview.NotFound{BackURL: "/posts"})))

	assert.Contains(t, html, "Post não encontrado")
	assert.Contains(t, html, `href="/posts"`)
}

func TestPostDetailLoadedEscapesPost(t *testing.T) {
	html := render(t, PostDetail(baseView(loaded(postview.ConfirmIdle))))

	assert.Contains(t, html, "Hello &lt;world&gt;")
	assert.Contains(t, html, "<p>Plain paragraph</p>")
	assert.Contains(t, html, "Autor: u1")
	assert.Contains(t, html, "Data: 02/01/2024")
	assert.Contains(t, html, `href="/posts/42/edit"`)
	assert.Contains(t, html, `href="/posts/42?confirm=delete"`)
	assert.Contains(t, html, `data-signals="{&#34;confirm&#34;:&#34;&#34;}"`)
	assert.NotContains(t, html, postview.ConfirmDeletePrompt)
}

func TestPostDetailArmedShowsConfirmation(t *testing.T) {
	html := render(t, PostDetail(baseView(loaded(postview.ConfirmArmed))))

	assert.Contains(t, html, postview.ConfirmDeletePrompt)
	assert.Contains(t, html, `<blockquote class="muted">Plain paragraph</blockquote>`)
	assert.Contains(t, html, `name="csrf_token" value="tok"`)
	assert.Contains(t, html, `data-on:submit__prevent="@post(&#34;/posts/42/delete&#34;, {contentType: &#39;form&#39;})"`)
	assert.Contains(t, html, `data-signals="{&#34;confirm&#34;:&#34;armed&#34;}"`)
}

func TestLayoutWrapsChild(t *testing.T) {
	view := baseView(loaded(postview.ConfirmIdle))
	view.Description = "A short summary"

	html := render(t, Layout(view, "/static", PostDetail(view)))

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, `<html lang="pt-BR">`)
	assert.Contains(t, html, "<title>Hello :: blog</title>")
	assert.Contains(t, html, `content="A short summary"`)
	assert.Contains(t, html, `href="/static/post.css"`)
	assert.Contains(t, html, "prefers-color-scheme: dark")
	assert.Contains(t, html, `id="post-detail"`)
}

func TestNotFoundPageEscapesPath(t *testing.T) {
	html := render(t, NotFoundPage("/static")(framework.NotFoundContext{RequestPath: "/<x>"}))

	assert.Contains(t, html, "404")
	assert.Contains(t, html, "/&lt;x&gt;")
}
