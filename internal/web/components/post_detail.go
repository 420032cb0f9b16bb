package components

import (
	"github.com/a-h/templ"
	"postviewer/internal/markdown"
	"postviewer/internal/postview"
	"postviewer/internal/session"
	"postviewer/internal/web/appcore"
)

const (
	PostDetailSelectorID = "post-detail"

	confirmExcerptChars = 120
)

// PostDetail is the region patched by live and action responses.
func PostDetail(view appcore.PostPageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div`)
		hw.attr("id", PostDetailSelectorID)
		hw.attr("data-signals", signalsJSON(view.Signals()))
		hw.raw(` class="post-detail">`)

		switch state := view.State.(type) {
		case postview.Loading:
			hw.component(loadingState(view))
		case postview.Failed:
			hw.component(failedState(state))
		case postview.NotFound:
			hw.component(notFoundState(state))
		case postview.Loaded:
			hw.component(loadedState(view, state))
		}

		hw.raw(`</div>`)
	})
}

func loadingState(view appcore.PostPageView) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="text-center" aria-busy="true"`)
		hw.attr("data-init", getAction(view.LiveURL))
		hw.raw(`><div class="spinner"></div><p class="muted">`)
		hw.text(postview.MessageLoading)
		hw.raw(`</p></div>`)
	})
}

// Retry is a plain link: it reloads the whole page instead of re-fetching in place.
func failedState(state postview.Failed) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="text-center" role="alert"><p class="error">`)
		hw.text(state.Message)
		hw.raw(`</p><a class="button"`)
		hw.href(state.RetryURL)
		hw.raw(`>Tentar novamente</a></div>`)
	})
}

func notFoundState(state postview.NotFound) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="text-center"><p class="muted">`)
		hw.text(postview.MessageNotFound)
		hw.raw(`</p><a class="button"`)
		hw.href(state.BackURL)
		hw.raw(`>Voltar para posts</a></div>`)
	})
}

func loadedState(view appcore.PostPageView, state postview.Loaded) templ.Component {
	post := state.Post
	return component(func(hw *htmlWriter) {
		hw.raw(`<article class="panel post"><header class="post-header"><h1>`)
		hw.text(post.Title)
		hw.raw(`</h1><div class="post-actions"><a class="button small"`)
		hw.href(view.EditURL)
		hw.raw(`>Editar</a><a class="button small danger"`)
		hw.href(view.ArmedURL())
		hw.attr("data-on:click__prevent", "$confirm = 'armed'; "+getAction(view.LiveURL))
		hw.raw(`>Excluir</a></div></header>`)

		if state.Armed() {
			hw.component(deleteConfirmation(view, state))
		}

		hw.component(markdown.Viewer(post.Content, view.Markdown))

		hw.raw(`<footer class="post-meta muted"><p>Autor: `)
		hw.text(post.AuthorID)
		hw.raw(`</p><p>Data: `)
		hw.text(view.CreatedAtText(post))
		hw.raw(`</p></footer><nav class="post-nav"><a class="back-link"`)
		hw.href(view.BackURL)
		hw.raw(`><svg class="icon" fill="none" stroke="currentColor" viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">`)
		hw.raw(`<path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M10 19l-7-7m0 0l7-7m-7 7h18"></path></svg>`)
		hw.raw(`Voltar para posts</a></nav></article>`)
	})
}

func deleteConfirmation(view appcore.PostPageView, state postview.Loaded) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="confirm" role="alertdialog"><p>`)
		hw.text(postview.ConfirmDeletePrompt)
		hw.raw(`</p>`)
		if excerpt := markdown.Excerpt(state.Post.Content, confirmExcerptChars); excerpt != "" {
			hw.raw(`<blockquote class="muted">`)
			hw.text(excerpt)
			hw.raw(`</blockquote>`)
		}

		hw.raw(`<form method="post"`)
		hw.attr("action", string(templ.URL(view.DeleteURL)))
		hw.attr("data-on:submit__prevent", postFormAction(view.DeleteURL))
		hw.raw(`><input type="hidden"`)
		hw.attr("name", session.CSRFFieldName)
		hw.attr("value", view.CSRFToken)
		hw.raw(`><button type="submit" class="button danger">Sim, excluir</button><a class="button"`)
		hw.href(view.DetailURL)
		hw.attr("data-on:click__prevent", "$confirm = ''; "+getAction(view.LiveURL))
		hw.raw(`>Cancelar</a></form></div>`)
	})
}
