package components

import (
	"strings"

	"github.com/a-h/templ"
	"postviewer/framework"
	"postviewer/internal/markdown"
	"postviewer/internal/web/appcore"
)

const datastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

type LayoutOptions struct {
	Title       string
	Description string
	StaticURL   string
	// CodeCSS is omitted when empty.
	CodeCSS string
}

func Layout(view appcore.PostPageView, staticURL string, child templ.Component) templ.Component {
	return page(LayoutOptions{
		Title:       view.LayoutTitle(),
		Description: view.Description,
		StaticURL:   staticURL,
		CodeCSS:     string(markdown.ChromaCSS(view.Markdown)),
	}, child)
}

func page(opts LayoutOptions, child templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<!doctype html><html lang="pt-BR"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(opts.Title)
		hw.raw(`</title>`)
		if strings.TrimSpace(opts.Description) != "" {
			hw.raw(`<meta name="description"`)
			hw.attr("content", opts.Description)
			hw.raw(`>`)
		}
		if strings.TrimSpace(opts.StaticURL) != "" {
			hw.raw(`<link rel="stylesheet"`)
			hw.href(strings.TrimRight(opts.StaticURL, "/") + "/post.css")
			hw.raw(`>`)
		}
		if opts.CodeCSS != "" {
			hw.raw(`<style>` + opts.CodeCSS + `</style>`)
		}
		hw.raw(`<script type="module"`)
		hw.attr("src", datastarScriptURL)
		hw.raw(`></script></head><body><main class="page">`)
		hw.component(child)
		hw.raw(`</main></body></html>`)
	})
}

func NotFoundPage(staticURL string) func(framework.NotFoundContext) templ.Component {
	return func(notFoundContext framework.NotFoundContext) templ.Component {
		path := strings.TrimSpace(notFoundContext.RequestPath)
		if path == "" {
			path = "/"
		}

		return page(LayoutOptions{Title: "404 Not Found :: blog", StaticURL: staticURL}, component(func(hw *htmlWriter) {
			hw.raw(`<section class="panel text-center"><h1>404</h1><p>Nada encontrado em <code>`)
			hw.text(path)
			hw.raw(`</code></p></section>`)
		}))
	}
}
