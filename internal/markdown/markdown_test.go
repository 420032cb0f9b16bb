package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderViewer(t *testing.T, content string) string {
	t.Helper()

	var b bytes.Buffer
	require.NoError(t, Viewer(content, Options{}).Render(context.Background(), &b))
	return b.String()
}

func TestViewerRendersHeadingAndParagraph(t *testing.T) {
	html := renderViewer(t, "# Title\n\nBody text")

	assert.True(t, strings.HasPrefix(html, `<div class="prose max-w-none">`), html)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title</h1>")
	assert.Contains(t, html, "<p>Body text</p>")
}

func TestViewerAcceptsAnyInput(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t",
		"**unclosed",
		"[broken](",
		"| a | b |\n|---|\n| 1 |",
		"```\nno closing fence",
		"<script>alert(1)</script>",
		"\x00\xff",
	}

	for _, input := range inputs {
		html := renderViewer(t, input)
		assert.Contains(t, html, `<div class="prose max-w-none">`, "input %q", input)
		assert.NotContains(t, html, "<script>", "input %q", input)
	}
}

func TestToHTML_EmptyInput(t *testing.T) {
	assert.Empty(t, string(ToHTML("", Options{})))
}

func TestToHTML_ExternalLinksOpenInNewTab(t *testing.T) {
	html := string(ToHTML("[external](https://example.com/read)", Options{
		RootURL: "https://blog.example.org",
	}))

	assert.Contains(t, html, `href="https://example.com/read"`)
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, `rel="noopener noreferrer"`)
}

func TestToHTML_NormalizesSameDomainAbsoluteLinks(t *testing.T) {
	html := string(ToHTML("[same](https://blog.example.org/posts/7?x=1#k)", Options{
		RootURL: "https://blog.example.org",
	}))

	assert.Contains(t, html, `href="/posts/7?x=1#k"`)
	assert.NotContains(t, html, `target="_blank"`)
	assert.NotContains(t, html, `rel="noopener noreferrer"`)
}

func TestToHTML_RelativeLinksStayInTab(t *testing.T) {
	html := string(ToHTML("[list](/posts)", Options{}))

	assert.Contains(t, html, `href="/posts"`)
	assert.NotContains(t, html, `target="_blank"`)
}

func TestToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```go\nfmt.Println(\"hello\")\n```"
	html := string(ToHTML(source, Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestToHTML_RendersInlineCodeClass(t *testing.T) {
	html := string(ToHTML("Use `go test ./...` now.", Options{}))

	if !strings.Contains(html, `<code class="inline-code">go test ./...</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestExcerpt_StripsMarkdown(t *testing.T) {
	got := Excerpt("# Title\n\nSome **bold** text with a [link](https://example.com).", 200)

	assert.Equal(t, "Title Some bold text with a link.", got)
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}

func TestChromaCSSIsCached(t *testing.T) {
	first := ChromaCSS(Options{})

	assert.NotEmpty(t, string(first))
	assert.Equal(t, first, ChromaCSS(Options{}))
	assert.Equal(t, first, ChromaCSS(Options{CodeStyleLight: DefaultCodeStyleLight, CodeStyleDark: DefaultCodeStyleDark}))
	assert.Contains(t, string(first), "prefers-color-scheme: light")
	assert.Contains(t, string(first), "prefers-color-scheme: dark")
}

func TestChromaCSSFollowsConfiguredStyles(t *testing.T) {
	lightOnly := string(ChromaCSS(Options{CodeStyleLight: "github", CodeStyleDark: "none"}))
	assert.Contains(t, lightOnly, "prefers-color-scheme: light")
	assert.NotContains(t, lightOnly, "prefers-color-scheme: dark")

	monokai := string(ChromaCSS(Options{CodeStyleLight: "none", CodeStyleDark: "monokai"}))
	assert.NotContains(t, monokai, "prefers-color-scheme: light")
	assert.Contains(t, monokai, "prefers-color-scheme: dark")
	assert.NotEqual(t, lightOnly, monokai)
}
