package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultCodeStyleLight = "github"
	DefaultCodeStyleDark  = "github-dark"
)

var chromaCSSCache sync.Map

// ChromaCSS returns the code highlight stylesheet for the light and dark
// styles in opts. A style named "none" is left out.
func ChromaCSS(opts Options) template.CSS {
	light, dark := codeStyles(opts)
	key := light + "|" + dark
	if cached, ok := chromaCSSCache.Load(key); ok {
		return cached.(template.CSS)
	}

	css := template.CSS(buildChromaCSS(light, dark))
	chromaCSSCache.Store(key, css)
	return css
}

func codeStyles(opts Options) (string, string) {
	light := strings.ToLower(strings.TrimSpace(opts.CodeStyleLight))
	if light == "" {
		light = DefaultCodeStyleLight
	}
	dark := strings.ToLower(strings.TrimSpace(opts.CodeStyleDark))
	if dark == "" {
		dark = DefaultCodeStyleDark
	}
	return light, dark
}

func buildChromaCSS(light string, dark string) string {
	var out strings.Builder
	if css := styleCSS(light); css != "" {
		out.WriteString("@media (prefers-color-scheme: light) {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}
	if css := styleCSS(dark); css != "" {
		out.WriteString("@media (prefers-color-scheme: dark) {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}

	return out.String()
}

func styleCSS(name string) string {
	if name == "none" {
		return ""
	}

	style := styles.Get(name)
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buffer bytes.Buffer
	if err := formatter.WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
