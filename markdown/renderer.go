package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls how untrusted markdown is turned into HTML.
type Options struct {
	// AllowRawHTML passes author-written HTML through untouched. When false
	// (the default) raw HTML is dropped by the engine and the output is run
	// through the sanitizer allow-list.
	AllowRawHTML bool
}

// Renderer converts markdown text to HTML. It is stateless and safe for
// concurrent use; a single instance is shared across requests.
type Renderer struct {
	engine       goldmark.Markdown
	policy       *bluemonday.Policy
	allowRawHTML bool
}

// NewRenderer builds a renderer with GFM tables and strikethrough enabled and
// hard wraps on, so single line breaks in the source survive into the output.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{
		html.WithHardWraps(),
	}
	if opts.AllowRawHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("img")
	policy.AllowAttrs("src", "alt").OnElements("img")

	return &Renderer{
		engine:       engine,
		policy:       policy,
		allowRawHTML: opts.AllowRawHTML,
	}
}

// Render converts markdown source to HTML. Empty input yields empty output.
func (r *Renderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}

	if r.allowRawHTML {
		return buf.String(), nil
	}
	return r.policy.Sanitize(buf.String()), nil
}
