package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Markdown converts description prose to HTML.
type Markdown interface {
	Convert(src string) (string, error)
}

// GoldmarkMarkdown renders GitHub-flavored Markdown. Raw HTML in the source
// is passed through, since descriptions routinely embed markup.
type GoldmarkMarkdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *GoldmarkMarkdown {
	return &GoldmarkMarkdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (g *GoldmarkMarkdown) Convert(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
