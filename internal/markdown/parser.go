package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders note content. Raw HTML in notes is not passed through.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts markdown to HTML; frontmatter is consumed, not rendered.
func (p *Parser) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Parser) ExtractFrontmatter(source []byte) map[string]any {
	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return make(map[string]any)
	}

	var meta map[string]any
	err := data.Decode(&meta)
	if err != nil {
		return make(map[string]any)
	}
	return meta
}

// Tags reads the frontmatter "tags" key, given either as a list or as a
// comma separated string.
func (p *Parser) Tags(source []byte) []string {
	raw, ok := p.ExtractFrontmatter(source)["tags"]
	if !ok {
		return nil
	}

	var tags []string
	switch v := raw.(type) {
	case string:
		for _, t := range strings.Split(v, ",") {
			tags = append(tags, strings.TrimSpace(t))
		}
	case []any:
		for _, t := range v {
			tags = append(tags, strings.TrimSpace(fmt.Sprint(t)))
		}
	}
	return tags
}
