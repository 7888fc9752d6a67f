// Package markdown renders Markdown snippets, such as index descriptions, to HTML with Goldmark.
package markdown

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading found in the rendered document. Anchor is the id
// attribute the heading carries in the HTML.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ParseResult contains the rendered document.
type ParseResult struct {
	HTML     string    `json:"html"`
	Headings []Heading `json:"headings"`
	// Title is the first level-one heading, or the first heading of any
	// level when there is none.
	Title string `json:"title"`
}

// Parser renders Markdown with GFM extensions and inline-styled code highlighting.
// Raw HTML in the source is not passed through.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a new markdown parser with extensions
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	return &Parser{md: md}
}

// Parse converts markdown source to HTML and collects its headings.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	doc := p.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, err
	}

	result := &ParseResult{
		HTML:     buf.String(),
		Headings: collectHeadings(doc, source),
	}
	for _, h := range result.Headings {
		if h.Level == 1 {
			result.Title = h.Title
			break
		}
	}
	if result.Title == "" && len(result.Headings) > 0 {
		result.Title = result.Headings[0].Title
	}
	return result, nil
}

func collectHeadings(doc ast.Node, source []byte) []Heading {
	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			h := Heading{
				Level: heading.Level,
				Title: extractText(heading, source),
			}
			if id, ok := heading.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.Anchor = string(b)
				}
			}
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// extractText concatenates the text segments below n, descending into
// emphasis and links.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			continue
		}
		buf.WriteString(extractText(child, source))
	}
	return buf.String()
}
