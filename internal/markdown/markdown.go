// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article sources into HTML using goldmark.
// Raw HTML passes through so that component tags such as <Callout> reach
// the component expander; any capitalised tag outside the supported
// component set is rejected. The heading outline for the table of contents
// is collected from the same parse.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"voiceaikb/internal/models"
)

// Style is the chroma style used for code highlighting.
const Style = "monokai"

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle(Style),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(), // {#custom-id} on headings
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(), // component tags are raw HTML
	),
)

var (
	// mermaidFence matches a fenced mermaid block. It is rewritten into a
	// <pre class="mermaid"> HTML block so the diagram source skips highlighting.
	mermaidFence = regexp.MustCompile("(?ms)^```mermaid[ \t]*\n(.*?)^```[ \t]*$")

	// selfClosing matches self-closing component tags. The HTML parser does
	// not honour "/>" on unknown elements, so they are expanded.
	selfClosing = regexp.MustCompile(`<(Callout|Tabs|Tab|Diagram|MetricsCard|Metric|CodeBlock)\b([^<>]*?)\s*/>`)

	// tagName captures element names of opening and closing tags in raw HTML.
	tagName = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)`)
)

// MinTOCLevel and MaxTOCLevel bound the heading levels kept in the outline.
const (
	MinTOCLevel = 2
	MaxTOCLevel = 4
)

// Result is the output of Render.
type Result struct {
	HTML     string
	Headings []models.Heading
}

// Render converts the article body to HTML and collects its outline.
// It fails with models.ErrUnknownComponent when a capitalised tag is not a
// supported component.
func Render(source []byte) (*Result, error) {
	source = preprocess(source)

	doc := md.Parser().Parse(text.NewReader(source))

	var headings []models.Heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level < MinTOCLevel || node.Level > MaxTOCLevel {
				return ast.WalkContinue, nil
			}
			h := models.Heading{Level: node.Level, Text: nodeText(node, source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			headings = append(headings, h)
		case *ast.HTMLBlock:
			var raw bytes.Buffer
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				raw.Write(seg.Value(source))
			}
			if node.HasClosure() {
				raw.Write(node.ClosureLine.Value(source))
			}
			if err := checkTags(raw.Bytes()); err != nil {
				return ast.WalkStop, err
			}
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				if err := checkTags(seg.Value(source)); err != nil {
					return ast.WalkStop, err
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &Result{HTML: buf.String(), Headings: headings}, nil
}

// preprocess applies the source rewrites described on mermaidFence and
// selfClosing.
func preprocess(source []byte) []byte {
	source = mermaidFence.ReplaceAllFunc(source, func(m []byte) []byte {
		body := mermaidFence.FindSubmatch(m)[1]
		return []byte("<pre class=\"mermaid\">\n" + html.EscapeString(string(body)) + "</pre>")
	})
	return selfClosing.ReplaceAll(source, []byte("<$1$2></$1>"))
}

// checkTags validates every capitalised tag name in a raw HTML fragment.
func checkTags(raw []byte) error {
	for _, m := range tagName.FindAllSubmatch(raw, -1) {
		name := string(m[1])
		if name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		if _, err := models.ParseComponent(name); err != nil {
			return err
		}
	}
	return nil
}

// nodeText concatenates the text content below n.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return html.UnescapeString(buf.String())
}

// HighlightCSS returns the stylesheet for highlighted code blocks.
func HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(Style)); err != nil {
		return "", fmt.Errorf("write highlight css: %w", err)
	}
	return buf.String(), nil
}
