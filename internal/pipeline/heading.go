package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var inlineParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough)).Parser()

// PlainText strips inline Markdown (emphasis, code spans, links) from s.
// Text that Markdown would read as a list, quote or code block is returned
// unchanged, so "2021. Results" stays as written.
func PlainText(s string) string {
	source := []byte(s)
	doc := inlineParser.Parse(text.NewReader(source))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading:
		default:
			return s
		}
	}

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && n.NextSibling() != nil {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			value := v.Segment.Value(source)
			if !v.IsRaw() {
				value = util.UnescapePunctuations(value)
			}
			b.Write(value)
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if out := strings.TrimSpace(b.String()); out != "" {
		return out
	}
	return s
}
