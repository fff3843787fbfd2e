package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/starford/mdview/pkg/models"
)

// md is safe for concurrent use; each Parse call gets its own context.
var md = goldmark.New(
	goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
)

// Outline returns the headings of a markdown body in document order, with
// the anchor ids a renderer using auto heading ids would assign.
func Outline(source []byte) []models.Heading {
	headings := []models.Heading{}
	if len(source) == 0 {
		return headings
	}
	doc := md.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		item := models.Heading{Level: h.Level, Text: string(h.Text(source))}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				item.ID = string(b)
			}
		}
		headings = append(headings, item)
		return ast.WalkSkipChildren, nil
	})
	return headings
}
