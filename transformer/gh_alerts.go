package transformer

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	// AlertTypeAttribute marks a blockquote holding a GitHub alert.
	AlertTypeAttribute = []byte("gh-alert-type")

	// ReplacementContent is set on a text node to render something else in
	// its place.
	ReplacementContent = []byte("replacement-content")
)

var alertTypes = []string{"note", "tip", "important", "warning", "caution"}

// GHAlertsTransformer finds blockquotes starting with GitHub alert syntax
// ([!NOTE], [!TIP], ...) and marks them for the blockquote renderer.
type GHAlertsTransformer struct{}

func NewGHAlertsTransformer() *GHAlertsTransformer {
	return &GHAlertsTransformer{}
}

// Transform implements the parser.ASTTransformer interface
func (t *GHAlertsTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		blockquote, ok := node.(*ast.Blockquote)
		if !ok {
			return ast.WalkContinue, nil
		}

		nodes, alertType := t.findMarker(blockquote, reader.Source())
		if alertType == "" {
			return ast.WalkContinue, nil
		}

		blockquote.SetAttribute(AlertTypeAttribute, []byte(alertType))

		title := strings.ToUpper(alertType[:1]) + alertType[1:]

		nodes[0].SetAttribute(ReplacementContent, []byte(""))
		nodes[1].SetAttribute(ReplacementContent, []byte("<strong>"+title+"</strong>"))
		nodes[2].SetAttribute(ReplacementContent, []byte(""))

		return ast.WalkContinue, nil
	})
}

// findMarker looks for the three text nodes "[", "!TYPE", "]" goldmark
// produces for an alert marker at the start of the first paragraph.
func (t *GHAlertsTransformer) findMarker(blockquote *ast.Blockquote, source []byte) ([]ast.Node, string) {
	paragraph := blockquote.FirstChild()
	if paragraph == nil || paragraph.Kind() != ast.KindParagraph {
		return nil, ""
	}

	var nodes []ast.Node
	for node := paragraph.FirstChild(); node != nil && len(nodes) < 3; node = node.NextSibling() {
		if node.Kind() != ast.KindText {
			break
		}

		nodes = append(nodes, node)
	}

	if len(nodes) < 3 {
		return nil, ""
	}

	left := string(nodes[0].(*ast.Text).Segment.Value(source))
	middle := string(nodes[1].(*ast.Text).Segment.Value(source))
	right := string(nodes[2].(*ast.Text).Segment.Value(source))

	if left != "[" || right != "]" || !strings.HasPrefix(middle, "!") {
		return nil, ""
	}

	alertType := strings.ToLower(strings.TrimPrefix(middle, "!"))
	for _, known := range alertTypes {
		if alertType == known {
			return nodes, alertType
		}
	}

	return nil, ""
}
