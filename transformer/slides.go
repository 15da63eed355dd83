package transformer

import (
	"bytes"
	"strings"

	cparser "github.com/kovetskiy/deck/parser"
	"github.com/kovetskiy/deck/metadata"
	"github.com/reconquest/pkg/log"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// SlideTransformer regroups the top-level nodes of a document into
// slides, splitting at every top-level thematic break, and resolves
// directive comments into per-slide directives.
type SlideTransformer struct {
	Meta *metadata.Meta
}

func NewSlideTransformer(meta *metadata.Meta) *SlideTransformer {
	if meta == nil {
		meta = &metadata.Meta{}
	}

	return &SlideTransformer{Meta: meta}
}

type pendingSlide struct {
	nodes      []ast.Node
	directives []metadata.Directive
}

// Transform implements the parser.ASTTransformer interface
func (t *SlideTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var children []ast.Node
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		children = append(children, child)
	}

	pending := []*pendingSlide{{}}
	for _, child := range children {
		current := pending[len(pending)-1]

		if child.Kind() == ast.KindThematicBreak {
			doc.RemoveChild(doc, child)
			pending = append(pending, &pendingSlide{})
			continue
		}

		if directives, ok := extractDirectives(child, source); ok {
			doc.RemoveChild(doc, child)
			current.directives = append(current.directives, directives...)
			continue
		}

		current.nodes = append(current.nodes, child)
	}

	carry := t.Meta.Local.Clone()

	for index, item := range pending {
		effective := carry.Clone()
		var spots []metadata.Directive

		for _, directive := range item.directives {
			switch {
			case directive.Global():
				t.Meta.Set(directive)
			case directive.Spot:
				spots = append(spots, directive)
			default:
				carry[directive.Name] = directive.Value
				effective[directive.Name] = directive.Value
			}
		}

		for _, directive := range spots {
			effective[directive.Name] = directive.Value
		}

		slide := cparser.NewSlide(index+1, effective)
		slide.Total = len(pending)

		for _, node := range item.nodes {
			slide.AppendChild(slide, node)
		}

		doc.AppendChild(doc, slide)
	}

	log.Tracef(nil, "document split into %d slides", len(pending))
}

// extractDirectives returns the directives of an HTML comment block, ok is
// false for any other node.
func extractDirectives(node ast.Node, source []byte) ([]metadata.Directive, bool) {
	block, ok := node.(*ast.HTMLBlock)
	if !ok || block.HTMLBlockType != ast.HTMLBlockType2 {
		return nil, false
	}

	var buffer bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buffer.Write(line.Value(source))
	}

	if block.HasClosure() {
		buffer.Write(block.ClosureLine.Value(source))
	}

	comment := strings.TrimSpace(buffer.String())
	if !strings.HasPrefix(comment, "<!--") || !strings.HasSuffix(comment, "-->") {
		return nil, false
	}

	body := strings.TrimSuffix(strings.TrimPrefix(comment, "<!--"), "-->")

	return metadata.ParseComment(body)
}
