package renderer

import (
	cparser "github.com/kovetskiy/deck/parser"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DeckMathRenderer wraps equations into the \( \) and \[ \] delimiters
// picked up by MathJax.
type DeckMathRenderer struct {
	html.Config
}

func NewDeckMathRenderer(opts ...html.Option) renderer.NodeRenderer {
	return &DeckMathRenderer{
		Config: html.NewConfig(),
	}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *DeckMathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(cparser.KindMath, r.renderMath)
}

func (r *DeckMathRenderer) renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*cparser.Math)

	if n.Display {
		_, _ = w.WriteString(`<span class="math display">\[`)
		_, _ = w.Write(util.EscapeHTML(n.Equation))
		_, _ = w.WriteString(`\]</span>`)
	} else {
		_, _ = w.WriteString(`<span class="math inline">\(`)
		_, _ = w.Write(util.EscapeHTML(n.Equation))
		_, _ = w.WriteString(`\)</span>`)
	}

	return ast.WalkSkipChildren, nil
}
