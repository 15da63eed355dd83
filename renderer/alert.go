package renderer

import (
	"github.com/kovetskiy/deck/transformer"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DeckBlockQuoteRenderer renders blockquotes marked by the GitHub alerts
// transformer as admonitions and every other blockquote as is.
type DeckBlockQuoteRenderer struct {
	html.Config
}

func NewDeckBlockQuoteRenderer(opts ...html.Option) renderer.NodeRenderer {
	return &DeckBlockQuoteRenderer{
		Config: html.NewConfig(),
	}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs
func (r *DeckBlockQuoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindBlockquote, r.renderBlockQuote)
}

func (r *DeckBlockQuoteRenderer) renderBlockQuote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	alert := ""
	if value, ok := node.Attribute(transformer.AlertTypeAttribute); ok {
		if typed, ok := value.([]byte); ok {
			alert = string(typed)
		}
	}

	if alert != "" {
		if entering {
			writeAdmonitionOpening(w, AdmonitionClass(alert), "")
		} else {
			_, _ = w.WriteString("</div>\n")
		}

		return ast.WalkContinue, nil
	}

	if entering {
		if node.Attributes() != nil {
			_, _ = w.WriteString("<blockquote")
			html.RenderAttributes(w, node, html.BlockquoteAttributeFilter)
			_, _ = w.WriteString(">\n")
		} else {
			_, _ = w.WriteString("<blockquote>\n")
		}
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}

	return ast.WalkContinue, nil
}
