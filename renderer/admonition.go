package renderer

import (
	parser "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// AdmonitionClasses maps admonition classes to the css class used by the
// deck themes, anything else falls back to "note".
var AdmonitionClasses = map[string]string{
	"info":      "info",
	"note":      "note",
	"tip":       "tip",
	"important": "important",
	"warning":   "warning",
	"caution":   "caution",
	"danger":    "caution",
}

// DeckAdmonitionRenderer renders mkdocs style admonitions as
// <div class="admonition ...">.
type DeckAdmonitionRenderer struct {
	html.Config
}

func NewDeckAdmonitionRenderer(opts ...html.Option) renderer.NodeRenderer {
	return &DeckAdmonitionRenderer{
		Config: html.NewConfig(),
	}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs.
func (r *DeckAdmonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(parser.KindAdmonition, r.renderAdmonition)
}

func (r *DeckAdmonitionRenderer) renderAdmonition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*parser.Admonition)

	if !entering {
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	writeAdmonitionOpening(w, AdmonitionClass(string(n.AdmonitionClass)), string(n.Title))

	return ast.WalkContinue, nil
}

// AdmonitionClass normalizes an admonition or alert type.
func AdmonitionClass(kind string) string {
	if class, ok := AdmonitionClasses[kind]; ok {
		return class
	}

	return "note"
}

func writeAdmonitionOpening(w util.BufWriter, class string, title string) {
	_, _ = w.WriteString(`<div class="admonition `)
	_, _ = w.Write(util.EscapeHTML([]byte(class)))
	_, _ = w.WriteString("\">\n")

	if title != "" {
		writeElement(w, "p", "admonition-title", title)
	}
}
