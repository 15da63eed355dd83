package renderer

import (
	"strconv"
	"strings"

	cparser "github.com/kovetskiy/deck/parser"
	"github.com/kovetskiy/deck/metadata"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type DeckSlideRenderer struct {
	html.Config
}

func NewDeckSlideRenderer(opts ...html.Option) renderer.NodeRenderer {
	return &DeckSlideRenderer{
		Config: html.NewConfig(),
	}
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *DeckSlideRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(cparser.KindSlide, r.renderSlide)
}

func (r *DeckSlideRenderer) renderSlide(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*cparser.Slide)
	directives := n.Directives
	index := strconv.Itoa(n.Index)

	if entering {
		_, _ = w.WriteString(`<section id="` + index + `" data-slide="` + index + `"`)

		if class := directives[metadata.DirectiveClass]; class != "" {
			writeAttribute(w, "class", class)
		}

		if style := slideStyle(directives); style != "" {
			writeAttribute(w, "style", style)
		}

		if directives.Bool(metadata.DirectivePaginate) {
			_, _ = w.WriteString(` data-paginate="true"`)
		}

		_, _ = w.WriteString(">\n")

		if header := directives[metadata.DirectiveHeader]; header != "" {
			writeElement(w, "header", "", header)
		}

		return ast.WalkContinue, nil
	}

	if footer := directives[metadata.DirectiveFooter]; footer != "" {
		writeElement(w, "footer", "", footer)
	}

	if directives.Bool(metadata.DirectivePaginate) {
		writeElement(w, "span", "pagination", index)
	}

	_, _ = w.WriteString("</section>\n")

	return ast.WalkContinue, nil
}

func slideStyle(directives metadata.Directives) string {
	var rules []string

	if background := directives[metadata.DirectiveBackgroundColor]; background != "" {
		rules = append(rules, "background-color: "+background)
	}

	if color := directives[metadata.DirectiveColor]; color != "" {
		rules = append(rules, "color: "+color)
	}

	return strings.Join(rules, "; ")
}

func writeAttribute(w util.BufWriter, name string, value string) {
	_, _ = w.WriteString(" " + name + `="`)
	_, _ = w.Write(util.EscapeHTML([]byte(value)))
	_ = w.WriteByte('"')
}

func writeElement(w util.BufWriter, tag string, class string, text string) {
	_, _ = w.WriteString("<" + tag)
	if class != "" {
		writeAttribute(w, "class", class)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML([]byte(text)))
	_, _ = w.WriteString("</" + tag + ">\n")
}
