package renderer

import (
	"unicode"
	"unicode/utf8"

	"github.com/kovetskiy/deck/transformer"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DeckTextRenderer renders text nodes. Soft line breaks become a newline,
// or a <br> when the converter is built with html.WithHardWraps.
type DeckTextRenderer struct {
	html.Config
}

func NewDeckTextRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &DeckTextRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs
func (r *DeckTextRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindText, r.renderText)
}

// This follows https://github.com/yuin/goldmark/blob/v1.7.12/renderer/html/html.go#L652
func (r *DeckTextRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.Text)

	if replacement, ok := node.Attribute(transformer.ReplacementContent); ok && replacement != nil {
		if content, ok := replacement.([]byte); ok {
			_, err := w.Write(content)
			if err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkContinue, nil
		}
	}

	segment := n.Segment
	if n.IsRaw() {
		r.Writer.RawWrite(w, segment.Value(source))
		return ast.WalkContinue, nil
	}

	value := segment.Value(source)
	r.Writer.Write(w, value)

	switch {
	case n.HardLineBreak() || (n.SoftLineBreak() && r.HardWraps):
		if r.XHTML {
			_, _ = w.WriteString("<br />\n")
		} else {
			_, _ = w.WriteString("<br>\n")
		}

	case n.SoftLineBreak():
		if r.EastAsianLineBreaks == html.EastAsianLineBreaksNone || len(value) == 0 {
			_ = w.WriteByte('\n')
			break
		}

		sibling := node.NextSibling()
		if sibling == nil || sibling.Kind() != ast.KindText {
			break
		}

		siblingText := sibling.(*ast.Text).Value(source)
		if len(siblingText) == 0 {
			break
		}

		thisLastRune := util.ToRune(value, len(value)-1)
		siblingFirstRune, _ := utf8.DecodeRune(siblingText)

		if r.keepSoftLineBreak(thisLastRune, siblingFirstRune) {
			_ = w.WriteByte('\n')
		}
	}

	return ast.WalkContinue, nil
}

func (r *DeckTextRenderer) keepSoftLineBreak(thisLastRune rune, siblingFirstRune rune) bool {
	switch r.EastAsianLineBreaks {
	case html.EastAsianLineBreaksSimple:
		return !util.IsEastAsianWideRune(thisLastRune) || !util.IsEastAsianWideRune(siblingFirstRune)
	case html.EastAsianLineBreaksCSS3Draft:
		return css3DraftSoftLineBreak(thisLastRune, siblingFirstRune)
	default:
		return false
	}
}

// css3DraftSoftLineBreak implements the CSS text level 3 segment break
// transformation rules:
// https://www.w3.org/TR/2020/WD-css-text-3-20200429/#line-break-transform
func css3DraftSoftLineBreak(thisLastRune rune, siblingFirstRune rune) bool {
	if thisLastRune == '\u200B' || siblingFirstRune == '\u200B' {
		return false
	}

	thisWidth := util.EastAsianWidth(thisLastRune)
	siblingWidth := util.EastAsianWidth(siblingFirstRune)
	if isWide(thisWidth) && isWide(siblingWidth) {
		return unicode.Is(unicode.Hangul, thisLastRune) || unicode.Is(unicode.Hangul, siblingFirstRune)
	}

	if util.IsSpaceDiscardingUnicodeRune(thisLastRune) ||
		unicode.IsPunct(thisLastRune) ||
		thisLastRune == '\u3000' ||
		util.IsSpaceDiscardingUnicodeRune(siblingFirstRune) ||
		unicode.IsPunct(siblingFirstRune) ||
		siblingFirstRune == '\u3000' {
		return false
	}

	return true
}

func isWide(width string) bool {
	return width == "F" || width == "W" || width == "H"
}
