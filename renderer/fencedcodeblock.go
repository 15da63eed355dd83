package renderer

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/kovetskiy/deck/asset"
	"github.com/kovetskiy/deck/d2"
	"github.com/kovetskiy/deck/mermaid"
	"github.com/kovetskiy/deck/types"
	"github.com/reconquest/pkg/log"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DeckFencedCodeBlockRenderer renders code fences, turning d2 and mermaid
// fences into diagrams when the corresponding feature is enabled.
type DeckFencedCodeBlockRenderer struct {
	html.Config
	DeckConfig types.DeckConfig
	Assets     asset.Collector
}

var reBlockDetails = regexp.MustCompile(
	// (<Lang>|-) (<option>|\d)* (title <title>)?

	`^(?:(\w*)|-)\s*\b(\S.*?\S?)??\s*(?:\btitle\s+(\S.*\S?))?$`,
)

func NewDeckFencedCodeBlockRenderer(assets asset.Collector, cfg types.DeckConfig, opts ...html.Option) renderer.NodeRenderer {
	r := &DeckFencedCodeBlockRenderer{
		Config:     html.NewConfig(),
		DeckConfig: cfg,
		Assets:     assets,
	}

	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}

	return r
}

// RegisterFuncs implements NodeRenderer.RegisterFuncs .
func (r *DeckFencedCodeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

type blockDetails struct {
	lang      string
	title     string
	firstline int
}

func parseBlockDetails(info string) blockDetails {
	var details blockDetails

	groups := reBlockDetails.FindStringSubmatch(info)
	if len(groups) == 0 {
		return details
	}

	details.lang, details.title = groups[1], groups[3]

	for _, option := range strings.Fields(groups[2]) {
		var i int
		if _, err := fmt.Sscanf(option, "%d", &i); err == nil {
			details.firstline = i
			continue
		}

		log.Debugf(nil, "ignoring unknown code block option %q", option)
	}

	return details
}

func (r *DeckFencedCodeBlockRenderer) enabled(feature string) bool {
	return slices.Contains(r.DeckConfig.Features, feature)
}

// renderFencedCodeBlock renders a FencedCodeBlock
func (r *DeckFencedCodeBlockRenderer) renderFencedCodeBlock(writer util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var info []byte
	nodeFencedCodeBlock := node.(*ast.FencedCodeBlock)
	if nodeFencedCodeBlock.Info != nil {
		segment := nodeFencedCodeBlock.Info.Segment
		info = segment.Value(source)
	}

	details := parseBlockDetails(string(info))

	var lval []byte

	lines := node.Lines().Len()
	for i := 0; i < lines; i++ {
		line := node.Lines().At(i)
		lval = append(lval, line.Value(source)...)
	}

	var err error

	switch {
	case details.lang == "d2" && r.enabled(types.FeatureD2):
		err = r.renderD2(writer, details.title, lval)

	case details.lang == "mermaid" && r.enabled(types.FeatureMermaid):
		if r.DeckConfig.MermaidProvider == types.MermaidProviderMermaidGo {
			err = r.renderMermaid(writer, details.title, lval)
		} else {
			_, _ = writer.WriteString(`<pre class="mermaid">`)
			r.Writer.RawWrite(writer, lval)
			_, _ = writer.WriteString("</pre>\n")
		}

	default:
		r.renderCode(writer, details, lval)
	}

	if err != nil {
		log.Debugf(nil, "error: %v", err)
		return ast.WalkStop, err
	}

	return ast.WalkContinue, nil
}

func (r *DeckFencedCodeBlockRenderer) renderD2(writer util.BufWriter, title string, diagram []byte) error {
	if r.DeckConfig.DiagramFormat == types.DiagramFormatPNG {
		image, err := d2.ProcessD2(title, diagram, r.DeckConfig.D2Scale)
		if err != nil {
			return err
		}

		r.writeImage(writer, "d2", title, image)

		return nil
	}

	svg, err := d2.RenderSVG(title, diagram)
	if err != nil {
		return err
	}

	r.writeFigure(writer, "d2", title, svg)

	return nil
}

func (r *DeckFencedCodeBlockRenderer) renderMermaid(writer util.BufWriter, title string, diagram []byte) error {
	if r.DeckConfig.DiagramFormat == types.DiagramFormatPNG {
		image, err := mermaid.ProcessMermaidLocally(title, diagram, r.DeckConfig.MermaidScale)
		if err != nil {
			return err
		}

		r.writeImage(writer, "mermaid", title, image)

		return nil
	}

	svg, err := mermaid.RenderSVG(title, diagram)
	if err != nil {
		return err
	}

	r.writeFigure(writer, "mermaid", title, []byte(svg))

	return nil
}

func (r *DeckFencedCodeBlockRenderer) writeFigure(writer util.BufWriter, kind string, title string, svg []byte) {
	// An XML prolog is not valid inside an HTML document.
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}

	_, _ = writer.WriteString(`<figure class="diagram ` + kind + "\">\n")
	_, _ = writer.Write(svg)
	_ = writer.WriteByte('\n')

	if title != "" {
		writeElement(writer, "figcaption", "", title)
	}

	_, _ = writer.WriteString("</figure>\n")
}

func (r *DeckFencedCodeBlockRenderer) writeImage(writer util.BufWriter, kind string, title string, image asset.Asset) {
	r.Assets.Collect(image)

	src := path.Join(r.DeckConfig.AssetPrefix, image.Filename)
	if r.DeckConfig.InlineAssets {
		src = image.DataURI()
	}

	_, _ = writer.WriteString(`<figure class="diagram ` + kind + "\">\n<img")
	writeAttribute(writer, "src", src)
	writeAttribute(writer, "alt", title)

	if image.Width != "" {
		writeAttribute(writer, "width", image.Width)
	}

	if image.Height != "" {
		writeAttribute(writer, "height", image.Height)
	}

	if r.XHTML {
		_, _ = writer.WriteString(" />\n")
	} else {
		_, _ = writer.WriteString(">\n")
	}

	if title != "" {
		writeElement(writer, "figcaption", "", title)
	}

	_, _ = writer.WriteString("</figure>\n")
}

func (r *DeckFencedCodeBlockRenderer) renderCode(writer util.BufWriter, details blockDetails, code []byte) {
	if details.title != "" {
		_, _ = writer.WriteString("<figure class=\"code\">\n")
		writeElement(writer, "figcaption", "", details.title)
	}

	_, _ = writer.WriteString("<pre")
	if details.firstline > 0 {
		writeAttribute(writer, "data-line-start", strconv.Itoa(details.firstline))
	}

	_, _ = writer.WriteString("><code")
	if details.lang != "" {
		writeAttribute(writer, "class", "language-"+details.lang)
	}

	_ = writer.WriteByte('>')
	r.Writer.RawWrite(writer, code)
	_, _ = writer.WriteString("</code></pre>\n")

	if details.title != "" {
		_, _ = writer.WriteString("</figure>\n")
	}
}
