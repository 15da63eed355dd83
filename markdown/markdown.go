package markdown

import (
	"bytes"
	"slices"

	"github.com/kovetskiy/deck/asset"
	"github.com/kovetskiy/deck/metadata"
	"github.com/kovetskiy/deck/options"
	cparser "github.com/kovetskiy/deck/parser"
	crenderer "github.com/kovetskiy/deck/renderer"
	"github.com/kovetskiy/deck/transformer"
	"github.com/kovetskiy/deck/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	mkDocsParser "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DeckExtension plugs slides, directives and diagrams into goldmark.
type DeckExtension struct {
	html.Config
	Meta       *metadata.Meta
	DeckConfig types.DeckConfig
	Assets     []asset.Asset
}

func NewDeckExtension(meta *metadata.Meta, cfg types.DeckConfig) *DeckExtension {
	return &DeckExtension{
		Config:     html.NewConfig(),
		Meta:       meta,
		DeckConfig: cfg,
		Assets:     []asset.Asset{},
	}
}

func (d *DeckExtension) Collect(a asset.Asset) {
	d.Assets = append(d.Assets, a)
}

func (d *DeckExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(crenderer.NewDeckTextRenderer(), 100),
		util.Prioritized(crenderer.NewDeckSlideRenderer(), 100),
		util.Prioritized(crenderer.NewDeckBlockQuoteRenderer(), 100),
		util.Prioritized(crenderer.NewDeckFencedCodeBlockRenderer(d, d.DeckConfig), 100),
	))

	if slices.Contains(d.DeckConfig.Features, types.FeatureAdmonitions) {
		m.Parser().AddOptions(
			parser.WithBlockParsers(
				util.Prioritized(mkDocsParser.NewAdmonitionParser(), 100),
			),
		)

		m.Renderer().AddOptions(renderer.WithNodeRenderers(
			util.Prioritized(crenderer.NewDeckAdmonitionRenderer(), 100),
		))
	}

	if slices.Contains(d.DeckConfig.Features, types.FeatureMath) {
		m.Parser().AddOptions(parser.WithInlineParsers(
			util.Prioritized(cparser.NewMathParser(), 100),
		))

		m.Renderer().AddOptions(renderer.WithNodeRenderers(
			util.Prioritized(crenderer.NewDeckMathRenderer(), 100),
		))
	}

	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(transformer.NewGHAlertsTransformer(), 100),
		// Runs after the footnote transformer so the footnote list lands on
		// the last slide.
		util.Prioritized(transformer.NewSlideTransformer(d.Meta), 1000),
	))
}

// NewConverter builds a goldmark converter out of the markdown switches of
// a .deckrc file.
func NewConverter(opts options.RendererOptions, ext *DeckExtension) goldmark.Markdown {
	extensions := []goldmark.Extender{
		extension.Footnote,
		extension.DefinitionList,
		extension.NewTable(
			extension.WithTableCellAlignMethod(extension.TableCellAlignStyle),
		),
		extension.Strikethrough,
		extension.TaskList,
		ext,
	}

	if opts.Markdown.Linkify {
		extensions = append(extensions, extension.Linkify)
	}

	if opts.Markdown.Typographer {
		extensions = append(extensions, extension.Typographer)
	}

	var rendererOptions []renderer.Option

	if opts.Markdown.Breaks {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	if opts.Markdown.XHTMLOut {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}

	if opts.Markdown.HTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

// CompileMarkdown renders the markdown body of a deck into a sequence of
// <section> slides. Global directives found in comments are written back
// into meta.
func CompileMarkdown(
	markdown []byte,
	meta *metadata.Meta,
	opts options.RendererOptions,
	cfg types.DeckConfig,
) (string, []asset.Asset, error) {
	log.Tracef(nil, "rendering markdown:\n%s", string(markdown))

	if meta == nil {
		meta = &metadata.Meta{}
	}

	deckExtension := NewDeckExtension(meta, cfg)
	converter := NewConverter(opts, deckExtension)

	ctx := parser.NewContext(parser.WithIDs(cparser.NewHeadingIDs()))

	var buf bytes.Buffer
	err := converter.Convert(markdown, &buf, parser.WithContext(ctx))
	if err != nil {
		return "", nil, karma.Format(err, "unable to render markdown")
	}

	html := buf.Bytes()

	log.Tracef(nil, "rendered markdown to html:\n%s", string(html))

	return string(html), deckExtension.Assets, nil
}
