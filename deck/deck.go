package deck

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

const (
	DefaultTheme = "default"
	DefaultSize  = "16:9"
)

// Document is a compiled deck ready to be wrapped into a standalone page.
type Document struct {
	Title string
	Theme string
	Size  string

	// Slides is the HTML produced by the markdown compiler.
	Slides string
}

type dimensions struct {
	Width  int
	Height int
}

var sizes = map[string]dimensions{
	"16:9": {Width: 1280, Height: 720},
	"4:3":  {Width: 960, Height: 720},
}

var themes = map[string]string{
	`default`: text(
		`section { background: #fff; color: #24292f; font-family: "Helvetica Neue", Arial, sans-serif; }`,
		`section h1, section h2 { color: #0b5cad; }`,
		`section a { color: #0969da; }`,
		`section.lead { justify-content: center; text-align: center; }`,
		`section.invert { background: #24292f; color: #f6f8fa; }`,
	),
	`gaia`: text(
		`section { background: #fff8e1; color: #455a64; font-family: Lato, "Avenir Next", sans-serif; }`,
		`section h1, section h2 { color: #0288d1; }`,
		`section.lead { justify-content: center; text-align: center; }`,
		`section.invert { background: #455a64; color: #fff8e1; }`,
	),
	`uncover`: text(
		`section { background: #fdfcff; color: #202228; font-family: "Avenir Next", Avenir, sans-serif; justify-content: center; text-align: center; }`,
		`section h1, section h2 { letter-spacing: -0.02em; }`,
		`section.invert { background: #202228; color: #fdfcff; }`,
	),
}

var base = text(
	`body { margin: 0; background: #3a3a3a; }`,
	`section { box-sizing: border-box; position: relative; display: flex; flex-direction: column;`,
	/**/ ` width: var(--slide-width); height: var(--slide-height); margin: 24px auto; padding: 64px 72px; overflow: hidden; }`,
	`section > header, section > footer { position: absolute; left: 72px; right: 72px; font-size: 0.6em; opacity: 0.7; }`,
	`section > header { top: 24px; }`,
	`section > footer { bottom: 24px; }`,
	`section > .pagination { position: absolute; right: 32px; bottom: 24px; font-size: 0.6em; }`,
	`section .admonition { border-left: 4px solid #0969da; padding: 0.25em 1em; margin: 0.5em 0; }`,
	`section .admonition.tip { border-color: #1a7f37; }`,
	`section .admonition.important { border-color: #8250df; }`,
	`section .admonition.warning { border-color: #9a6700; }`,
	`section .admonition.caution { border-color: #cf222e; }`,
	`section figure.diagram { margin: 0 auto; text-align: center; }`,
	`section figure.diagram svg, section figure.diagram img { max-width: 100%; max-height: calc(var(--slide-height) - 200px); }`,
	`@media print { body { background: none; } section { margin: 0; page-break-after: always; } }`,
)

func text(line ...string) string {
	return strings.Join(line, "\n")
}

// Themes lists built-in theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var document = template.Must(template.New(`deck:document`).Parse(text(
	`<!DOCTYPE html>`,
	`<html lang="en">`,
	`<head>`,
	`<meta charset="utf-8">`,
	`<meta name="viewport" content="width=device-width, initial-scale=1">`,
	`<title>{{ .Title }}</title>`,
	`<style>`,
	`{{ .Style }}`,
	`</style>`,
	`</head>`,
	`<body class="theme-{{ .Theme }}" data-size="{{ .Size }}">`,
	`{{ .Slides }}`,
	`{{- if .Mermaid }}`,
	`<script type="module">`,
	`import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";`,
	`mermaid.initialize({ startOnLoad: true });`,
	`</script>`,
	`{{- end }}`,
	`{{- if .Math }}`,
	`<script async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"></script>`,
	`{{- end }}`,
	`</body>`,
	`</html>`,
	``,
)))

// Render writes doc as a standalone HTML page. Unknown themes and sizes fall
// back to the defaults.
func Render(w io.Writer, doc Document) error {
	theme := doc.Theme
	if _, ok := themes[theme]; !ok {
		if theme != "" {
			log.Warningf(nil, "unknown theme %q, using %q", theme, DefaultTheme)
		}

		theme = DefaultTheme
	}

	size := doc.Size
	dims, ok := sizes[size]
	if !ok {
		if size != "" {
			log.Warningf(nil, "unknown slide size %q, using %q", size, DefaultSize)
		}

		size = DefaultSize
		dims = sizes[size]
	}

	style := text(
		fmt.Sprintf(
			":root { --slide-width: %dpx; --slide-height: %dpx; }",
			dims.Width,
			dims.Height,
		),
		base,
		themes[theme],
	)

	err := document.Execute(w, struct {
		Title   string
		Theme   string
		Size    string
		Style   template.CSS
		Slides  template.HTML
		Mermaid bool
		Math    bool
	}{
		Title:   doc.Title,
		Theme:   theme,
		Size:    size,
		Style:   template.CSS(style),
		Slides:  template.HTML(doc.Slides),
		Mermaid: strings.Contains(doc.Slides, `<pre class="mermaid">`),
		Math:    strings.Contains(doc.Slides, `<span class="math `),
	})
	if err != nil {
		return karma.Format(err, "unable to render deck %q", doc.Title)
	}

	return nil
}
