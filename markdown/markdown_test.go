package markdown_test

import (
	"strings"
	"testing"

	"github.com/kovetskiy/deck/markdown"
	"github.com/kovetskiy/deck/metadata"
	"github.com/kovetskiy/deck/options"
	"github.com/kovetskiy/deck/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string, opts options.MarkdownOptions, features ...string) string {
	t.Helper()

	html, assets, err := markdown.CompileMarkdown(
		[]byte(source),
		nil,
		options.RendererOptions{Markdown: opts},
		types.DeckConfig{
			Features:        features,
			MermaidProvider: types.MermaidProviderCloudScript,
			MermaidScale:    1.0,
			D2Scale:         1.0,
			DiagramFormat:   types.DiagramFormatSVG,
		},
	)
	require.NoError(t, err)
	assert.Empty(t, assets)

	return html
}

func TestCompileMarkdownBreaks(t *testing.T) {
	testcases := []struct {
		name string
		opts options.MarkdownOptions
		want string
	}{
		{
			name: "soft break by default",
			opts: options.MarkdownOptions{},
			want: "<p>a\nb</p>\n",
		},
		{
			name: "breaks",
			opts: options.MarkdownOptions{Breaks: true},
			want: "<p>a<br>\nb</p>\n",
		},
		{
			name: "breaks with xhtml",
			opts: options.MarkdownOptions{Breaks: true, XHTMLOut: true},
			want: "<p>a<br />\nb</p>\n",
		},
		{
			name: "xhtml alone keeps soft breaks",
			opts: options.MarkdownOptions{XHTMLOut: true},
			want: "<p>a\nb</p>\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			html := compile(t, "a\nb\n", tc.opts)
			assert.Equal(t, "<section id=\"1\" data-slide=\"1\">\n"+tc.want+"</section>\n", html)
		})
	}
}

func TestCompileMarkdownSoftBreakHasNoLineBreakElement(t *testing.T) {
	html := compile(t, "first line\nsecond line\nthird line\n", options.MarkdownOptions{})

	assert.NotContains(t, html, "<br")
	assert.Contains(t, html, "first line\nsecond line\nthird line")
}

func TestCompileMarkdownHardBreak(t *testing.T) {
	html := compile(t, "a  \nb\n", options.MarkdownOptions{})
	assert.Contains(t, html, "<br>\nb</p>")

	html = compile(t, "a\\\nb\n", options.MarkdownOptions{XHTMLOut: true})
	assert.Contains(t, html, "<br />\nb</p>")
}

func TestCompileMarkdownRawHTML(t *testing.T) {
	source := "<div class=\"box\">hi</div>\n\ntext <kbd>Ctrl</kbd>\n"

	html := compile(t, source, options.MarkdownOptions{})
	assert.NotContains(t, html, "<div class=\"box\">")
	assert.NotContains(t, html, "<kbd>")
	assert.Contains(t, html, "raw HTML omitted")

	html = compile(t, source, options.MarkdownOptions{HTML: true})
	assert.Contains(t, html, "<div class=\"box\">hi</div>")
	assert.Contains(t, html, "<kbd>Ctrl</kbd>")
}

func TestCompileMarkdownLinkify(t *testing.T) {
	source := "see https://example.com now\n"

	html := compile(t, source, options.MarkdownOptions{})
	assert.NotContains(t, html, "<a href")

	html = compile(t, source, options.MarkdownOptions{Linkify: true})
	assert.Contains(t, html, `<a href="https://example.com">https://example.com</a>`)
}

func TestCompileMarkdownTypographer(t *testing.T) {
	source := "wait... \"quoted\"\n"

	html := compile(t, source, options.MarkdownOptions{})
	assert.Contains(t, html, "wait...")

	html = compile(t, source, options.MarkdownOptions{Typographer: true})
	assert.Contains(t, html, "&hellip;")
	assert.Contains(t, html, "&ldquo;quoted&rdquo;")
}

func TestCompileMarkdownSlides(t *testing.T) {
	html := compile(t, "# One\n\n---\n\n# Two\n\n***\n\n# Three\n", options.MarkdownOptions{})

	assert.Equal(t, 3, strings.Count(html, "<section "))
	assert.Equal(t, 3, strings.Count(html, "</section>"))
	assert.NotContains(t, html, "<hr")
	assert.Contains(t, html, "<section id=\"1\" data-slide=\"1\">\n<h1 id=\"one\">One</h1>\n</section>\n")
	assert.Contains(t, html, "<section id=\"2\" data-slide=\"2\">\n<h1 id=\"two\">Two</h1>\n</section>\n")
	assert.Contains(t, html, "<section id=\"3\" data-slide=\"3\">\n<h1 id=\"three\">Three</h1>\n</section>\n")
}

func TestCompileMarkdownEmptyDocument(t *testing.T) {
	html := compile(t, "", options.MarkdownOptions{})
	assert.Equal(t, "<section id=\"1\" data-slide=\"1\">\n</section>\n", html)
}

func TestCompileMarkdownBreakInsideFence(t *testing.T) {
	html := compile(t, "```yaml\n---\nkey: value\n```\n", options.MarkdownOptions{})

	assert.Equal(t, 1, strings.Count(html, "<section "))
	assert.Contains(t, html, "<pre><code class=\"language-yaml\">---\nkey: value\n</code></pre>")
}

func TestCompileMarkdownCodeTitle(t *testing.T) {
	html := compile(t, "```go 10 title main.go\nfunc main() {}\n```\n", options.MarkdownOptions{})

	assert.Contains(t, html, "<figure class=\"code\">\n<figcaption>main.go</figcaption>\n")
	assert.Contains(t, html, `<pre data-line-start="10"><code class="language-go">`)
}

func TestCompileMarkdownDirectives(t *testing.T) {
	source := strings.Join([]string{
		"<!-- paginate: true -->",
		"<!-- class: lead -->",
		"",
		"# One",
		"",
		"---",
		"",
		"<!-- _backgroundColor: black -->",
		"<!-- _class: invert -->",
		"",
		"# Two",
		"",
		"---",
		"",
		"<!-- just a note -->",
		"",
		"# Three",
		"",
	}, "\n")

	html := compile(t, source, options.MarkdownOptions{HTML: true})

	assert.Contains(
		t,
		html,
		"<section id=\"1\" data-slide=\"1\" class=\"lead\" data-paginate=\"true\">\n",
	)
	assert.Contains(
		t,
		html,
		"<section id=\"2\" data-slide=\"2\" class=\"invert\" style=\"background-color: black\" data-paginate=\"true\">\n",
	)
	assert.Contains(
		t,
		html,
		"<section id=\"3\" data-slide=\"3\" class=\"lead\" data-paginate=\"true\">\n<!-- just a note -->\n",
	)
	assert.Contains(t, html, "<span class=\"pagination\">3</span>\n</section>")
	assert.NotContains(t, html, "paginate: true")
	assert.NotContains(t, html, "_class")
}

func TestCompileMarkdownMetaDirectives(t *testing.T) {
	meta, body, err := metadata.ExtractMeta([]byte(
		"---\ntheme: gaia\nheader: ACME\nfooter: Q3\n---\n\n<!-- title: From Comment -->\n\nhello\n",
	))
	require.NoError(t, err)

	html, _, err := markdown.CompileMarkdown(body, meta, options.RendererOptions{}, types.DeckConfig{})
	require.NoError(t, err)

	assert.Equal(t, "From Comment", meta.Title)
	assert.Equal(t, "gaia", meta.Theme)
	assert.Contains(t, html, "<header>ACME</header>\n<p>hello</p>\n<footer>Q3</footer>\n</section>")
}

func TestCompileMarkdownAlerts(t *testing.T) {
	testcases := []struct {
		markdown string
		class    string
		title    string
	}{
		{"> [!NOTE]\n> This is a test note.", "note", "Note"},
		{"> [!TIP]\n> This is a helpful tip.", "tip", "Tip"},
		{"> [!IMPORTANT]\n> This is very important.", "important", "Important"},
		{"> [!WARNING]\n> This is a warning message.", "warning", "Warning"},
		{"> [!CAUTION]\n> Be very careful here.", "caution", "Caution"},
	}

	for _, tc := range testcases {
		t.Run(tc.class, func(t *testing.T) {
			html := compile(t, tc.markdown, options.MarkdownOptions{})

			assert.Contains(t, html, `<div class="admonition `+tc.class+`">`)
			assert.Contains(t, html, "<strong>"+tc.title+"</strong>")
			assert.NotContains(t, html, "[!")
			assert.NotContains(t, html, "<blockquote>")
		})
	}

	t.Run("regular blockquote", func(t *testing.T) {
		html := compile(t, "> This is just a regular blockquote.", options.MarkdownOptions{})
		assert.Contains(t, html, "<blockquote>\n<p>This is just a regular blockquote.</p>\n</blockquote>")
	})
}

func TestCompileMarkdownAdmonitionsDisabled(t *testing.T) {
	html := compile(t, "!!! warning \"Careful\"\n", options.MarkdownOptions{})

	assert.Contains(t, html, "<p>!!! warning &quot;Careful&quot;</p>")
	assert.NotContains(t, html, "admonition")
}

func TestCompileMarkdownMermaidCloudScript(t *testing.T) {
	source := "```mermaid\ngraph TD;\nA-->B;\n```\n"

	html := compile(t, source, options.MarkdownOptions{}, types.FeatureMermaid)
	assert.Contains(t, html, "<pre class=\"mermaid\">graph TD;\nA--&gt;B;\n</pre>")

	html = compile(t, source, options.MarkdownOptions{})
	assert.Contains(t, html, "<pre><code class=\"language-mermaid\">")
}

func TestCompileMarkdownD2(t *testing.T) {
	html := compile(t, "```d2 title Flow\na -> b\n```\n", options.MarkdownOptions{}, types.FeatureD2)

	assert.Contains(t, html, "<figure class=\"diagram d2\">\n")
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "<figcaption>Flow</figcaption>\n</figure>")
}

func TestCompileMarkdownFootnotesOnLastSlide(t *testing.T) {
	html := compile(t, "text[^1]\n\n---\n\nlast\n\n[^1]: note\n", options.MarkdownOptions{})

	slides := strings.Split(html, "</section>")
	require.Len(t, slides, 3)
	assert.Contains(t, slides[1], `class="footnotes"`)
}

func TestCompileMarkdownHeadingIDsAcrossSlides(t *testing.T) {
	html := compile(t, "# Agenda\n\n---\n\n# Agenda\n", options.MarkdownOptions{})

	assert.Contains(t, html, `<h1 id="agenda">`)
	assert.Contains(t, html, `<h1 id="agenda-1">`)
}

func TestCompileMarkdownMath(t *testing.T) {
	source := "inline $a < b$ and\n\n$$ x^2 $$\n"

	html := compile(t, source, options.MarkdownOptions{}, types.FeatureMath)
	assert.Contains(t, html, `<span class="math inline">\(a &lt; b\)</span>`)
	assert.Contains(t, html, `<span class="math display">\[x^2\]</span>`)

	html = compile(t, source, options.MarkdownOptions{})
	assert.NotContains(t, html, "math")
}
