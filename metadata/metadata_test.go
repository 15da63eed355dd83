package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMeta(t *testing.T) {
	data := []byte("---\ntitle: Quarterly\ntheme: gaia\npaginate: true\nbackgroundcolor: '#fff'\n---\n# Hello\n")

	meta, body, err := ExtractMeta(data)
	require.NoError(t, err)
	require.NotNil(t, meta)

	assert.Equal(t, "Quarterly", meta.Title)
	assert.Equal(t, "gaia", meta.Theme)
	assert.Equal(t, Directives{
		DirectivePaginate:        "true",
		DirectiveBackgroundColor: "#fff",
	}, meta.Local)
	assert.Equal(t, "# Hello\n", string(body))
}

func TestExtractMetaWithoutFrontMatter(t *testing.T) {
	t.Run("plain document", func(t *testing.T) {
		data := []byte("# Hello\n\n---\n\nworld\n")
		meta, body, err := ExtractMeta(data)
		assert.NoError(t, err)
		assert.Nil(t, meta)
		assert.Equal(t, data, body)
	})

	t.Run("unterminated front matter", func(t *testing.T) {
		data := []byte("---\ntitle: x\n")
		meta, body, err := ExtractMeta(data)
		assert.NoError(t, err)
		assert.Nil(t, meta)
		assert.Equal(t, data, body)
	})
}

func TestExtractMetaInvalidYAML(t *testing.T) {
	_, _, err := ExtractMeta([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	assert.Error(t, err)
}

func TestExtractMetaIgnoresInvalidPaginate(t *testing.T) {
	meta, _, err := ExtractMeta([]byte("---\npaginate: sometimes\n---\n"))
	require.NoError(t, err)
	assert.NotContains(t, meta.Local, DirectivePaginate)
}

func TestParseComment(t *testing.T) {
	tests := map[string]struct {
		body string
		want []Directive
		ok   bool
	}{
		"local": {
			body: " class: lead ",
			want: []Directive{{Name: DirectiveClass, Value: "lead"}},
			ok:   true,
		},
		"spot": {
			body: " _backgroundColor: black ",
			want: []Directive{{Name: DirectiveBackgroundColor, Value: "black", Spot: true}},
			ok:   true,
		},
		"global in comment": {
			body: " theme: uncover ",
			want: []Directive{{Name: DirectiveTheme, Value: "uncover"}},
			ok:   true,
		},
		"global spot is not spot": {
			body: " _title: Deck ",
			want: []Directive{{Name: DirectiveTitle, Value: "Deck"}},
			ok:   true,
		},
		"multiline": {
			body: "\npaginate: false\nfooter: ACME\n",
			want: []Directive{
				{Name: DirectiveFooter, Value: "ACME"},
				{Name: DirectivePaginate, Value: "false"},
			},
			ok: true,
		},
		"unknown keys only": {
			body: " TODO: fix this slide ",
			ok:   false,
		},
		"prose": {
			body: " just a comment ",
			ok:   false,
		},
		"empty": {
			body: "",
			ok:   false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseComment(tt.body)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetaSet(t *testing.T) {
	meta := &Meta{}
	meta.Set(Directive{Name: DirectiveSize, Value: "4:3"})
	meta.Set(Directive{Name: DirectiveHeader, Value: "Intro"})

	assert.Equal(t, "4:3", meta.Size)
	assert.Equal(t, Directives{DirectiveHeader: "Intro"}, meta.Local)
	assert.True(t, Directive{Name: DirectiveSize}.Global())
	assert.False(t, Directive{Name: DirectiveHeader}.Global())
}

func TestDirectivesClone(t *testing.T) {
	original := Directives{DirectiveClass: "lead"}
	clone := original.Clone()
	clone[DirectiveClass] = "invert"

	assert.Equal(t, "lead", original[DirectiveClass])
	assert.False(t, original.Bool(DirectivePaginate))
}

func TestExtractDocumentLeadingH1(t *testing.T) {
	markdown := []byte("intro\n\n# a\n\n## b\n")

	assert.Equal(t, "a", ExtractDocumentLeadingH1(markdown))
	assert.Equal(t, "", ExtractDocumentLeadingH1([]byte("## only b\n")))
}

func TestTitleFromFilename(t *testing.T) {
	t.Run("replace underscores with spaces", func(t *testing.T) {
		assert.Equal(t, "Test With Underscores", TitleFromFilename("/path/to/test_with_underscores.md"))
	})

	t.Run("replace dashes with spaces", func(t *testing.T) {
		assert.Equal(t, "Test With Dashes", TitleFromFilename("/path/to/test-with-dashes.md"))
	})

	t.Run("already title cased", func(t *testing.T) {
		assert.Equal(t, "Already Title Cased", TitleFromFilename("Already-Title-Cased.md"))
	})
}
