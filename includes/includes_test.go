package includes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCodeBlockRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []codeBlockRange
	}{
		{
			name:     "no code blocks",
			input:    "Hello world\nNo code here",
			expected: nil,
		},
		{
			name:     "backticks",
			input:    "Some text\n```\ncode inside\n```\nmore text",
			expected: []codeBlockRange{{start: 10, end: 30}},
		},
		{
			name:     "tildes",
			input:    "Some text\n~~~\ncode inside\n~~~\nmore text",
			expected: []codeBlockRange{{start: 10, end: 30}},
		},
		{
			name:     "language identifier",
			input:    "Some text\n```bash\necho hello\n```\nmore text",
			expected: []codeBlockRange{{start: 10, end: 33}},
		},
		{
			name:     "multiple code blocks",
			input:    "First\n```\nblock 1\n```\nBetween\n```\nblock 2\n```\nLast",
			expected: []codeBlockRange{{start: 6, end: 22}, {start: 30, end: 46}},
		},
		{
			name:     "four backticks",
			input:    "Some text\n````\ncode\n````\nmore",
			expected: []codeBlockRange{{start: 10, end: 25}},
		},
		{
			name:     "unterminated",
			input:    "text\n```\ncode",
			expected: []codeBlockRange{{start: 5, end: 13}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findCodeBlockRanges([]byte(tt.input)))
		})
	}
}

func TestIsInsideCodeBlock(t *testing.T) {
	ranges := []codeBlockRange{
		{start: 10, end: 30},
		{start: 50, end: 70},
	}

	tests := []struct {
		pos      int
		expected bool
	}{
		{5, false},
		{10, true},
		{29, true},
		{30, false},
		{40, false},
		{50, true},
		{70, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, isInsideCodeBlock(tt.pos, ranges), "pos=%d", tt.pos)
	}
}

func writeTemplate(t *testing.T, dir string, name string, body string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "shared/thanks.md", "# Thanks, {{ .name }}!\n")

	input := "# Intro\n\n---\n\n<!-- include: shared/thanks.md\n     name: everyone -->\n"

	result, err := NewIncluder(dir, "").Expand([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "# Intro\n\n---\n\n# Thanks, everyone!\n\n", string(result))
}

func TestExpandDelims(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "raw.md", "{{ not a template }} <<.x>>\n")

	result, err := NewIncluder(dir, "").Expand([]byte(
		"<!-- Include: raw.md\n     Delims: \"<<\", \">>\"\n     x: 1 -->",
	))
	require.NoError(t, err)
	assert.Equal(t, "{{ not a template }} 1\n", string(result))

	writeTemplate(t, dir, "plain.md", "{{ .kept }}\n")

	result, err = NewIncluder(dir, "").Expand([]byte("<!-- include: plain.md\n     delims: none -->"))
	require.NoError(t, err)
	assert.Equal(t, "{{ .kept }}\n", string(result))
}

func TestExpandSameFileWithDifferentDelims(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "mixed.md", "{{ .x }}\n")

	result, err := NewIncluder(dir, "").Expand([]byte(
		"<!-- include: mixed.md\n     x: 1 -->\n<!-- include: mixed.md\n     delims: none -->",
	))
	require.NoError(t, err)
	assert.Equal(t, "1\n\n{{ .x }}\n", string(result))
}

func TestExpandNested(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "outer.md", "outer <!-- include: inner.md -->")
	writeTemplate(t, dir, "inner.md", "inner")

	result, err := NewIncluder(dir, "").Expand([]byte("<!-- include: outer.md -->"))
	require.NoError(t, err)
	assert.Equal(t, "outer inner", string(result))
}

func TestExpandRecursive(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "loop.md", "again <!-- include: loop.md -->")

	_, err := NewIncluder(dir, "").Expand([]byte("<!-- include: loop.md -->"))
	assert.EqualError(t, err, "includes are nested deeper than 10 levels")
}

func TestExpandIncludePathFallback(t *testing.T) {
	shared := t.TempDir()
	writeTemplate(t, shared, "footer.md", "shared footer")

	result, err := NewIncluder(t.TempDir(), shared).Expand([]byte("<!-- include: footer.md -->"))
	require.NoError(t, err)
	assert.Equal(t, "shared footer", string(result))
}

func TestExpandMissingFile(t *testing.T) {
	_, err := NewIncluder(t.TempDir(), "").Expand([]byte("<!-- include: missing.md -->"))
	assert.Error(t, err)
}

func TestExpandSkipsCodeBlocks(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "real.md", "REAL INCLUDED CONTENT")

	input := "Some intro text\n\n" +
		"<!-- include: real.md -->\n\n" +
		"```\n" +
		"<!-- include: example-in-codeblock.md -->\n" +
		"```\n"

	result, err := NewIncluder(dir, "").Expand([]byte(input))
	require.NoError(t, err)

	assert.Contains(t, string(result), "REAL INCLUDED CONTENT")
	assert.Contains(t, string(result), "```\n<!-- include: example-in-codeblock.md -->\n```")
}

func TestExpandWithoutDirectives(t *testing.T) {
	input := []byte("# Plain\n\n<!-- class: lead -->\n")

	result, err := NewIncluder(".", "").Expand(input)
	require.NoError(t, err)
	assert.Equal(t, input, result)
}
