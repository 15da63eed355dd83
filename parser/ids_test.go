package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuin/goldmark/ast"
)

func TestHeadingIDsGenerate(t *testing.T) {
	ids := NewHeadingIDs()

	assert.Equal(t, "agenda", string(ids.Generate([]byte("Agenda"), ast.KindHeading)))
	assert.Equal(t, "agenda-1", string(ids.Generate([]byte("Agenda"), ast.KindHeading)))
	assert.Equal(t, "q3-results", string(ids.Generate([]byte("  Q3 -- Results! "), ast.KindHeading)))
	assert.Equal(t, "heading", string(ids.Generate([]byte("!!!"), ast.KindHeading)))
	assert.Equal(t, "id", string(ids.Generate([]byte("Привет"), ast.KindParagraph)))
}

func TestHeadingIDsPut(t *testing.T) {
	ids := NewHeadingIDs()
	ids.Put([]byte("custom"))

	assert.Equal(t, "custom-1", string(ids.Generate([]byte("Custom"), ast.KindHeading)))
}
