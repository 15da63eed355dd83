package parser

import (
	"strconv"

	"github.com/kovetskiy/deck/metadata"
	"github.com/yuin/goldmark/ast"
)

// Slide is a block holding everything between two thematic breaks.
type Slide struct {
	ast.BaseBlock

	// Index is 1-based.
	Index int
	Total int

	Directives metadata.Directives
}

func NewSlide(index int, directives metadata.Directives) *Slide {
	return &Slide{
		Index:      index,
		Directives: directives,
	}
}

var KindSlide = ast.NewNodeKind("Slide")

func (n *Slide) Kind() ast.NodeKind {
	return KindSlide
}

func (n *Slide) Dump(source []byte, level int) {
	kv := map[string]string{
		"Index": strconv.Itoa(n.Index),
	}
	for key, value := range n.Directives {
		kv[key] = value
	}

	ast.DumpHelper(n, source, level, kv, nil)
}
