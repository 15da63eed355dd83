package parser

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Math is a TeX equation written as $...$ or, for display math, $$...$$ on
// a single line.
type Math struct {
	ast.BaseInline

	Display  bool
	Equation []byte
}

func NewMath(display bool, equation []byte) *Math {
	return &Math{
		Display:  display,
		Equation: equation,
	}
}

var KindMath = ast.NewNodeKind("Math")

func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

func (n *Math) Dump(source []byte, level int) {
	display := "false"
	if n.Display {
		display = "true"
	}

	ast.DumpHelper(n, source, level, map[string]string{
		"Display":  display,
		"Equation": string(n.Equation),
	}, nil)
}

type MathParser struct{}

func NewMathParser() parser.InlineParser {
	return &MathParser{}
}

func (s *MathParser) Trigger() []byte {
	return []byte{'$'}
}

func (s *MathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	display := len(line) > 1 && line[1] == '$'

	var start, end, advance int

	if display {
		start, advance = 2, 2

		for i := start; i+1 < len(line); i++ {
			if line[i] == '$' && line[i+1] == '$' {
				end = i
				break
			}
		}
	} else {
		start, advance = 1, 1

		for i := start; i < len(line); i++ {
			if line[i] == '\\' {
				i++
				continue
			}

			if line[i] == '$' {
				end = i
				break
			}
		}

		// "$5 and $10" is not an equation.
		if end > start && (util.IsSpace(line[start]) || util.IsSpace(line[end-1])) {
			return nil
		}
	}

	if end <= start {
		return nil
	}

	equation := util.TrimRightSpace(util.TrimLeftSpace(line[start:end]))
	if len(equation) == 0 {
		return nil
	}

	block.Advance(end + advance)

	return NewMath(display, equation)
}
