package parser

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// HeadingIDs generates lower-case anchors that stay unique across every
// slide of a deck, so links like #agenda work from any slide.
type HeadingIDs struct {
	Values map[string]bool
}

func NewHeadingIDs() *HeadingIDs {
	return &HeadingIDs{Values: map[string]bool{}}
}

func (s *HeadingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	value = util.TrimLeftSpace(value)
	value = util.TrimRightSpace(value)

	result := []byte{}
	for i := 0; i < len(value); {
		v := value[i]
		l := util.UTF8Len(v)
		i += int(l)
		if l != 1 {
			continue
		}

		switch {
		case util.IsAlphaNumeric(v) || v == '_':
			result = append(result, toLower(v))
		case util.IsSpace(v) || v == '-' || v == '.':
			if len(result) > 0 && result[len(result)-1] != '-' {
				result = append(result, '-')
			}
		}
	}

	for len(result) > 0 && result[len(result)-1] == '-' {
		result = result[:len(result)-1]
	}

	if len(result) == 0 {
		if kind == ast.KindHeading {
			result = []byte("heading")
		} else {
			result = []byte("id")
		}
	}

	if _, ok := s.Values[string(result)]; !ok {
		s.Values[string(result)] = true
		return result
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", result, i)
		if _, ok := s.Values[candidate]; !ok {
			s.Values[candidate] = true
			return []byte(candidate)
		}
	}
}

func (s *HeadingIDs) Put(value []byte) {
	s.Values[string(value)] = true
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}
