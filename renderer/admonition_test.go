package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmonitionClass(t *testing.T) {
	tests := map[string]string{
		"note":    "note",
		"warning": "warning",
		"danger":  "caution",
		"caution": "caution",
		"unknown": "note",
		"":        "note",
	}

	for kind, want := range tests {
		assert.Equal(t, want, AdmonitionClass(kind), kind)
	}
}
