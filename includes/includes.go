package includes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// MaxDepth bounds nested includes so a file including itself fails instead
// of looping forever.
const MaxDepth = 10

// <!-- include: <template path>
//
//	(delims: (none | "<left>","<right>"))?
//	<optional yaml data> -->
var reIncludeDirective = regexp.MustCompile(
	`(?is)` +
		`<!--\s*include:\s*(?P<template>[^\n]+?)\s*` +
		`(?:\n\s*delims:\s*(?:(none|"(?P<left>.*?)"\s*,\s*"(?P<right>.*?)")))?\s*` +
		`(?:\n(?P<data>.*?))?-->`,
)

// reFencedCodeBlock matches the opening or closing fence of a code block.
var reFencedCodeBlock = regexp.MustCompile("(?m)^(```+|~~~+)")

type codeBlockRange struct {
	start int
	end   int
}

// findCodeBlockRanges returns the byte ranges covered by fenced code blocks,
// an unterminated block runs to the end of contents.
func findCodeBlockRanges(contents []byte) []codeBlockRange {
	var (
		ranges []codeBlockRange
		open   []byte
		start  int
	)

	for _, match := range reFencedCodeBlock.FindAllIndex(contents, -1) {
		fence := contents[match[0]:match[1]]

		if open == nil {
			open, start = fence, match[0]
			continue
		}

		if fence[0] != open[0] || len(fence) < len(open) {
			continue
		}

		end := bytes.IndexByte(contents[match[1]:], '\n')
		if end < 0 {
			end = len(contents)
		} else {
			end += match[1] + 1
		}

		ranges = append(ranges, codeBlockRange{start: start, end: end})
		open = nil
	}

	if open != nil {
		ranges = append(ranges, codeBlockRange{start: start, end: len(contents)})
	}

	return ranges
}

func isInsideCodeBlock(pos int, ranges []codeBlockRange) bool {
	for _, r := range ranges {
		if pos >= r.start && pos < r.end {
			return true
		}
	}

	return false
}

// Includer expands include directives with files relative to Base, falling
// back to IncludePath. Included files are Go templates executed with the
// YAML data of the directive.
type Includer struct {
	Base        string
	IncludePath string
	Templates   *template.Template
}

func NewIncluder(base string, includePath string) *Includer {
	return &Includer{
		Base:        base,
		IncludePath: includePath,
		Templates:   template.New(`includes`),
	}
}

// Expand replaces include directives until none is left.
func (includer *Includer) Expand(contents []byte) ([]byte, error) {
	for depth := 0; ; depth++ {
		if depth > MaxDepth {
			return nil, fmt.Errorf("includes are nested deeper than %d levels", MaxDepth)
		}

		var (
			expanded bool
			err      error
		)

		contents, expanded, err = includer.expandOnce(contents)
		if err != nil {
			return nil, err
		}

		if !expanded {
			return contents, nil
		}
	}
}

func (includer *Includer) expandOnce(contents []byte) ([]byte, bool, error) {
	matches := reIncludeDirective.FindAllSubmatchIndex(contents, -1)
	if len(matches) == 0 {
		return contents, false, nil
	}

	ranges := findCodeBlockRanges(contents)

	var (
		result   bytes.Buffer
		lastEnd  int
		expanded bool
	)

	for _, match := range matches {
		start, end := match[0], match[1]

		result.Write(contents[lastEnd:start])
		lastEnd = end

		if isInsideCodeBlock(start, ranges) {
			result.Write(contents[start:end])
			continue
		}

		group := func(index int) string {
			if match[2*index] < 0 {
				return ""
			}

			return string(contents[match[2*index]:match[2*index+1]])
		}

		var (
			path  = group(1)
			left  = group(3)
			right = group(4)
			data  = map[string]interface{}{}

			facts = karma.Describe("path", path)
		)

		if strings.EqualFold(group(2), "none") {
			left = "\x00"
			right = "\x01"
		}

		err := yaml.Unmarshal([]byte(group(5)), &data)
		if err != nil {
			return nil, false, facts.
				Describe("data", group(5)).
				Format(err, "unable to unmarshal include data")
		}

		log.Tracef(facts, "including template %q", path)

		tpl, err := includer.load(path, left, right)
		if err != nil {
			return nil, false, err
		}

		err = tpl.Execute(&result, data)
		if err != nil {
			return nil, false, facts.Format(err, "unable to execute template")
		}

		expanded = true
	}

	result.Write(contents[lastEnd:])

	return result.Bytes(), expanded, nil
}

func (includer *Includer) load(path string, left string, right string) (*template.Template, error) {
	var (
		name  = strings.TrimSuffix(path, filepath.Ext(path))
		facts = karma.Describe("name", name)
	)

	// The same file parsed with other delimiters is a different template.
	if left != "" || right != "" {
		name += "@" + left + right
	}

	if tpl := includer.Templates.Lookup(name); tpl != nil {
		return tpl, nil
	}

	body, err := os.ReadFile(filepath.Join(includer.Base, path))
	if err != nil && includer.IncludePath != "" {
		body, err = os.ReadFile(filepath.Join(includer.IncludePath, path))
	}
	if err != nil {
		return nil, facts.Format(err, "unable to read template file")
	}

	body = bytes.ReplaceAll(body, []byte("\r\n"), []byte("\n"))

	tpl, err := includer.Templates.New(name).Delims(left, right).Parse(string(body))
	if err != nil {
		return nil, facts.Format(err, "unable to parse template")
	}

	return tpl, nil
}
