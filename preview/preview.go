package preview

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/glamour"
	"github.com/reconquest/karma-go"
)

const DefaultWidth = 80

var (
	reFence = regexp.MustCompile("^ {0,3}(```+|~~~+)")

	// A dash rule right after text is a setext heading underline, not a
	// slide break.
	reDashBreak  = regexp.MustCompile(`^ {0,3}(?:-[ \t]*){3,}$`)
	reOtherBreak = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
)

// Split cuts a deck body into the markdown source of each slide.
func Split(body []byte) [][]byte {
	var (
		slides  [][]byte
		current bytes.Buffer
		fence   string
		blank   = true
	)

	for _, line := range bytes.SplitAfter(body, []byte("\n")) {
		trimmed := bytes.TrimRight(line, "\r\n")

		if match := reFence.FindSubmatch(trimmed); match != nil {
			switch {
			case fence == "":
				fence = string(match[1])
			case match[1][0] == fence[0] && len(match[1]) >= len(fence):
				fence = ""
			}
		}

		if fence == "" {
			isBreak := reOtherBreak.Match(trimmed) ||
				(blank && reDashBreak.Match(trimmed))

			if isBreak {
				slides = append(slides, bytes.Clone(current.Bytes()))
				current.Reset()
				blank = true
				continue
			}
		}

		current.Write(line)
		blank = len(bytes.TrimSpace(line)) == 0
	}

	return append(slides, bytes.Clone(current.Bytes()))
}

// Previewer renders slides for a terminal.
type Previewer struct {
	// Style is a glamour standard style, "auto" picks dark or light from
	// the terminal background.
	Style string
	Width int

	// Breaks keeps single newlines, mirroring options.markdown.breaks.
	Breaks bool
}

func (previewer Previewer) Render(w io.Writer, title string, body []byte) error {
	width := previewer.Width
	if width <= 0 {
		width = DefaultWidth
	}

	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}

	if previewer.Style == "" || previewer.Style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(previewer.Style))
	}

	if previewer.Breaks {
		opts = append(opts, glamour.WithPreservedNewLines())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return karma.Format(err, "unable to create terminal renderer")
	}

	slides := Split(body)

	_, err = fmt.Fprintf(w, "%s\n", title)
	if err != nil {
		return err
	}

	for i, slide := range slides {
		out, err := renderer.Render(string(slide))
		if err != nil {
			return karma.Format(err, "unable to render slide %d", i+1)
		}

		_, err = fmt.Fprintf(w, "\n--- %d/%d ---\n%s", i+1, len(slides), out)
		if err != nil {
			return err
		}
	}

	return nil
}
