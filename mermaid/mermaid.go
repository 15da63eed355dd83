package mermaid

import (
	"bytes"
	"context"
	"strconv"
	"time"

	mermaid "github.com/dreampuf/mermaid.go"
	"github.com/kovetskiy/deck/asset"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

var renderTimeout = 90 * time.Second

// RenderSVG renders a mermaid diagram to SVG in a local headless browser.
func RenderSVG(title string, mermaidDiagram []byte) (string, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	defer cancel()

	log.Debugf(nil, "Setting up Mermaid renderer: %q", title)
	renderer, err := mermaid.NewRenderEngine(ctx)
	if err != nil {
		return "", karma.Format(err, "unable to start mermaid renderer")
	}
	defer renderer.Cancel()

	log.Debugf(nil, "Rendering: %q", title)
	svg, err := renderer.Render(string(mermaidDiagram))
	if err != nil {
		return "", karma.Format(err, "unable to render mermaid diagram %q", title)
	}

	return svg, nil
}

// ProcessMermaidLocally renders a mermaid diagram to a scaled PNG asset.
func ProcessMermaidLocally(title string, mermaidDiagram []byte, scale float64) (asset.Asset, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	defer cancel()

	log.Debugf(nil, "Setting up Mermaid renderer: %q", title)
	renderer, err := mermaid.NewRenderEngine(ctx)
	if err != nil {
		return asset.Asset{}, karma.Format(err, "unable to start mermaid renderer")
	}
	defer renderer.Cancel()

	log.Debugf(nil, "Rendering: %q", title)
	pngBytes, boxModel, err := renderer.RenderAsScaledPng(string(mermaidDiagram), scale)
	if err != nil {
		return asset.Asset{}, karma.Format(err, "unable to render mermaid diagram %q", title)
	}

	checkSum, err := asset.GetChecksum(bytes.NewReader(mermaidDiagram))
	if err != nil {
		return asset.Asset{}, err
	}

	log.Debugf(nil, "Checksum: %q -> %s", title, checkSum)

	if title == "" {
		title = checkSum
	}

	return asset.Asset{
		Name:      title,
		Filename:  title + ".png",
		FileBytes: pngBytes,
		Checksum:  checkSum,
		Width:     strconv.FormatInt(boxModel.Width, 10),
		Height:    strconv.FormatInt(boxModel.Height, 10),
	}, nil
}
