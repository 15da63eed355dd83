package d2

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/kovetskiy/deck/asset"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
	"oss.terrastruct.com/util-go/go2"
)

var renderTimeout = 120 * time.Second

// RenderSVG compiles a d2 diagram into an SVG document that can be inlined
// into a slide.
func RenderSVG(title string, d2Diagram []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	ctx = d2log.WithDefault(ctx)
	defer cancel()

	return render(ctx, title, d2Diagram)
}

// ProcessD2 rasterises a d2 diagram to PNG using a headless browser.
func ProcessD2(title string, d2Diagram []byte, scale float64) (asset.Asset, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), renderTimeout)
	ctx = d2log.WithDefault(ctx)
	defer cancel()

	svg, err := render(ctx, title, d2Diagram)
	if err != nil {
		return asset.Asset{}, err
	}

	pngBytes, boxModel, err := convertSVGtoPNG(ctx, svg, scale)
	if err != nil {
		return asset.Asset{}, karma.Format(err, "unable to rasterise d2 diagram %q", title)
	}

	checkSum, err := asset.GetChecksum(bytes.NewReader(d2Diagram))
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

func render(ctx context.Context, title string, d2Diagram []byte) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, err
	}

	layoutResolver := func(engine string) (d2graph.LayoutGraph, error) {
		return d2dagrelayout.DefaultLayout, nil
	}
	renderOpts := &d2svg.RenderOpts{
		Pad:     go2.Pointer(int64(5)),
		ThemeID: &d2themescatalog.GrapeSoda.ID,
	}
	compileOpts := &d2lib.CompileOptions{
		LayoutResolver: layoutResolver,
		Ruler:          ruler,
	}

	log.Debugf(nil, "Rendering: %q", title)

	diagram, _, err := d2lib.Compile(ctx, string(d2Diagram), compileOpts, renderOpts)
	if err != nil {
		return nil, karma.Format(err, "unable to compile d2 diagram %q", title)
	}

	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return nil, karma.Format(err, "unable to render d2 diagram %q", title)
	}

	return out, nil
}

func convertSVGtoPNG(ctx context.Context, svg []byte, scale float64) ([]byte, *dom.BoxModel, error) {
	var (
		result []byte
		model  *dom.BoxModel
	)

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(fmt.Sprintf("data:image/svg+xml;base64,%s", base64.StdEncoding.EncodeToString(svg))),
		chromedp.ScreenshotScale(`document.querySelector("svg > svg")`, scale, &result, chromedp.ByJSPath),
		chromedp.Dimensions(`document.querySelector("svg > svg")`, &model, chromedp.ByJSPath),
	)
	if err != nil {
		return nil, nil, err
	}

	return result, model, nil
}
