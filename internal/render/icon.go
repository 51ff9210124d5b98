package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// iconRasterPx is the longer-axis resolution icons are rasterized at. It is
// deliberately larger than any on-screen icon so the cached raster survives
// both animated preview sizes and high-resolution export without a second
// vector pass; drawing scales it down with a high-quality kernel.
const iconRasterPx = 1024

// RasterizeSVG parses raw SVG markup and rasterizes it into an RGBA image
// whose longer axis is sizePx, preserving the view box aspect ratio.
func RasterizeSVG(src string, sizePx int) (*image.RGBA, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("rasterize svg: invalid size %d", sizePx)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("rasterize svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = 1, 1
	}
	var w, h int
	if vw >= vh {
		w = sizePx
		h = int(float64(sizePx)*vh/vw + 0.5)
	} else {
		h = sizePx
		w = int(float64(sizePx)*vw/vh + 0.5)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
