package style

import (
	"image"
	"image/color"

	"github.com/xiaoguangdong/cover-magic/internal/config"
)

// axis describes a gradient line across the unit square. The eight compass
// directions collapse onto four geometric axes; the reverse direction of each
// pair swaps the endpoints.
type axis struct {
	x0, y0, x1, y1 float64
}

var gradientAxes = map[config.GradientDirection]axis{
	config.ToRight:       {0, 0, 1, 0},
	config.ToLeft:        {1, 0, 0, 0},
	config.ToBottom:      {0, 0, 0, 1},
	config.ToTop:         {0, 1, 0, 0},
	config.ToBottomRight: {0, 0, 1, 1},
	config.ToTopLeft:     {1, 1, 0, 0},
	config.ToBottomLeft:  {1, 0, 0, 1},
	config.ToTopRight:    {0, 1, 1, 0},
}

// GradientStops resolves a gradient config into its two color stops at
// offsets 0 and 1, with the shared opacity applied to both.
func GradientStops(g config.Gradient, opacity float64) (start, end color.NRGBA) {
	return HexWithOpacity(g.StartColor, opacity), HexWithOpacity(g.EndColor, opacity)
}

// FillGradient paints a two-stop linear gradient over the whole destination
// image. The layer is straight-alpha so it composites correctly when drawn
// over the base fill. Unknown directions fall back to top-to-bottom.
func FillGradient(dst *image.NRGBA, g config.Gradient, opacity float64) {
	start, end := GradientStops(g, opacity)
	ax, ok := gradientAxes[g.Direction]
	if !ok {
		ax = gradientAxes[config.ToBottom]
	}

	bounds := dst.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		return
	}

	// Gradient line endpoints in pixel space.
	x0, y0 := ax.x0*w, ax.y0*h
	dx, dy := ax.x1*w-x0, ax.y1*h-y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		lenSq = 1
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		py := float64(y-bounds.Min.Y) + 0.5
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := float64(x-bounds.Min.X) + 0.5
			t := ((px-x0)*dx + (py-y0)*dy) / lenSq
			dst.SetNRGBA(x, y, Lerp(start, end, t))
		}
	}
}
