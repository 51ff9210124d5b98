package render

import (
	"image"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/render/layout"
	"github.com/xiaoguangdong/cover-magic/internal/render/style"
)

// italicShear is the horizontal shear factor used to synthesize italics
// (roughly a 12 degree slant). A manual shear is used instead of an italic
// face so the slant also applies to the bold-simulation stroke pass.
const italicShear = 0.21

type textSpec struct {
	text       string
	color      string
	family     string
	size       float64 // preview units
	pos        config.Position
	bold       bool
	italic     bool
	uppercase  bool
	shadowSize float64 // preview units, 0 disables
	alpha      float64 // 0..1 global alpha for the whole element
}

func titleSpec(t config.Title) textSpec {
	return textSpec{
		text: t.Text, color: t.Color, family: t.FontFamily, size: t.Size,
		pos: t.Position, bold: t.Bold, italic: t.Italic,
		shadowSize: t.TextShadowSize, alpha: 1,
	}
}

func watermarkSpec(w config.Watermark) textSpec {
	return textSpec{
		text: w.Text, color: w.Color, family: w.FontFamily, size: w.Size,
		pos: w.Position, bold: w.Bold, italic: w.Italic, uppercase: w.Uppercase,
		alpha: w.Opacity / 100,
	}
}

// drawText renders one text element. Uppercasing happens before measurement
// so layout sees the glyphs that are actually drawn. Vertical placement uses
// the nominal font size as the content extent (middle-baseline convention),
// which keeps interpolated positions jitter-free across zones.
func (r *Renderer) drawText(dst *image.RGBA, spec textSpec, scale float64) {
	text := spec.text
	if spec.uppercase {
		text = strings.ToUpper(text)
	}
	sizePx := spec.size * scale
	if text == "" || sizePx <= 0 || spec.alpha <= 0 {
		return
	}

	face, simulate := r.Ctx.Fonts.Face(spec.family, sizePx, spec.bold)
	fill := style.HexWithOpacity(spec.color, 100)

	measurer := &font.Drawer{Face: face}
	width := measurer.MeasureString(text).Ceil()
	if width <= 0 {
		return
	}

	metrics := face.Metrics()
	ascent := float64(metrics.Ascent) / 64
	descent := float64(metrics.Descent) / 64
	shadowPx := spec.shadowSize * scale

	// The layer is padded so shear, stroke offsets and shadow blur never clip.
	margin := int(shadowPx*3 + sizePx*0.3 + 4)
	layer := image.NewRGBA(image.Rect(0, 0, width+2*margin, int(ascent+descent)+2*margin))
	baseline := float64(margin) + ascent

	drawer := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(fill),
		Face: face,
	}
	drawString := func(dx, dy float64) {
		drawer.Dot = fixed.Point26_6{
			X: fixed.Int26_6((float64(margin) + dx) * 64),
			Y: fixed.Int26_6((baseline + dy) * 64),
		}
		drawer.DrawString(text)
	}
	drawString(0, 0)
	if simulate {
		// Stroke simulation: redraw at offsets on a small disc around the
		// origin, radius proportional to font size.
		sw := sizePx * r.Ctx.Fonts.Policy(spec.family).StrokeRatio
		if sw > 0 {
			drawString(-sw, 0)
			drawString(sw, 0)
			drawString(0, -sw)
			drawString(0, sw)
		}
	}

	if spec.italic {
		layer = shear(layer, baseline)
	}

	// Content center inside the layer, middle-baseline vertically.
	centerX := float64(margin) + float64(width)/2
	centerY := float64(margin) + (ascent+descent)/2

	bounds := dst.Bounds()
	cx := layout.Resolve(spec.pos.X, float64(width), float64(bounds.Dx()))
	cy := layout.Resolve(spec.pos.Y, sizePx, float64(bounds.Dy()))
	x0 := bounds.Min.X + int(cx-centerX)
	y0 := bounds.Min.Y + int(cy-centerY)
	rect := image.Rect(x0, y0, x0+layer.Bounds().Dx(), y0+layer.Bounds().Dy())
	mask := opacityMask(spec.alpha)

	if shadowPx > 0 {
		// Shadow: blurred copy of the glyph layer in the fill color, offset by
		// the configured size on both axes (blur diameter is twice that).
		shadow := imaging.Blur(layer, shadowPx)
		off := int(shadowPx)
		draw.DrawMask(dst, rect.Add(image.Pt(off, off)), shadow, shadow.Bounds().Min, mask, image.Point{}, draw.Over)
	}
	draw.DrawMask(dst, rect, layer, layer.Bounds().Min, mask, image.Point{}, draw.Over)
}

// shear slants a glyph layer around its baseline, leaning the tops of the
// glyphs to the right.
func shear(layer *image.RGBA, baseline float64) *image.RGBA {
	out := image.NewRGBA(layer.Bounds())
	m := f64.Aff3{
		1, -italicShear, italicShear * baseline,
		0, 1, 0,
	}
	xdraw.CatmullRom.Transform(out, m, layer, layer.Bounds(), xdraw.Over, nil)
	return out
}
