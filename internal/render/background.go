package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/render/style"
)

// drawBackground paints the background layer over the opaque base. The tagged
// variant makes this a single exhaustive switch.
func (r *Renderer) drawBackground(dst *image.RGBA, f Frame) {
	switch f.Background.Kind {
	case config.BackgroundColor:
		fill := style.HexWithOpacity(f.Background.Color, f.Background.Opacity)
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Over)

	case config.BackgroundGradient:
		// The gradient carries the shared opacity in its stop alphas, so it
		// is rendered to its own layer and composited over the white base.
		layer := image.NewNRGBA(dst.Bounds())
		style.FillGradient(layer, f.Background.Gradient, f.Background.Opacity)
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)

	case config.BackgroundImage:
		r.drawBackgroundImage(dst, f)

	default:
		r.errorf("render", "unknown background kind %q, leaving base fill", f.Background.Kind)
	}
}

// drawBackgroundImage scales the bitmap to fill the surface (aspect-preserving
// center crop), applies the animated blur, then composites with the
// configured opacity. Blur happens on the intermediate layer only, so it
// cannot bleed into the icon and text passes that follow.
func (r *Renderer) drawBackgroundImage(dst *image.RGBA, f Frame) {
	src, err := r.Ctx.BackgroundImage(f.Background.ImagePath)
	if err != nil {
		r.errorf("render", "background image unavailable: %v", err)
		return
	}
	if src == nil {
		return
	}

	bounds := dst.Bounds()
	layer := imaging.Fill(src, bounds.Dx(), bounds.Dy(), imaging.Center, imaging.Lanczos)
	if blur := f.Background.Blur * f.Scale; blur > 0 {
		layer = imaging.Blur(layer, blur)
	}

	alpha := opacityMask(f.Background.Opacity / 100)
	draw.DrawMask(dst, bounds, layer, layer.Bounds().Min, alpha, image.Point{}, draw.Over)
}

// opacityMask returns a uniform alpha mask for a [0,1] opacity, or nil for
// fully opaque (DrawMask treats a nil mask as opaque).
func opacityMask(opacity float64) image.Image {
	if opacity >= 1 {
		return nil
	}
	if opacity < 0 {
		opacity = 0
	}
	return image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
}
