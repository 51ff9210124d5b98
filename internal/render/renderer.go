package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/xiaoguangdong/cover-magic/internal/render/layout"
	"github.com/xiaoguangdong/cover-magic/internal/render/style"
)

// ErrNoSurface is returned when a composite is requested without a target
// surface. The animation loop treats it as a dropped frame and self-heals on
// the next tick.
var ErrNoSurface = errors.New("render: no target surface")

// Renderer composites a Frame onto an RGBA surface. The same instance serves
// the preview loop and the exporter; only the surface size and Frame.Scale
// differ between the two paths.
type Renderer struct {
	Ctx    *Context
	Logger Logger
}

func NewRenderer(ctx *Context) *Renderer {
	return &Renderer{Ctx: ctx}
}

// Compose runs the single fixed-order compositing pass: opaque white base,
// background, icon, title, watermark. Element failures degrade to a missing
// element; only a missing surface aborts the pass.
func (r *Renderer) Compose(dst *image.RGBA, f Frame) error {
	if dst == nil || r.Ctx == nil {
		return ErrNoSurface
	}
	if f.Scale <= 0 {
		f.Scale = 1
	}

	// Opaque white base avoids transparency artifacts on export.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	r.drawBackground(dst, f)
	r.drawIcon(dst, f)
	r.drawText(dst, titleSpec(f.Title), f.Scale)
	r.drawText(dst, watermarkSpec(f.Watermark), f.Scale)
	return nil
}

// drawIcon places the cached icon raster, optionally under a zero-offset drop
// shadow. A raster failure drops the icon for this frame only.
func (r *Renderer) drawIcon(dst *image.RGBA, f Frame) {
	sizePx := f.Icon.Size * f.Scale
	if f.Icon.Source == "" || sizePx <= 0 {
		return
	}
	raster, err := r.Ctx.IconImage(f.Icon.Source)
	if err != nil {
		r.errorf("render", "icon raster failed: %v", err)
		return
	}
	if raster == nil {
		return
	}

	rb := raster.Bounds()
	w, h := layout.FitAspect(float64(rb.Dx()), float64(rb.Dy()), sizePx)
	if w < 1 || h < 1 {
		return
	}

	bounds := dst.Bounds()
	cx := layout.Resolve(f.Icon.Position.X, w, float64(bounds.Dx()))
	cy := layout.Resolve(f.Icon.Position.Y, h, float64(bounds.Dy()))
	rect := layout.CenterRect(cx, cy, w, h).Add(bounds.Min)

	scaled := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), raster, rb, xdraw.Over, nil)

	if blur := f.Icon.Shadow.Size * f.Scale; blur > 0 {
		// The halo bleeds past the icon box, so the silhouette is blurred on
		// a padded layer and drawn over a correspondingly expanded rect.
		margin := int(blur*3 + 0.5)
		layer := image.NewRGBA(image.Rect(0, 0, rect.Dx()+2*margin, rect.Dy()+2*margin))
		draw.Draw(layer, scaled.Bounds().Add(image.Pt(margin, margin)), silhouette(scaled, f.Icon.Shadow.Color), image.Point{}, draw.Src)
		blurred := imaging.Blur(layer, blur)
		draw.Draw(dst, rect.Inset(-margin), blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, rect, scaled, scaled.Bounds().Min, draw.Over)
}

// silhouette recolors an icon raster to the shadow color, keeping the alpha
// channel as the shape.
func silhouette(src *image.RGBA, hex string) *image.RGBA {
	tint, err := style.ParseHex(hex)
	if err != nil {
		tint = color.NRGBA{A: 0xFF}
	}
	out := image.NewRGBA(src.Bounds())
	for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
		for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
			a := src.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			aa := uint32(a) * uint32(tint.A) / 255
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(uint32(tint.R) * aa / 255),
				G: uint8(uint32(tint.G) * aa / 255),
				B: uint8(uint32(tint.B) * aa / 255),
				A: uint8(aa),
			})
		}
	}
	return out
}

func (r *Renderer) errorf(component, format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf(component, format, args...)
	}
}
