package render

import (
	"bytes"
	"image"
	"testing"

	"github.com/xiaoguangdong/cover-magic/internal/config"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><rect x="2" y="2" width="20" height="20" fill="#ff0000"/></svg>`

func newTestRenderer() *Renderer {
	return NewRenderer(NewContext())
}

func blankCover() config.Cover {
	return config.Cover{
		Background: config.Background{Kind: config.BackgroundColor, Color: "#FFFFFF", Opacity: 100},
	}
}

func TestComposeNilSurface(t *testing.T) {
	r := newTestRenderer()
	if err := r.Compose(nil, Frame{Scale: 1}); err != ErrNoSurface {
		t.Errorf("Expected ErrNoSurface, got %v", err)
	}
}

func TestComposeSolidColorBackground(t *testing.T) {
	// rgba(255,0,0,0.5) over the opaque white base.
	r := newTestRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	cover := blankCover()
	cover.Background = config.Background{Kind: config.BackgroundColor, Color: "#FF0000", Opacity: 50}

	if err := r.Compose(dst, BuildFrame(cover, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}

	for _, pt := range []image.Point{{0, 0}, {960, 540}, {1919, 1079}} {
		px := dst.RGBAAt(pt.X, pt.Y)
		if px.A != 255 {
			t.Errorf("pixel %v: alpha %d, want opaque", pt, px.A)
		}
		if px.R != 255 {
			t.Errorf("pixel %v: R = %d, want 255", pt, px.R)
		}
		if px.G < 125 || px.G > 130 || px.B < 125 || px.B > 130 {
			t.Errorf("pixel %v: G/B = %d/%d, want ~127 (50%% red over white)", pt, px.G, px.B)
		}
	}
}

func inkBounds(img *image.RGBA) (image.Rectangle, bool) {
	found := false
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.RGBAAt(x, y)
			if px.R < 200 || px.G < 200 || px.B < 200 {
				if !found {
					box = image.Rect(x, y, x+1, y+1)
					found = true
				} else {
					box = box.Union(image.Rect(x, y, x+1, y+1))
				}
			}
		}
	}
	return box, found
}

func TestComposeCentersTitle(t *testing.T) {
	sizes := []struct {
		name string
		w, h int
	}{
		{"Full HD", 1920, 1080},
		{"Half size", 960, 540},
	}

	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer()
			dst := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			cover := blankCover()
			cover.Title = config.Title{
				Text: "Hello", Color: "#000000", FontFamily: "sans-serif",
				Size: 72, Position: config.Position{X: 50, Y: 50},
			}

			if err := r.Compose(dst, BuildFrame(cover, nil, 1)); err != nil {
				t.Fatalf("compose: %v", err)
			}

			box, ok := inkBounds(dst)
			if !ok {
				t.Fatal("no text drawn")
			}
			cx := float64(box.Min.X+box.Max.X) / 2
			cy := float64(box.Min.Y+box.Max.Y) / 2
			wantX := float64(tt.w) / 2
			wantY := float64(tt.h) / 2
			if cx < wantX-6 || cx > wantX+6 {
				t.Errorf("horizontal ink center %.1f, want %.1f +-6", cx, wantX)
			}
			// Vertical extent is the nominal font size, so the ink center is
			// an approximation of the canvas center.
			if cy < wantY-14 || cy > wantY+14 {
				t.Errorf("vertical ink center %.1f, want %.1f +-14", cy, wantY)
			}
		})
	}
}

func TestComposeUppercasesWatermark(t *testing.T) {
	base := blankCover()
	base.Watermark = config.Watermark{
		Text: "draft", Color: "#000000", FontFamily: "sans-serif",
		Size: 40, Position: config.Position{X: 50, Y: 50}, Opacity: 100, Uppercase: true,
	}
	upper := base
	upper.Watermark.Text = "DRAFT"
	upper.Watermark.Uppercase = false

	r := newTestRenderer()
	a := image.NewRGBA(image.Rect(0, 0, 640, 360))
	b := image.NewRGBA(image.Rect(0, 0, 640, 360))
	if err := r.Compose(a, BuildFrame(base, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if err := r.Compose(b, BuildFrame(upper, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("uppercase=true on \"draft\" should render identically to \"DRAFT\"")
	}

	// Sanity: the lowercase text itself renders differently.
	lower := base
	lower.Watermark.Uppercase = false
	c := image.NewRGBA(image.Rect(0, 0, 640, 360))
	if err := r.Compose(c, BuildFrame(lower, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("expected lowercase rendering to differ")
	}
}

func TestComposeInvalidIconDegrades(t *testing.T) {
	r := newTestRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 320, 180))
	cover := blankCover()
	cover.Icon = config.Icon{Source: "not an svg", Size: 64, Position: config.Position{X: 50, Y: 50}}

	if err := r.Compose(dst, BuildFrame(cover, nil, 1)); err != nil {
		t.Errorf("icon failure must not abort the pass, got %v", err)
	}
}

func TestIconCache(t *testing.T) {
	ctx := NewContext()

	if _, err := ctx.IconImage(testSVG); err != nil {
		t.Fatalf("first raster: %v", err)
	}
	if ctx.rasterizations != 1 {
		t.Fatalf("rasterizations = %d, want 1", ctx.rasterizations)
	}

	// Same source again: cache hit, no second raster pass.
	if _, err := ctx.IconImage(testSVG); err != nil {
		t.Fatalf("second raster: %v", err)
	}
	if ctx.rasterizations != 1 {
		t.Errorf("rasterizations after cache hit = %d, want 1", ctx.rasterizations)
	}

	// Source change: invalidate, next draw re-rasterizes.
	ctx.InvalidateIcons()
	changed := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><circle cx="12" cy="12" r="10" fill="#00ff00"/></svg>`
	if _, err := ctx.IconImage(changed); err != nil {
		t.Fatalf("raster after invalidate: %v", err)
	}
	if ctx.rasterizations != 2 {
		t.Errorf("rasterizations after source change = %d, want 2", ctx.rasterizations)
	}
}

func TestIconRasterAspect(t *testing.T) {
	wide := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="#000"/></svg>`
	img, err := RasterizeSVG(wide, 200)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("raster size = %dx%d, want 200x100 (longer axis = size)", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestComposeDrawsIcon(t *testing.T) {
	r := newTestRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 320, 180))
	cover := blankCover()
	cover.Icon = config.Icon{Source: testSVG, Size: 64, Position: config.Position{X: 50, Y: 50}}

	if err := r.Compose(dst, BuildFrame(cover, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}
	px := dst.RGBAAt(160, 90)
	if px.R < 200 || px.G > 80 || px.B > 80 {
		t.Errorf("center pixel = %v, want red icon fill", px)
	}
}

func TestIconShadowBleedsPastIconRect(t *testing.T) {
	// A full-bleed square icon has no transparent border, so the only
	// visible part of its zero-offset shadow is the halo outside the box.
	fullBleed := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><rect width="24" height="24" fill="#ff0000"/></svg>`
	r := newTestRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 256, 256))
	cover := blankCover()
	cover.Icon = config.Icon{
		Source: fullBleed, Size: 64, Position: config.Position{X: 50, Y: 50},
		Shadow: config.Shadow{Color: "#000000", Size: 10},
	}

	if err := r.Compose(dst, BuildFrame(cover, nil, 1)); err != nil {
		t.Fatalf("compose: %v", err)
	}

	// The icon box spans [96,160) on both axes; sample beside its right edge.
	for _, dx := range []int{2, 5, 8} {
		px := dst.RGBAAt(160+dx, 128)
		if px.A != 255 {
			t.Errorf("pixel %dpx outside icon: alpha %d, want opaque", dx, px.A)
		}
		if px.R > 250 && px.G > 250 && px.B > 250 {
			t.Errorf("pixel %dpx outside icon = %v, want shadow ink over white", dx, px)
		}
	}
}

func TestFontRegistryFallback(t *testing.T) {
	reg := NewFontRegistry()

	face, sim := reg.Face("Totally Unknown Family", 24, false)
	if face == nil {
		t.Fatal("unknown family must resolve through the generic chain")
	}
	if sim {
		t.Error("regular weight should not need stroke simulation")
	}

	// Native bold exists for the generic sans chain.
	if _, sim := reg.Face("sans-serif", 24, true); sim {
		t.Error("sans-serif bold has a native face, no simulation expected")
	}

	// ZCOOL KuaiLe ships one weight; policy forces stroke simulation.
	if _, sim := reg.Face("ZCOOL KuaiLe", 24, true); !sim {
		t.Error("ZCOOL KuaiLe bold must use stroke simulation")
	}
	if p := reg.Policy("ZCOOL KuaiLe"); !p.StrokeSim || p.StrokeRatio != defaultStrokeRatio {
		t.Errorf("unexpected policy %+v", p)
	}
}
