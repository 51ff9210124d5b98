package render

import (
	"context"
	"image"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/spring"
)

// Preview canvas size. Export surfaces derive their linear-quantity scale
// factor from the ratio of export width to PreviewWidth.
const (
	PreviewWidth  = 1920
	PreviewHeight = 1080
)

// Animated property names, one spring per scalar.
const (
	PropIconSize  = "icon.size"
	PropIconX     = "icon.x"
	PropIconY     = "icon.y"
	PropTitleSize = "title.size"
	PropTitleX    = "title.x"
	PropTitleY    = "title.y"
	PropWmSize    = "watermark.size"
	PropWmX       = "watermark.x"
	PropWmY       = "watermark.y"
	PropWmOpacity = "watermark.opacity"
	PropBgBlur    = "background.blur"
)

// Frame is one fully resolved set of drawing inputs: the current cover
// configuration with every animated scalar replaced by its in-flight value.
// Sizes and positions are in preview-space units; Scale converts size-like
// quantities to the target surface (1.0 for preview). Percent positions are
// resolved against the target surface directly and are never scaled.
type Frame struct {
	Background config.Background
	Icon       config.Icon
	Title      config.Title
	Watermark  config.Watermark
	Scale      float64
}

// BuildFrame assembles a Frame from a cover configuration. When springs is
// non-nil the animated scalars are read from it; otherwise the configured
// (target) values are used directly, which is the export path.
func BuildFrame(c config.Cover, springs *spring.Table, scale float64) Frame {
	f := Frame{Background: c.Background, Icon: c.Icon, Title: c.Title, Watermark: c.Watermark, Scale: scale}
	if springs != nil {
		f.Icon.Size = springs.Value(PropIconSize)
		f.Icon.Position.X = springs.Value(PropIconX)
		f.Icon.Position.Y = springs.Value(PropIconY)
		f.Title.Size = springs.Value(PropTitleSize)
		f.Title.Position.X = springs.Value(PropTitleX)
		f.Title.Position.Y = springs.Value(PropTitleY)
		f.Watermark.Size = springs.Value(PropWmSize)
		f.Watermark.Position.X = springs.Value(PropWmX)
		f.Watermark.Position.Y = springs.Value(PropWmY)
		f.Watermark.Opacity = springs.Value(PropWmOpacity)
		f.Background.Blur = springs.Value(PropBgBlur)
	}
	return f
}

// SetTargets pushes the animated scalars of a cover configuration into the
// spring table as new targets.
func SetTargets(springs *spring.Table, c config.Cover) {
	springs.SetTarget(PropIconSize, c.Icon.Size)
	springs.SetTarget(PropIconX, c.Icon.Position.X)
	springs.SetTarget(PropIconY, c.Icon.Position.Y)
	springs.SetTarget(PropTitleSize, c.Title.Size)
	springs.SetTarget(PropTitleX, c.Title.Position.X)
	springs.SetTarget(PropTitleY, c.Title.Position.Y)
	springs.SetTarget(PropWmSize, c.Watermark.Size)
	springs.SetTarget(PropWmX, c.Watermark.Position.X)
	springs.SetTarget(PropWmY, c.Watermark.Position.Y)
	springs.SetTarget(PropWmOpacity, c.Watermark.Opacity)
	springs.SetTarget(PropBgBlur, c.Background.Blur)
}

// FrameSink receives finished preview frames. Implementations: the Linux
// framebuffer sink for on-device preview and an in-memory sink for headless
// use and tests.
type FrameSink interface {
	Start(ctx context.Context) error
	Stop() error
	Publish(frame *image.RGBA) error
}

// Logger is the subset of logging the render package needs. Callers may leave
// it nil.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}
