package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
)

// FBSink publishes preview frames to the Linux framebuffer, scaling the
// logical canvas to the device resolution.
type FBSink struct {
	Device string // defaults to /dev/fb0
	Logger Logger

	dev     *fb.Device
	running atomic.Bool
}

func NewFBSink() *FBSink { return &FBSink{Device: "/dev/fb0"} }

func (s *FBSink) Start(ctx context.Context) error {
	dev, err := fb.Open(s.Device)
	if err != nil {
		return err
	}
	s.dev = dev
	if s.Logger != nil {
		bounds := dev.Bounds()
		s.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	s.running.Store(true)
	return nil
}

func (s *FBSink) Stop() error {
	s.running.Store(false)
	if s.dev != nil {
		s.dev.Close()
	}
	return nil
}

// Publish blits the canvas to the framebuffer with nearest-neighbor sampling.
// Dropped while the sink is not running.
func (s *FBSink) Publish(frame *image.RGBA) error {
	if !s.running.Load() || s.dev == nil || frame == nil {
		return nil
	}
	bounds := s.dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	srcW := frame.Bounds().Dx()
	srcH := frame.Bounds().Dy()
	if fbWidth <= 0 || fbHeight <= 0 || srcW <= 0 || srcH <= 0 {
		return nil
	}
	for y := 0; y < fbHeight; y++ {
		sy := frame.Bounds().Min.Y + (y*srcH)/fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := frame.Bounds().Min.X + (x*srcW)/fbWidth
			pixel := frame.RGBAAt(sx, sy)
			s.dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
	return nil
}
