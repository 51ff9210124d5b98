package render

import (
	"context"
	"image"
	"sync"
)

// MemorySink keeps the most recent published frame. Used for headless
// operation and tests.
type MemorySink struct {
	mu     sync.Mutex
	last   *image.RGBA
	frames int
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Start(ctx context.Context) error { return nil }
func (s *MemorySink) Stop() error                     { return nil }

// Publish retains a copy: the engine reuses its canvas between ticks, so the
// stored frame must not alias it.
func (s *MemorySink) Publish(frame *image.RGBA) error {
	if frame == nil {
		return nil
	}
	clone := image.NewRGBA(frame.Bounds())
	copy(clone.Pix, frame.Pix)
	s.mu.Lock()
	s.last = clone
	s.frames++
	s.mu.Unlock()
	return nil
}

// Last returns the most recently published frame, or nil.
func (s *MemorySink) Last() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Frames returns how many frames have been published.
func (s *MemorySink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
