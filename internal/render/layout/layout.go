package layout

import "image"

// Zone is one of the three positioning regimes selected by a percent value.
type Zone int

const (
	ZoneStart Zone = iota
	ZoneCenter
	ZoneEnd
)

// ZoneOf classifies a percent position: <= 0 clamps to the start edge,
// >= 100 clamps to the end edge, anything between interpolates.
func ZoneOf(percent float64) Zone {
	switch {
	case percent <= 0:
		return ZoneStart
	case percent >= 100:
		return ZoneEnd
	default:
		return ZoneCenter
	}
}

// Resolve converts a percent position along one axis into the pixel
// coordinate of the content's center point.
//
// The content never clips at the edges: percent <= 0 places it flush against
// the start edge (center at half the content extent), percent >= 100 flush
// against the end edge, and in-between values interpolate linearly over
// [extent/2, container-extent/2]. percent == 50 therefore centers the content
// exactly regardless of its extent.
func Resolve(percent, extent, container float64) float64 {
	half := extent / 2
	switch ZoneOf(percent) {
	case ZoneStart:
		return half
	case ZoneEnd:
		return container - half
	default:
		return half + (container-extent)*(percent/100)
	}
}

// CenterRect returns the integer rectangle of size (w,h) whose center is at
// (cx,cy).
func CenterRect(cx, cy, w, h float64) image.Rectangle {
	x0 := int(cx - w/2)
	y0 := int(cy - h/2)
	return image.Rect(x0, y0, x0+int(w), y0+int(h))
}

// FitAspect returns the draw size for content of intrinsic size (w,h) scaled
// so its longer axis equals size, preserving aspect ratio.
func FitAspect(w, h, size float64) (float64, float64) {
	if w <= 0 || h <= 0 || size <= 0 {
		return 0, 0
	}
	if w >= h {
		return size, size * h / w
	}
	return size * w / h, size
}
