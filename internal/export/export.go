package export

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/render"
)

// Logger matches the engine's logging surface; nil is allowed.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Exporter re-runs the frame renderer against an offscreen surface at the
// requested output resolution and serializes the result.
//
// Size-like quantities (font and icon sizes, shadow radii and offsets, stroke
// widths) scale by width/PreviewWidth; percent positions are recomputed
// against the export surface's own dimensions, because percent-to-pixel
// layout is resolution dependent by design.
type Exporter struct {
	Renderer *render.Renderer
	Logger   Logger

	// FallbackDir receives the file when writing to the requested location
	// fails; defaults to os.TempDir().
	FallbackDir string
}

func New(r *render.Renderer) *Exporter {
	return &Exporter{Renderer: r}
}

// Render composites the cover once, at its final (non-animated) values, onto
// an export-resolution surface.
func (e *Exporter) Render(cover config.Cover, req config.Export) (*image.RGBA, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("export: invalid dimensions %dx%d", req.Width, req.Height)
	}
	scale := float64(req.Width) / float64(render.PreviewWidth)
	surface := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	frame := render.BuildFrame(cover, nil, scale)
	if err := e.Renderer.Compose(surface, frame); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return surface, nil
}

// Encode serializes a surface in the requested format. Quality (0..1) is
// honored for jpeg only; png is lossless and webp is encoded losslessly.
func (e *Exporter) Encode(surface *image.RGBA, req config.Export) ([]byte, error) {
	var buf bytes.Buffer
	switch req.Format {
	case config.PNG, "":
		if err := png.Encode(&buf, surface); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case config.JPEG:
		q := int(req.Quality*100 + 0.5)
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		if err := jpeg.Encode(&buf, surface, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case config.WebP:
		if err := nativewebp.Encode(&buf, surface, nil); err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("encode: unsupported format %q", req.Format)
	}
	return buf.Bytes(), nil
}

// Export renders, encodes and returns the payload together with the file
// name it should be delivered under.
func (e *Exporter) Export(cover config.Cover, req config.Export) ([]byte, string, error) {
	surface, err := e.Render(cover, req)
	if err != nil {
		return nil, "", err
	}
	data, err := e.Encode(surface, req)
	if err != nil {
		return nil, "", err
	}
	return data, FileName(req), nil
}

// Save writes the payload to dir/name. When that fails the file falls back
// to FallbackDir rather than failing the export outright; the returned path
// is wherever the file actually landed.
func (e *Exporter) Save(dir string, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, data, 0644)
	if err == nil {
		return path, nil
	}
	e.errorf("export", "save to %s failed: %v, using fallback", path, err)

	fallback := e.FallbackDir
	if fallback == "" {
		fallback = os.TempDir()
	}
	path = filepath.Join(fallback, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("export save: %w", err)
	}
	return path, nil
}

// FileName resolves the delivery name: the configured literal, or a random
// one when requested, always carrying the extension of the chosen format.
func FileName(req config.Export) string {
	ext := "." + string(req.Format)
	if req.Format == "" {
		ext = ".png"
	}
	if req.RandomName || strings.TrimSpace(req.FileName) == "" {
		return "cover-" + randomSuffix() + ext
	}
	name := req.FileName
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

func randomSuffix() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b[:])
}

func (e *Exporter) errorf(component, format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Errorf(component, format, args...)
	}
}
