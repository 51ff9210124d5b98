package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// BoldPolicy controls how bold text is produced for a font family. Families
// whose native bold weight renders too thin get an additional stroke
// simulation pass: the glyphs are redrawn at small offsets with a radius
// proportional to the font size.
type BoldPolicy struct {
	StrokeSim   bool
	StrokeRatio float64 // stroke radius = font size * ratio
}

const defaultStrokeRatio = 0.01

// boldPolicies lists families that need stroke simulation even when a bold
// face is available. ZCOOL KuaiLe ships a single weight, so its "bold" is
// always synthesized.
var boldPolicies = map[string]BoldPolicy{
	"zcool kuaile": {StrokeSim: true, StrokeRatio: defaultStrokeRatio},
}

// fallbackStacks maps a requested family to the chain of families tried in
// order. Every chain ends in a generic family that is always registered.
// Unknown families get an implicit {family, "sans-serif"} chain.
var fallbackStacks = map[string][]string{
	"jetbrains mono":  {"jetbrains mono", "fira code", "monospace"},
	"fira code":       {"fira code", "jetbrains mono", "monospace"},
	"source code pro": {"source code pro", "monospace"},
	"noto sans sc":    {"noto sans sc", "sans-serif"},
	"noto serif sc":   {"noto serif sc", "serif"},
	"zcool kuaile":    {"zcool kuaile", "noto sans sc", "sans-serif"},
	"serif":           {"serif", "sans-serif"},
	"monospace":       {"monospace"},
	"sans-serif":      {"sans-serif"},
}

type fontKey struct {
	family string
	bold   bool
}

type faceKey struct {
	family string
	bold   bool
	sizePx int
}

// FontRegistry resolves family names to font faces through the fallback
// table. The Go fonts are registered as the generic families so resolution
// always terminates; callers can register additional families from TTF/OTF
// bytes.
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[fontKey]*truetype.Font
	otf   map[fontKey]*sfnt.Font
	faces map[faceKey]font.Face
}

func NewFontRegistry() *FontRegistry {
	r := &FontRegistry{
		fonts: make(map[fontKey]*truetype.Font),
		otf:   make(map[fontKey]*sfnt.Font),
		faces: make(map[faceKey]font.Face),
	}
	// Generic families from the embedded Go fonts. There is no serif cut in
	// gofont, so serif resolves through its fallback chain to sans-serif.
	_ = r.Register("sans-serif", false, goregular.TTF)
	_ = r.Register("sans-serif", true, gobold.TTF)
	_ = r.Register("monospace", false, gomono.TTF)
	_ = r.Register("monospace", true, gomonobold.TTF)
	return r
}

// Register parses font bytes and makes them available under the given family
// name and weight. Truetype parsing is tried first, opentype as fallback.
func (r *FontRegistry) Register(family string, bold bool, data []byte) error {
	key := fontKey{family: canonical(family), bold: bold}
	if tt, err := truetype.Parse(data); err == nil {
		r.mu.Lock()
		r.fonts[key] = tt
		r.mu.Unlock()
		return nil
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("register font %q: %w", family, err)
	}
	r.mu.Lock()
	r.otf[key] = otf
	r.mu.Unlock()
	return nil
}

// Policy returns the bold-simulation policy for a family. Families without an
// entry simulate only when no bold face exists, at the default ratio.
func (r *FontRegistry) Policy(family string) BoldPolicy {
	if p, ok := boldPolicies[canonical(family)]; ok {
		return p
	}
	return BoldPolicy{StrokeSim: false, StrokeRatio: defaultStrokeRatio}
}

// Face resolves a family/size/weight to a drawable face. The second return
// reports whether bold must be simulated by stroking (no native bold face was
// found, or the family policy demands it).
func (r *FontRegistry) Face(family string, sizePx float64, bold bool) (font.Face, bool) {
	simulate := false
	if bold && r.Policy(family).StrokeSim {
		simulate = true
	}

	for _, fam := range r.stack(family) {
		if bold {
			if f := r.face(fontKey{fam, true}, sizePx); f != nil {
				return f, simulate
			}
			// Fall back to the regular cut and synthesize the weight.
			if f := r.face(fontKey{fam, false}, sizePx); f != nil {
				return f, true
			}
			continue
		}
		if f := r.face(fontKey{fam, false}, sizePx); f != nil {
			return f, simulate
		}
	}
	return basicfont.Face7x13, simulate
}

func (r *FontRegistry) stack(family string) []string {
	fam := canonical(family)
	if stack, ok := fallbackStacks[fam]; ok {
		return stack
	}
	return []string{fam, "sans-serif"}
}

func (r *FontRegistry) face(key fontKey, sizePx float64) font.Face {
	if sizePx <= 0 {
		return nil
	}
	ck := faceKey{family: key.family, bold: key.bold, sizePx: int(sizePx + 0.5)}

	r.mu.RLock()
	if f, ok := r.faces[ck]; ok {
		r.mu.RUnlock()
		return f
	}
	tt := r.fonts[key]
	otf := r.otf[key]
	r.mu.RUnlock()

	var f font.Face
	switch {
	case tt != nil:
		f = truetype.NewFace(tt, &truetype.Options{
			Size:    float64(ck.sizePx),
			DPI:     72,
			Hinting: font.HintingFull,
		})
	case otf != nil:
		of, err := opentype.NewFace(otf, &opentype.FaceOptions{
			Size:    float64(ck.sizePx),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil
		}
		f = of
	default:
		return nil
	}

	r.mu.Lock()
	r.faces[ck] = f
	r.mu.Unlock()
	return f
}

func canonical(family string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(family, `"'`)))
}
