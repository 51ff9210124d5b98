package config

// BackgroundKind selects which arm of Background is meaningful.
type BackgroundKind string

const (
	BackgroundColor    BackgroundKind = "color"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// GradientDirection is one of the 8 compass directions a gradient can flow in.
type GradientDirection string

const (
	ToTop         GradientDirection = "to-top"
	ToBottom      GradientDirection = "to-bottom"
	ToLeft        GradientDirection = "to-left"
	ToRight       GradientDirection = "to-right"
	ToTopLeft     GradientDirection = "to-top-left"
	ToTopRight    GradientDirection = "to-top-right"
	ToBottomLeft  GradientDirection = "to-bottom-left"
	ToBottomRight GradientDirection = "to-bottom-right"
)

type Gradient struct {
	StartColor string            `json:"startColor"`
	EndColor   string            `json:"endColor"`
	Direction  GradientDirection `json:"direction"`
}

// Background is a tagged variant: exactly one of Color/Gradient/ImagePath is
// meaningful, selected by Kind. Opacity applies to all kinds; Blur applies to
// image backgrounds only.
type Background struct {
	Kind      BackgroundKind `json:"type"`
	Color     string         `json:"color"`
	Gradient  Gradient       `json:"gradient"`
	ImagePath string         `json:"imagePath"`
	Opacity   float64        `json:"opacity"` // 0..100
	Blur      float64        `json:"blur"`    // px, >= 0
}

// Position is a percentage-based placement. Values outside [0,100] clamp to
// the nearest canvas edge during layout.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Shadow struct {
	Color string  `json:"color"`
	Size  float64 `json:"size"` // blur radius px, >= 0
}

// Icon is a vector image placed on the cover. Source holds raw SVG markup;
// it is rasterized lazily and cached until the markup changes.
type Icon struct {
	Source   string   `json:"source"`
	Size     float64  `json:"size"` // px, longer axis
	Position Position `json:"position"`
	Shadow   Shadow   `json:"shadow"`
}

type Title struct {
	Text           string   `json:"text"`
	Color          string   `json:"color"`
	FontFamily     string   `json:"fontFamily"`
	Size           float64  `json:"size"` // px
	Position       Position `json:"position"`
	Bold           bool     `json:"bold"`
	Italic         bool     `json:"italic"`
	TextShadowSize float64  `json:"textShadowSize"` // 0 disables the shadow
}

type Watermark struct {
	Text       string   `json:"text"`
	Color      string   `json:"color"`
	FontFamily string   `json:"fontFamily"`
	Size       float64  `json:"size"`
	Position   Position `json:"position"`
	Bold       bool     `json:"bold"`
	Italic     bool     `json:"italic"`
	Uppercase  bool     `json:"uppercase"`
	Opacity    float64  `json:"opacity"` // 0..100
}

// Format is an export image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// Export describes one export request. Quality is only honored for lossy
// formats (jpeg); png and webp ignore it.
type Export struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Format     Format  `json:"format"`
	Quality    float64 `json:"quality"` // 0..1
	FileName   string  `json:"fileName"`
	RandomName bool    `json:"randomName"`
}

// Cover bundles the four element configurations for loading from JSON.
type Cover struct {
	Background Background `json:"background"`
	Icon       Icon       `json:"icon"`
	Title      Title      `json:"title"`
	Watermark  Watermark  `json:"watermark"`
}

// DefaultCover returns a sensible starting configuration.
func DefaultCover() Cover {
	return Cover{
		Background: Background{
			Kind:    BackgroundGradient,
			Color:   "#FFFFFF",
			Opacity: 100,
			Gradient: Gradient{
				StartColor: "#4F46E5",
				EndColor:   "#9333EA",
				Direction:  ToBottomRight,
			},
		},
		Icon: Icon{
			Size:     160,
			Position: Position{X: 50, Y: 35},
			Shadow:   Shadow{Color: "#00000066", Size: 0},
		},
		Title: Title{
			Text:       "Hello Cover",
			Color:      "#FFFFFF",
			FontFamily: "sans-serif",
			Size:       72,
			Position:   Position{X: 50, Y: 62},
			Bold:       true,
		},
		Watermark: Watermark{
			Text:       "@cover-magic",
			Color:      "#FFFFFF",
			FontFamily: "sans-serif",
			Size:       28,
			Position:   Position{X: 96, Y: 96},
			Opacity:    60,
		},
	}
}

// DefaultExport returns the standard export request for a 1920x1080 cover.
func DefaultExport() Export {
	return Export{Width: 1920, Height: 1080, Format: PNG, Quality: 0.92, FileName: "cover.png"}
}
