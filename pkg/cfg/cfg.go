package cfg

import (
	"errors"
	"fmt"
	imgcolor "image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// LayerCoverage is the fraction of non-background pixels that the selected layers
// should account for when no explicit layer count is given.
var LayerCoverage = 0.90

// MaxMergePasses bounds the color merge loop. Hitting it is not an error; the
// quantizer keeps whatever it merged so far.
var MaxMergePasses = 64

// Default similarity thresholds, in the units of each metric.
var DefaultCiedeSimilarity = 3.5
var DefaultHybridSimilarity = 9.5

// DefaultBackgroundSimilarity is a squared CIELAB distance.
var DefaultBackgroundSimilarity = 10.0

// KMeansSamples caps how many pixels the k-means palette looks at.
var KMeansSamples = 12000

// KMeansDefaultK is used when the k-means palette runs in coverage mode.
var KMeansDefaultK = 8

var ErrInvalidConfig = errors.New("invalid config")

type ColorDifference int

const (
	Ciede ColorDifference = iota
	Hybrid
)

func (d ColorDifference) String() string {
	switch d {
	case Ciede:
		return "ciede"
	case Hybrid:
		return "hybrid"
	}
	return fmt.Sprintf("ColorDifference(%d)", int(d))
}

func ParseColorDifference(s string) (ColorDifference, error) {
	switch strings.ToLower(s) {
	case "ciede", "ciede2000":
		return Ciede, nil
	case "hybrid", "hyab":
		return Hybrid, nil
	}
	return 0, fmt.Errorf("%w: unknown color difference %q", ErrInvalidConfig, s)
}

// Mode selects how traced outlines are turned into path data.
type Mode int

const (
	Pixel Mode = iota
	Polygon
	Spline
	Potrace
)

func (m Mode) String() string {
	switch m {
	case Pixel:
		return "pixel"
	case Polygon:
		return "polygon"
	case Spline:
		return "spline"
	case Potrace:
		return "potrace"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Pixel, Polygon, Spline, Potrace} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// PaletteMethod selects how layer colors are found when no custom colors are given.
type PaletteMethod int

const (
	Merge PaletteMethod = iota
	KMeans
	Dominant
)

func (p PaletteMethod) String() string {
	switch p {
	case Merge:
		return "merge"
	case KMeans:
		return "kmeans"
	case Dominant:
		return "dominant"
	}
	return fmt.Sprintf("PaletteMethod(%d)", int(p))
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	for _, p := range []PaletteMethod{Merge, KMeans, Dominant} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown palette method %q", ErrInvalidConfig, s)
}

type Config struct {
	// ColorPrecision is the number of significant bits kept per channel (1-8).
	ColorPrecision int

	// NumLayers selects the top N merged colors. Zero means use Coverage.
	NumLayers int
	// Coverage overrides LayerCoverage when non-zero.
	Coverage float64

	Palette      PaletteMethod
	CustomColors []imgcolor.RGBA

	// Similarity is the merge and classification threshold. Zero means the
	// default for ColorDifference.
	Similarity      float64
	ColorDifference ColorDifference
	Strict          bool
	OnlyChroma      bool

	// FilterSpeckle is the side of the smallest square cluster that survives
	// merging; the area threshold is its square.
	FilterSpeckle       int
	RetainSpeckleDetail bool

	Grow           int
	MinGrowSpeckle int

	RemoveBackground     bool
	BackgroundColor      *imgcolor.RGBA
	BackgroundSimilarity float64

	Mode            Mode
	CornerThreshold float64 // degrees
	SegmentLength   float64

	// Workers bounds parallel stages. Zero means GOMAXPROCS.
	Workers int
	// MaxMergePasses overrides the package default when non-zero.
	MaxMergePasses int
}

func Default() Config {
	return Config{
		ColorPrecision:       8,
		FilterSpeckle:        4,
		BackgroundSimilarity: DefaultBackgroundSimilarity,
		Mode:                 Spline,
		CornerThreshold:      60,
		SegmentLength:        4,
	}
}

func (c Config) SimilarityThreshold() float64 {
	if c.Similarity > 0 {
		return c.Similarity
	}
	if c.ColorDifference == Hybrid {
		return DefaultHybridSimilarity
	}
	return DefaultCiedeSimilarity
}

func (c Config) LayerCoverage() float64 {
	if c.Coverage > 0 {
		return c.Coverage
	}
	return LayerCoverage
}

func (c Config) MinClusterArea() int {
	return c.FilterSpeckle * c.FilterSpeckle
}

func (c Config) MinGrowArea() int {
	return c.MinGrowSpeckle * c.MinGrowSpeckle
}

func (c Config) MergePasses() int {
	if c.MaxMergePasses > 0 {
		return c.MaxMergePasses
	}
	return MaxMergePasses
}

// ColorMask keeps the ColorPrecision high bits of a channel.
func (c Config) ColorMask() uint8 {
	p := c.ColorPrecision
	if p <= 0 || p > 8 {
		p = 8
	}
	return uint8(0xFF << (8 - p))
}

func (c Config) Validate() error {
	var problems []string
	if c.ColorPrecision < 1 || c.ColorPrecision > 8 {
		problems = append(problems, fmt.Sprintf("color precision %d not in 1..8", c.ColorPrecision))
	}
	if c.NumLayers < 0 {
		problems = append(problems, "negative layer count")
	}
	if c.Coverage < 0 || c.Coverage > 1 {
		problems = append(problems, fmt.Sprintf("coverage %g not in [0,1]", c.Coverage))
	}
	if c.Similarity < 0 {
		problems = append(problems, "negative similarity")
	}
	if c.BackgroundSimilarity < 0 {
		problems = append(problems, "negative background similarity")
	}
	if c.FilterSpeckle < 0 {
		problems = append(problems, "negative filter speckle")
	}
	if c.Grow < 0 {
		problems = append(problems, "negative grow radius")
	}
	if c.MinGrowSpeckle < 0 {
		problems = append(problems, "negative min grow speckle")
	}
	if c.Grow == 0 && c.MinGrowSpeckle > 0 {
		problems = append(problems, "min grow speckle set without a grow radius")
	}
	if c.CornerThreshold < 0 || c.CornerThreshold > 180 {
		problems = append(problems, fmt.Sprintf("corner threshold %g not in [0,180]", c.CornerThreshold))
	}
	if c.SegmentLength < 0 {
		problems = append(problems, "negative segment length")
	}
	if c.Workers < 0 || c.MaxMergePasses < 0 {
		problems = append(problems, "negative worker or pass count")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseColor reads a "#rrggbb" hex color.
func ParseColor(s string) (imgcolor.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return imgcolor.RGBA{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	r, g, b := c.RGB255()
	return imgcolor.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

// ParseColors reads a comma separated list of hex colors.
func ParseColors(s string) ([]imgcolor.RGBA, error) {
	var colors []imgcolor.RGBA
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := ParseColor(part)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
