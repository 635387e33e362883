package color

import (
	"fmt"
	imgcolor "image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"vectorlayers/pkg/cfg"
)

// RGB is an 8-bit sRGB color. It is the key of every color histogram, so it
// has to stay comparable.
type RGB struct {
	R, G, B uint8
}

func FromRGBA(c imgcolor.RGBA) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Masked drops the low bits of each channel.
func (c RGB) Masked(mask uint8) RGB {
	return RGB{R: c.R & mask, G: c.G & mask, B: c.B & mask}
}

// Less orders colors by channel value; used to break count ties.
func (c RGB) Less(o RGB) bool {
	if c.R != o.R {
		return c.R < o.R
	}
	if c.G != o.G {
		return c.G < o.G
	}
	return c.B < o.B
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func (c RGB) Linear() Linear {
	r, g, b := c.colorful().LinearRgb()
	return Linear{R: r, G: g, B: b}
}

func (c RGB) Lab() Lab {
	return labOf(c.colorful())
}

func (c RGB) RGBA() imgcolor.RGBA {
	return imgcolor.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Linear is a color in linear-light sRGB. Color sums are accumulated here.
type Linear struct {
	R, G, B float64
}

func (l Linear) Add(o Linear) Linear {
	return Linear{R: l.R + o.R, G: l.G + o.G, B: l.B + o.B}
}

func (l Linear) Scale(f float64) Linear {
	return Linear{R: l.R * f, G: l.G * f, B: l.B * f}
}

func (l Linear) colorful() colorful.Color {
	return colorful.LinearRgb(l.R, l.G, l.B)
}

func (l Linear) Lab() Lab {
	return labOf(l.colorful())
}

// RGB converts back to 8-bit sRGB, clamping out of gamut values.
func (l Linear) RGB() RGB {
	r, g, b := l.colorful().Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Lab is CIELAB in the usual units: L in [0,100], a and b roughly [-128,127].
type Lab struct {
	L, A, B float64
}

func labOf(c colorful.Color) Lab {
	l, a, b := c.Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100}
}

func (c Lab) colorful() colorful.Color {
	return colorful.Lab(c.L/100, c.A/100, c.B/100)
}

// ChromaOnly keeps the hue of c and replaces lightness and chroma with fixed
// values, so that distances only reflect hue.
func (c Lab) ChromaOnly() Lab {
	h, _, _ := c.colorful().Hcl()
	return labOf(colorful.Hcl(h, 1.28, 0.5))
}

// SquaredDistance is the squared Euclidean distance in CIELAB.
func (c Lab) SquaredDistance(o Lab) float64 {
	dl, da, db := c.L-o.L, c.A-o.A, c.B-o.B
	return dl*dl + da*da + db*db
}

// Metric is a perceptual color difference.
type Metric func(a, b Lab) float64

func CIEDE2000(a, b Lab) float64 {
	return a.colorful().DistanceCIEDE2000(b.colorful()) * 100
}

// HyAB is the hybrid distance: city block on lightness, Euclidean on chroma.
// It behaves better than CIEDE2000 for large differences.
func HyAB(a, b Lab) float64 {
	da, db := a.A-b.A, a.B-b.B
	return math.Abs(a.L-b.L) + math.Sqrt(da*da+db*db)
}

func MetricFor(d cfg.ColorDifference) Metric {
	if d == cfg.Hybrid {
		return HyAB
	}
	return CIEDE2000
}
