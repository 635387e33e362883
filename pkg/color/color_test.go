package color_test

import (
	"image"
	imgcolor "image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vectorlayers/pkg/color"
)

func TestMasked(t *testing.T) {
	c := color.RGB{R: 0xAB, G: 0xCD, B: 0xEF}
	if diff := cmp.Diff(color.RGB{R: 0xA0, G: 0xC0, B: 0xE0}, c.Masked(0xF0)); diff != "" {
		t.Errorf("unexpected masked color:\n%s\n", diff)
	}
}

func TestLinearRoundTrip(t *testing.T) {
	for _, c := range []color.RGB{{}, {R: 255, G: 255, B: 255}, {R: 200, G: 100, B: 50}, {R: 3, G: 128, B: 254}} {
		if got := c.Linear().RGB(); got != c {
			t.Errorf("expected %v, got %v", c, got)
		}
	}
}

func TestLinearAverage(t *testing.T) {
	sum := color.RGB{B: 255}.Linear().Scale(4)
	if got := sum.Scale(1.0 / 4).RGB(); got != (color.RGB{B: 255}) {
		t.Errorf("unexpected average %v", got)
	}
}

func TestMetrics(t *testing.T) {
	red := color.RGB{R: 255}.Lab()
	blue := color.RGB{B: 255}.Lab()
	if d := color.CIEDE2000(red, red); d > 1e-9 {
		t.Errorf("expected zero self distance, got %g", d)
	}
	if d := color.CIEDE2000(red, blue); d < 20 {
		t.Errorf("red and blue should be far apart, got %g", d)
	}

	got := color.HyAB(color.Lab{L: 50}, color.Lab{L: 60, A: 3, B: 4})
	if math.Abs(got-15) > 1e-9 {
		t.Errorf("expected hybrid distance 15, got %g", got)
	}
}

func TestChromaOnlyIgnoresLightness(t *testing.T) {
	dark := color.Lab{L: 30, A: 20, B: 10}
	light := color.Lab{L: 70, A: 40, B: 20}
	if d := color.HyAB(dark.ChromaOnly(), light.ChromaOnly()); d > 1e-6 {
		t.Errorf("same hue should project to the same color, distance %g", d)
	}
	other := color.Lab{L: 30, A: -20, B: 10}
	if d := color.HyAB(dark.ChromaOnly(), other.ChromaOnly()); d < 10 {
		t.Errorf("different hues should stay apart, distance %g", d)
	}
}

func makeNRGBA(w, h int, fill imgcolor.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

func TestDetectBackground(t *testing.T) {
	img := makeNRGBA(3, 3, imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 1, imgcolor.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 0, imgcolor.NRGBA{B: 255, A: 255})

	bg, ok := color.DetectBackground(img, 0xFF)
	if !ok {
		t.Fatalf("expected a background")
	}
	if bg != (color.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("expected white, got %v", bg)
	}

	if _, ok := color.DetectBackground(makeNRGBA(2, 2, imgcolor.NRGBA{}), 0xFF); ok {
		t.Errorf("transparent image should have no background")
	}
}

func TestFilterKeep(t *testing.T) {
	img := makeNRGBA(3, 1, imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, imgcolor.NRGBA{R: 0x13, G: 0x57, B: 0x9B, A: 255})
	img.SetNRGBA(2, 0, imgcolor.NRGBA{R: 0x13, G: 0x57, B: 0x9B, A: 0})

	white := color.RGB{R: 255, G: 255, B: 255}
	f := color.NewFilter(0xF0, &white, 10)

	type kept struct {
		C  color.RGB
		OK bool
	}
	var got []kept
	for x := 0; x < 3; x++ {
		c, ok := f.Keep(img, img.PixOffset(x, 0))
		got = append(got, kept{c, ok})
	}
	expected := []kept{
		{color.RGB{}, false},
		{color.RGB{R: 0x10, G: 0x50, B: 0x90}, true},
		{color.RGB{}, false},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected filter result:\n%s\n", diff)
	}

	all := color.NewFilter(0xFF, nil, 0)
	if _, ok := all.Keep(img, img.PixOffset(0, 0)); !ok {
		t.Errorf("white should be kept without background removal")
	}
}
