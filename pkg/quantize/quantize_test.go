package quantize_test

import (
	"context"
	"image"
	imgcolor "image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/color"
	"vectorlayers/pkg/quantize"
)

var palette = map[rune]imgcolor.NRGBA{
	'◻': {R: 255, G: 255, B: 255, A: 255},
	'R': {R: 255, A: 255},
	'r': {R: 250, G: 2, B: 1, A: 255},
	'B': {B: 255, A: 255},
	'G': {G: 200, A: 255},
	' ': {},
}

func makeImage(rows ...string) *image.NRGBA {
	width := len([]rune(rows[0]))
	img := image.NewNRGBA(image.Rect(0, 0, width, len(rows)))
	for y, row := range rows {
		for x, r := range []rune(row) {
			img.SetNRGBA(x, y, palette[r])
		}
	}
	return img
}

func layerColors(layers []quantize.Layer) []color.RGB {
	var colors []color.RGB
	for _, l := range layers {
		colors = append(colors, l.RGB())
	}
	return colors
}

var white = color.RGB{R: 255, G: 255, B: 255}

func TestHistogram(t *testing.T) {
	img := makeImage(
		"RR◻ ",
		"RBB◻",
	)
	h, err := quantize.BuildHistogram(context.Background(), img, color.NewFilter(0xFF, &white, 10), 3)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[color.RGB]int{
		{R: 255}: 3,
		{B: 255}: 2,
	}
	if diff := cmp.Diff(expected, h.Counts); diff != "" {
		t.Errorf("unexpected histogram:\n%s\n", diff)
	}
	if h.Total != 5 {
		t.Errorf("expected 5 pixels, got %d", h.Total)
	}
}

func TestStatsOrder(t *testing.T) {
	h := &quantize.Histogram{Counts: map[color.RGB]int{
		{R: 255}: 4,
		{B: 255}: 4,
		{G: 9}:   7,
	}}
	var got []color.RGB
	for _, s := range h.Stats() {
		got = append(got, s.Average().RGB())
	}
	expected := []color.RGB{{G: 9}, {B: 255}, {R: 255}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected order:\n%s\n", diff)
	}
}

func TestMergeNearColors(t *testing.T) {
	h := &quantize.Histogram{Counts: map[color.RGB]int{
		{R: 255}:             10,
		{R: 250, G: 2, B: 1}: 3,
		{B: 255}:             5,
	}}
	m := quantize.Merge(h.Stats(), 3.5, color.CIEDE2000, 10)
	if !m.Converged {
		t.Errorf("expected convergence")
	}
	var counts []int
	for _, s := range m.Stats {
		counts = append(counts, s.Count)
	}
	if diff := cmp.Diff([]int{13, 5}, counts); diff != "" {
		t.Errorf("unexpected merged counts:\n%s\n", diff)
	}
	if m.Passes != 2 {
		t.Errorf("expected 2 passes, got %d", m.Passes)
	}
}

func TestMergePassCap(t *testing.T) {
	h := &quantize.Histogram{Counts: map[color.RGB]int{
		{R: 255}:             10,
		{R: 250, G: 2, B: 1}: 3,
		{B: 255}:             5,
	}}
	m := quantize.Merge(h.Stats(), 3.5, color.CIEDE2000, 1)
	if m.Converged {
		t.Errorf("a single merging pass cannot prove convergence")
	}
	if len(m.Stats) != 2 || m.Passes != 1 {
		t.Errorf("unexpected result %d colors after %d passes", len(m.Stats), m.Passes)
	}
}

func TestSelect(t *testing.T) {
	stats := []quantize.ColorStat{
		{Sum: color.RGB{R: 255}.Linear().Scale(60), Count: 60},
		{Sum: color.RGB{B: 255}.Linear().Scale(35), Count: 35},
		{Sum: color.RGB{G: 255}.Linear().Scale(5), Count: 5},
	}
	tests := []struct {
		numLayers int
		coverage  float64
		expected  []color.RGB
	}{
		{1, 0.9, []color.RGB{{R: 255}}},
		{5, 0.9, []color.RGB{{R: 255}, {B: 255}, {G: 255}}},
		{0, 0.9, []color.RGB{{R: 255}, {B: 255}}},
		{0, 0.5, []color.RGB{{R: 255}}},
		{0, 0.96, []color.RGB{{R: 255}, {B: 255}, {G: 255}}},
	}
	for _, test := range tests {
		got := layerColors(quantize.Select(stats, test.numLayers, test.coverage, 100))
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Errorf("layers %d coverage %g:\n%s\n", test.numLayers, test.coverage, diff)
		}
	}
}

func quantizeImage(t *testing.T, img *image.NRGBA, c cfg.Config) *quantize.Result {
	t.Helper()
	var bg *color.RGB
	if c.RemoveBackground {
		b, ok := color.DetectBackground(img, c.ColorMask())
		if ok {
			bg = &b
		}
	}
	r, err := quantize.Quantize(context.Background(), img, c, color.NewFilter(c.ColorMask(), bg, c.BackgroundSimilarity))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestQuantizeTwoBlocks(t *testing.T) {
	img := makeImage(
		"RR◻◻",
		"RR◻◻",
		"◻◻BB",
		"◻◻BB",
	)
	c := cfg.Default()
	c.RemoveBackground = true
	r := quantizeImage(t, img, c)
	expected := []color.RGB{{B: 255}, {R: 255}}
	if diff := cmp.Diff(expected, layerColors(r.Layers)); diff != "" {
		t.Errorf("unexpected layers:\n%s\n", diff)
	}
	if r.TotalPixels != 8 || r.UniqueColors != 2 || r.MergedColors != 2 {
		t.Errorf("unexpected counts %+v", r)
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	img := makeImage(
		"RrBBG",
		"rRBGG",
		"RRBrG",
	)
	c := cfg.Default()
	first := quantizeImage(t, img, c)
	for i := 0; i < 5; i++ {
		again := quantizeImage(t, img, c)
		if diff := cmp.Diff(first.Layers, again.Layers); diff != "" {
			t.Fatalf("run %d differs:\n%s\n", i, diff)
		}
	}
}

func TestQuantizeSingleColor(t *testing.T) {
	img := makeImage(
		"RRR",
		"RRR",
	)
	r := quantizeImage(t, img, cfg.Default())
	if diff := cmp.Diff([]color.RGB{{R: 255}}, layerColors(r.Layers)); diff != "" {
		t.Errorf("unexpected layers:\n%s\n", diff)
	}
}

func TestQuantizeEmpty(t *testing.T) {
	img := makeImage(
		"   ",
		"   ",
	)
	r := quantizeImage(t, img, cfg.Default())
	if len(r.Layers) != 0 || r.TotalPixels != 0 {
		t.Errorf("expected no layers, got %+v", r)
	}
}

func TestQuantizeCustomColors(t *testing.T) {
	img := makeImage(
		"RRB",
	)
	c := cfg.Default()
	c.CustomColors = []imgcolor.RGBA{{G: 255, A: 255}, {R: 10, G: 20, B: 30, A: 255}}
	r := quantizeImage(t, img, c)
	expected := []color.RGB{{G: 255}, {R: 10, G: 20, B: 30}}
	if diff := cmp.Diff(expected, layerColors(r.Layers)); diff != "" {
		t.Errorf("unexpected layers:\n%s\n", diff)
	}
	if r.UniqueColors != 2 {
		t.Errorf("histogram should still be reported, got %d colors", r.UniqueColors)
	}
}

func TestQuantizeKMeans(t *testing.T) {
	img := makeImage(
		"RRRR",
		"RRRR",
		"BBBB",
	)
	c := cfg.Default()
	c.Palette = cfg.KMeans
	c.NumLayers = 2
	r := quantizeImage(t, img, c)
	if len(r.Layers) == 0 || len(r.Layers) > 2 {
		t.Fatalf("expected one or two layers, got %d", len(r.Layers))
	}
	if r.Layers[0].Index != 0 {
		t.Errorf("layer indexes should start at zero")
	}
}

func TestQuantizeDominant(t *testing.T) {
	parent := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := palette['B']
			if x < 3 && y < 3 {
				c = palette['R']
			}
			parent.SetNRGBA(x, y, c)
		}
	}
	// The sub-image keeps the parent's stride.
	img := parent.SubImage(image.Rect(0, 0, 3, 3)).(*image.NRGBA)

	c := cfg.Default()
	c.Palette = cfg.Dominant
	c.NumLayers = 1
	r := quantizeImage(t, img, c)
	if len(r.Layers) != 1 {
		t.Fatalf("expected one layer, got %d", len(r.Layers))
	}
	if got := r.Layers[0].RGB(); got.R < 200 || got.B > 50 {
		t.Errorf("expected a red layer, got %v", got)
	}
	if r.TotalPixels != 9 {
		t.Errorf("counted %d pixels, want 9", r.TotalPixels)
	}
}
