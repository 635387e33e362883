package color

import (
	"image"
)

// Filter decides which pixels take part in quantization and classification
// and reduces their precision.
type Filter struct {
	Mask uint8

	// Background is nil when background removal is off.
	Background           *RGB
	BackgroundSimilarity float64

	backgroundLab Lab
}

func NewFilter(mask uint8, background *RGB, similarity float64) *Filter {
	f := &Filter{Mask: mask, Background: background, BackgroundSimilarity: similarity}
	if background != nil {
		f.backgroundLab = background.Lab()
	}
	return f
}

// Keep returns the masked color of the pixel at offset i of img, or false if the
// pixel is transparent or background.
func (f *Filter) Keep(img *image.NRGBA, i int) (RGB, bool) {
	p := img.Pix[i : i+4 : i+4]
	if p[3] == 0 {
		return RGB{}, false
	}
	c := RGB{R: p[0], G: p[1], B: p[2]}
	if f.Background != nil {
		if c == *f.Background || c.Lab().SquaredDistance(f.backgroundLab) < f.BackgroundSimilarity {
			return RGB{}, false
		}
	}
	return c.Masked(f.Mask), true
}

// DetectBackground returns the most frequent masked color on the image border.
// Transparent pixels are ignored. Ties go to the lower color value.
func DetectBackground(img *image.NRGBA, mask uint8) (RGB, bool) {
	b := img.Bounds()
	if b.Empty() {
		return RGB{}, false
	}
	counts := map[RGB]int{}
	count := func(x, y int) {
		i := img.PixOffset(x, y)
		p := img.Pix[i : i+4 : i+4]
		if p[3] == 0 {
			return
		}
		counts[RGB{R: p[0], G: p[1], B: p[2]}.Masked(mask)]++
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		count(x, b.Min.Y)
		if b.Dy() > 1 {
			count(x, b.Max.Y-1)
		}
	}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		count(b.Min.X, y)
		if b.Dx() > 1 {
			count(b.Max.X-1, y)
		}
	}

	var best RGB
	bestCount := 0
	for c, n := range counts {
		if n > bestCount || (n == bestCount && c.Less(best)) {
			best, bestCount = c, n
		}
	}
	return best, bestCount > 0
}
