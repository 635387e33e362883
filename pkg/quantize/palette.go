package quantize

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/color"
)

// kmeansPalette partitions a subsample of the kept pixels with k-means. Each
// cluster becomes a ColorStat whose count is scaled back to the full image.
// The partition uses a random seed, so unlike Merge it is not deterministic.
func kmeansPalette(img *image.NRGBA, filter *color.Filter, numLayers int) ([]ColorStat, error) {
	b := img.Bounds()
	step := 1
	if n := b.Dx() * b.Dy(); n > cfg.KMeansSamples {
		step = int(math.Sqrt(float64(n)/float64(cfg.KMeansSamples))) + 1
	}

	var dataset clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := filter.Keep(img, img.PixOffset(x, y))
			if !ok {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255,
				float64(c.G) / 255,
				float64(c.B) / 255,
			})
		}
	}
	if len(dataset) == 0 {
		return nil, nil
	}

	k := numLayers
	if k <= 0 {
		k = cfg.KMeansDefaultK
	}
	k = min(k, len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans palette: %w", err)
	}

	scale := float64(step * step)
	var stats []ColorStat
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		rgb := color.RGB{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
		}
		n := int(float64(len(c.Observations)) * scale)
		stats = append(stats, ColorStat{Sum: rgb.Linear().Scale(float64(n)), Count: n})
	}
	sortStats(stats)
	return stats, nil
}

// dominantPalette asks dominantcolor for weighted candidates over the kept
// pixels; removed pixels are made transparent first.
func dominantPalette(img *image.NRGBA, filter *color.Filter, numLayers, total int) ([]ColorStat, error) {
	b := img.Bounds()
	kept := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c, ok := filter.Keep(img, img.PixOffset(x, y)); ok {
				j := kept.PixOffset(x, y)
				copy(kept.Pix[j:j+4], []uint8{c.R, c.G, c.B, 0xFF})
			}
		}
	}

	n := numLayers
	if n <= 0 {
		n = cfg.KMeansDefaultK
	}
	var stats []ColorStat
	for _, c := range dominantcolor.FindWeight(kept, n) {
		if c.RGBA.A == 0 || c.Weight <= 0 {
			continue
		}
		rgb := color.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}.Masked(filter.Mask)
		if filter.Background != nil && rgb == filter.Background.Masked(filter.Mask) {
			continue
		}
		count := int(math.Round(c.Weight * float64(total)))
		if count == 0 {
			continue
		}
		stats = append(stats, ColorStat{Sum: rgb.Linear().Scale(float64(count)), Count: count})
	}
	sortStats(stats)
	return stats, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func sortStats(stats []ColorStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Average().RGB().Less(stats[j].Average().RGB())
	})
}
