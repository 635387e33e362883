package quantize

import (
	"context"
	"image"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/color"
)

// Layer is a finalized representative color. Index is its position in the
// quantizer output and stays fixed even if other layers are later dropped.
type Layer struct {
	Index int
	Color color.Linear
}

func (l Layer) RGB() color.RGB {
	return l.Color.RGB()
}

// ColorStat accumulates the pixels merged into one candidate color.
type ColorStat struct {
	Sum   color.Linear
	Count int
}

func (s ColorStat) Average() color.Linear {
	if s.Count == 0 {
		return color.Linear{}
	}
	return s.Sum.Scale(1 / float64(s.Count))
}

func (s ColorStat) add(o ColorStat) ColorStat {
	return ColorStat{Sum: s.Sum.Add(o.Sum), Count: s.Count + o.Count}
}

// Histogram counts kept pixels by masked color.
type Histogram struct {
	Counts map[color.RGB]int
	Total  int
}

// BuildHistogram counts the colors of img that pass the filter. Rows are
// split across workers and the partial tables merged at the end.
func BuildHistogram(ctx context.Context, img *image.NRGBA, filter *color.Filter, workers int) (*Histogram, error) {
	b := img.Bounds()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rows := b.Dy()
	chunk := (rows + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	var partials []map[color.RGB]int
	g, ctx := errgroup.WithContext(ctx)
	for y0 := b.Min.Y; y0 < b.Max.Y; y0 += chunk {
		y1 := min(y0+chunk, b.Max.Y)
		counts := map[color.RGB]int{}
		partials = append(partials, counts)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := img.PixOffset(b.Min.X, y)
				for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
					if c, ok := filter.Keep(img, i); ok {
						counts[c]++
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &Histogram{Counts: map[color.RGB]int{}}
	for _, counts := range partials {
		for c, n := range counts {
			h.Counts[c] += n
			h.Total += n
		}
	}
	return h, nil
}

// Stats returns one ColorStat per histogram color, most frequent first. Equal
// counts are ordered by color value so the result does not depend on map order.
func (h *Histogram) Stats() []ColorStat {
	keys := make([]color.RGB, 0, len(h.Counts))
	for c := range h.Counts {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := h.Counts[keys[i]], h.Counts[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return keys[i].Less(keys[j])
	})
	stats := make([]ColorStat, len(keys))
	for i, c := range keys {
		n := h.Counts[c]
		stats[i] = ColorStat{Sum: c.Linear().Scale(float64(n)), Count: n}
	}
	return stats
}

// MergeResult describes the outcome of Merge.
type MergeResult struct {
	Stats     []ColorStat
	Passes    int
	Converged bool
}

// Merge repeatedly folds every color into the first more frequent color whose
// average lies within threshold, until a pass merges nothing or maxPasses is
// reached. The input must be sorted most frequent first.
func Merge(stats []ColorStat, threshold float64, metric color.Metric, maxPasses int) MergeResult {
	current := stats
	passes := 0
	for passes < maxPasses {
		passes++
		next := mergePass(current, threshold, metric)
		if len(next) == len(current) {
			return MergeResult{Stats: next, Passes: passes, Converged: true}
		}
		current = next
	}
	return MergeResult{Stats: current, Passes: passes, Converged: len(current) <= 1}
}

func mergePass(stats []ColorStat, threshold float64, metric color.Metric) []ColorStat {
	labs := make([]color.Lab, len(stats))
	for i, s := range stats {
		labs[i] = s.Average().Lab()
	}
	seen := make([]bool, len(stats))
	var merged []ColorStat
	for i := range stats {
		if seen[i] {
			continue
		}
		seen[i] = true
		acc := stats[i]
		for j := i + 1; j < len(stats); j++ {
			if seen[j] || metric(labs[i], labs[j]) > threshold {
				continue
			}
			seen[j] = true
			acc = acc.add(stats[j])
		}
		merged = append(merged, acc)
	}
	// Merging can reorder counts; keep most frequent first. SliceStable keeps
	// the previous order for ties.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Count > merged[j].Count
	})
	return merged
}

// Select picks the layer colors: the first numLayers stats when numLayers is
// positive, otherwise stats are taken while the pixels already covered stay
// below coverage of total.
func Select(stats []ColorStat, numLayers int, coverage float64, total int) []Layer {
	var layers []Layer
	if numLayers > 0 {
		for i := 0; i < len(stats) && i < numLayers; i++ {
			layers = append(layers, Layer{Index: i, Color: stats[i].Average()})
		}
		return layers
	}
	covered := 0
	for i, s := range stats {
		if total == 0 || float64(covered)/float64(total) >= coverage {
			break
		}
		layers = append(layers, Layer{Index: i, Color: s.Average()})
		covered += s.Count
	}
	return layers
}

// Result is everything the quantizer learned about the image.
type Result struct {
	Layers       []Layer
	TotalPixels  int
	UniqueColors int
	MergedColors int
	Passes       int
	Converged    bool
}

// Quantize derives the layer colors of img. With custom colors configured the
// histogram is still built for reporting but the layers are taken as given.
func Quantize(ctx context.Context, img *image.NRGBA, c cfg.Config, filter *color.Filter) (*Result, error) {
	h, err := BuildHistogram(ctx, img, filter, c.Workers)
	if err != nil {
		return nil, err
	}
	r := &Result{TotalPixels: h.Total, UniqueColors: len(h.Counts), Converged: true}

	if len(c.CustomColors) > 0 {
		for i, cc := range c.CustomColors {
			r.Layers = append(r.Layers, Layer{Index: i, Color: color.FromRGBA(cc).Linear()})
		}
		r.MergedColors = len(r.Layers)
		return r, nil
	}
	if h.Total == 0 {
		return r, nil
	}

	var stats []ColorStat
	switch c.Palette {
	case cfg.KMeans:
		stats, err = kmeansPalette(img, filter, c.NumLayers)
	case cfg.Dominant:
		stats, err = dominantPalette(img, filter, c.NumLayers, h.Total)
	default:
		m := Merge(h.Stats(), c.SimilarityThreshold(), color.MetricFor(c.ColorDifference), c.MergePasses())
		stats, r.Passes, r.Converged = m.Stats, m.Passes, m.Converged
	}
	if err != nil {
		return nil, err
	}
	r.MergedColors = len(stats)
	r.Layers = Select(stats, c.NumLayers, c.LayerCoverage(), h.Total)
	return r, nil
}
