package classify

import (
	"context"
	"image"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/color"
	"vectorlayers/pkg/quantize"
)

// Unassigned marks background, transparent and strict-rejected pixels.
const Unassigned int32 = -1

// Assignment maps every pixel, in row-major order, to a position in the layer
// list it was classified against, or Unassigned.
type Assignment struct {
	Width, Height int
	Layer         []int32
}

func (a *Assignment) At(x, y int) int32 {
	return a.Layer[y*a.Width+x]
}

// Counts returns the number of pixels assigned to each of n layers.
func (a *Assignment) Counts(n int) []int {
	counts := make([]int, n)
	for _, l := range a.Layer {
		if l >= 0 {
			counts[l]++
		}
	}
	return counts
}

// Classifier finds the nearest layer for a color.
type Classifier struct {
	layers     []color.Lab
	metric     color.Metric
	threshold  float64
	strict     bool
	onlyChroma bool
}

func NewClassifier(layers []quantize.Layer, c cfg.Config) *Classifier {
	cl := &Classifier{
		metric:     color.MetricFor(c.ColorDifference),
		threshold:  c.SimilarityThreshold(),
		strict:     c.Strict,
		onlyChroma: c.OnlyChroma,
	}
	for _, l := range layers {
		lab := l.Color.Lab()
		if c.OnlyChroma {
			lab = lab.ChromaOnly()
		}
		cl.layers = append(cl.layers, lab)
	}
	return cl
}

// Nearest returns the index of the closest layer. The first layer wins ties.
func (cl *Classifier) Nearest(c color.RGB) int32 {
	if len(cl.layers) == 0 {
		return Unassigned
	}
	lab := c.Lab()
	if cl.onlyChroma {
		lab = lab.ChromaOnly()
	}
	best := Unassigned
	bestDist := 0.0
	for i, l := range cl.layers {
		d := cl.metric(lab, l)
		if best == Unassigned || d < bestDist {
			best, bestDist = int32(i), d
		}
	}
	if cl.strict && bestDist > cl.threshold {
		return Unassigned
	}
	return best
}

// Classify assigns every kept pixel of img to a layer. Each distinct color is
// classified once; the per-pixel pass is then a table lookup.
func Classify(ctx context.Context, img *image.NRGBA, layers []quantize.Layer, c cfg.Config, filter *color.Filter) (*Assignment, error) {
	b := img.Bounds()
	a := &Assignment{Width: b.Dx(), Height: b.Dy(), Layer: make([]int32, b.Dx()*b.Dy())}
	for i := range a.Layer {
		a.Layer[i] = Unassigned
	}
	if len(layers) == 0 {
		return a, nil
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cl := NewClassifier(layers, c)

	var mu sync.Mutex
	lookup := map[color.RGB]int32{}
	classify := func(rgb color.RGB) int32 {
		mu.Lock()
		l, ok := lookup[rgb]
		mu.Unlock()
		if ok {
			return l
		}
		l = cl.Nearest(rgb)
		mu.Lock()
		lookup[rgb] = l
		mu.Unlock()
		return l
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < a.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			i := img.PixOffset(b.Min.X, b.Min.Y+y)
			row := a.Layer[y*a.Width : (y+1)*a.Width]
			for x := range row {
				if rgb, ok := filter.Keep(img, i+4*x); ok {
					row[x] = classify(rgb)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}
