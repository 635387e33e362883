package vectorize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/classify"
	"vectorlayers/pkg/cluster"
	"vectorlayers/pkg/color"
	"vectorlayers/pkg/grow"
	"vectorlayers/pkg/quantize"
	"vectorlayers/pkg/trace"
)

var ErrInvalidInput = errors.New("invalid input")

// LayerPaths is one output layer: its color and the traced shape of every
// cluster it kept, in cluster id order.
type LayerPaths struct {
	Layer  quantize.Layer
	Shapes []trace.Shape
}

// Paths flattens the shapes into outer boundaries and holes.
func (l LayerPaths) Paths() []trace.Path {
	var paths []trace.Path
	for _, s := range l.Shapes {
		paths = append(paths, s.Paths()...)
	}
	return paths
}

type Result struct {
	Width, Height int
	// Layers keeps quantizer order. Layers left without clusters are dropped.
	Layers []LayerPaths
	Report Report
}

// Vectorize splits img into color layers, clusters each layer, removes
// speckles, optionally grows the surviving clusters and traces them.
func Vectorize(ctx context.Context, img image.Image, c cfg.Config) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	if uint64(b.Dx())*uint64(b.Dy()) >= math.MaxUint32 {
		return nil, fmt.Errorf("%w: image of %dx%d pixels is too large", ErrInvalidInput, b.Dx(), b.Dy())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Width: b.Dx(), Height: b.Dy()}
	report := &res.Report
	report.Width, report.Height = res.Width, res.Height
	report.ColorMask = c.ColorMask()

	start := time.Now()
	src := toNRGBA(img)
	filter := newFilter(src, c)
	report.Background = filter.Background
	report.stage("convert", start)

	start = time.Now()
	q, err := quantize.Quantize(ctx, src, c, filter)
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	report.TotalPixels = q.TotalPixels
	report.UniqueColors = q.UniqueColors
	report.MergedColors = q.MergedColors
	report.MergePasses = q.Passes
	report.Converged = q.Converged
	if !q.Converged {
		Logger().Warn("color merge stopped at pass cap",
			"passes", q.Passes, "colors", q.MergedColors)
	}
	report.stage("quantize", start)
	if len(q.Layers) == 0 {
		return res, nil
	}

	start = time.Now()
	a, err := classify.Classify(ctx, src, q.Layers, c, filter)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	for _, n := range a.Counts(len(q.Layers)) {
		report.ClassifiedPixels += n
	}
	report.stage("classify", start)

	start = time.Now()
	m, arena, err := cluster.Build(ctx, a, len(q.Layers), c.Workers)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	report.ClustersBefore = arena.Len()
	report.stage("cluster", start)

	if !c.RetainSpeckleDetail {
		start = time.Now()
		report.Merges = arena.MergeSpeckles(m, c.MinClusterArea())
		report.stage("merge", start)
	}
	active := arena.Active()
	if !c.RetainSpeckleDetail {
		active = arena.Traceable(m, c.MinClusterArea())
	}
	report.ClustersAfter = len(active)
	report.clusterSizes(active)

	start = time.Now()
	shapes, err := traceClusters(ctx, active, m.Width, m.Height, c)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	report.stage("trace", start)

	res.Layers = groupLayers(q.Layers, shapes)
	report.Layers = len(res.Layers)
	for _, l := range res.Layers {
		report.Paths += len(l.Paths())
	}
	Logger().Debug("vectorized",
		"width", res.Width, "height", res.Height,
		"layers", report.Layers, "clusters", report.ClustersAfter, "paths", report.Paths)
	return res, nil
}

// toNRGBA returns img as a non-premultiplied image whose bounds start at the
// origin and whose rows are packed.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func newFilter(img *image.NRGBA, c cfg.Config) *color.Filter {
	var background *color.RGB
	if c.RemoveBackground {
		if c.BackgroundColor != nil {
			bg := color.FromRGBA(*c.BackgroundColor)
			background = &bg
		} else if bg, ok := color.DetectBackground(img, c.ColorMask()); ok {
			background = &bg
		}
	}
	return color.NewFilter(c.ColorMask(), background, c.BackgroundSimilarity)
}

// traceClusters renders, grows and traces every cluster in parallel. The
// result is in the order of clusters.
func traceClusters(ctx context.Context, clusters []*cluster.Cluster, width, height int, c cfg.Config) ([]trace.Shape, error) {
	bounds := image.Rect(0, 0, width, height)
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	shapes := make([]trace.Shape, len(clusters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cl := range clusters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mask := cl.Mask(width)
			if c.Grow > 0 && grow.Eligible(cl, c.MinGrowArea()) {
				mask = grow.Dilate(mask, c.Grow, bounds)
			}
			s := trace.Trace(mask)
			s.Cluster = cl.ID
			s.Layer = cl.Layer
			shapes[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shapes, nil
}

func groupLayers(layers []quantize.Layer, shapes []trace.Shape) []LayerPaths {
	byLayer := make([][]trace.Shape, len(layers))
	for _, s := range shapes {
		byLayer[s.Layer] = append(byLayer[s.Layer], s)
	}
	var out []LayerPaths
	for i, l := range layers {
		if len(byLayer[i]) == 0 {
			continue
		}
		out = append(out, LayerPaths{Layer: l, Shapes: byLayer[i]})
	}
	return out
}
