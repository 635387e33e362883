package vectorize

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"vectorlayers/pkg/cluster"
	"vectorlayers/pkg/color"
)

// Report summarizes one pipeline run.
type Report struct {
	Width, Height int
	ColorMask     uint8
	// Background is nil when background removal was off or nothing was found.
	Background *color.RGB

	TotalPixels      int
	ClassifiedPixels int
	UniqueColors     int
	MergedColors     int
	MergePasses      int
	Converged        bool

	Layers         int
	ClustersBefore int
	ClustersAfter  int
	Merges         int

	ClusterSizeMean   float64
	ClusterSizeStdDev float64
	ClusterSizeMedian float64

	Paths  int
	Stages []Stage
}

// Stage is the wall time of one pipeline step.
type Stage struct {
	Name     string
	Duration time.Duration
}

func (r *Report) stage(name string, start time.Time) {
	d := time.Since(start)
	r.Stages = append(r.Stages, Stage{Name: name, Duration: d})
	Logger().Debug("stage done", "stage", name, "duration", d)
}

// Total is the sum of all stage durations.
func (r *Report) Total() time.Duration {
	var total time.Duration
	for _, s := range r.Stages {
		total += s.Duration
	}
	return total
}

func (r *Report) clusterSizes(active []*cluster.Cluster) {
	if len(active) == 0 {
		return
	}
	sizes := make([]float64, len(active))
	for i, c := range active {
		sizes[i] = float64(c.Size())
	}
	sort.Float64s(sizes)
	mean, std := stat.MeanStdDev(sizes, nil)
	if len(sizes) < 2 || math.IsNaN(std) {
		std = 0
	}
	r.ClusterSizeMean = mean
	r.ClusterSizeStdDev = std
	r.ClusterSizeMedian = stat.Quantile(0.5, stat.Empirical, sizes, nil)
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "image: %dx%d, color mask %#02x", r.Width, r.Height, r.ColorMask)
	if r.Background != nil {
		fmt.Fprintf(&b, ", background %s", r.Background.Hex())
	}
	fmt.Fprintf(&b, "\npixels: %d counted, %d classified\n", r.TotalPixels, r.ClassifiedPixels)
	fmt.Fprintf(&b, "colors: %d unique, %d merged in %d passes", r.UniqueColors, r.MergedColors, r.MergePasses)
	if !r.Converged {
		b.WriteString(" (pass cap reached)")
	}
	fmt.Fprintf(&b, "\nlayers: %d\n", r.Layers)
	fmt.Fprintf(&b, "clusters: %d found, %d merged, %d kept\n", r.ClustersBefore, r.Merges, r.ClustersAfter)
	fmt.Fprintf(&b, "cluster size: mean %.1f, stddev %.1f, median %.0f\n", r.ClusterSizeMean, r.ClusterSizeStdDev, r.ClusterSizeMedian)
	fmt.Fprintf(&b, "paths: %d\n", r.Paths)
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-10s %v\n", s.Name, s.Duration)
	}
	fmt.Fprintf(&b, "  %-10s %v", "total", r.Total())
	return b.String()
}
