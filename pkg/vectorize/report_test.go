package vectorize

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"vectorlayers/pkg/cluster"
)

func TestClusterSizes(t *testing.T) {
	var active []*cluster.Cluster
	for _, n := range []int{2, 4, 4, 10} {
		active = append(active, &cluster.Cluster{Pixels: make([]uint32, n), Rect: image.Rect(0, 0, n, 1), Active: true})
	}
	var r Report
	r.clusterSizes(active)
	got := []float64{r.ClusterSizeMean, r.ClusterSizeMedian}
	if diff := cmp.Diff([]float64{5, 4}, got); diff != "" {
		t.Errorf("unexpected stats:\n%s\n", diff)
	}
	if r.ClusterSizeStdDev <= 0 {
		t.Errorf("stddev %g", r.ClusterSizeStdDev)
	}

	r = Report{}
	r.clusterSizes(active[:1])
	if r.ClusterSizeStdDev != 0 || r.ClusterSizeMean != 2 {
		t.Errorf("single cluster: %+v", r)
	}
}

func TestReportString(t *testing.T) {
	r := Report{
		Width: 3, Height: 2, ColorMask: 0xF0,
		MergePasses: 2,
		Stages:      []Stage{{Name: "quantize", Duration: time.Millisecond}, {Name: "trace", Duration: 2 * time.Millisecond}},
	}
	s := r.String()
	for _, want := range []string{"image: 3x2", "(pass cap reached)", "quantize", "3ms"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in:\n%s", want, s)
		}
	}
}
