package cluster

import (
	"image"

	"vectorlayers/pkg/classify"
)

// Run is a horizontal set of adjacent pixels of one layer, covering
// [X1, X2) on row Y.
type Run struct {
	X1 int
	X2 int
	Y  int
}

// Runs touch 4-connectedly when they are on adjacent rows and share at least
// one column. Corner contact does not count.
func (r Run) overlap(other Run) bool {
	return r.X1 < other.X2 && other.X1 < r.X2
}

// FindHorizontalRuns splits every row of the assignment into runs and returns
// them grouped by layer, in row order.
func FindHorizontalRuns(a *classify.Assignment, numLayers int) [][]Run {
	runs := make([][]Run, numLayers)
	for y := 0; y < a.Height; y++ {
		row := a.Layer[y*a.Width : (y+1)*a.Width]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x] == row[start] {
				continue
			}
			if l := row[start]; l >= 0 && int(l) < numLayers {
				runs[l] = append(runs[l], Run{X1: start, X2: x, Y: y})
			}
			start = x
		}
	}
	return runs
}

type unionFind []int32

func newUnionFind(n int) unionFind {
	u := make(unionFind, n)
	for i := range u {
		u[i] = int32(i)
	}
	return u
}

func (u unionFind) find(i int32) int32 {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int32) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// The smaller root wins so labels follow raster order.
	if ra < rb {
		u[rb] = ra
	} else {
		u[ra] = rb
	}
}

// labelRuns groups the runs of one layer into 4-connected blobs. It returns a
// label per run; labels are dense and numbered in raster order of each blob's
// first pixel.
func labelRuns(runs []Run) ([]int32, int) {
	u := newUnionFind(len(runs))
	prevStart, prevEnd, rowStart := 0, 0, 0
	j := 0
	for i, run := range runs {
		if i == 0 || run.Y != runs[i-1].Y {
			if i > 0 && runs[i-1].Y == run.Y-1 {
				prevStart, prevEnd = rowStart, i
			} else {
				prevStart, prevEnd = i, i
			}
			rowStart = i
			j = prevStart
		}
		for j < prevEnd && runs[j].X2 <= run.X1 {
			j++
		}
		for k := j; k < prevEnd && runs[k].X1 < run.X2; k++ {
			if run.overlap(runs[k]) {
				u.union(int32(i), int32(k))
			}
		}
	}

	labels := make([]int32, len(runs))
	dense := map[int32]int32{}
	for i := range runs {
		root := u.find(int32(i))
		l, ok := dense[root]
		if !ok {
			l = int32(len(dense))
			dense[root] = l
		}
		labels[i] = l
	}
	return labels, len(dense)
}

// blobs turns labeled runs into clusters. Pixel lists come out in raster order.
func blobs(runs []Run, labels []int32, n, width, layer int) []Cluster {
	clusters := make([]Cluster, n)
	for i := range clusters {
		clusters[i] = Cluster{Layer: layer, Active: true}
	}
	for i, run := range runs {
		c := &clusters[labels[i]]
		r := image.Rect(run.X1, run.Y, run.X2, run.Y+1)
		if len(c.Pixels) == 0 {
			c.Rect = r
		} else {
			c.Rect = c.Rect.Union(r)
		}
		for x := run.X1; x < run.X2; x++ {
			c.Pixels = append(c.Pixels, uint32(run.Y*width+x))
		}
	}
	return clusters
}
