package order

import (
	"math"

	"vectorlayers/pkg/geometry"
)

// Nearest orders closed shapes by their start points, greedily visiting the
// closest remaining start from where the previous shape ended. It returns the
// visiting order as indexes into starts.
func Nearest(starts []geometry.Point, origin geometry.Point) []int {
	if len(starts) == 0 {
		return nil
	}
	bounds := geometry.Polyline(starts).Bounds()
	bounds.Min.X = math.Min(bounds.Min.X, origin.X)
	bounds.Min.Y = math.Min(bounds.Min.Y, origin.Y)
	bounds.Max.X = math.Max(bounds.Max.X, origin.X)
	bounds.Max.Y = math.Max(bounds.Max.Y, origin.Y)

	tree := newStartTree(bounds)
	for i, p := range starts {
		tree.add(i, p)
	}

	sorted := make([]int, 0, len(starts))
	at := origin
	for {
		index, p, ok := tree.nearest(at)
		if !ok {
			break
		}
		tree.remove(index, p)
		sorted = append(sorted, index)
		// Closed shapes end where they start.
		at = p
	}
	return sorted
}

// Travel is the straight-line distance covered moving from origin to each
// start in sequence, returning to the start after every closed shape.
func Travel(starts []geometry.Point, sequence []int, origin geometry.Point) float64 {
	total := 0.0
	last := origin
	for _, i := range sequence {
		total += last.Distance(starts[i])
		last = starts[i]
	}
	return total
}
