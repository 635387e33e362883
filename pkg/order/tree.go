package order

import (
	"math"

	"github.com/asim/quadtree"

	"vectorlayers/pkg/geometry"
)

// startTree indexes shape start points. Shapes sharing a start point share one
// quadtree point whose data is the set of their indexes.
type startTree struct {
	quadTree *quadtree.QuadTree
	points   map[geometry.Point]*quadtree.Point
	width    float64
	height   float64
	count    int
}

func newStartTree(bounds geometry.Rectangle) *startTree {
	midX := (bounds.Max.X + bounds.Min.X) / 2
	midY := (bounds.Max.Y + bounds.Min.Y) / 2
	halfWidth := bounds.Max.X - midX
	halfHeight := bounds.Max.Y - midY

	// Add a small margin to avoid dropping objects at the edges
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &startTree{
		quadTree: quadtree.New(aabb, 0, nil),
		points:   map[geometry.Point]*quadtree.Point{},
		width:    halfWidth * 2,
		height:   halfHeight * 2,
	}
}

func (t *startTree) add(index int, p geometry.Point) {
	t.count++
	if existing, ok := t.points[p]; ok {
		existing.Data().(map[int]struct{})[index] = struct{}{}
		return
	}
	point := quadtree.NewPoint(p.X, p.Y, map[int]struct{}{index: {}})
	t.points[p] = point
	t.quadTree.Insert(point)
}

func (t *startTree) remove(index int, p geometry.Point) {
	existing, ok := t.points[p]
	if !ok {
		return
	}
	indexes := existing.Data().(map[int]struct{})
	if _, ok := indexes[index]; !ok {
		return
	}
	t.count--
	delete(indexes, index)
	if len(indexes) == 0 {
		delete(t.points, p)
		t.quadTree.Remove(existing)
	}
}

// nearest finds the closest indexed start to p. Equal distances go to the
// lowest index.
func (t *startTree) nearest(p geometry.Point) (int, geometry.Point, bool) {
	if t.count == 0 {
		return 0, geometry.Point{}, false
	}
	limit := math.Max(t.width, t.height) * 2
	for half := 1.0; ; half *= 2 {
		best, bestPoint, bestDist, found := t.search(p, half)
		if found {
			// A box only bounds the distance by its corner; search once more
			// with the whole circle covered.
			if again, againPoint, _, ok := t.search(p, bestDist+1e-9); ok {
				best, bestPoint = again, againPoint
			}
			return best, bestPoint, true
		}
		if half > limit {
			return 0, geometry.Point{}, false
		}
	}
}

func (t *startTree) search(p geometry.Point, half float64) (int, geometry.Point, float64, bool) {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(p.X, p.Y, nil),
		quadtree.NewPoint(half, half, nil),
	)
	best, bestDist := -1, math.Inf(1)
	var bestPoint geometry.Point
	for _, point := range t.quadTree.Search(aabb) {
		x, y := point.Coordinates()
		q := geometry.Point{X: x, Y: y}
		d := q.Distance(p)
		for index := range point.Data().(map[int]struct{}) {
			if d < bestDist || (d == bestDist && index < best) {
				best, bestDist, bestPoint = index, d, q
			}
		}
	}
	return best, bestPoint, bestDist, best >= 0
}
