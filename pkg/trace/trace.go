package trace

import (
	"image"

	"vectorlayers/pkg/cluster"
	"vectorlayers/pkg/geometry"
)

// Path is one closed outline in mask-local pixel-corner coordinates. Add
// Offset to get image coordinates. Outer boundaries are clockwise; holes are
// counter-clockwise.
type Path struct {
	Points    geometry.Polyline
	Offset    image.Point
	Clockwise bool
	Hole      bool
}

// Absolute returns the points in image coordinates.
func (p Path) Absolute() geometry.Polyline {
	return p.Points.Translate(geometry.FromImagePoint(p.Offset))
}

// Shape is everything traced for one cluster.
type Shape struct {
	Cluster cluster.ID
	Layer   int
	Mask    *cluster.Mask
	Outer   Path
	Holes   []Path
}

// Paths returns the outer path followed by the holes.
func (s Shape) Paths() []Path {
	return append([]Path{s.Outer}, s.Holes...)
}

// Trace follows the outer boundary of the mask and the boundary of each hole.
// Holes are traced clockwise like any region and then reversed, so a hole and
// the outline of whatever fills it share the same vertices.
func Trace(m *cluster.Mask) Shape {
	s := Shape{Mask: m}
	outer := Outline(m, false)
	if outer == nil {
		return s
	}
	s.Outer = Path{Points: outer, Offset: m.Offset(), Clockwise: true}
	for _, hole := range Holes(m) {
		points := Outline(hole, true).Reverse()
		s.Holes = append(s.Holes, Path{Points: points, Offset: m.Offset(), Hole: true})
	}
	return s
}

var ahead = map[image.Point][2]image.Point{
	// direction: {left pixel, right pixel}, relative to the vertex
	{X: 1, Y: 0}:  {{X: 0, Y: -1}, {X: 0, Y: 0}},
	{X: 0, Y: 1}:  {{X: 0, Y: 0}, {X: -1, Y: 0}},
	{X: -1, Y: 0}: {{X: -1, Y: 0}, {X: -1, Y: -1}},
	{X: 0, Y: -1}: {{X: -1, Y: -1}, {X: 0, Y: -1}},
}

// Outline walks the boundary of the region containing the first set pixel of
// m, keeping the region on the right. It starts at the top-left corner of that
// pixel heading east, so the result is clockwise in image coordinates. Only
// corners are emitted.
//
// Where two set pixels touch only at a corner, diagonal decides whether the
// walk crosses over (8-connectivity) or turns away (4-connectivity).
func Outline(m *cluster.Mask, diagonal bool) geometry.Polyline {
	sx, sy, ok := m.First()
	if !ok {
		return nil
	}
	pos := image.Pt(sx, sy)
	start := pos
	dir := image.Pt(1, 0)
	line := geometry.Polyline{geometry.FromImagePoint(pos)}
	for {
		pos = pos.Add(dir)
		if pos == start {
			return line
		}
		pixels := ahead[dir]
		l, r := pixels[0].Add(pos), pixels[1].Add(pos)
		left, right := m.At(l.X, l.Y), m.At(r.X, r.Y)
		next := dir
		switch {
		case left && right:
			next = turnLeft(dir)
		case right:
		case left && diagonal:
			next = turnLeft(dir)
		default:
			next = turnRight(dir)
		}
		if next != dir {
			line = append(line, geometry.FromImagePoint(pos))
			dir = next
		}
	}
}

func turnRight(d image.Point) image.Point { return image.Pt(-d.Y, d.X) }
func turnLeft(d image.Point) image.Point  { return image.Pt(d.Y, -d.X) }

// Holes finds the background regions of m that do not touch its edge. Each
// is returned as a mask with the same rectangle as m. Background is
// 8-connected, the complement of 4-connected clusters.
func Holes(m *cluster.Mask) []*cluster.Mask {
	w, h := m.Width(), m.Height()
	seen := make([]bool, w*h)
	var holes []*cluster.Mask
	var stack []image.Point
	for i, set := range m.Bits {
		if set || seen[i] {
			continue
		}
		hole := cluster.NewMask(m.Rect)
		touchesEdge := false
		seen[i] = true
		stack = append(stack[:0], image.Pt(i%w, i/w))
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			hole.Set(p.X, p.Y, true)
			if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
				touchesEdge = true
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					q := image.Pt(p.X+dx, p.Y+dy)
					if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
						continue
					}
					j := q.Y*w + q.X
					if m.Bits[j] || seen[j] {
						continue
					}
					seen[j] = true
					stack = append(stack, q)
				}
			}
		}
		if !touchesEdge {
			holes = append(holes, hole)
		}
	}
	return holes
}
