package svgpath

import "vectorlayers/pkg/geometry"

const (
	curveTolerance = 0.02
	lineTolerance  = 0.01
)

func (path *SubPath) Start() geometry.Point {
	return geometry.Point{X: path.X, Y: path.Y}
}

func (d *DrawTo) end() geometry.Point {
	return geometry.Point{X: d.X, Y: d.Y}
}

// FromPolyline builds a closed sub path through the given points.
func FromPolyline(points geometry.Polyline) *SubPath {
	if len(points) == 0 {
		return nil
	}
	path := &SubPath{X: points[0].X, Y: points[0].Y}
	for _, p := range points[1:] {
		path.DrawTo = append(path.DrawTo, &DrawTo{Command: LineTo, X: p.X, Y: p.Y})
	}
	path.DrawTo = append(path.DrawTo, &DrawTo{Command: ClosePath, X: path.X, Y: path.Y})
	return path
}

// Translate moves every point of the path by (dx, dy).
func (path *SubPath) Translate(dx, dy float64) {
	Translation(dx, dy).ApplyPath([]*SubPath{path})
}

// Simplify turns curves whose control points sit on their chord into lines,
// then drops line vertices that lie on the segment joining their neighbors.
func (path *SubPath) Simplify() {
	from := path.Start()
	for _, d := range path.DrawTo {
		if d.Command == CurveTo {
			chord := geometry.LineSegment{A: from, B: d.end()}
			if chord.Distance(geometry.Point{X: d.X1, Y: d.Y1}) < curveTolerance &&
				chord.Distance(geometry.Point{X: d.X2, Y: d.Y2}) < curveTolerance {
				d.Command = LineTo
			}
		}
		from = d.end()
	}

	kept := path.DrawTo[:0]
	from = path.Start()
	for i, d := range path.DrawTo {
		if i+1 < len(path.DrawTo) {
			next := path.DrawTo[i+1]
			span := geometry.LineSegment{A: from, B: next.end()}
			if d.Command == LineTo && next.Command == LineTo && span.Distance(d.end()) <= lineTolerance {
				continue
			}
		}
		kept = append(kept, d)
		from = d.end()
	}
	path.DrawTo = kept
}
