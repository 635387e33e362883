package simplify

import (
	"vectorlayers/pkg/geometry"
	"vectorlayers/pkg/svgpath"
	"vectorlayers/pkg/trace"
)

// Spline first reduces the staircase outline to a polygon, then smooths every
// vertex that turns by less than CornerThreshold degrees. Smooth vertices get
// Catmull-Rom tangents; a segment between two corners stays straight.
type Spline struct {
	Tolerance       float64
	CornerThreshold float64
}

func (sp Spline) Simplify(s trace.Shape) ([]*svgpath.SubPath, error) {
	return eachPath(s, sp.curve), nil
}

func (sp Spline) curve(points geometry.Polyline) *svgpath.SubPath {
	closed := append(append(geometry.Polyline{}, points...), points[0])
	simple := closed.Simplify(sp.Tolerance)
	simple = simple[:len(simple)-1]
	n := len(simple)
	if n < 3 {
		return svgpath.FromPolyline(points)
	}

	corner := make([]bool, n)
	tangent := make([]geometry.Vector2, n)
	for i, cur := range simple {
		prev, next := simple[(i+n-1)%n], simple[(i+1)%n]
		if geometry.Angle(cur.Minus(prev), next.Minus(cur)) >= sp.CornerThreshold {
			corner[i] = true
			continue
		}
		tangent[i] = next.Minus(prev).Scale(0.5)
	}

	path := &svgpath.SubPath{X: simple[0].X, Y: simple[0].Y}
	for i, a := range simple {
		j := (i + 1) % n
		b := simple[j]
		if corner[i] && corner[j] {
			// The closing segment is drawn by ClosePath.
			if j != 0 {
				path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{Command: svgpath.LineTo, X: b.X, Y: b.Y})
			}
			continue
		}
		c1 := a.Add(tangent[i].Scale(1.0 / 3))
		c2 := b.Minus(tangent[j].Scale(1.0 / 3))
		path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{
			Command: svgpath.CurveTo,
			X:       b.X, Y: b.Y,
			X1: c1.X, Y1: c1.Y,
			X2: c2.X, Y2: c2.Y,
		})
	}
	path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{Command: svgpath.ClosePath, X: path.X, Y: path.Y})
	path.Simplify()
	return path
}
