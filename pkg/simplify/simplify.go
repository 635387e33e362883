package simplify

import (
	"math"

	"github.com/paulmach/orb"
	orbsimplify "github.com/paulmach/orb/simplify"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/geometry"
	"vectorlayers/pkg/svgpath"
	"vectorlayers/pkg/trace"
)

// Simplifier turns the traced outlines of one shape into path data in image
// coordinates. The outer boundary comes first, followed by the holes.
type Simplifier interface {
	Simplify(s trace.Shape) ([]*svgpath.SubPath, error)
}

func New(c cfg.Config) Simplifier {
	tolerance := math.Max(0.5, c.SegmentLength/4)
	switch c.Mode {
	case cfg.Polygon:
		return Polygon{Tolerance: tolerance}
	case cfg.Spline:
		return Spline{Tolerance: tolerance, CornerThreshold: c.CornerThreshold}
	case cfg.Potrace:
		return Potrace{}
	}
	return Pixel{}
}

// Pixel keeps the staircase outline as is.
type Pixel struct{}

func (Pixel) Simplify(s trace.Shape) ([]*svgpath.SubPath, error) {
	return eachPath(s, func(points geometry.Polyline) *svgpath.SubPath {
		return svgpath.FromPolyline(points)
	}), nil
}

// Polygon removes vertices with Douglas-Peucker on the closed ring.
type Polygon struct {
	Tolerance float64
}

func (p Polygon) Simplify(s trace.Shape) ([]*svgpath.SubPath, error) {
	return eachPath(s, func(points geometry.Polyline) *svgpath.SubPath {
		return svgpath.FromPolyline(p.ring(points))
	}), nil
}

func (p Polygon) ring(points geometry.Polyline) geometry.Polyline {
	ls := make(orb.LineString, 0, len(points)+1)
	for _, pt := range points {
		ls = append(ls, orb.Point{pt.X, pt.Y})
	}
	ls = append(ls, ls[0])
	simplified, ok := orbsimplify.DouglasPeucker(p.Tolerance).Simplify(ls.Clone()).(orb.LineString)
	// A ring needs at least three distinct corners plus the closing point.
	if !ok || len(simplified) < 4 {
		return points
	}
	out := make(geometry.Polyline, 0, len(simplified)-1)
	for _, pt := range simplified[:len(simplified)-1] {
		out = append(out, geometry.Point{X: pt[0], Y: pt[1]})
	}
	return out
}

func eachPath(s trace.Shape, convert func(geometry.Polyline) *svgpath.SubPath) []*svgpath.SubPath {
	var out []*svgpath.SubPath
	for _, p := range s.Paths() {
		if len(p.Points) == 0 {
			continue
		}
		out = append(out, convert(p.Absolute()))
	}
	return out
}
