package geometry

import (
	"math"
)

type Polyline []Point

// SignedArea is the shoelace area of the closed polyline. With y pointing
// down, as in images, clockwise outlines have a positive area.
func (line Polyline) SignedArea() float64 {
	sum := 0.0
	for i, p := range line {
		q := line[(i+1)%len(line)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func (line Polyline) Clockwise() bool {
	return line.SignedArea() > 0
}

// Reverse returns a reversed copy.
func (line Polyline) Reverse() Polyline {
	out := make(Polyline, len(line))
	for i, p := range line {
		out[len(line)-1-i] = p
	}
	return out
}

func (line Polyline) Translate(offset Point) Polyline {
	out := make(Polyline, len(line))
	for i, p := range line {
		out[i] = p.Add(offset)
	}
	return out
}

func (line Polyline) Bounds() Rectangle {
	r := Rectangle{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range line {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Simplify simplifies the open polyline using the Douglas-Peucker algorithm.
// The first and last points are always kept.
func (points Polyline) Simplify(epsilon float64) Polyline {
	if len(points) < 2 {
		return nil
	}

	// find the point with the max distance from the line segment between the first and last points
	firstPoint, lastPoint := points[0], points[len(points)-1]
	chord := LineSegment{A: firstPoint, B: lastPoint}
	if len(points) == 2 {
		return Polyline{firstPoint, lastPoint}
	}

	dmax := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := chord.Distance(points[i])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax < epsilon {
		return Polyline{firstPoint, lastPoint}
	}

	// note: need to be careful on the recursive step to not call with < 2 points
	recResults1 := Polyline(points[:index+1]).Simplify(epsilon)
	recResults2 := Polyline(points[index:]).Simplify(epsilon)

	return append(recResults1[:len(recResults1)-1], recResults2...)
}
