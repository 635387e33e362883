package geometry

import (
	"image"
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

type Rectangle struct {
	Min Point
	Max Point
}

func Pt(x, y int) Point {
	return Point{X: float64(x), Y: float64(y)}
}

func FromImagePoint(p image.Point) Point {
	return Pt(p.X, p.Y)
}

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (a Vector2) CrossProductZ(b Vector2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func (a Vector2) Dot(b Vector2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Angle returns the angle in degrees between two vectors, in [0, 180].
func Angle(a, b Vector2) float64 {
	ma, mb := a.Magnitude(), b.Magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	c := a.Dot(b) / (ma * mb)
	return math.Acos(math.Max(-1, math.Min(1, c))) * 180 / math.Pi
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	AP := p.Minus(s.A)
	AB := s.A.Minus(s.B)
	mAP := AP.Magnitude()
	mBP := p.Minus(s.B).Magnitude()
	mAB := AB.Magnitude()

	if mAB == 0 || mAP > mAB || mBP > mAB {
		// closest point on line is outside segment boundaries, so the closest point
		// is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(AP.CrossProductZ(AB)) / mAB
}

func (r Rectangle) Width() float64  { return r.Max.X - r.Min.X }
func (r Rectangle) Height() float64 { return r.Max.Y - r.Min.Y }
