package svgpath

import "fmt"

// Affine holds the six SVG matrix values a through f:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Affine [6]float64

var Identity = Affine{1, 0, 0, 1, 0, 0}

func Translation(dx, dy float64) Affine {
	return Affine{1, 0, 0, 1, dx, dy}
}

func Scaling(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Compose returns the transform that applies inner and then t.
func (t Affine) Compose(inner Affine) Affine {
	x, y := t.Apply(inner[4], inner[5])
	return Affine{
		t[0]*inner[0] + t[2]*inner[1],
		t[1]*inner[0] + t[3]*inner[1],
		t[0]*inner[2] + t[2]*inner[3],
		t[1]*inner[2] + t[3]*inner[3],
		x, y,
	}
}

func (t Affine) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// ApplyPath transforms every point of paths in place.
func (t Affine) ApplyPath(paths []*SubPath) {
	for _, path := range paths {
		path.X, path.Y = t.Apply(path.X, path.Y)
		for _, d := range path.DrawTo {
			d.X, d.Y = t.Apply(d.X, d.Y)
			if d.Command == CurveTo {
				d.X1, d.Y1 = t.Apply(d.X1, d.Y1)
				d.X2, d.Y2 = t.Apply(d.X2, d.Y2)
			}
		}
	}
}

// ParseTransform reads a transform attribute made of matrix, translate and
// scale functions, the ones potrace writes around its paths.
func ParseTransform(attr string) (Affine, error) {
	t := Identity
	s := scanner{data: attr}
	for !s.done() {
		start := s.pos
		for s.pos < len(s.data) && isLetter(s.data[s.pos]) {
			s.pos++
		}
		name := s.data[start:s.pos]
		s.skip()
		if name == "" || s.pos >= len(s.data) || s.data[s.pos] != '(' {
			return t, fmt.Errorf("transform %q: expected a function at offset %d", attr, start)
		}
		s.pos++

		var args []float64
		for {
			s.skip()
			if s.pos < len(s.data) && s.data[s.pos] == ')' {
				s.pos++
				break
			}
			n, err := s.number()
			if err != nil {
				return t, fmt.Errorf("transform %q: %w", attr, err)
			}
			args = append(args, n)
		}

		f, err := transformFunction(name, args)
		if err != nil {
			return t, fmt.Errorf("transform %q: %w", attr, err)
		}
		t = t.Compose(f)
	}
	return t, nil
}

func transformFunction(name string, args []float64) (Affine, error) {
	switch {
	case name == "matrix" && len(args) == 6:
		return Affine(args), nil
	case name == "translate" && len(args) == 1:
		return Translation(args[0], 0), nil
	case name == "translate" && len(args) == 2:
		return Translation(args[0], args[1]), nil
	case name == "scale" && len(args) == 1:
		return Scaling(args[0], args[0]), nil
	case name == "scale" && len(args) == 2:
		return Scaling(args[0], args[1]), nil
	}
	return Identity, fmt.Errorf("unsupported %s with %d arguments", name, len(args))
}
