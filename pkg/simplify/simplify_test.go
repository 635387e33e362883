package simplify_test

import (
	"image"
	"testing"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/cluster"
	"vectorlayers/pkg/simplify"
	"vectorlayers/pkg/svgpath"
	"vectorlayers/pkg/trace"
)

func makeMask(at image.Point, rows ...string) *cluster.Mask {
	m := cluster.NewMask(image.Rectangle{Min: at, Max: at.Add(image.Pt(len([]rune(rows[0])), len(rows)))})
	for y, row := range rows {
		for x, r := range []rune(row) {
			m.Set(x, y, r == '◼')
		}
	}
	return m
}

func simplifyMask(t *testing.T, s simplify.Simplifier, m *cluster.Mask) string {
	t.Helper()
	paths, err := s.Simplify(trace.Trace(m))
	if err != nil {
		t.Fatal(err)
	}
	return svgpath.ToString(paths)
}

func TestNew(t *testing.T) {
	c := cfg.Default()
	tests := map[cfg.Mode]simplify.Simplifier{
		cfg.Pixel:   simplify.Pixel{},
		cfg.Polygon: simplify.Polygon{Tolerance: 1},
		cfg.Spline:  simplify.Spline{Tolerance: 1, CornerThreshold: 60},
		cfg.Potrace: simplify.Potrace{},
	}
	for mode, expected := range tests {
		c.Mode = mode
		if got := simplify.New(c); got != expected {
			t.Errorf("%v: expected %#v, got %#v", mode, expected, got)
		}
	}
}

func TestPixel(t *testing.T) {
	m := makeMask(image.Pt(2, 2),
		"◼◼",
		"◼◼",
	)
	if got := simplifyMask(t, simplify.Pixel{}, m); got != "M 2 2 L 4 2 L 4 4 L 2 4 Z" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestPixelWithHole(t *testing.T) {
	m := makeMask(image.Point{},
		"◼◼◼",
		"◼◻◼",
		"◼◼◼",
	)
	expected := "M 0 0 L 3 0 L 3 3 L 0 3 Z M 1 2 L 2 2 L 2 1 L 1 1 Z"
	if got := simplifyMask(t, simplify.Pixel{}, m); got != expected {
		t.Errorf("unexpected path %q", got)
	}
}

func TestPolygon(t *testing.T) {
	m := makeMask(image.Point{},
		"◼◻◻",
		"◼◼◻",
		"◼◼◼",
	)
	if got := simplifyMask(t, simplify.Polygon{Tolerance: 1}, m); got != "M 0 0 L 3 3 L 0 3 Z" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestSplineKeepsCorners(t *testing.T) {
	m := makeMask(image.Point{},
		"◼◼",
		"◼◼",
	)
	got := simplifyMask(t, simplify.Spline{Tolerance: 1, CornerThreshold: 60}, m)
	if got != "M 0 0 L 2 0 L 2 2 L 0 2 Z" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestSplineSmoothsRoundShapes(t *testing.T) {
	var rows []string
	for y := -6; y <= 6; y++ {
		row := ""
		for x := -6; x <= 6; x++ {
			if x*x+y*y <= 36 {
				row += "◼"
			} else {
				row += "◻"
			}
		}
		rows = append(rows, row)
	}
	paths, err := simplify.Spline{Tolerance: 1, CornerThreshold: 60}.Simplify(trace.Trace(makeMask(image.Point{}, rows...)))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected one path, got %d", len(paths))
	}
	curves := 0
	for _, d := range paths[0].DrawTo {
		if d.Command == svgpath.CurveTo {
			curves++
		}
	}
	if curves == 0 {
		t.Errorf("expected curves in %q", svgpath.ToString(paths))
	}
	if last := paths[0].DrawTo[len(paths[0].DrawTo)-1]; last.Command != svgpath.ClosePath {
		t.Errorf("path should be closed")
	}
}

func TestPotraceEmptyMask(t *testing.T) {
	paths, err := simplify.Potrace{}.Simplify(trace.Shape{Mask: makeMask(image.Point{}, "◻")})
	if err != nil || paths != nil {
		t.Errorf("expected nothing, got %v, %v", paths, err)
	}
}
