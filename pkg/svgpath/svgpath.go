// Package svgpath reads and writes the SVG path data produced for traced
// shapes. Only the commands that outlines need are understood: moveto,
// lineto, horizontal and vertical lineto, cubic curveto and closepath, each
// in absolute and relative form.
package svgpath

import (
	"fmt"
	"strconv"
	"strings"
)

// SubPath is one moveto and the drawing commands that follow it. All
// coordinates are absolute.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

type Command string

const (
	ClosePath = "Z"
	LineTo    = "L"
	CurveTo   = "C"
)

// DrawTo ends at X, Y. X1, Y1 and X2, Y2 are the control points of a curve.
type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64
}

// scanner walks path or transform text. Commas and whitespace separate
// tokens and are otherwise ignored.
type scanner struct {
	data string
	pos  int
}

func (s *scanner) skip() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\r', '\n', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) done() bool {
	s.skip()
	return s.pos >= len(s.data)
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// letter consumes a command letter, if one is next.
func (s *scanner) letter() (byte, bool) {
	s.skip()
	if s.pos < len(s.data) && isLetter(s.data[s.pos]) {
		s.pos++
		return s.data[s.pos-1], true
	}
	return 0, false
}

// number consumes one number. A second '.' starts the next number, so ".2.3"
// reads as 0.2 followed by 0.3.
func (s *scanner) number() (float64, error) {
	s.skip()
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	digits := s.digits()
	if s.pos < len(s.data) && s.data[s.pos] == '.' {
		s.pos++
		digits += s.digits()
	}
	if digits == 0 {
		s.pos = start
		return 0, fmt.Errorf("expected a number at offset %d", start)
	}
	if s.pos+1 < len(s.data) && (s.data[s.pos] == 'e' || s.data[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.data[s.pos] == '+' || s.data[s.pos] == '-' {
			s.pos++
		}
		if s.digits() == 0 {
			s.pos = mark
		}
	}
	return strconv.ParseFloat(s.data[start:s.pos], 64)
}

func (s *scanner) digits() int {
	n := 0
	for s.pos < len(s.data) && '0' <= s.data[s.pos] && s.data[s.pos] <= '9' {
		s.pos++
		n++
	}
	return n
}

func (s *scanner) numbers(out []float64) error {
	for i := range out {
		n, err := s.number()
		if err != nil {
			return err
		}
		out[i] = n
	}
	return nil
}

type pathParser struct {
	scanner
	paths   []*SubPath
	current *SubPath
	x, y    float64
}

// Parse reads path data into sub paths with absolute coordinates.
func Parse(d string) ([]*SubPath, error) {
	p := &pathParser{scanner: scanner{data: d}}
	var command byte
	for !p.done() {
		if c, ok := p.letter(); ok {
			command = c
		} else if command == 0 {
			return p.paths, fmt.Errorf("path must start with a moveto, got %q", p.data[p.pos])
		} else if command == 'Z' || command == 'z' {
			return p.paths, fmt.Errorf("unexpected number after closepath at offset %d", p.pos)
		}
		if err := p.command(command); err != nil {
			return p.paths, err
		}
		// Extra coordinate pairs after a moveto are linetos.
		switch command {
		case 'M':
			command = 'L'
		case 'm':
			command = 'l'
		}
	}
	return p.paths, nil
}

func (p *pathParser) command(c byte) error {
	var ox, oy float64
	if 'a' <= c && c <= 'z' {
		ox, oy = p.x, p.y
	}
	var args [6]float64
	switch c {
	case 'M', 'm':
		if err := p.numbers(args[:2]); err != nil {
			return err
		}
		p.x, p.y = args[0]+ox, args[1]+oy
		p.current = &SubPath{X: p.x, Y: p.y}
		p.paths = append(p.paths, p.current)
	case 'L', 'l':
		if err := p.numbers(args[:2]); err != nil {
			return err
		}
		return p.draw(&DrawTo{Command: LineTo, X: args[0] + ox, Y: args[1] + oy})
	case 'H', 'h':
		if err := p.numbers(args[:1]); err != nil {
			return err
		}
		return p.draw(&DrawTo{Command: LineTo, X: args[0] + ox, Y: p.y})
	case 'V', 'v':
		if err := p.numbers(args[:1]); err != nil {
			return err
		}
		return p.draw(&DrawTo{Command: LineTo, X: p.x, Y: args[0] + oy})
	case 'C', 'c':
		if err := p.numbers(args[:]); err != nil {
			return err
		}
		d := &DrawTo{Command: CurveTo, X: args[4] + ox, Y: args[5] + oy}
		d.X1, d.Y1 = args[0]+ox, args[1]+oy
		d.X2, d.Y2 = args[2]+ox, args[3]+oy
		return p.draw(d)
	case 'Z', 'z':
		if p.current == nil {
			return fmt.Errorf("closepath before moveto")
		}
		p.current.DrawTo = append(p.current.DrawTo, &DrawTo{Command: ClosePath, X: p.current.X, Y: p.current.Y})
		p.x, p.y = p.current.X, p.current.Y
		p.current = nil
	default:
		return fmt.Errorf("unsupported path command %q", c)
	}
	return nil
}

// draw appends d to the open sub path. Drawing after a closepath opens a new
// sub path at the point the last one closed on.
func (p *pathParser) draw(d *DrawTo) error {
	if p.current == nil {
		if len(p.paths) == 0 {
			return fmt.Errorf("path must start with a moveto")
		}
		p.current = &SubPath{X: p.x, Y: p.y}
		p.paths = append(p.paths, p.current)
	}
	p.current.DrawTo = append(p.current.DrawTo, d)
	p.x, p.y = d.X, d.Y
	return nil
}

// ToString writes sub paths with absolute commands and no compaction.
func ToString(paths []*SubPath) string {
	var b strings.Builder
	write := func(cmd string, values ...float64) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cmd)
		for _, v := range values {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	for _, path := range paths {
		write("M", path.X, path.Y)
		for _, d := range path.DrawTo {
			switch d.Command {
			case LineTo:
				write("L", d.X, d.Y)
			case CurveTo:
				write("C", d.X1, d.Y1, d.X2, d.Y2, d.X, d.Y)
			case ClosePath:
				write("Z")
			}
		}
	}
	return b.String()
}
