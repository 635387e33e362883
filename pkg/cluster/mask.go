package cluster

import (
	"image"
)

// Mask is a binary image placed at Rect in image coordinates. At and Set
// take coordinates relative to Rect.Min.
type Mask struct {
	Rect image.Rectangle
	Bits []bool
}

func NewMask(r image.Rectangle) *Mask {
	return &Mask{Rect: r, Bits: make([]bool, r.Dx()*r.Dy())}
}

func (m *Mask) Width() int  { return m.Rect.Dx() }
func (m *Mask) Height() int { return m.Rect.Dy() }

// Offset translates local coordinates back into the image.
func (m *Mask) Offset() image.Point { return m.Rect.Min }

// At reports whether (x, y) is set; anything outside the mask is unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Rect.Dx() || y >= m.Rect.Dy() {
		return false
	}
	return m.Bits[y*m.Rect.Dx()+x]
}

func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Rect.Dx()+x] = v
}

func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// First returns the first set pixel in raster order.
func (m *Mask) First() (x, y int, ok bool) {
	for i, b := range m.Bits {
		if b {
			return i % m.Rect.Dx(), i / m.Rect.Dx(), true
		}
	}
	return 0, 0, false
}
