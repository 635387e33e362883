package grow

import (
	"image"

	"vectorlayers/pkg/cluster"
)

// Disk returns the offsets covered by a circular structuring element.
func Disk(radius int) []image.Point {
	var offsets []image.Point
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				offsets = append(offsets, image.Pt(dx, dy))
			}
		}
	}
	return offsets
}

// Eligible reports whether a cluster is big enough to be grown.
func Eligible(c *cluster.Cluster, minArea int) bool {
	return c.Active && c.Size() >= minArea
}

// Dilate grows the mask by radius pixels in every direction and clips the
// result to bounds. The returned mask is resized to cover the grown area.
func Dilate(m *cluster.Mask, radius int, bounds image.Rectangle) *cluster.Mask {
	if radius <= 0 {
		return m
	}
	grown := cluster.NewMask(m.Rect.Inset(-radius).Intersect(bounds))
	if grown.Rect.Empty() {
		return grown
	}
	shift := m.Rect.Min.Sub(grown.Rect.Min)
	disk := Disk(radius)
	w, h := grown.Width(), grown.Height()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !m.At(x, y) {
				continue
			}
			cx, cy := x+shift.X, y+shift.Y
			for _, d := range disk {
				gx, gy := cx+d.X, cy+d.Y
				if gx >= 0 && gy >= 0 && gx < w && gy < h {
					grown.Set(gx, gy, true)
				}
			}
		}
	}
	return grown
}
