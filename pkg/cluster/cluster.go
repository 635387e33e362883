package cluster

import (
	"image"
)

// ID identifies a cluster across all layers. None marks a pixel without a cluster.
type ID uint32

const None ID = 0

// Map holds the owning cluster of every pixel in row-major order. It is the
// only structure shared by all layers.
type Map struct {
	Width, Height int
	IDs           []ID
}

func NewMap(width, height int) *Map {
	return &Map{Width: width, Height: height, IDs: make([]ID, width*height)}
}

func (m *Map) At(x, y int) ID {
	return m.IDs[y*m.Width+x]
}

// Cluster is a 4-connected group of pixels from one layer. Pixels holds
// row-major pixel indices. A cluster that was merged away stays in the arena
// with Active false and no pixels.
type Cluster struct {
	ID     ID
	Layer  int
	Pixels []uint32
	Rect   image.Rectangle
	Active bool
}

func (c *Cluster) Size() int {
	return len(c.Pixels)
}

// Mask renders the cluster into a bitmap covering its bounding rectangle.
func (c *Cluster) Mask(width int) *Mask {
	m := NewMask(c.Rect)
	for _, p := range c.Pixels {
		x, y := int(p)%width, int(p)/width
		m.Set(x-c.Rect.Min.X, y-c.Rect.Min.Y, true)
	}
	return m
}

// Arena stores clusters by id. Slot 0 is unused so that an ID is its index.
type Arena struct {
	Clusters []Cluster
}

func (a *Arena) Get(id ID) *Cluster {
	return &a.Clusters[id]
}

// Len is the number of allocated ids, tombstones included.
func (a *Arena) Len() int {
	return len(a.Clusters) - 1
}

// Active returns the live clusters in id order.
func (a *Arena) Active() []*Cluster {
	var active []*Cluster
	for i := 1; i < len(a.Clusters); i++ {
		if a.Clusters[i].Active {
			active = append(active, &a.Clusters[i])
		}
	}
	return active
}
