package cluster

// MergeSpeckles folds every active cluster smaller than minArea into the
// neighbor cluster it shares the most pixel edges with, until no more merges
// happen. A small cluster without any neighbor is left alone. It returns the
// number of merges.
//
// Merging mutates the map and the arena in place; it must not run
// concurrently with anything else that reads them.
func (a *Arena) MergeSpeckles(m *Map, minArea int) int {
	merges := 0
	tally := map[ID]int{}
	for {
		merged := false
		for id := 1; id < len(a.Clusters); id++ {
			c := &a.Clusters[id]
			if !c.Active || c.Size() >= minArea {
				continue
			}
			target, ok := a.dominantNeighbor(m, c, tally)
			if !ok {
				continue
			}
			a.absorb(m, a.Get(target), c)
			merged = true
			merges++
		}
		if !merged {
			return merges
		}
	}
}

// dominantNeighbor counts, over the 4-neighbors of every pixel of c, how often
// each other cluster appears. Ties go to the lower id.
func (a *Arena) dominantNeighbor(m *Map, c *Cluster, tally map[ID]int) (ID, bool) {
	clear(tally)
	m.neighbors(c, func(id ID) {
		if id != None && id != c.ID {
			tally[id]++
		}
	})

	best, bestCount := None, 0
	for id, n := range tally {
		if n > bestCount || (n == bestCount && id < best) {
			best, bestCount = id, n
		}
	}
	return best, bestCount > 0
}

// neighbors calls fn with the owner of every in-bounds 4-neighbor of every
// pixel of c, including pixels of c itself.
func (m *Map) neighbors(c *Cluster, fn func(ID)) {
	for _, p := range c.Pixels {
		x, y := int(p)%m.Width, int(p)/m.Width
		if x > 0 {
			fn(m.IDs[p-1])
		}
		if x < m.Width-1 {
			fn(m.IDs[p+1])
		}
		if y > 0 {
			fn(m.IDs[int(p)-m.Width])
		}
		if y < m.Height-1 {
			fn(m.IDs[int(p)+m.Width])
		}
	}
}

// Traceable returns the active clusters that should be traced. A cluster
// smaller than minArea whose only neighbors are unassigned pixels is left
// out; it stays in the map and the arena. A cluster with no outside neighbor
// at all, such as one covering the whole image, is always kept.
func (a *Arena) Traceable(m *Map, minArea int) []*Cluster {
	var out []*Cluster
	for _, c := range a.Active() {
		if c.Size() >= minArea {
			out = append(out, c)
			continue
		}
		var unassigned, assigned bool
		m.neighbors(c, func(id ID) {
			switch id {
			case None:
				unassigned = true
			case c.ID:
			default:
				assigned = true
			}
		})
		if unassigned && !assigned {
			continue
		}
		out = append(out, c)
	}
	return out
}

// absorb moves every pixel of src into dst and leaves src as a tombstone.
func (a *Arena) absorb(m *Map, dst, src *Cluster) {
	for _, p := range src.Pixels {
		m.IDs[p] = dst.ID
	}
	dst.Pixels = append(dst.Pixels, src.Pixels...)
	dst.Rect = dst.Rect.Union(src.Rect)
	src.Pixels = nil
	src.Active = false
}
