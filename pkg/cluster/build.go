package cluster

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"vectorlayers/pkg/classify"
)

// Build finds the 4-connected clusters of every layer and records them in a
// new Map.
//
// Layers are labeled in parallel. Each layer writes its clusters into the map
// using a reserved id range of one id per assigned pixel, starting right after
// the range of the previous layer, so no two layers can collide. Once all
// layers are done the ids are compacted so that the arena is dense.
func Build(ctx context.Context, a *classify.Assignment, numLayers, workers int) (*Map, *Arena, error) {
	if uint64(a.Width)*uint64(a.Height) >= math.MaxUint32 {
		return nil, nil, fmt.Errorf("image of %dx%d pixels is too large", a.Width, a.Height)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	counts := a.Counts(numLayers)
	base := make([]ID, numLayers)
	next := ID(1)
	for l, n := range counts {
		base[l] = next
		next += ID(n)
	}

	m := NewMap(a.Width, a.Height)
	runs := FindHorizontalRuns(a, numLayers)
	perLayer := make([][]Cluster, numLayers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for l := range numLayers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			labels, n := labelRuns(runs[l])
			for i, run := range runs[l] {
				id := base[l] + ID(labels[i])
				row := m.IDs[run.Y*a.Width : (run.Y+1)*a.Width]
				for x := run.X1; x < run.X2; x++ {
					row[x] = id
				}
			}
			perLayer[l] = blobs(runs[l], labels, n, a.Width, l)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	arena := compact(ctx, m, a, base, perLayer, workers)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return m, arena, nil
}

// compact renumbers the reserved ranges into consecutive ids.
func compact(ctx context.Context, m *Map, a *classify.Assignment, base []ID, perLayer [][]Cluster, workers int) *Arena {
	offset := make([]ID, len(perLayer))
	total := 0
	for l, clusters := range perLayer {
		offset[l] = ID(1 + total)
		total += len(clusters)
	}

	arena := &Arena{Clusters: make([]Cluster, 1, 1+total)}
	for l, clusters := range perLayer {
		for i := range clusters {
			clusters[i].ID = offset[l] + ID(i)
			arena.Clusters = append(arena.Clusters, clusters[i])
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < m.Height; y++ {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			ids := m.IDs[y*m.Width : (y+1)*m.Width]
			layers := a.Layer[y*a.Width : (y+1)*a.Width]
			for x, id := range ids {
				if id == None {
					continue
				}
				l := layers[x]
				ids[x] = offset[l] + (id - base[l])
			}
			return nil
		})
	}
	g.Wait()
	return arena
}
