package main

import (
	"fmt"

	"vectorlayers/pkg/geometry"
	"vectorlayers/pkg/order"
	"vectorlayers/pkg/simplify"
	"vectorlayers/pkg/svgout"
	"vectorlayers/pkg/svgpath"
	"vectorlayers/pkg/vectorize"
)

// render simplifies every traced shape and lays the result out as an SVG
// document: one group per layer, one path per cluster. Paths inside a layer
// are ordered to shorten the travel between them.
func render(res *vectorize.Result, s simplify.Simplifier) (*svgout.Node, error) {
	doc := svgout.New(res.Width, res.Height)
	for _, l := range res.Layers {
		type item struct {
			id   int
			path []*svgpath.SubPath
		}
		var items []item
		var starts []geometry.Point
		for _, shape := range l.Shapes {
			path, err := s.Simplify(shape)
			if err != nil {
				return nil, fmt.Errorf("cluster %d: %w", shape.Cluster, err)
			}
			if len(path) == 0 {
				continue
			}
			start := path[0].Start()
			items = append(items, item{id: int(shape.Cluster), path: path})
			starts = append(starts, start)
		}
		if len(items) == 0 {
			continue
		}

		g := doc.AddLayer(fmt.Sprintf("layer-%d", l.Layer.Index), l.Layer.RGB().Hex())
		sequence := order.Nearest(starts, geometry.Point{})
		for _, i := range sequence {
			g.AddPath(fmt.Sprintf("cluster-%d", items[i].id), items[i].path)
		}
		vectorize.Logger().Debug("layer ordered",
			"layer", l.Layer.Index, "paths", len(items),
			"travel", order.Travel(starts, sequence, geometry.Point{}))
	}
	return doc, nil
}
