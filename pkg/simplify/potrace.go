package simplify

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	imgcolor "image/color"

	"github.com/gotranspile/gotrace"

	"vectorlayers/pkg/svgpath"
	"vectorlayers/pkg/trace"
)

// Potrace ignores the traced outlines and retraces the shape's mask with
// potrace, which fits its own curves.
type Potrace struct{}

func (Potrace) Simplify(s trace.Shape) ([]*svgpath.SubPath, error) {
	m := s.Mask
	if m == nil || m.Count() == 0 {
		return nil, nil
	}

	// A one pixel margin keeps shapes touching the mask edge closed.
	w, h := m.Width()+2, m.Height()+2
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for i := range gray.Pix {
		gray.Pix[i] = 0xFF
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.At(x, y) {
				gray.SetGray(x+1, y+1, imgcolor.Gray{Y: 0})
			}
		}
	}

	bm := gotrace.BitmapFromGray(gray, nil)
	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}
	var buf bytes.Buffer
	if err := gotrace.Render("svg", nil, &buf, paths, w, h); err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}

	subPaths, err := parseSVGPaths(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}
	offset := m.Offset()
	for _, p := range subPaths {
		p.Translate(float64(offset.X-1), float64(offset.Y-1))
	}
	return subPaths, nil
}

type svgNode struct {
	XMLName   xml.Name
	Transform string    `xml:"transform,attr"`
	D         string    `xml:"d,attr"`
	Children  []svgNode `xml:",any"`
}

// parseSVGPaths collects the path data of an SVG document with every group
// transform applied.
func parseSVGPaths(data []byte) ([]*svgpath.SubPath, error) {
	var root svgNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	var out []*svgpath.SubPath
	var walk func(n svgNode, parent svgpath.Affine) error
	walk = func(n svgNode, parent svgpath.Affine) error {
		local, err := svgpath.ParseTransform(n.Transform)
		if err != nil {
			return err
		}
		m := parent.Compose(local)
		if n.XMLName.Local == "path" && n.D != "" {
			subPaths, err := svgpath.Parse(n.D)
			if err != nil {
				return err
			}
			m.ApplyPath(subPaths)
			out = append(out, subPaths...)
		}
		for _, child := range n.Children {
			if err := walk(child, m); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, svgpath.Identity); err != nil {
		return nil, err
	}
	return out, nil
}
