package svgout

import (
	"encoding/xml"
	"strconv"

	"vectorlayers/pkg/svgpath"
)

const namespace = "http://www.w3.org/2000/svg"

// Node is one element of an SVG document. The root is an svg element, each
// layer a g element carrying the layer fill, and each shape a path element.
type Node struct {
	XMLName   xml.Name
	Xmlns     string  `xml:"xmlns,attr,omitempty"`
	Width     string  `xml:"width,attr,omitempty"`
	Height    string  `xml:"height,attr,omitempty"`
	ViewBox   string  `xml:"viewBox,attr,omitempty"`
	Version   string  `xml:"version,attr,omitempty"`
	ID        string  `xml:"id,attr,omitempty"`
	Styles    string  `xml:"style,attr,omitempty"`
	D         string  `xml:"d,attr,omitempty"`
	Transform string  `xml:"transform,attr,omitempty"`
	Children  []*Node `xml:",any"`

	Path []*svgpath.SubPath `xml:"-"`

	style          map[string]string
	styleNameOrder map[string]int
}

// New returns an empty svg root sized in pixels.
func New(width, height int) *Node {
	return &Node{
		XMLName: xml.Name{Local: "svg"},
		Xmlns:   namespace,
		Width:   strconv.Itoa(width),
		Height:  strconv.Itoa(height),
		ViewBox: "0 0 " + strconv.Itoa(width) + " " + strconv.Itoa(height),
		Version: "1.1",
	}
}

// AddLayer appends a group filled with the given color.
func (n *Node) AddLayer(id, fill string) *Node {
	layer := &Node{XMLName: xml.Name{Local: "g"}, ID: id}
	layer.SetStyle("fill", fill)
	n.Children = append(n.Children, layer)
	return layer
}

func (n *Node) AddPath(id string, path []*svgpath.SubPath) *Node {
	child := &Node{XMLName: xml.Name{Local: "path"}, ID: id, Path: path}
	n.Children = append(n.Children, child)
	return child
}

// Parse reads an SVG document, decoding the d attribute of every path.
func Parse(data []byte) (*Node, error) {
	var svg Node
	if err := xml.Unmarshal(data, &svg); err != nil {
		return nil, err
	}
	if err := svg.parsePaths(); err != nil {
		return nil, err
	}
	return &svg, nil
}

func (n *Node) parsePaths() error {
	if n.D != "" {
		path, err := svgpath.Parse(n.D)
		if err != nil {
			return err
		}
		n.Path = path
	}
	for _, child := range n.Children {
		if err := child.parsePaths(); err != nil {
			return err
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func (n *Node) Marshal() ([]byte, error) {
	n.Walk(func(node *Node) {
		// Back to a path string
		if node.Path != nil {
			node.D = svgpath.ToString(node.Path)
		}

		// Reserialize style to capture changes
		node.serializeStyle()

		// SVG namespace at root is enough
		node.XMLName.Space = ""
	})
	n.Xmlns = namespace

	data, err := xml.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
