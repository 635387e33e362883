package simplify

import (
	"testing"

	"vectorlayers/pkg/svgpath"
)

func TestParseSVGPaths(t *testing.T) {
	doc := `<?xml version="1.0" standalone="no"?>
<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4">
<g transform="translate(0,4) scale(0.5,-0.5)" fill="#000000">
<path d="M2 2 l4 0 0 4 -4 0 z"/>
</g>
<path d="M 0 0 L 1 0 L 1 1 Z"/>
</svg>`
	paths, err := parseSVGPaths([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	expected := "M 1 3 L 3 3 L 3 1 L 1 1 Z M 0 0 L 1 0 L 1 1 Z"
	if got := svgpath.ToString(paths); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestParseSVGPathsBadTransform(t *testing.T) {
	doc := `<svg><g transform="skew(1)"><path d="M 0 0 L 1 1"/></g></svg>`
	if _, err := parseSVGPaths([]byte(doc)); err == nil {
		t.Errorf("expected an error")
	}
}
