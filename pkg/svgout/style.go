package svgout

import (
	"sort"
	"strings"
)

func (n *Node) Style(name string) string {
	if n.style == nil {
		n.style = map[string]string{}
		n.styleNameOrder = map[string]int{}
		index := 0
		for _, pair := range strings.Split(n.Styles, ";") {
			kv := strings.Split(pair, ":")
			if len(kv) == 2 {
				n.style[kv[0]] = kv[1]
				index++
				n.styleNameOrder[kv[0]] = index
			}
		}
	}
	return n.style[name]
}

func (n *Node) SetStyle(name string, value string) {
	if n.style == nil {
		// Call for side-effect of populating the style map
		n.Style(name)
	}
	if _, ok := n.styleNameOrder[name]; !ok {
		n.styleNameOrder[name] = len(n.styleNameOrder) + 1
	}
	n.style[name] = value
}

func (n *Node) RemoveStyle(name string) {
	delete(n.style, name)
}

func (n *Node) serializeStyle() {
	if n.style == nil {
		return
	}
	names := make([]string, 0, len(n.style))
	for name := range n.style {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		ao, bo := n.styleNameOrder[a], n.styleNameOrder[b]
		if ao == 0 || bo == 0 {
			return a < b
		}
		return ao < bo
	})
	styles := make([]string, 0, len(names))
	for _, name := range names {
		styles = append(styles, name+":"+n.style[name])
	}
	n.Styles = strings.Join(styles, ";")
}
