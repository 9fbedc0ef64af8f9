package treemap

import "github.com/matzehuels/treemap/pkg/geom"

// Placement is one emitted rectangle.
type Placement struct {
	ID     string    `json:"id"`
	Parent string    `json:"parent,omitempty"`
	Depth  int       `json:"depth"`
	Leaf   bool      `json:"leaf"`
	Rect   geom.Rect `json:"rect"`
}

// Walk calls fn for every item in depth-first order: each group's cells in
// partition order, each followed by its own children.
func (l *Layout) Walk(fn func(id, parent string, depth int)) {
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		p, ok := l.Groups[parent]
		if !ok {
			return
		}
		for _, c := range p.Cells() {
			id := p.Cell(c).ID
			fn(id, parent, depth)
			walk(id, depth+1)
		}
	}
	walk(RootGroup, 1)
}

// Place flattens the layout into placements. Each rectangle is inset by
// padding times its nesting depth, so children stay inside their padded
// parent. Rectangles too small for their inset are emitted unpadded; the
// second result counts them.
func (l *Layout) Place(padding float64) ([]Placement, int) {
	out := make([]Placement, 0, l.Len())
	skipped := 0
	l.Walk(func(id, parent string, depth int) {
		r := l.Rects[id]
		if padding > 0 {
			if inset, ok := r.Inset(padding * float64(depth)); ok {
				r = inset
			} else {
				skipped++
			}
		}
		_, inner := l.Groups[id]
		out = append(out, Placement{ID: id, Parent: parent, Depth: depth, Leaf: !inner, Rect: r})
	})
	return out, skipped
}

// Place is [Layout.Place] with the engine's padding; too-small rectangles
// are logged.
func (e *Engine) Place(l *Layout) []Placement {
	out, skipped := l.Place(e.opts.Padding)
	if skipped > 0 {
		e.logger.Warn("rectangles too small for padding", "count", skipped, "padding", e.opts.Padding)
	}
	return out
}
