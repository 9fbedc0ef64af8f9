// Package pkg holds the libraries behind the treemap command.
//
// # Overview
//
// A treemap shows a weighted hierarchy as nested rectangles whose areas
// follow the weights. These packages keep such a layout stable while the
// data changes: instead of laying everything out again, existing
// rectangles are edited locally so that items keep their neighbours.
//
//  1. [geom] - Rectangle value type
//  2. [partition] - Cells and shared boundary segments, local edits
//  3. [correct] - Area correction against target sizes
//  4. [search] - Aspect ratio score and bounded search over local moves
//  5. [treemap] - Engine and hierarchical incremental layout
//  6. [io], [config], [cache], [render] - Files, settings, remembered layouts, drawing
//
// # Architecture
//
// The data flow of one layout run:
//
//	items.json / items.toml
//	         ↓
//	    [io] package (decode, name, validate)
//	         ↓
//	    [treemap] package (per sibling group: dissect or update the previous partition)
//	         ↓
//	    [partition] edits → [correct] areas → [search] quality
//	         ↓
//	    layout.json (rectangles + segment graphs for the next run)
//
// # Quick Start
//
//	eng := treemap.New(treemap.DefaultOptions())
//	l, err := eng.Layout(nil, items, geom.Rect{Width: 100, Depth: 100})
//	// ... items change ...
//	next, err := eng.Layout(l, changed, geom.Rect{Width: 100, Depth: 100})
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/geom
// [partition]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/partition
// [correct]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/correct
// [search]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/search
// [treemap]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/treemap
// [io]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/treemap/pkg/render
package pkg
