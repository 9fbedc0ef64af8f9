// Package render draws partitions for inspection.
//
// # Adjacency Graphs
//
// [ToDOT] converts a partition into a Graphviz graph with one node per cell,
// pinned at the cell's center, and one edge per pair of cells sharing a
// boundary. [RenderSVG] lays the graph out with Graphviz:
//
//	dot := render.ToDOT(p, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//
// # Text
//
// [Rasterize] samples a partition on a character grid and [Text] prints the
// grid with one glyph per cell. The interactive playground draws its view
// from the same grid.
package render
