package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/treemap/pkg/partition"
)

// Options configures adjacency graph generation.
type Options struct {
	// Detailed adds target size, area and aspect ratio to node labels.
	Detailed bool

	// Scale converts partition units into Graphviz inches. Zero fits the
	// longer side of the partition into 8 inches.
	Scale float64
}

// Edge joins two cells sharing a non-const segment.
type Edge struct {
	A, B     partition.CellID
	Segment  partition.SegmentID
	Vertical bool
}

// Adjacency lists the pairs of cells whose sides touch along a segment with
// positive overlap, in segment order.
func Adjacency(p *partition.Partition) []Edge {
	var edges []Edge
	for _, s := range p.Segments() {
		seg := p.Segment(s)
		if seg.Const {
			continue
		}
		for _, a := range seg.Side1 {
			for _, b := range seg.Side2 {
				if overlap(p, a, b, seg.Vertical) > 0 {
					edges = append(edges, Edge{A: a, B: b, Segment: s, Vertical: seg.Vertical})
				}
			}
		}
	}
	return edges
}

func overlap(p *partition.Partition, a, b partition.CellID, vertical bool) float64 {
	ra, rb := p.Rect(a), p.Rect(b)
	if vertical {
		return math.Min(ra.Upper(), rb.Upper()) - math.Max(ra.Z, rb.Z)
	}
	return math.Min(ra.Right(), rb.Right()) - math.Max(ra.X, rb.X)
}

// ToDOT converts the cell adjacency of p to Graphviz DOT. Nodes carry pinned
// positions, so the result is meant for the neato engine used by
// [RenderSVG].
func ToDOT(p *partition.Partition, opts Options) string {
	bounds := p.Bounds()
	scale := opts.Scale
	if scale <= 0 {
		scale = 8 / math.Max(bounds.Width, bounds.Depth)
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [color=grey40];\n")
	buf.WriteString("\n")

	for _, c := range p.Cells() {
		r := p.Rect(c)
		x, z := (r.CenterX()-bounds.X)*scale, (r.CenterZ()-bounds.Z)*scale
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(p, c, opts.Detailed)),
			fmt.Sprintf("pos=\"%.4f,%.4f!\"", x, z),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Cell(c).ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range Adjacency(p) {
		style := "solid"
		if !e.Vertical {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -- %q [style=%s];\n", p.Cell(e.A).ID, p.Cell(e.B).ID, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *partition.Partition, c partition.CellID, detailed bool) string {
	cell := p.Cell(c)
	if !detailed {
		return cell.ID
	}
	return fmt.Sprintf("%s\nsize: %.4g\narea: %.4g\nratio: %.2f",
		cell.ID, cell.Size, cell.Rect.Area(), cell.Rect.AspectRatio())
}
