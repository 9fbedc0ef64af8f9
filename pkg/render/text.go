package render

import (
	"strings"

	"github.com/matzehuels/treemap/pkg/partition"
)

const glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Glyph returns the character drawn for the i-th cell of a partition.
func Glyph(i int) byte { return glyphs[i%len(glyphs)] }

// Grid is a partition sampled on Cols x Rows character cells. Row 0 is the
// upper edge of the partition.
type Grid struct {
	Cols, Rows int
	Cells      []partition.CellID // row-major, -1 where no cell was hit
	Order      []partition.CellID // cells in glyph order
}

// At returns the cell drawn at column x of row y.
func (g Grid) At(x, y int) partition.CellID { return g.Cells[y*g.Cols+x] }

// Index returns the glyph index of c, or -1.
func (g Grid) Index(c partition.CellID) int {
	for i, o := range g.Order {
		if o == c {
			return i
		}
	}
	return -1
}

// Rasterize samples p at the center of every character cell.
func Rasterize(p *partition.Partition, cols, rows int) Grid {
	g := Grid{Cols: cols, Rows: rows, Cells: make([]partition.CellID, cols*rows), Order: p.Cells()}
	for i := range g.Cells {
		g.Cells[i] = -1
	}
	if cols <= 0 || rows <= 0 {
		return g
	}

	b := p.Bounds()
	sx, sz := b.Width/float64(cols), b.Depth/float64(rows)
	for _, c := range g.Order {
		r := p.Rect(c)
		for y := range rows {
			z := b.Upper() - (float64(y)+0.5)*sz
			if z < r.Z || z >= r.Upper() {
				continue
			}
			for x := range cols {
				px := b.X + (float64(x)+0.5)*sx
				if px >= r.X && px < r.Right() {
					g.Cells[y*cols+x] = c
				}
			}
		}
	}
	return g
}

// Text renders p as rows of glyphs, one glyph per cell in [partition.Partition.Cells]
// order. Points not covered by any cell print as '.'.
func Text(p *partition.Partition, cols, rows int) string {
	g := Rasterize(p, cols, rows)
	index := make(map[partition.CellID]int, len(g.Order))
	for i, c := range g.Order {
		index[c] = i
	}

	var sb strings.Builder
	for y := range rows {
		for x := range cols {
			c := g.At(x, y)
			if c < 0 {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(Glyph(index[c]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
