package partition

import (
	"math"
	"slices"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

// Validate checks the structural invariants of the partition without
// modifying it:
//
//   - every live cell has a positive rectangle and four boundary segments of
//     matching orientation that list it on the correct side
//   - every segment lists only live cells that name it as their boundary
//   - non-const segments have cells on both sides, const segments on at most one
//   - cells on either side of a segment meet at the same coordinate and cover
//     the same stretch of the segment
//   - the cells tile their bounding rectangle
//
// The first violation is returned as an [errors.ErrCodeInvariant] error.
func (p *Partition) Validate() error {
	if p.live == 0 {
		return invariant("partition has no cells")
	}
	bounds := p.Bounds()
	eps := 1e-6 * math.Max(bounds.Width, bounds.Depth)

	var area float64
	for _, c := range p.Cells() {
		cell := p.cells[c]
		if !cell.Rect.Positive() {
			return invariant("cell %q has non-positive rectangle %v", cell.ID, cell.Rect)
		}
		area += cell.Rect.Area()
		for _, d := range Directions {
			s := cell.Bounds[d]
			if s < 0 || int(s) >= len(p.segs) {
				return invariant("cell %q has no %s segment", cell.ID, d)
			}
			if p.segs[s].Vertical != d.Vertical() {
				return invariant("cell %q: %s segment %d has the wrong orientation", cell.ID, d, s)
			}
			if !slices.Contains(*p.side(s, d), c) {
				return invariant("cell %q is not registered on its %s segment %d", cell.ID, d, s)
			}
		}
		if id, ok := p.index[cell.ID]; !ok || id != c {
			return invariant("cell %q is missing from the index", cell.ID)
		}
	}
	if len(p.index) != p.live {
		return invariant("index holds %d cells, partition %d", len(p.index), p.live)
	}

	for i, seg := range p.segs {
		s := SegmentID(i)
		if seg.Len() == 0 {
			continue
		}
		if err := p.validateSegment(s, eps); err != nil {
			return err
		}
	}

	if math.Abs(area-bounds.Area()) > 1e-6*bounds.Area() {
		return invariant("cells cover %g of a %g bounding area", area, bounds.Area())
	}
	return nil
}

func (p *Partition) validateSegment(s SegmentID, eps float64) error {
	seg := p.segs[s]
	ax := axes{seg.Vertical}

	if seg.Const && len(seg.Side1) > 0 && len(seg.Side2) > 0 {
		return invariant("const segment %d has cells on both sides", s)
	}
	if !seg.Const && (len(seg.Side1) == 0 || len(seg.Side2) == 0) {
		return invariant("segment %d has an empty side", s)
	}

	coord := math.NaN()
	check := func(cells []CellID, d Direction, edge func(geom.Rect) float64) (lo, hi float64, err error) {
		lo, hi = math.Inf(1), math.Inf(-1)
		for i, c := range cells {
			if !p.Has(c) {
				return 0, 0, invariant("segment %d lists dead cell %d", s, c)
			}
			if slices.Contains(cells[:i], c) {
				return 0, 0, invariant("segment %d lists cell %q twice", s, p.cells[c].ID)
			}
			if p.cells[c].Bounds[d] != s {
				return 0, 0, invariant("segment %d lists cell %q which does not name it as %s", s, p.cells[c].ID, d)
			}
			r := p.cells[c].Rect
			x := edge(r)
			if math.IsNaN(coord) {
				coord = x
			} else if math.Abs(x-coord) > eps {
				return 0, 0, invariant("cell %q is off segment %d by %g", p.cells[c].ID, s, x-coord)
			}
			lo = math.Min(lo, ax.alongPos(r))
			hi = math.Max(hi, ax.alongEnd(r))
		}
		return lo, hi, nil
	}

	lo1, hi1, err := check(seg.Side1, ax.acrossHi(), ax.acrossEnd)
	if err != nil {
		return err
	}
	lo2, hi2, err := check(seg.Side2, ax.acrossLo(), ax.acrossPos)
	if err != nil {
		return err
	}
	if !seg.Const && (math.Abs(lo1-lo2) > eps || math.Abs(hi1-hi2) > eps) {
		return invariant("segment %d spans [%g, %g] on one side and [%g, %g] on the other", s, lo1, hi1, lo2, hi2)
	}
	return nil
}

func invariant(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvariant, format, args...)
}
