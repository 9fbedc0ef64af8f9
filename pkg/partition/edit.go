package partition

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Insert adds a cell with the given ID and target size.
//
// The cell with the largest aspect ratio is halved along its longer side
// (width on ties). The original cell keeps the left or lower half and the
// new cell takes the other half together with the three outer boundaries
// of that half. A new non-const segment separates the two halves.
//
// Insert does not correct areas; the new cell starts with half of the split
// cell's area regardless of size.
func (p *Partition) Insert(id string, size float64) (CellID, error) {
	if err := errors.ValidateCellID(id); err != nil {
		return -1, err
	}
	if err := errors.ValidateSize(size); err != nil {
		return -1, fmt.Errorf("cell %q: %w", id, err)
	}
	if _, dup := p.index[id]; dup {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	best := p.Worst()
	if best < 0 {
		return -1, ErrNoItems
	}

	r := p.cells[best].Rect
	ax := axes{vertical: r.Width >= r.Depth}
	half := ax.acrossLen(r) / 2

	c := p.addCell(id, size)
	s := p.newSegment(ax.vertical, false)

	p.cells[best].Rect = ax.rect(ax.alongPos(r), ax.alongLen(r), ax.acrossPos(r), half)
	p.cells[c].Rect = ax.rect(ax.alongPos(r), ax.alongLen(r), ax.acrossPos(r)+half, ax.acrossLen(r)-half)

	p.attach(c, ax.alongLo(), p.cells[best].Bounds[ax.alongLo()])
	p.attach(c, ax.alongHi(), p.cells[best].Bounds[ax.alongHi()])
	p.attach(c, ax.acrossHi(), p.cells[best].Bounds[ax.acrossHi()])
	p.rebind(best, ax.acrossHi(), s)
	p.attach(c, ax.acrossLo(), s)
	return c, nil
}

// Remove deletes cell c.
//
// A cell is grounded in direction d when the segment there is not const and
// c is the only cell on its side of it. Directions are tried in the order
// Left, Right, Lower, Upper. For the first grounded direction, every cell
// across that segment grows over c's rectangle and takes over c's opposite
// boundary.
//
// When no direction is grounded, stretch moves that do not involve c are
// applied on c's boundaries, smallest segment first, until one is. The number
// of moves is capped; exhausting the cap or running out of moves is reported
// as an [errors.ErrCodeInvariant] error and may leave the partition restructured.
func (p *Partition) Remove(c CellID) error {
	if !p.Has(c) {
		return p.unknown(c)
	}
	if p.live == 1 {
		return fmt.Errorf("%w: %q", ErrLastCell, p.cells[c].ID)
	}

	limit := 4*len(p.cells) + 16
	for range limit {
		if d, ok := p.grounded(c); ok {
			p.collapse(c, d)
			return nil
		}
		if err := p.restructure(c); err != nil {
			return err
		}
	}
	return errors.New(errors.ErrCodeInvariant, "remove %q: still not grounded after %d moves", p.cells[c].ID, limit)
}

// RemoveID deletes the cell with the given caller ID.
func (p *Partition) RemoveID(id string) error {
	c, ok := p.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCell, id)
	}
	return p.Remove(c)
}

func (p *Partition) grounded(c CellID) (Direction, bool) {
	for _, d := range Directions {
		s := p.cells[c].Bounds[d]
		if p.segs[s].Const {
			continue
		}
		if own := *p.side(s, d); len(own) == 1 {
			return d, true
		}
	}
	return 0, false
}

// collapse removes c, letting the cells across its grounded boundary in
// direction d absorb its rectangle.
func (p *Partition) collapse(c CellID, d Direction) {
	r := p.cells[c].Rect
	s := p.cells[c].Bounds[d]
	far := p.cells[c].Bounds[d.Opposite()]
	back := d.Opposite()

	for _, o := range slices.Clone(*p.side(s, back)) {
		or := p.cells[o].Rect
		switch d {
		case Left:
			or.Width = r.Right() - or.X
		case Right:
			or.Width = or.Right() - r.X
			or.X = r.X
		case Lower:
			or.Depth = r.Upper() - or.Z
		case Upper:
			or.Depth = or.Upper() - r.Z
			or.Z = r.Z
		}
		p.cells[o].Rect = or
		p.rebind(o, back, far)
	}

	for _, dir := range Directions {
		p.detach(c, dir)
	}
	p.cells[c].removed = true
	delete(p.index, p.cells[c].ID)
	p.live--
}

// restructure applies one stretch move on a boundary of c that leaves c
// untouched.
func (p *Partition) restructure(c CellID) error {
	var cands []SegmentID
	for _, s := range p.cells[c].Bounds {
		if !p.segs[s].Const {
			cands = append(cands, s)
		}
	}
	slices.SortStableFunc(cands, func(a, b SegmentID) int {
		return cmp.Compare(p.segs[a].Len(), p.segs[b].Len())
	})

	for _, s := range cands {
		for _, m := range p.Moves(s) {
			if m.Kind != Stretch || m.Involves(c) {
				continue
			}
			if err := p.Apply(m); err == nil {
				return nil
			}
		}
	}
	return errors.New(errors.ErrCodeInvariant, "remove %q: no stretch move frees the cell", p.cells[c].ID)
}
