package partition

import (
	"fmt"
	"math"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

// MoveKind distinguishes the two local topology edits.
type MoveKind int

const (
	// Flip re-splits the two cells of a segment with one cell per side
	// along the other axis.
	Flip MoveKind = iota
	// Stretch slides one end of a segment: the shorter extremal cell grows
	// across the segment and the longer one shrinks.
	Stretch
)

func (k MoveKind) String() string {
	if k == Flip {
		return "flip"
	}
	return "stretch"
}

// Move is a local edit on one segment. A is always a Side1 cell and B a
// Side2 cell of Segment.
type Move struct {
	Kind    MoveKind
	Segment SegmentID
	A, B    CellID

	// High selects the high end of the segment for a Stretch.
	High bool
	// Swap puts B below/left of A after a Flip instead of above/right.
	Swap bool
}

// Cells returns the two cells the move changes.
func (m Move) Cells() []CellID { return []CellID{m.A, m.B} }

// Involves reports whether c is one of the move's cells.
func (m Move) Involves(c CellID) bool { return m.A == c || m.B == c }

func (m Move) String() string {
	switch m.Kind {
	case Flip:
		return fmt.Sprintf("flip(s%d %d|%d swap=%t)", m.Segment, m.A, m.B, m.Swap)
	default:
		end := "low"
		if m.High {
			end = "high"
		}
		return fmt.Sprintf("stretch(s%d %d|%d %s)", m.Segment, m.A, m.B, end)
	}
}

// relEps is the relative tolerance under which two coordinates coincide.
const relEps = 1e-9

// Moves returns the applicable local moves on segment s. Const segments have
// none; a segment with exactly one cell per side offers two flips; any other
// segment offers a stretch at each end that is not degenerate.
func (p *Partition) Moves(s SegmentID) []Move {
	seg := p.segs[s]
	if seg.Const || len(seg.Side1) == 0 || len(seg.Side2) == 0 {
		return nil
	}
	if len(seg.Side1) == 1 && len(seg.Side2) == 1 {
		m := Move{Kind: Flip, Segment: s, A: seg.Side1[0], B: seg.Side2[0]}
		if p.checkFlip(m) != nil {
			return nil
		}
		swapped := m
		swapped.Swap = true
		return []Move{m, swapped}
	}
	var out []Move
	for _, high := range []bool{true, false} {
		if m, ok := p.stretchMove(s, high); ok {
			out = append(out, m)
		}
	}
	return out
}

// AllMoves returns the moves of every live segment in segment order.
func (p *Partition) AllMoves() []Move {
	var out []Move
	for _, s := range p.Segments() {
		out = append(out, p.Moves(s)...)
	}
	return out
}

// Apply performs m. It fails without changing anything if m does not fit the
// current topology.
func (p *Partition) Apply(m Move) error {
	if m.Segment < 0 || int(m.Segment) >= len(p.segs) {
		return errors.New(errors.ErrCodeInvalidInput, "%v: unknown segment", m)
	}
	if !p.Has(m.A) || !p.Has(m.B) {
		return fmt.Errorf("%v: %w", m, ErrUnknownCell)
	}
	ax := axes{p.segs[m.Segment].Vertical}
	if p.cells[m.A].Bounds[ax.acrossHi()] != m.Segment || p.cells[m.B].Bounds[ax.acrossLo()] != m.Segment {
		return errors.New(errors.ErrCodeInvalidInput, "%v: cells are not on opposite sides of the segment", m)
	}
	switch m.Kind {
	case Flip:
		return p.flip(m)
	case Stretch:
		return p.stretch(m)
	}
	return errors.New(errors.ErrCodeUnsupported, "unknown move kind %d", m.Kind)
}

// =============================================================================
// Flip
// =============================================================================

func (p *Partition) checkFlip(m Move) error {
	seg := p.segs[m.Segment]
	if len(seg.Side1) != 1 || len(seg.Side2) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "%v: flip needs one cell per side", m)
	}
	ax := axes{seg.Vertical}
	ca, cb := p.cells[m.A], p.cells[m.B]
	if ca.Bounds[ax.alongLo()] != cb.Bounds[ax.alongLo()] || ca.Bounds[ax.alongHi()] != cb.Bounds[ax.alongHi()] {
		return errors.New(errors.ErrCodeInvalidInput, "%v: cells do not form a rectangle", m)
	}
	return nil
}

// flip merges A and B into their union and splits it again across the old
// along axis. The low cell keeps the shared along-low boundary, the high
// cell the along-high one, and both span A's across-low to B's across-high
// boundary. Each cell keeps its share of the union's area. The freed
// segment slot becomes the new cut.
func (p *Partition) flip(m Move) error {
	if err := p.checkFlip(m); err != nil {
		return err
	}
	s := m.Segment
	ax := axes{p.segs[s].Vertical}
	ca, cb := p.cells[m.A], p.cells[m.B]

	lo, hi := ca.Bounds[ax.alongLo()], ca.Bounds[ax.alongHi()]
	west, east := ca.Bounds[ax.acrossLo()], cb.Bounds[ax.acrossHi()]

	acrossPos := ax.acrossPos(ca.Rect)
	acrossLen := ax.acrossEnd(cb.Rect) - acrossPos
	alongPos := ax.alongPos(ca.Rect)
	alongLen := ax.alongLen(ca.Rect)

	low, high := m.A, m.B
	if m.Swap {
		low, high = m.B, m.A
	}
	lowArea := p.cells[low].Rect.Area()
	total := lowArea + p.cells[high].Rect.Area()
	cut := alongLen * lowArea / total
	if cut <= 0 || cut >= alongLen {
		return errors.New(errors.ErrCodeInvariant, "%v: degenerate split", m)
	}

	for _, c := range []CellID{m.A, m.B} {
		for _, d := range Directions {
			p.detach(c, d)
		}
	}

	// Reuse the emptied slot for the cut, now in the other orientation.
	p.segs[s] = Segment{Vertical: !ax.vertical}

	p.cells[low].Rect = ax.rect(alongPos, cut, acrossPos, acrossLen)
	p.cells[high].Rect = ax.rect(alongPos+cut, alongLen-cut, acrossPos, acrossLen)

	p.attach(low, ax.acrossLo(), west)
	p.attach(low, ax.acrossHi(), east)
	p.attach(low, ax.alongLo(), lo)
	p.attach(low, ax.alongHi(), s)

	p.attach(high, ax.acrossLo(), west)
	p.attach(high, ax.acrossHi(), east)
	p.attach(high, ax.alongLo(), s)
	p.attach(high, ax.alongHi(), hi)
	return nil
}

// =============================================================================
// Stretch
// =============================================================================

// stretchMove picks the extremal cell on each side at one end of s.
func (p *Partition) stretchMove(s SegmentID, high bool) (Move, bool) {
	seg := p.segs[s]
	ax := axes{seg.Vertical}
	pick := func(cells []CellID) CellID {
		best := cells[0]
		for _, c := range cells[1:] {
			pos, cur := ax.alongPos(p.cells[c].Rect), ax.alongPos(p.cells[best].Rect)
			if (high && pos > cur) || (!high && pos < cur) {
				best = c
			}
		}
		return best
	}
	m := Move{Kind: Stretch, Segment: s, A: pick(seg.Side1), B: pick(seg.Side2), High: high}
	if _, _, err := p.planStretch(m); err != nil {
		return Move{}, false
	}
	return m, true
}

// planStretch decides which of A and B grows across the segment.
func (p *Partition) planStretch(m Move) (grower, shrinker CellID, err error) {
	ax := axes{p.segs[m.Segment].Vertical}
	ca, cb := p.cells[m.A], p.cells[m.B]

	end := ax.alongLo()
	if m.High {
		end = ax.alongHi()
	}
	if ca.Bounds[end] != cb.Bounds[end] {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%v: cells do not share the segment end", m)
	}

	var va, vb float64
	if m.High {
		// The cell starting later along the segment is the shorter one at the high end.
		va, vb = -ax.alongPos(ca.Rect), -ax.alongPos(cb.Rect)
	} else {
		va, vb = ax.alongEnd(ca.Rect), ax.alongEnd(cb.Rect)
	}
	tol := relEps * math.Max(ax.alongLen(ca.Rect), ax.alongLen(cb.Rect))
	switch {
	case va < vb-tol:
		return m.A, m.B, nil
	case vb < va-tol:
		return m.B, m.A, nil
	}
	return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%v: degenerate stretch", m)
}

// stretch lets the shorter extremal cell grow across the segment over the
// longer one, which is trimmed back to the grower's far edge.
func (p *Partition) stretch(m Move) error {
	g, sh, err := p.planStretch(m)
	if err != nil {
		return err
	}
	ax := axes{p.segs[m.Segment].Vertical}
	rg, rs := p.cells[g].Rect, p.cells[sh].Rect

	var trimmed geom.Rect
	if m.High {
		trimmed = ax.rect(ax.alongPos(rs), ax.alongPos(rg)-ax.alongPos(rs), ax.acrossPos(rs), ax.acrossLen(rs))
		p.rebind(sh, ax.alongHi(), p.cells[g].Bounds[ax.alongLo()])
	} else {
		trimmed = ax.rect(ax.alongEnd(rg), ax.alongEnd(rs)-ax.alongEnd(rg), ax.acrossPos(rs), ax.acrossLen(rs))
		p.rebind(sh, ax.alongLo(), p.cells[g].Bounds[ax.alongHi()])
	}

	lo := math.Min(ax.acrossPos(rg), ax.acrossPos(rs))
	hi := math.Max(ax.acrossEnd(rg), ax.acrossEnd(rs))
	grown := ax.rect(ax.alongPos(rg), ax.alongLen(rg), lo, hi-lo)
	if g == m.A {
		p.rebind(g, ax.acrossHi(), p.cells[sh].Bounds[ax.acrossHi()])
	} else {
		p.rebind(g, ax.acrossLo(), p.cells[sh].Bounds[ax.acrossLo()])
	}

	p.cells[g].Rect = grown
	p.cells[sh].Rect = trimmed
	return nil
}
