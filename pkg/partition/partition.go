package partition

import (
	"fmt"
	"slices"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

var (
	// ErrUnknownCell is returned when a [CellID] does not name a live cell.
	ErrUnknownCell = errors.New(errors.ErrCodeNotFound, "unknown cell")

	// ErrDuplicateID is returned by [Partition.Insert] and [Dissect] when an
	// item ID is already taken. Cell IDs must be unique within a partition.
	ErrDuplicateID = errors.New(errors.ErrCodeDuplicateID, "duplicate cell id")

	// ErrLastCell is returned by [Partition.Remove] for the only remaining cell.
	// A partition always covers its bounding rectangle with at least one cell.
	ErrLastCell = errors.New(errors.ErrCodeInvalidInput, "cannot remove the last cell")

	// ErrNoItems is returned by [Dissect] for an empty item list.
	ErrNoItems = errors.New(errors.ErrCodeInvalidInput, "at least one item is required")
)

// CellID indexes a cell in its partition. IDs are never reused.
type CellID int

// SegmentID indexes a segment in its partition.
type SegmentID int

// NoSegment marks an unset boundary.
const NoSegment SegmentID = -1

// Cell is one rectangle of the partition.
type Cell struct {
	ID     string       // Caller-supplied identity
	Rect   geom.Rect    // Current geometry
	Size   float64      // Target area
	Bounds [4]SegmentID // Boundary segment per Direction

	removed bool
}

// Segment is a maximal boundary shared by the cells on both of its sides.
//
// Side1 holds the cells for which the segment is their Right (vertical) or
// Upper (horizontal) boundary; Side2 holds those for which it is their Left
// or Lower boundary.
type Segment struct {
	Const    bool // Part of the outer frame
	Vertical bool
	Side1    []CellID
	Side2    []CellID
}

// Len returns the number of cells on both sides.
func (s Segment) Len() int { return len(s.Side1) + len(s.Side2) }

// Partition is a rectangular dual of cells and segments.
//
// The zero value is not usable; create partitions with [New], [Dissect] or
// [FromState].
type Partition struct {
	cells []Cell
	segs  []Segment
	index map[string]CellID
	live  int
}

// Item is an (ID, target size) pair used to build partitions.
type Item struct {
	ID   string
	Size float64
}

// New returns a partition holding a single cell that covers bounds.
func New(bounds geom.Rect, id string, size float64) (*Partition, error) {
	return Dissect(bounds, []Item{{ID: id, Size: size}})
}

// Len returns the number of live cells.
func (p *Partition) Len() int { return p.live }

// Has reports whether c names a live cell.
func (p *Partition) Has(c CellID) bool {
	return c >= 0 && int(c) < len(p.cells) && !p.cells[c].removed
}

// Cells returns the live cells in ID order.
func (p *Partition) Cells() []CellID {
	out := make([]CellID, 0, p.live)
	for i := range p.cells {
		if !p.cells[i].removed {
			out = append(out, CellID(i))
		}
	}
	return out
}

// Cell returns a copy of cell c. It panics if c is out of range.
func (p *Partition) Cell(c CellID) Cell { return p.cells[c] }

// Lookup returns the live cell with the given caller ID.
func (p *Partition) Lookup(id string) (CellID, bool) {
	c, ok := p.index[id]
	return c, ok
}

// Rect returns the rectangle of cell c.
func (p *Partition) Rect(c CellID) geom.Rect { return p.cells[c].Rect }

// SetRect replaces the rectangle of cell c without touching topology.
func (p *Partition) SetRect(c CellID, r geom.Rect) { p.cells[c].Rect = r }

// Size returns the target area of cell c.
func (p *Partition) Size(c CellID) float64 { return p.cells[c].Size }

// SetSize replaces the target area of cell c.
func (p *Partition) SetSize(c CellID, size float64) { p.cells[c].Size = size }

// Bound returns the boundary segment of c in direction d.
func (p *Partition) Bound(c CellID, d Direction) SegmentID { return p.cells[c].Bounds[d] }

// Segment returns segment s. The side slices alias internal storage and must
// not be modified.
func (p *Partition) Segment(s SegmentID) Segment { return p.segs[s] }

// Segments returns all segments that still have cells, in ID order.
func (p *Partition) Segments() []SegmentID {
	out := make([]SegmentID, 0, len(p.segs))
	for i, s := range p.segs {
		if s.Len() > 0 {
			out = append(out, SegmentID(i))
		}
	}
	return out
}

// SegmentsOf returns the distinct non-const segments bounding any of cells,
// in ascending ID order. Dead cells are skipped.
func (p *Partition) SegmentsOf(cells ...CellID) []SegmentID {
	var out []SegmentID
	for _, c := range cells {
		if !p.Has(c) {
			continue
		}
		for _, s := range p.cells[c].Bounds {
			if !p.segs[s].Const && !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Clone returns a fully independent deep copy. IDs are preserved.
func (p *Partition) Clone() *Partition {
	q := &Partition{
		cells: slices.Clone(p.cells),
		segs:  make([]Segment, len(p.segs)),
		index: make(map[string]CellID, len(p.index)),
		live:  p.live,
	}
	for i, s := range p.segs {
		q.segs[i] = Segment{
			Const:    s.Const,
			Vertical: s.Vertical,
			Side1:    slices.Clone(s.Side1),
			Side2:    slices.Clone(s.Side2),
		}
	}
	for k, v := range p.index {
		q.index[k] = v
	}
	return q
}

// Bounds returns the bounding rectangle of all live cells.
func (p *Partition) Bounds() geom.Rect {
	return p.BoundsOf(p.Cells())
}

// BoundsOf returns the bounding rectangle of the given cells.
func (p *Partition) BoundsOf(cells []CellID) geom.Rect {
	rs := make([]geom.Rect, len(cells))
	for i, c := range cells {
		rs[i] = p.cells[c].Rect
	}
	return geom.Bounds(rs...)
}

// Transform rescales and translates every cell from the current bounding
// rectangle into to. Topology and target sizes are unchanged.
func (p *Partition) Transform(to geom.Rect) {
	from := p.Bounds()
	for i := range p.cells {
		if !p.cells[i].removed {
			p.cells[i].Rect = p.cells[i].Rect.Transform(from, to)
		}
	}
}

// ScaleSizes rescales all target sizes so that they sum to the area of the
// bounding rectangle. Correction can only succeed for targets that do.
func (p *Partition) ScaleSizes() {
	var total float64
	for _, c := range p.Cells() {
		total += p.cells[c].Size
	}
	if total <= 0 {
		return
	}
	f := p.Bounds().Area() / total
	for _, c := range p.Cells() {
		p.cells[c].Size *= f
	}
}

// Worst returns the live cell with the largest aspect ratio, the first one
// in ID order on ties.
func (p *Partition) Worst() CellID {
	best, ar := CellID(-1), -1.0
	for _, c := range p.Cells() {
		if a := p.cells[c].Rect.AspectRatio(); a > ar {
			best, ar = c, a
		}
	}
	return best
}

func (p *Partition) String() string {
	return fmt.Sprintf("partition(%d cells, %d segments)", p.live, len(p.Segments()))
}

// =============================================================================
// Arena maintenance
// =============================================================================

func (p *Partition) addCell(id string, size float64) CellID {
	c := CellID(len(p.cells))
	p.cells = append(p.cells, Cell{
		ID:     id,
		Size:   size,
		Bounds: [4]SegmentID{NoSegment, NoSegment, NoSegment, NoSegment},
	})
	p.index[id] = c
	p.live++
	return c
}

func (p *Partition) newSegment(vertical, fixed bool) SegmentID {
	p.segs = append(p.segs, Segment{Const: fixed, Vertical: vertical})
	return SegmentID(len(p.segs) - 1)
}

// side returns the side list of s on which a cell bounded by s in direction d lives.
func (p *Partition) side(s SegmentID, d Direction) *[]CellID {
	if firstSide(d) {
		return &p.segs[s].Side1
	}
	return &p.segs[s].Side2
}

// attach makes s the boundary of c in direction d and registers c on s.
func (p *Partition) attach(c CellID, d Direction, s SegmentID) {
	p.cells[c].Bounds[d] = s
	list := p.side(s, d)
	*list = append(*list, c)
}

// detach unregisters c from its boundary in direction d.
func (p *Partition) detach(c CellID, d Direction) {
	s := p.cells[c].Bounds[d]
	if s == NoSegment {
		return
	}
	list := p.side(s, d)
	if i := slices.Index(*list, c); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
	}
	p.cells[c].Bounds[d] = NoSegment
}

// rebind moves c's boundary in direction d to segment s.
func (p *Partition) rebind(c CellID, d Direction, s SegmentID) {
	p.detach(c, d)
	p.attach(c, d, s)
}

func (p *Partition) unknown(c CellID) error {
	return fmt.Errorf("%w: %d", ErrUnknownCell, c)
}
