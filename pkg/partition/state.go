package partition

import (
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

// State is a compact, serializable form of a partition. Only live cells and
// segments are kept and both are renumbered densely.
type State struct {
	Cells    []CellState    `json:"cells"`
	Segments []SegmentState `json:"segments"`
}

// CellState is one cell of a [State]. Boundaries index State.Segments.
type CellState struct {
	ID    string    `json:"id"`
	Rect  geom.Rect `json:"rect"`
	Size  float64   `json:"size"`
	Left  int       `json:"left"`
	Right int       `json:"right"`
	Lower int       `json:"lower"`
	Upper int       `json:"upper"`
}

// SegmentState is one segment of a [State]. Its sides are implied by the
// cells' boundaries.
type SegmentState struct {
	Vertical bool `json:"vertical"`
	Const    bool `json:"const,omitempty"`
}

// State exports the partition.
func (p *Partition) State() State {
	remap := make(map[SegmentID]int)
	var st State
	for _, s := range p.Segments() {
		remap[s] = len(st.Segments)
		st.Segments = append(st.Segments, SegmentState{Vertical: p.segs[s].Vertical, Const: p.segs[s].Const})
	}
	for _, c := range p.Cells() {
		cell := p.cells[c]
		st.Cells = append(st.Cells, CellState{
			ID:    cell.ID,
			Rect:  cell.Rect,
			Size:  cell.Size,
			Left:  remap[cell.Bounds[Left]],
			Right: remap[cell.Bounds[Right]],
			Lower: remap[cell.Bounds[Lower]],
			Upper: remap[cell.Bounds[Upper]],
		})
	}
	return st
}

// FromState rebuilds a partition from st and validates it.
func FromState(st State) (*Partition, error) {
	if len(st.Cells) == 0 {
		return nil, ErrNoItems
	}
	p := &Partition{index: make(map[string]CellID, len(st.Cells))}
	for _, s := range st.Segments {
		p.newSegment(s.Vertical, s.Const)
	}
	for _, cs := range st.Cells {
		if err := errors.ValidateCellID(cs.ID); err != nil {
			return nil, err
		}
		if _, dup := p.index[cs.ID]; dup {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, ErrDuplicateID, "cell %q", cs.ID)
		}
		c := p.addCell(cs.ID, cs.Size)
		p.cells[c].Rect = cs.Rect
		bounds := [4]int{Left: cs.Left, Right: cs.Right, Lower: cs.Lower, Upper: cs.Upper}
		for _, d := range Directions {
			s := bounds[d]
			if s < 0 || s >= len(p.segs) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "cell %q: %s segment %d out of range", cs.ID, d, s)
			}
			p.attach(c, d, SegmentID(s))
		}
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "partition state")
	}
	return p, nil
}
