package partition

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

// Dissect builds a slicing partition of bounds with one cell per item.
//
// Items are ordered by size, largest first, and split into two runs of
// nearly equal total size. The rectangle is cut across its longer side in
// proportion to the two totals and each half is dissected recursively. The
// four frame segments are const and every cut is a non-const segment shared
// by all cells along it.
//
// Cell areas are proportional to item sizes, so they equal the sizes exactly
// when the sizes sum to the area of bounds.
func Dissect(bounds geom.Rect, items []Item) (*Partition, error) {
	if !bounds.Positive() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bounds must be positive, got %v", bounds)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := errors.ValidateCellID(it.ID); err != nil {
			return nil, err
		}
		if err := errors.ValidateSize(it.Size); err != nil {
			return nil, fmt.Errorf("cell %q: %w", it.ID, err)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = true
	}

	p := &Partition{index: make(map[string]CellID, len(items))}
	var frame [4]SegmentID
	for _, d := range Directions {
		frame[d] = p.newSegment(d.Vertical(), true)
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int { return cmp.Compare(b.Size, a.Size) })
	p.dissect(bounds, sorted, frame)
	return p, nil
}

func (p *Partition) dissect(r geom.Rect, items []Item, frame [4]SegmentID) {
	if len(items) == 1 {
		c := p.addCell(items[0].ID, items[0].Size)
		p.cells[c].Rect = r
		for _, d := range Directions {
			p.attach(c, d, frame[d])
		}
		return
	}

	k, first, total := splitIndex(items)
	ax := axes{vertical: r.Width >= r.Depth}
	s := p.newSegment(ax.vertical, false)

	cut := ax.acrossLen(r) * first / total
	lo := ax.rect(ax.alongPos(r), ax.alongLen(r), ax.acrossPos(r), cut)
	hi := ax.rect(ax.alongPos(r), ax.alongLen(r), ax.acrossPos(r)+cut, ax.acrossLen(r)-cut)

	loFrame, hiFrame := frame, frame
	loFrame[ax.acrossHi()] = s
	hiFrame[ax.acrossLo()] = s
	p.dissect(lo, items[:k], loFrame)
	p.dissect(hi, items[k:], hiFrame)
}

// splitIndex returns the k in [1, len(items)) whose prefix sum is closest to
// half of the total, with the prefix and total sums.
func splitIndex(items []Item) (k int, prefix, total float64) {
	for _, it := range items {
		total += it.Size
	}
	bestDiff := math.Inf(1)
	var run float64
	for i := 1; i < len(items); i++ {
		run += items[i-1].Size
		if diff := math.Abs(2*run - total); diff < bestDiff {
			k, prefix, bestDiff = i, run, diff
		}
	}
	return k, prefix, total
}
