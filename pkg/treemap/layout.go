package treemap

import (
	"fmt"
	"time"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

// RootGroup keys the group of top-level items in [Layout.Groups].
const RootGroup = ""

// Layout is the result of laying out a hierarchy. Rectangles are unpadded;
// a group's cells exactly tile its parent's rectangle.
type Layout struct {
	Bounds geom.Rect
	Rects  map[string]geom.Rect            // Item ID to rectangle
	Parent map[string]string               // Item ID to parent ID; RootGroup for top-level items
	Groups map[string]*partition.Partition // Parent ID to the partition of its children
}

func newLayout(bounds geom.Rect) *Layout {
	return &Layout{
		Bounds: bounds,
		Rects:  make(map[string]geom.Rect),
		Parent: make(map[string]string),
		Groups: make(map[string]*partition.Partition),
	}
}

// Len returns the number of items in the layout.
func (l *Layout) Len() int { return len(l.Rects) }

// Stats summarizes how a layout was produced.
type Stats struct {
	Groups      int // Sibling groups laid out
	Incremental int // Groups updated from the previous layout
	Fallbacks   int // Incremental updates abandoned for a fresh dissection
	Inserted    int
	Removed     int
	Moves       int // Local moves committed by the quality search
	Duration    time.Duration
}

// Layout lays out roots in bounds. If prev is non-nil, groups that mostly
// existed in prev are updated incrementally so that surviving items keep
// their relative positions.
func (e *Engine) Layout(prev *Layout, roots []Item, bounds geom.Rect) (*Layout, error) {
	l, _, err := e.LayoutStats(prev, roots, bounds)
	return l, err
}

// LayoutStats is [Engine.Layout] that also reports what was done.
func (e *Engine) LayoutStats(prev *Layout, roots []Item, bounds geom.Rect) (*Layout, Stats, error) {
	start := time.Now()
	var st Stats
	if err := errors.ValidateDimension("layout width", bounds.Width); err != nil {
		return nil, st, err
	}
	if err := errors.ValidateDimension("layout depth", bounds.Depth); err != nil {
		return nil, st, err
	}
	if err := ValidateItems(roots); err != nil {
		return nil, st, err
	}

	out := newLayout(bounds)
	if err := e.layoutGroup(prev, RootGroup, roots, bounds, out, &st); err != nil {
		return nil, st, err
	}
	st.Duration = time.Since(start)
	e.logger.Debug("layout complete",
		"items", out.Len(),
		"groups", st.Groups,
		"incremental", st.Incremental,
		"fallbacks", st.Fallbacks,
		"duration", st.Duration)
	return out, st, nil
}

func (e *Engine) layoutGroup(prev *Layout, parent string, siblings []Item, rect geom.Rect, out *Layout, st *Stats) error {
	p, err := e.group(prev, parent, siblings, rect, st)
	if err != nil {
		return fmt.Errorf("group %q: %w", parent, err)
	}
	st.Groups++
	out.Groups[parent] = p
	for _, c := range p.Cells() {
		out.Rects[p.Cell(c).ID] = p.Rect(c)
	}
	for _, it := range siblings {
		out.Parent[it.ID] = parent
		if it.Leaf() {
			continue
		}
		if err := e.layoutGroup(prev, it.ID, it.Children, out.Rects[it.ID], out, st); err != nil {
			return err
		}
	}
	return nil
}

// targets returns the siblings as partition items whose sizes share out the
// area of rect by weight.
func targets(siblings []Item, rect geom.Rect) []partition.Item {
	var total float64
	for _, it := range siblings {
		total += it.Weight()
	}
	items := make([]partition.Item, len(siblings))
	for i, it := range siblings {
		items[i] = partition.Item{ID: it.ID, Size: it.Weight() * rect.Area() / total}
	}
	return items
}

func (e *Engine) group(prev *Layout, parent string, siblings []Item, rect geom.Rect, st *Stats) (*partition.Partition, error) {
	items := targets(siblings, rect)

	if old, ok := e.reusable(prev, siblings); ok {
		p, err := e.incremental(old, items, rect, st)
		if err == nil {
			st.Incremental++
			return p, nil
		}
		if e.opts.Debug && errors.Is(err, errors.ErrCodeInvariant) {
			return nil, err
		}
		st.Fallbacks++
		e.logger.Warn("incremental layout failed, dissecting", "group", parent, "err", err)
	}
	return e.Dissect(rect, items)
}

// reusable returns the previous partition of the siblings if enough of them
// existed before and all under the same parent.
func (e *Engine) reusable(prev *Layout, siblings []Item) (*partition.Partition, bool) {
	if prev == nil {
		return nil, false
	}
	survivors := 0
	parents := make(map[string]bool)
	for _, it := range siblings {
		if parent, ok := prev.Parent[it.ID]; ok {
			survivors++
			parents[parent] = true
		}
	}
	if survivors < e.opts.ReuseThreshold || len(parents) != 1 {
		return nil, false
	}
	var parent string
	for p := range parents {
		parent = p
	}
	old, ok := prev.Groups[parent]
	return old, ok
}

// incremental updates a clone of old to hold exactly items inside rect.
func (e *Engine) incremental(old *partition.Partition, items []partition.Item, rect geom.Rect, st *Stats) (*partition.Partition, error) {
	p := old.Clone()
	p.Transform(rect)

	want := make(map[string]float64, len(items))
	for _, it := range items {
		want[it.ID] = it.Size
	}

	var obsolete []partition.CellID
	for _, c := range p.Cells() {
		if size, ok := want[p.Cell(c).ID]; ok {
			p.SetSize(c, size)
		} else {
			obsolete = append(obsolete, c)
		}
	}
	for _, c := range obsolete {
		if err := e.Remove(p, c); err != nil {
			return nil, err
		}
		st.Removed++
	}

	// Survivors share the whole rectangle until the new items arrive.
	p.ScaleSizes()
	e.CorrectAreas(p)

	for _, it := range items {
		if _, ok := p.Lookup(it.ID); ok {
			continue
		}
		if _, err := e.Insert(p, it.ID, it.Size); err != nil {
			return nil, err
		}
		st.Inserted++
	}
	for _, it := range items {
		c, _ := p.Lookup(it.ID)
		p.SetSize(c, it.Size)
	}

	if !e.CorrectAreas(p) {
		return nil, errors.New(errors.ErrCodeCorrectionShortfall, "areas of %d cells not reached", p.Len())
	}
	res := e.ImproveQuality(p)
	st.Moves += len(res.Moves)

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvariant, err, "incremental update")
	}
	return p, nil
}
