package treemap

import (
	"sort"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

// Snapshot is the serializable form of a [Layout]. It keeps the segment
// graph of every group so a later run can update the layout incrementally.
type Snapshot struct {
	Bounds geom.Rect       `json:"bounds"`
	Groups []GroupSnapshot `json:"groups"`
}

// GroupSnapshot is one sibling group of a [Snapshot].
type GroupSnapshot struct {
	Parent string          `json:"parent"`
	State  partition.State `json:"state"`
}

// Snapshot exports l. Groups are ordered by parent ID.
func (l *Layout) Snapshot() Snapshot {
	parents := make([]string, 0, len(l.Groups))
	for parent := range l.Groups {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	s := Snapshot{Bounds: l.Bounds}
	for _, parent := range parents {
		s.Groups = append(s.Groups, GroupSnapshot{Parent: parent, State: l.Groups[parent].State()})
	}
	return s
}

// Restore rebuilds a layout from a snapshot, validating every group and the
// nesting of groups inside their parents.
func Restore(s Snapshot) (*Layout, error) {
	if !s.Bounds.Positive() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "snapshot bounds %v must have positive size", s.Bounds)
	}
	l := newLayout(s.Bounds)
	for _, g := range s.Groups {
		if _, dup := l.Groups[g.Parent]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "group %q appears more than once", g.Parent)
		}
		p, err := partition.FromState(g.State)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "group %q", g.Parent)
		}
		l.Groups[g.Parent] = p
		for _, c := range p.Cells() {
			id := p.Cell(c).ID
			if _, dup := l.Rects[id]; dup {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "item %q appears in more than one group", id)
			}
			l.Rects[id] = p.Rect(c)
			l.Parent[id] = g.Parent
		}
	}

	if _, ok := l.Groups[RootGroup]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "snapshot has no root group")
	}
	for parent, p := range l.Groups {
		want := l.Bounds
		if parent != RootGroup {
			r, ok := l.Rects[parent]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "group parent %q is not an item", parent)
			}
			want = r
		}
		tol := 1e-6 * max(want.Width, want.Depth)
		if got := p.Bounds(); !got.ApproxEqual(want, tol) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "group %q covers %v, want %v", parent, got, want)
		}
	}

	reached := 0
	l.Walk(func(string, string, int) { reached++ })
	if reached != l.Len() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%d items are not reachable from the root group", l.Len()-reached)
	}
	return l, nil
}
