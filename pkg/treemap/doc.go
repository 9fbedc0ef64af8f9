// Package treemap lays out a hierarchy of weighted items as nested
// rectangles and keeps the layout stable across revisions of the hierarchy.
//
// # Overview
//
// Each group of siblings is one [partition.Partition] inside its parent's
// rectangle. The first layout of a group is a proportional dissection. When
// the hierarchy changes, a group whose items mostly existed before under a
// single parent is updated in place instead:
//
//  1. the previous partition is cloned and scaled into the new rectangle
//  2. obsolete cells are removed and the survivors corrected
//  3. new items are inserted, then all areas corrected
//  4. a short local search improves aspect ratios
//
// Cells that survive keep their relative position, which is what makes the
// layout readable across revisions.
//
// # Engine
//
// [Engine] wraps the partition operations with logging, observability hooks
// and, in debug mode, an invariant check after every edit:
//
//	eng := treemap.New(treemap.DefaultOptions())
//	l, err := eng.Layout(nil, roots, geom.Rect{Width: 100, Depth: 100})
//	...
//	next, err := eng.Layout(l, updatedRoots, geom.Rect{Width: 100, Depth: 100})
//
// [Layout.Place] flattens a layout into padded placements ready for
// rendering; [Layout.Snapshot] and [Restore] persist it between runs.
package treemap
