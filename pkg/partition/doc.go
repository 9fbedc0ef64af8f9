// Package partition provides the mutable rectangle partition at the heart of
// the incremental treemap engine.
//
// # Overview
//
// A [Partition] divides a bounding rectangle into cells, one per item. Every
// cell stores its rectangle, a target area ([Cell.Size]) and one boundary
// segment per [Direction]. Segments are maximal straight boundaries shared by
// the cells on either side of them. Together the cells and segments form a
// rectangular dual: a planar subdivision where every junction is a T.
//
//	+-------+-----------+
//	|       |     b     |
//	|   a   +-----+-----+      segment s (vertical) has
//	|       |  c  |  d  |        Side1 = [a]     (s is their Right)
//	+-------+-----+-----+        Side2 = [b, c]  (s is their Left)
//
// Segments on the outer frame are marked [Segment.Const]; they never move and
// have cells on one side only. Every other segment has at least one cell on
// each side.
//
// # Arena Layout
//
// Cells and segments live in two slices and refer to each other through
// [CellID] and [SegmentID] indices. Removing a cell only marks its slot dead,
// so identifiers stay stable for the lifetime of a partition and of its
// clones. This is what lets a search evaluate a [Move] found on one partition
// against any [Partition.Clone] of it.
//
// # Edits
//
//   - [Partition.Insert] splits the cell with the worst aspect ratio in half
//     and gives the new half to the new cell.
//   - [Partition.Remove] lets a grounded neighbour side absorb the cell, or
//     first applies stretch moves until such a side exists.
//   - [Partition.Apply] performs a local [Move]: a Flip re-splits a two-cell
//     block along the other axis, a Stretch slides the end of a segment.
//
// Edits change topology and rectangles but never try to hit target sizes;
// that is the job of package correct.
//
// # Consistency
//
// [Partition.Validate] checks every structural rule without changing state:
// positive rectangles, registration symmetry between cells and segments,
// coincident coordinates and exact tiling of the bounding rectangle. The
// engine calls it after every edit in debug mode.
//
// A Partition is not safe for concurrent mutation. Concurrent reads,
// including [Partition.Clone], are safe.
package partition
