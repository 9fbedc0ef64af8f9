// Package geom provides the rectangle value type used by every layout stage.
//
// Coordinates follow a ground-plane convention: X grows to the right and Z
// grows upward (away from the viewer in 3D scenes). Width spans X and Depth
// spans Z. A [Rect] is a plain value, so copying it is a clone.
package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle anchored at its lower-left corner.
type Rect struct {
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// Area returns Width*Depth.
func (r Rect) Area() float64 { return r.Width * r.Depth }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Upper returns the Z coordinate of the upper edge.
func (r Rect) Upper() float64 { return r.Z + r.Depth }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterZ returns the depth center.
func (r Rect) CenterZ() float64 { return r.Z + r.Depth/2 }

// AspectRatio returns max(Width, Depth) / min(Width, Depth).
// Degenerate rectangles report +Inf.
func (r Rect) AspectRatio() float64 {
	lo, hi := math.Min(r.Width, r.Depth), math.Max(r.Width, r.Depth)
	if lo <= 0 {
		return math.Inf(1)
	}
	return hi / lo
}

// Positive reports whether both dimensions are strictly positive and finite.
func (r Rect) Positive() bool {
	return r.Width > 0 && r.Depth > 0 &&
		!math.IsInf(r.Width, 0) && !math.IsInf(r.Depth, 0) &&
		!math.IsNaN(r.X) && !math.IsNaN(r.Z)
}

// ApproxEqual reports whether all four components differ by at most eps.
func (r Rect) ApproxEqual(o Rect, eps float64) bool {
	return math.Abs(r.X-o.X) <= eps &&
		math.Abs(r.Z-o.Z) <= eps &&
		math.Abs(r.Width-o.Width) <= eps &&
		math.Abs(r.Depth-o.Depth) <= eps
}

// Transform maps r from the coordinate frame of from into the frame of to.
// Each axis is scaled independently: new = (old - from.origin) * to.size/from.size + to.origin.
func (r Rect) Transform(from, to Rect) Rect {
	sx, sz := to.Width/from.Width, to.Depth/from.Depth
	return Rect{
		X:     (r.X-from.X)*sx + to.X,
		Z:     (r.Z-from.Z)*sz + to.Z,
		Width: r.Width * sx,
		Depth: r.Depth * sz,
	}
}

// Inset shrinks r by pad on every side. It returns r unchanged and false if
// the result would not be positive.
func (r Rect) Inset(pad float64) (Rect, bool) {
	if pad <= 0 {
		return r, true
	}
	out := Rect{X: r.X + pad, Z: r.Z + pad, Width: r.Width - 2*pad, Depth: r.Depth - 2*pad}
	if out.Width <= 0 || out.Depth <= 0 {
		return r, false
	}
	return out, true
}

// String formats r as {x, z, width, depth}.
func (r Rect) String() string {
	return fmt.Sprintf("{%g, %g, %g, %g}", r.X, r.Z, r.Width, r.Depth)
}

// Bounds returns the smallest rectangle enclosing all rs.
// The zero Rect is returned for an empty input.
func Bounds(rs ...Rect) Rect {
	if len(rs) == 0 {
		return Rect{}
	}
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, r := range rs {
		minX = math.Min(minX, r.X)
		minZ = math.Min(minZ, r.Z)
		maxX = math.Max(maxX, r.Right())
		maxZ = math.Max(maxZ, r.Upper())
	}
	return Rect{X: minX, Z: minZ, Width: maxX - minX, Depth: maxZ - minZ}
}
