package partition

import "github.com/matzehuels/treemap/pkg/geom"

// axes describes a segment's frame of reference. "Along" runs parallel to
// the segment and "across" perpendicular to it; Side1 cells lie on the
// across-low side.
type axes struct{ vertical bool }

func (a axes) acrossLo() Direction {
	if a.vertical {
		return Left
	}
	return Lower
}

func (a axes) acrossHi() Direction {
	if a.vertical {
		return Right
	}
	return Upper
}

func (a axes) alongLo() Direction {
	if a.vertical {
		return Lower
	}
	return Left
}

func (a axes) alongHi() Direction {
	if a.vertical {
		return Upper
	}
	return Right
}

func (a axes) alongPos(r geom.Rect) float64 {
	if a.vertical {
		return r.Z
	}
	return r.X
}

func (a axes) alongLen(r geom.Rect) float64 {
	if a.vertical {
		return r.Depth
	}
	return r.Width
}

func (a axes) alongEnd(r geom.Rect) float64 { return a.alongPos(r) + a.alongLen(r) }

func (a axes) acrossPos(r geom.Rect) float64 {
	if a.vertical {
		return r.X
	}
	return r.Z
}

func (a axes) acrossLen(r geom.Rect) float64 {
	if a.vertical {
		return r.Width
	}
	return r.Depth
}

func (a axes) acrossEnd(r geom.Rect) float64 { return a.acrossPos(r) + a.acrossLen(r) }

func (a axes) rect(alongPos, alongLen, acrossPos, acrossLen float64) geom.Rect {
	if a.vertical {
		return geom.Rect{X: acrossPos, Z: alongPos, Width: acrossLen, Depth: alongLen}
	}
	return geom.Rect{X: alongPos, Z: acrossPos, Width: alongLen, Depth: acrossLen}
}
