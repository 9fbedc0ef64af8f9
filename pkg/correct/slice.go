package correct

import (
	"math"

	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

// sliceable returns the first free segment of the region whose extremal
// cells end on fixed boundaries, so that it cuts the region in two.
func (c *corrector) sliceable(cells []partition.CellID) (partition.SegmentID, bool) {
	for _, s := range c.free(cells) {
		seg := c.p.Segment(s)
		side := seg.Side1
		if len(side) == 0 {
			side = seg.Side2
		}
		if len(side) == 0 {
			continue
		}

		lo, hi := side[0], side[0]
		for _, id := range side[1:] {
			r := c.p.Rect(id)
			if alongPos(r, seg.Vertical) < alongPos(c.p.Rect(lo), seg.Vertical) {
				lo = id
			}
			if alongEnd(r, seg.Vertical) > alongEnd(c.p.Rect(hi), seg.Vertical) {
				hi = id
			}
		}

		loDir, hiDir := partition.Lower, partition.Upper
		if !seg.Vertical {
			loDir, hiDir = partition.Left, partition.Right
		}
		if c.fixed(c.p.Bound(lo, loDir)) && c.fixed(c.p.Bound(hi, hiDir)) {
			return s, true
		}
	}
	return partition.NoSegment, false
}

// split divides the region by the position of s: cells whose centre lies
// before it go to lo, the rest to hi.
func (c *corrector) split(cells []partition.CellID, s partition.SegmentID) (lo, hi []partition.CellID) {
	cut := c.position(s)
	vertical := c.p.Segment(s).Vertical
	for _, id := range cells {
		r := c.p.Rect(id)
		centre := r.CenterZ()
		if vertical {
			centre = r.CenterX()
		}
		if centre < cut {
			lo = append(lo, id)
		} else {
			hi = append(hi, id)
		}
	}
	return lo, hi
}

// adjustSliced moves the cut so each side gets its share of the region's
// area, rescaling the cells on both sides into their new bounding boxes.
func (c *corrector) adjustSliced(cells, lo, hi []partition.CellID, s partition.SegmentID) {
	vertical := c.p.Segment(s).Vertical
	region := c.p.BoundsOf(cells)
	sizeLo, sizeHi := c.sum(lo), c.sum(hi)

	var cut float64
	if vertical {
		cut = region.X + region.Width*sizeLo/(sizeLo+sizeHi)
	} else {
		cut = region.Z + region.Depth*sizeLo/(sizeLo+sizeHi)
	}

	toLo, toHi := region, region
	if vertical {
		toLo.Width = cut - region.X
		toHi.X, toHi.Width = cut, region.Right()-cut
	} else {
		toLo.Depth = cut - region.Z
		toHi.Z, toHi.Depth = cut, region.Upper()-cut
	}
	c.rescale(lo, toLo)
	c.rescale(hi, toHi)
}

func (c *corrector) rescale(cells []partition.CellID, to geom.Rect) {
	from := c.p.BoundsOf(cells)
	for _, id := range cells {
		c.p.SetRect(id, c.p.Rect(id).Transform(from, to))
	}
}

func (c *corrector) sum(cells []partition.CellID) float64 {
	var total float64
	for _, id := range cells {
		total += c.p.Size(id)
	}
	return total
}

// position returns the coordinate of s, read from any adjacent cell.
func (c *corrector) position(s partition.SegmentID) float64 {
	seg := c.p.Segment(s)
	if len(seg.Side1) > 0 {
		r := c.p.Rect(seg.Side1[0])
		if seg.Vertical {
			return r.Right()
		}
		return r.Upper()
	}
	if len(seg.Side2) > 0 {
		r := c.p.Rect(seg.Side2[0])
		if seg.Vertical {
			return r.X
		}
		return r.Z
	}
	return math.NaN()
}

func alongPos(r geom.Rect, vertical bool) float64 {
	if vertical {
		return r.Z
	}
	return r.X
}

func alongEnd(r geom.Rect, vertical bool) float64 {
	if vertical {
		return r.Upper()
	}
	return r.Right()
}
