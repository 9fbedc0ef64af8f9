package correct

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
)

// relax runs Gauss-Newton iterations on the free segments of a region that
// cannot be sliced.
func (c *corrector) relax(cells []partition.CellID) bool {
	segs := c.free(cells)
	if len(segs) == 0 {
		return c.satisfied(cells)
	}
	col := make(map[partition.SegmentID]int, len(segs))
	for j, s := range segs {
		col[s] = j
	}

	for it := 0; it < c.opts.MaxIterations; it++ {
		if c.residual(cells) <= c.opts.Precision {
			break
		}
		jac := c.jacobian(cells, col)
		diff := mat.NewVecDense(len(cells), nil)
		for i, id := range cells {
			diff.SetVec(i, c.p.Size(id)-c.p.Rect(id).Area())
		}

		shift, ok := c.solve(jac, diff)
		if !ok {
			// Zero step: nothing more can be gained in this region.
			break
		}
		if !c.step(cells, segs, shift) {
			break
		}
		c.iterations++
	}
	return c.positive(cells) && c.residual(cells) <= c.opts.Precision
}

// jacobian returns the sensitivity of each cell's area to each free segment
// position. Moving a left or lower bound shrinks the cell; moving a right or
// upper bound grows it.
func (c *corrector) jacobian(cells []partition.CellID, col map[partition.SegmentID]int) *mat.Dense {
	jac := mat.NewDense(len(cells), len(col), nil)
	for i, id := range cells {
		r := c.p.Rect(id)
		for _, d := range partition.Directions {
			j, ok := col[c.p.Bound(id, d)]
			if !ok {
				continue
			}
			switch d {
			case partition.Left:
				jac.Set(i, j, -r.Depth)
			case partition.Right:
				jac.Set(i, j, r.Depth)
			case partition.Lower:
				jac.Set(i, j, -r.Width)
			case partition.Upper:
				jac.Set(i, j, r.Width)
			}
		}
	}
	return jac
}

// solve returns the minimum-norm least-squares solution of jac*x = diff. A
// singular system is retried once with a small random perturbation.
func (c *corrector) solve(jac *mat.Dense, diff *mat.VecDense) (*mat.VecDense, bool) {
	if x, ok := leastSquares(jac, diff); ok {
		return x, true
	}
	c.retries++
	c.opts.Logger.Debug("singular sensitivity matrix, retrying with perturbation")

	rows, cols := jac.Dims()
	scale := mat.Norm(jac, math.Inf(1))
	if scale == 0 {
		scale = 1
	}
	noisy := mat.NewDense(rows, cols, nil)
	noisy.Apply(func(_, _ int, v float64) float64 {
		return v + (2*c.rng.Float64()-1)*scale*1e-6
	}, jac)
	return leastSquares(noisy, diff)
}

func leastSquares(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, false
	}
	_, cols := a.Dims()
	x := mat.NewVecDense(cols, nil)
	svd.SolveVecTo(x, b, rank)
	for i := 0; i < cols; i++ {
		if v := x.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}
	return x, true
}

// step applies shift to the segments, halving it until every rectangle stays
// positive and the residual does not grow. It restores the region and
// reports false if no damping works.
func (c *corrector) step(cells []partition.CellID, segs []partition.SegmentID, shift *mat.VecDense) bool {
	saved := make([]geom.Rect, len(cells))
	for i, id := range cells {
		saved[i] = c.p.Rect(id)
	}
	before := c.residual(cells)

	factor := 1.0
	for range maxHalvings {
		for j, s := range segs {
			c.shift(s, factor*shift.AtVec(j))
		}
		if c.positive(cells) && c.residual(cells) <= before {
			return true
		}
		for i, id := range cells {
			c.p.SetRect(id, saved[i])
		}
		factor /= 2
	}
	return false
}

// shift moves segment s by v, resizing the cells on both of its sides.
func (c *corrector) shift(s partition.SegmentID, v float64) {
	seg := c.p.Segment(s)
	for _, id := range seg.Side1 {
		r := c.p.Rect(id)
		if seg.Vertical {
			r.Width += v
		} else {
			r.Depth += v
		}
		c.p.SetRect(id, r)
	}
	for _, id := range seg.Side2 {
		r := c.p.Rect(id)
		if seg.Vertical {
			r.X += v
			r.Width -= v
		} else {
			r.Z += v
			r.Depth -= v
		}
		c.p.SetRect(id, r)
	}
}
