package treemap

import (
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/treemap/pkg/search"
)

// GroupReport describes the health of one sibling group.
type GroupReport struct {
	Parent      string
	Cells       int
	Segments    int
	Score       float64 // Aspect ratio score, see search.Score
	MaxResidual float64 // Largest |area - size| over the group's cells
	Err         error   // Invariant violation, if any
}

// Check validates every group and scores it with the given p-norm. Reports
// are ordered by parent ID.
func (l *Layout) Check(pNorm float64) []GroupReport {
	parents := make([]string, 0, len(l.Groups))
	for parent := range l.Groups {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	reports := make([]GroupReport, 0, len(parents))
	for _, parent := range parents {
		p := l.Groups[parent]
		r := GroupReport{
			Parent:   parent,
			Cells:    p.Len(),
			Segments: len(p.Segments()),
			Score:    search.Score(p, pNorm),
			Err:      p.Validate(),
		}
		for _, c := range p.Cells() {
			r.MaxResidual = math.Max(r.MaxResidual, math.Abs(p.Rect(c).Area()-p.Size(c)))
		}
		reports = append(reports, r)
	}
	return reports
}

// Validate returns the first invariant violation of any group.
func (l *Layout) Validate() error {
	for _, r := range l.Check(math.Inf(1)) {
		if r.Err != nil {
			return fmt.Errorf("group %q: %w", r.Parent, r.Err)
		}
	}
	return nil
}
