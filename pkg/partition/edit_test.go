package partition

import (
	"errors"
	"fmt"
	"testing"

	perrors "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
)

func TestInsert_SplitsSingleCell(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 50)
	c, err := p.Insert("b", 50)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 5, Depth: 10},
		"b": {X: 5, Z: 0, Width: 5, Depth: 10},
	})
	if got := p.Size(c); got != 50 {
		t.Errorf("Size(b) = %v, want caller-supplied 50", got)
	}

	s := p.Bound(c, Left)
	seg := p.Segment(s)
	if seg.Const || !seg.Vertical {
		t.Errorf("new segment = %+v, want a non-const vertical segment", seg)
	}
	if a, _ := p.Lookup("a"); p.Bound(a, Right) != s {
		t.Error("a should be bounded on the right by the new segment")
	}
}

func TestInsert_SplitsDepthWhenDeeper(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 4, Depth: 10}, "a", 1)
	if _, err := p.Insert("b", 1); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 4, Depth: 5},
		"b": {X: 0, Z: 5, Width: 4, Depth: 5},
	})
}

func TestInsert_PicksWorstAspectRatio(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 1)
	if _, err := p.Insert("b", 1); err != nil {
		t.Fatal(err)
	}
	// Both halves are 5x10; the first one on ties is split.
	if _, err := p.Insert("c", 1); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 5, Depth: 5},
		"b": {X: 5, Z: 0, Width: 5, Depth: 10},
		"c": {X: 0, Z: 5, Width: 5, Depth: 5},
	})
	// b is now the worst cell.
	if _, err := p.Insert("d", 1); err != nil {
		t.Fatal(err)
	}
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 5, Depth: 5},
		"b": {X: 5, Z: 0, Width: 5, Depth: 5},
		"c": {X: 0, Z: 5, Width: 5, Depth: 5},
		"d": {X: 5, Z: 5, Width: 5, Depth: 5},
	})
	mustValidate(t, p)
}

func TestInsert_Errors(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 1)

	if _, err := p.Insert("a", 1); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Insert(dup) = %v, want ErrDuplicateID", err)
	}
	if _, err := p.Insert("b", 0); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Insert(size 0) = %v, want INVALID_INPUT", err)
	}
	if _, err := p.Insert("", 1); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Insert(empty id) = %v, want INVALID_INPUT", err)
	}
	if p.Len() != 1 {
		t.Errorf("failed inserts changed the partition: Len() = %d", p.Len())
	}
}

func TestRemove_RestoresSingleCell(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 50)
	b, err := p.Insert("b", 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Remove(b); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{"a": {Width: 10, Depth: 10}})
	if p.Has(b) {
		t.Error("removed cell is still live")
	}
	if _, ok := p.Lookup("b"); ok {
		t.Error("removed cell is still indexed")
	}
	if got := len(p.Segments()); got != 4 {
		t.Errorf("Segments() = %d, want only the frame", got)
	}
}

func TestRemove_Grounded(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 1)
	for _, id := range []string{"b", "c", "d"} {
		if _, err := p.Insert(id, 1); err != nil {
			t.Fatal(err)
		}
	}
	// c sits above a and is alone on its side of their shared boundary.
	if err := p.RemoveID("c"); err != nil {
		t.Fatalf("RemoveID(c) error: %v", err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"a": {X: 0, Z: 0, Width: 5, Depth: 10},
		"b": {X: 5, Z: 0, Width: 5, Depth: 5},
		"d": {X: 5, Z: 5, Width: 5, Depth: 5},
	})
}

func TestRemove_Ungrounded(t *testing.T) {
	p := pinwheel(t)
	e, _ := p.Lookup("E")
	if _, ok := p.grounded(e); ok {
		t.Fatal("pinwheel center should not be grounded")
	}

	if err := p.Remove(e); err != nil {
		t.Fatalf("Remove(E) error: %v", err)
	}
	mustValidate(t, p)
	wantRects(t, p, map[string]geom.Rect{
		"A": {X: 0, Z: 0, Width: 2, Depth: 1},
		"B": {X: 2, Z: 0, Width: 1, Depth: 2},
		"C": {X: 0, Z: 2, Width: 3, Depth: 1},
		"D": {X: 0, Z: 1, Width: 2, Depth: 1},
	})
}

func TestRemove_Errors(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 10, Depth: 10}, "a", 1)
	if err := p.Remove(0); !errors.Is(err, ErrLastCell) {
		t.Errorf("Remove(last) = %v, want ErrLastCell", err)
	}
	if err := p.Remove(7); !errors.Is(err, ErrUnknownCell) {
		t.Errorf("Remove(7) = %v, want ErrUnknownCell", err)
	}
	if err := p.RemoveID("nope"); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("RemoveID(nope) = %v, want NOT_FOUND", err)
	}
}

// Removing cells in reverse insertion order undoes each insert exactly.
func TestInsertRemove_RoundTrip(t *testing.T) {
	p := mustNew(t, geom.Rect{Width: 16, Depth: 9}, "c0", 1)
	var snapshots []map[string]geom.Rect
	var ids []CellID

	snap := func() map[string]geom.Rect {
		m := make(map[string]geom.Rect)
		for _, c := range p.Cells() {
			m[p.Cell(c).ID] = p.Rect(c)
		}
		return m
	}

	for i := 1; i <= 25; i++ {
		snapshots = append(snapshots, snap())
		c, err := p.Insert(fmt.Sprintf("c%d", i), 1)
		if err != nil {
			t.Fatalf("Insert(c%d) error: %v", i, err)
		}
		ids = append(ids, c)
		mustValidate(t, p)
	}

	for i := len(ids) - 1; i >= 0; i-- {
		if err := p.Remove(ids[i]); err != nil {
			t.Fatalf("Remove(%d) error: %v", ids[i], err)
		}
		mustValidate(t, p)
		want := snapshots[i]
		if p.Len() != len(want) {
			t.Fatalf("Len() = %d, want %d", p.Len(), len(want))
		}
		for id, r := range want {
			if got := rectOf(t, p, id); !got.ApproxEqual(r, 1e-4) {
				t.Errorf("step %d: cell %s = %v, want %v", i, id, got, r)
			}
		}
	}
}
