package treemap

import (
	"fmt"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Item is a node of the input hierarchy. Leaves carry a size; inner items
// weigh as much as their children together and their own Size is ignored.
type Item struct {
	ID       string  `json:"id" toml:"id"`
	Size     float64 `json:"size,omitempty" toml:"size,omitempty"`
	Children []Item  `json:"children,omitempty" toml:"children,omitempty"`
}

// Leaf reports whether the item has no children.
func (it Item) Leaf() bool { return len(it.Children) == 0 }

// Weight returns the leaf size or the summed weight of the children.
func (it Item) Weight() float64 {
	if it.Leaf() {
		return it.Size
	}
	var w float64
	for _, c := range it.Children {
		w += c.Weight()
	}
	return w
}

// Count returns the number of items in the subtree, including it.
func (it Item) Count() int {
	n := 1
	for _, c := range it.Children {
		n += c.Count()
	}
	return n
}

// ValidateItems checks that roots form a non-empty hierarchy with valid,
// globally unique IDs and valid leaf sizes.
func ValidateItems(roots []Item) error {
	if len(roots) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no items to lay out")
	}
	seen := make(map[string]bool)
	var walk func(items []Item, path string) error
	walk = func(items []Item, path string) error {
		for _, it := range items {
			if err := errors.ValidateCellID(it.ID); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if seen[it.ID] {
				return errors.New(errors.ErrCodeDuplicateID, "item %q appears more than once", it.ID)
			}
			seen[it.ID] = true
			if it.Leaf() {
				if err := errors.ValidateSize(it.Size); err != nil {
					return fmt.Errorf("item %q: %w", it.ID, err)
				}
				continue
			}
			if err := walk(it.Children, path+"/"+it.ID); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(roots, "items")
}
