// Package pane implements the tiling engine: a binary tree of rectangular
// panes supporting split, close, resize, layout and directional navigation.
// The tree knows pane ids only; what a pane shows is the caller's concern.
package pane

import "math"

// ID is a process-unique handle for one pane. IDs are never reused while
// the tree, the pane map, or a watcher still references them.
type ID int

// Orientation selects how a split divides its area. Horizontal stacks the
// first child above the second; Vertical places the first child to the left.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// PaneRect pairs a leaf id with its computed rectangle.
type PaneRect struct {
	ID   ID
	Rect Rect
}

// node is either a leaf (split == nil) or an interior split.
type node struct {
	id    ID
	split *splitNode
}

type splitNode struct {
	orient Orientation
	ratio  float64 // share of the first child, position of the divider
	first  *node
	second *node
}

// Tree manages a pane layout tree with automatic id generation. The tree
// always contains at least one leaf.
type Tree struct {
	root   *node
	nextID ID
}

// NewTree returns a tree holding a single leaf with id 1.
func NewTree() *Tree {
	return &Tree{root: &node{id: 1}, nextID: 2}
}

// NewTreeWithRoot returns a tree whose single leaf carries an
// externally-allocated id.
func NewTreeWithRoot(id ID) *Tree {
	return &Tree{root: &node{id: id}, nextID: id + 1}
}

// Split replaces the target leaf with a split node: the original leaf
// becomes the first child, a new leaf with a freshly allocated id becomes
// the second. The divider starts at 0.5. Returns the new id, or false if
// target is not a current leaf.
func (t *Tree) Split(target ID, orient Orientation) (ID, bool) {
	newID := t.nextID
	if !t.root.splitAt(target, orient, newID, 0.5) {
		return 0, false
	}
	t.nextID++
	return newID, true
}

// SplitWithID splits using an externally-allocated pane id, for callers
// that manage a global id space across multiple trees.
func (t *Tree) SplitWithID(target ID, orient Orientation, newID ID) bool {
	return t.root.splitAt(target, orient, newID, 0.5)
}

// SplitWithIDRatio is SplitWithID with a custom initial divider position.
func (t *Tree) SplitWithIDRatio(target ID, orient Orientation, newID ID, ratio float64) bool {
	return t.root.splitAt(target, orient, newID, ratio)
}

// Close removes the target leaf and promotes its sibling subtree into the
// parent's place. Returns the id of the first depth-first leaf of the
// promoted sibling, which should receive focus next. Closing the last
// remaining leaf is a no-op and returns false.
func (t *Tree) Close(target ID) (ID, bool) {
	if t.root.split == nil {
		return 0, false
	}
	return t.root.closeLeaf(target)
}

// Resize moves the divider of the split directly containing the target
// leaf. Growing the first child raises the ratio, growing the second
// lowers it; the ratio is clamped to [0.1, 0.9].
func (t *Tree) Resize(target ID, amount float64, grow bool) bool {
	return t.root.resizeAt(target, amount, grow)
}

// LeafIDs returns all leaf ids in depth-first, first-child-first order.
// This order is the focus cycling order and is stable between mutations.
func (t *Tree) LeafIDs() []ID {
	var out []ID
	t.root.collectLeafIDs(&out)
	return out
}

// Layout partitions area over all leaves and returns one rectangle per
// leaf in depth-first order. Rounding remainders go to the second child;
// zero-sized rectangles are legal and simply render nothing.
func (t *Tree) Layout(area Rect) []PaneRect {
	var out []PaneRect
	t.root.layoutInto(area, &out)
	return out
}

// Contains reports whether id is a current leaf.
func (t *Tree) Contains(id ID) bool {
	return t.root.containsLeaf(id)
}

func (n *node) containsLeaf(target ID) bool {
	if n.split == nil {
		return n.id == target
	}
	return n.split.first.containsLeaf(target) || n.split.second.containsLeaf(target)
}

func (n *node) splitAt(target ID, orient Orientation, newID ID, ratio float64) bool {
	if n.split == nil {
		if n.id != target {
			return false
		}
		old := &node{id: n.id}
		n.id = 0
		n.split = &splitNode{
			orient: orient,
			ratio:  ratio,
			first:  old,
			second: &node{id: newID},
		}
		return true
	}
	if n.split.first.containsLeaf(target) {
		return n.split.first.splitAt(target, orient, newID, ratio)
	}
	if n.split.second.containsLeaf(target) {
		return n.split.second.splitAt(target, orient, newID, ratio)
	}
	return false
}

func (n *node) closeLeaf(target ID) (ID, bool) {
	if n.split == nil {
		return 0, false
	}
	first, second := n.split.first, n.split.second
	if first.split == nil && first.id == target {
		*n = *second
		return n.firstLeafID(), true
	}
	if second.split == nil && second.id == target {
		*n = *first
		return n.firstLeafID(), true
	}
	if id, ok := first.closeLeaf(target); ok {
		return id, true
	}
	return second.closeLeaf(target)
}

func (n *node) firstLeafID() ID {
	if n.split == nil {
		return n.id
	}
	return n.split.first.firstLeafID()
}

func (n *node) resizeAt(target ID, amount float64, grow bool) bool {
	if n.split == nil {
		return false
	}
	first, second := n.split.first, n.split.second
	directFirst := first.split == nil && first.id == target
	directSecond := second.split == nil && second.id == target
	if directFirst || directSecond {
		applied := amount
		if directFirst != grow {
			applied = -amount
		}
		n.split.ratio = clampRatio(n.split.ratio + applied)
		return true
	}
	if first.resizeAt(target, amount, grow) {
		return true
	}
	return second.resizeAt(target, amount, grow)
}

func clampRatio(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

func (n *node) collectLeafIDs(out *[]ID) {
	if n.split == nil {
		*out = append(*out, n.id)
		return
	}
	n.split.first.collectLeafIDs(out)
	n.split.second.collectLeafIDs(out)
}

func (n *node) layoutInto(area Rect, out *[]PaneRect) {
	if n.split == nil {
		*out = append(*out, PaneRect{ID: n.id, Rect: area})
		return
	}
	firstArea, secondArea := splitRect(area, n.split.orient, n.split.ratio)
	n.split.first.layoutInto(firstArea, out)
	n.split.second.layoutInto(secondArea, out)
}

// splitRect divides area at the given ratio. The first rectangle gets
// round(extent*ratio); the second gets the remainder.
func splitRect(area Rect, orient Orientation, ratio float64) (Rect, Rect) {
	switch orient {
	case Horizontal:
		firstHeight := int(math.Round(float64(area.Height) * ratio))
		secondHeight := area.Height - firstHeight
		if secondHeight < 0 {
			secondHeight = 0
		}
		return Rect{X: area.X, Y: area.Y, Width: area.Width, Height: firstHeight},
			Rect{X: area.X, Y: area.Y + firstHeight, Width: area.Width, Height: secondHeight}
	default:
		firstWidth := int(math.Round(float64(area.Width) * ratio))
		secondWidth := area.Width - firstWidth
		if secondWidth < 0 {
			secondWidth = 0
		}
		return Rect{X: area.X, Y: area.Y, Width: firstWidth, Height: area.Height},
			Rect{X: area.X + firstWidth, Y: area.Y, Width: secondWidth, Height: area.Height}
	}
}
