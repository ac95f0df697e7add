package rbtree

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cyraxred/primset/internal"
	"github.com/pkg/errors"
)

// Coloring chooses which levels of a rebuilt tree are painted red.
//
// More red nodes make the following removals cheaper and the following
// insertions more expensive, and vice versa.
type Coloring int

const (
	// ColoringBalanced paints every fourth level red.
	ColoringBalanced Coloring = iota
	// ColoringForAdd paints all the levels black, except the forced ones.
	ColoringForAdd
	// ColoringForRemove paints every second level red.
	ColoringForRemove
)

// RedLevelPeriod returns the distance between two red levels; 0 means none.
func (c Coloring) RedLevelPeriod() int {
	switch c {
	case ColoringForAdd:
		return 0
	case ColoringForRemove:
		return 2
	default:
		return 4
	}
}

func (c Coloring) String() string {
	switch c {
	case ColoringForAdd:
		return "add"
	case ColoringForRemove:
		return "remove"
	case ColoringBalanced:
		return "balanced"
	}
	return fmt.Sprintf("Coloring(%d)", int(c))
}

// ParseColoring converts the output of Coloring.String() back.
func ParseColoring(name string) (Coloring, error) {
	switch strings.ToLower(name) {
	case "add":
		return ColoringForAdd, nil
	case "remove":
		return ColoringForRemove, nil
	case "balanced", "":
		return ColoringBalanced, nil
	}
	return ColoringBalanced, errors.Errorf("unknown coloring %q, must be one of add, remove, balanced", name)
}

// Build replaces the contents of the tree with the given keys in linear time.
// The keys must be strictly ascending, otherwise ErrUnsortedInput is returned
// and the tree is left intact.
func (tree *RBTree[K]) Build(keys []K, coloring Coloring) error {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			return errors.Wrapf(ErrUnsortedInput, "key #%d (%d) follows %d", i, keys[i], keys[i-1])
		}
	}
	tree.rebuild(keys, coloring)
	return nil
}

// Compact rebuilds the tree from its own contents. Afterwards the node ids are
// contiguous, there are no free slots and the storage fits the keys.
func (tree *RBTree[K]) Compact(coloring Coloring) {
	keys := make([]K, 0, tree.count)
	a := &tree.allocator
	for iter := tree.Nodes(); iter.Next(); {
		keys = append(keys, a.keys[iter.Node()])
	}
	tree.rebuild(keys, coloring)
}

func (tree *RBTree[K]) rebuild(keys []K, coloring Coloring) {
	n := len(keys)
	checkNodeLimit(uint64(n) + 1)
	a := newAllocator[K](n + 1)
	copy(a.keys[1:], keys)
	a.frontier = uint32(n + 1)
	colors := levelColors(n, coloring)
	tree.allocator = a
	tree.root = tree.link(1, n, 0, 0, colors)
	tree.count = n
	tree.modCount++
	tree.check()
}

// link makes a subtree of the ids [offset, offset+length) rooted at the middle one.
func (tree *RBTree[K]) link(offset, length int, parent uint32, depth int, colors []bool) uint32 {
	if length == 0 {
		return 0
	}
	a := &tree.allocator
	half := length / 2
	n := uint32(offset + half)
	a.parent[n] = parent
	a.color[n] = colors[depth]
	a.left[n] = tree.link(offset, half, n, depth+1, colors)
	a.right[n] = tree.link(offset+half+1, length-half-1, n, depth+1, colors)
	return n
}

// levelColors returns the color of each depth of a midpoint-split tree with n nodes.
//
// All the levels except the deepest one are full. If the deepest level is partial,
// it is red and the one above it is black, so that every path has the same number
// of black nodes. If it is full, it is black. The rest follow the coloring period
// counted upwards from the black forced level; the root is always black.
func levelColors(n int, coloring Coloring) []bool {
	height := bits.Len(uint(n))
	colors := make([]bool, height)
	if height == 0 {
		return colors
	}
	forcedBlack := height - 1
	if !internal.IsPowerOfTwoMinusOne(n) {
		colors[height-1] = red
		forcedBlack = height - 2
	}
	colors[forcedBlack] = black
	period := coloring.RedLevelPeriod()
	for depth := 0; depth < forcedBlack; depth++ {
		colors[depth] = black
		if depth > 0 && period > 0 && (forcedBlack-depth)%period == 1 {
			colors[depth] = red
		}
	}
	return colors
}
