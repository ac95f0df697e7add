package rbtree

import (
	"math/bits"

	"github.com/pkg/errors"
)

//
// Public definitions
//

// Key is the set of fixed-width integer types which can be stored in an RBTree.
type Key interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// DefaultShrinkThreshold is the live/capacity ratio below which removals compact the tree.
const DefaultShrinkThreshold = 0.25

var (
	// ErrConcurrentModification is the panic value of an iterator whose tree was
	// modified after the iterator had been created.
	ErrConcurrentModification = errors.New("rbtree: concurrent modification")
	// ErrUnsortedInput is returned by Build when the keys are not strictly ascending.
	ErrUnsortedInput = errors.New("rbtree: keys are not strictly ascending")
	// ErrCorrupted is returned by Verify when an invariant does not hold.
	ErrCorrupted = errors.New("rbtree: corrupted")
)

// RBTree is a red-black tree of unique integer keys with all the nodes stored
// in parallel arrays and linked by uint32 ids.
//
// The code follows the CLRS formulation with a shared black sentinel (id 0) and
// explicit parent links. It is not safe for concurrent use.
type RBTree[K Key] struct {
	// ShrinkThreshold is the ratio of live nodes to the allocated slots below which
	// Delete compacts the tree. Zero or negative disables shrinking.
	ShrinkThreshold float64
	// Coloring is applied when the tree compacts itself after removals.
	Coloring Coloring
	// OnShrink is invoked after each automatic compaction.
	OnShrink func(oldCapacity, newCapacity, live int)

	root        uint32
	count       int
	modCount    uint64
	compactions int
	allocator   allocator[K]
}

// NewRBTree creates a new red-black tree with room for the given number of keys.
func NewRBTree[K Key](capacity int) *RBTree[K] {
	return &RBTree[K]{
		ShrinkThreshold: DefaultShrinkThreshold,
		allocator:       newAllocator[K](capacity + 1),
	}
}

// Len returns the number of keys in the tree.
func (tree *RBTree[K]) Len() int {
	return tree.count
}

// Capacity returns the number of allocated node slots, the sentinel included.
func (tree *RBTree[K]) Capacity() int {
	return tree.allocator.capacity()
}

// Contains checks whether the key exists in the tree.
func (tree *RBTree[K]) Contains(key K) bool {
	n, _ := tree.find(key)
	return n != 0
}

// Min returns the smallest key. The second value is false if the tree is empty.
func (tree *RBTree[K]) Min() (K, bool) {
	if tree.root == 0 {
		var zero K
		return zero, false
	}
	a := &tree.allocator
	n := tree.root
	for a.left[n] != 0 {
		n = a.left[n]
	}
	return a.keys[n], true
}

// Max returns the largest key. The second value is false if the tree is empty.
func (tree *RBTree[K]) Max() (K, bool) {
	if tree.root == 0 {
		var zero K
		return zero, false
	}
	a := &tree.allocator
	n := tree.root
	for a.right[n] != 0 {
		n = a.right[n]
	}
	return a.keys[n], true
}

// FindGE finds the smallest key N such that N >= key.
func (tree *RBTree[K]) FindGE(key K) (K, bool) {
	n := tree.findGE(key)
	return tree.allocator.keys[n], n != 0
}

// FindLE finds the largest key N such that N <= key.
func (tree *RBTree[K]) FindLE(key K) (K, bool) {
	n := tree.findLE(key)
	return tree.allocator.keys[n], n != 0
}

// Insert adds the key. If the key is already in the tree, do nothing and
// return false. Else return true.
func (tree *RBTree[K]) Insert(key K) bool {
	n, parent := tree.find(key)
	if n != 0 {
		return false
	}
	n = tree.allocator.malloc(key)
	a := &tree.allocator
	a.parent[n] = parent
	if parent == 0 {
		tree.root = n
	} else if key < a.keys[parent] {
		a.left[parent] = n
	} else {
		a.right[parent] = n
	}
	tree.count++
	tree.modCount++
	tree.insertFixup(n)
	tree.check()
	return true
}

// InsertAll adds several keys and returns how many of them were new.
// The storage is grown at most once.
func (tree *RBTree[K]) InsertAll(keys []K) int {
	tree.allocator.reserve(len(keys))
	inserted := 0
	for _, key := range keys {
		if tree.Insert(key) {
			inserted++
		}
	}
	return inserted
}

// Delete removes the key. Returns true iff the key was found.
func (tree *RBTree[K]) Delete(key K) bool {
	if !tree.delete(key) {
		return false
	}
	tree.maybeShrink()
	return true
}

// DeleteAll removes several keys and returns how many of them were found.
// The shrink check runs once after the whole batch.
func (tree *RBTree[K]) DeleteAll(keys []K) int {
	deleted := 0
	for _, key := range keys {
		if tree.delete(key) {
			deleted++
		}
	}
	if deleted > 0 {
		tree.maybeShrink()
	}
	return deleted
}

// Erase removes all the keys and releases the storage.
func (tree *RBTree[K]) Erase() {
	tree.allocator = newAllocator[K](minCapacity)
	tree.root = 0
	tree.count = 0
	tree.modCount++
}

// CloneDeep returns an independent copy of the tree.
func (tree *RBTree[K]) CloneDeep() *RBTree[K] {
	clone := *tree
	clone.allocator = tree.allocator.clone()
	return &clone
}

// Stats summarizes the shape of an RBTree and its storage.
type Stats struct {
	Len         int
	Capacity    int
	Frontier    int
	Free        int
	Height      int
	BlackHeight int
	Compactions int
}

// Stats measures the tree. It walks every node.
func (tree *RBTree[K]) Stats() Stats {
	a := &tree.allocator
	blackHeight := 0
	for n := tree.root; n != 0; n = a.left[n] {
		if a.color[n] == black {
			blackHeight++
		}
	}
	return Stats{
		Len:         tree.count,
		Capacity:    a.capacity(),
		Frontier:    int(a.frontier),
		Free:        len(a.free),
		Height:      tree.height(tree.root),
		BlackHeight: blackHeight,
		Compactions: tree.compactions,
	}
}

func doAssert(b bool) {
	if !b {
		panic("rbtree internal assertion failed")
	}
}

const (
	red   = false
	black = true
)

//
// Private methods
//

// find descends from the root. It returns the node holding the key, or 0 and
// the last visited node which is the parent of the would-be insertion point.
func (tree *RBTree[K]) find(key K) (n, parent uint32) {
	a := &tree.allocator
	n = tree.root
	for n != 0 {
		nk := a.keys[n]
		if key == nk {
			return n, parent
		}
		parent = n
		if key < nk {
			n = a.left[n]
		} else {
			n = a.right[n]
		}
	}
	return 0, parent
}

func (tree *RBTree[K]) findGE(key K) uint32 {
	a := &tree.allocator
	var ge uint32
	for n := tree.root; n != 0; {
		nk := a.keys[n]
		if key == nk {
			return n
		}
		if key < nk {
			ge = n
			n = a.left[n]
		} else {
			n = a.right[n]
		}
	}
	return ge
}

func (tree *RBTree[K]) findLE(key K) uint32 {
	a := &tree.allocator
	var le uint32
	for n := tree.root; n != 0; {
		nk := a.keys[n]
		if key == nk {
			return n
		}
		if key > nk {
			le = n
			n = a.right[n]
		} else {
			n = a.left[n]
		}
	}
	return le
}

func (tree *RBTree[K]) height(n uint32) int {
	if n == 0 {
		return 0
	}
	a := &tree.allocator
	l, r := tree.height(a.left[n]), tree.height(a.right[n])
	if l > r {
		return l + 1
	}
	return r + 1
}

// maxDepth bounds the height of any red-black tree with the current number of keys.
func (tree *RBTree[K]) maxDepth() int {
	return 2*bits.Len(uint(tree.count+1)) + 1
}

func (tree *RBTree[K]) insertFixup(n uint32) {
	a := &tree.allocator
	for a.color[a.parent[n]] == red {
		p := a.parent[n]
		g := a.parent[p]
		if p == a.left[g] {
			uncle := a.right[g]
			if a.color[uncle] == red {
				a.color[p] = black
				a.color[uncle] = black
				a.color[g] = red
				n = g
				continue
			}
			if n == a.right[p] {
				n = p
				tree.rotateLeft(n)
				p = a.parent[n]
			}
			a.color[p] = black
			a.color[g] = red
			tree.rotateRight(g)
		} else {
			uncle := a.left[g]
			if a.color[uncle] == red {
				a.color[p] = black
				a.color[uncle] = black
				a.color[g] = red
				n = g
				continue
			}
			if n == a.left[p] {
				n = p
				tree.rotateRight(n)
				p = a.parent[n]
			}
			a.color[p] = black
			a.color[g] = red
			tree.rotateLeft(g)
		}
	}
	a.color[tree.root] = black
}

// delete unlinks the key without the shrink check.
func (tree *RBTree[K]) delete(key K) bool {
	z, _ := tree.find(key)
	if z == 0 {
		return false
	}
	a := &tree.allocator
	y := z
	if a.left[z] != 0 && a.right[z] != 0 {
		// the successor has no left child
		y = a.right[z]
		for a.left[y] != 0 {
			y = a.left[y]
		}
		a.keys[z] = a.keys[y]
	}
	x := a.left[y]
	if x == 0 {
		x = a.right[y]
	}
	// x may be the sentinel; its parent is needed by deleteFixup
	xp := a.parent[y]
	a.parent[x] = xp
	if xp == 0 {
		tree.root = x
	} else if y == a.left[xp] {
		a.left[xp] = x
	} else {
		a.right[xp] = x
	}
	if a.color[y] == black {
		tree.deleteFixup(x)
	}
	a.parent[0] = 0
	a.color[0] = black
	a.release(y)
	tree.count--
	tree.modCount++
	tree.check()
	return true
}

func (tree *RBTree[K]) deleteFixup(x uint32) {
	a := &tree.allocator
	for x != tree.root && a.color[x] == black {
		xp := a.parent[x]
		if x == a.left[xp] {
			w := a.right[xp]
			if a.color[w] == red {
				a.color[w] = black
				a.color[xp] = red
				tree.rotateLeft(xp)
				w = a.right[xp]
			}
			if a.color[a.left[w]] == black && a.color[a.right[w]] == black {
				a.color[w] = red
				x = xp
				continue
			}
			if a.color[a.right[w]] == black {
				a.color[a.left[w]] = black
				a.color[w] = red
				tree.rotateRight(w)
				w = a.right[xp]
			}
			a.color[w] = a.color[xp]
			a.color[xp] = black
			a.color[a.right[w]] = black
			tree.rotateLeft(xp)
		} else {
			w := a.left[xp]
			if a.color[w] == red {
				a.color[w] = black
				a.color[xp] = red
				tree.rotateRight(xp)
				w = a.left[xp]
			}
			if a.color[a.left[w]] == black && a.color[a.right[w]] == black {
				a.color[w] = red
				x = xp
				continue
			}
			if a.color[a.left[w]] == black {
				a.color[a.right[w]] = black
				a.color[w] = red
				tree.rotateLeft(w)
				w = a.left[xp]
			}
			a.color[w] = a.color[xp]
			a.color[xp] = black
			a.color[a.left[w]] = black
			tree.rotateRight(xp)
		}
		x = tree.root
	}
	a.color[x] = black
}

func (tree *RBTree[K]) maybeShrink() {
	capacity := tree.allocator.capacity()
	if tree.ShrinkThreshold <= 0 || capacity <= minCapacity {
		return
	}
	if float64(tree.count+1) >= tree.ShrinkThreshold*float64(capacity) {
		return
	}
	tree.Compact(tree.Coloring)
	tree.compactions++
	if tree.OnShrink != nil {
		tree.OnShrink(capacity, tree.allocator.capacity(), tree.count)
	}
}

func (tree *RBTree[K]) check() {
	if !debugChecks {
		return
	}
	if err := tree.Verify(); err != nil {
		panic(err)
	}
}

/*
    X		     Y
  A   Y	    =>     X   C
     B C 	  A B
*/
func (tree *RBTree[K]) rotateLeft(x uint32) {
	a := &tree.allocator
	y := a.right[x]
	a.right[x] = a.left[y]
	if a.left[y] != 0 {
		a.parent[a.left[y]] = x
	}
	xp := a.parent[x]
	a.parent[y] = xp
	if xp == 0 {
		tree.root = y
	} else if x == a.left[xp] {
		a.left[xp] = y
	} else {
		a.right[xp] = y
	}
	a.left[y] = x
	a.parent[x] = y
}

/*
     Y           X
   X   C  =>   A   Y
  A B             B C
*/
func (tree *RBTree[K]) rotateRight(y uint32) {
	a := &tree.allocator
	x := a.left[y]

	// Move "B"
	a.left[y] = a.right[x]
	if a.right[x] != 0 {
		a.parent[a.right[x]] = y
	}

	yp := a.parent[y]
	a.parent[x] = yp
	if yp == 0 {
		tree.root = x
	} else if y == a.left[yp] {
		a.left[yp] = x
	} else {
		a.right[yp] = x
	}
	a.right[x] = y
	a.parent[y] = x
}
