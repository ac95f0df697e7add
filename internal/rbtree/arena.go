package rbtree

import (
	"math"

	"github.com/cyraxred/primset/internal"
)

// minCapacity is the smallest number of slots an allocator keeps, the sentinel included.
const minCapacity = 16

// allocator is the node storage of an RBTree. Nodes are addressed by uint32 ids
// which index the parallel arrays; id 0 is the NIL sentinel.
type allocator[K Key] struct {
	keys   []K
	left   []uint32
	right  []uint32
	parent []uint32
	color  []bool

	// frontier is one past the highest id ever handed out.
	frontier uint32
	// free holds the released ids below frontier, reused LIFO.
	free []uint32
}

func newAllocator[K Key](capacity int) allocator[K] {
	a := allocator[K]{frontier: 1}
	a.resize(internal.Max(capacity, minCapacity))
	return a
}

func (a *allocator[K]) capacity() int {
	return len(a.keys)
}

// used returns the number of live nodes.
func (a *allocator[K]) used() int {
	return int(a.frontier) - 1 - len(a.free)
}

// resize reallocates the backing arrays to exactly the given number of slots,
// preserving everything below frontier.
func (a *allocator[K]) resize(capacity int) {
	doAssert(capacity >= int(a.frontier))
	keys := make([]K, capacity)
	left := make([]uint32, capacity)
	right := make([]uint32, capacity)
	parent := make([]uint32, capacity)
	color := make([]bool, capacity)
	if a.keys != nil {
		n := a.frontier
		copy(keys, a.keys[:n])
		copy(left, a.left[:n])
		copy(right, a.right[:n])
		copy(parent, a.parent[:n])
		copy(color, a.color[:n])
	}
	a.keys, a.left, a.right, a.parent, a.color = keys, left, right, parent, color
	a.color[0] = black
}

// reserve makes sure that the next n allocations do not trigger a reallocation.
// The capacity at least doubles each time it grows.
func (a *allocator[K]) reserve(n int) {
	required := int(a.frontier) + n - len(a.free)
	if required <= a.capacity() {
		return
	}
	checkNodeLimit(uint64(required))
	a.resize(internal.Max(required, 2*a.capacity()))
}

// checkNodeLimit panics if the given number of slots cannot be addressed by uint32 ids.
func checkNodeLimit(slots uint64) {
	if slots > math.MaxUint32 {
		panic("the size of my RBTree allocator has reached the maximum value for uint32, sorry")
	}
}

// Reserve makes sure that n more keys can be inserted without reallocating the storage.
func (tree *RBTree[K]) Reserve(n int) {
	if n > 0 {
		tree.allocator.reserve(n)
	}
}

func (a *allocator[K]) malloc(key K) uint32 {
	var n uint32
	if last := len(a.free) - 1; last >= 0 {
		n = a.free[last]
		a.free = a.free[:last]
	} else {
		a.reserve(1)
		n = a.frontier
		a.frontier++
	}
	a.keys[n] = key
	a.left[n] = 0
	a.right[n] = 0
	a.parent[n] = 0
	a.color[n] = red
	return n
}

func (a *allocator[K]) release(n uint32) {
	if n == 0 {
		panic("node #0 is special and cannot be deallocated")
	}
	doAssert(n < a.frontier)
	if debugChecks {
		for _, f := range a.free {
			doAssert(f != n)
		}
	}
	var zero K
	a.keys[n] = zero
	a.left[n] = 0
	a.right[n] = 0
	a.parent[n] = 0
	a.color[n] = red
	if n == a.frontier-1 {
		a.frontier--
		return
	}
	a.free = append(a.free, n)
}

func (a *allocator[K]) clone() allocator[K] {
	c := allocator[K]{frontier: a.frontier}
	c.resize(a.capacity())
	copy(c.keys, a.keys[:a.frontier])
	copy(c.left, a.left[:a.frontier])
	copy(c.right, a.right[:a.frontier])
	copy(c.parent, a.parent[:a.frontier])
	copy(c.color, a.color[:a.frontier])
	c.free = append([]uint32(nil), a.free...)
	return c
}
