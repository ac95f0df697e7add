package rbtree

import (
	"github.com/pkg/errors"
)

// Verify checks the binary search tree order, the red-black coloring, the
// uniform black height and the partition of the allocated ids into live and
// free ones. It is O(n) and intended for tests and diagnostics.
func (tree *RBTree[K]) Verify() error {
	a := &tree.allocator
	if a.color[0] != black || a.left[0] != 0 || a.right[0] != 0 || a.parent[0] != 0 {
		return errors.Wrap(ErrCorrupted, "the sentinel was modified")
	}
	if int(a.frontier) > a.capacity() {
		return errors.Wrapf(ErrCorrupted, "frontier %d exceeds the capacity %d",
			a.frontier, a.capacity())
	}
	if tree.root != 0 {
		if a.color[tree.root] != black {
			return errors.Wrapf(ErrCorrupted, "root %d is red", tree.root)
		}
		if a.parent[tree.root] != 0 {
			return errors.Wrapf(ErrCorrupted, "root %d has parent %d", tree.root, a.parent[tree.root])
		}
	}
	v := verifier[K]{allocator: a, seen: make([]bool, a.frontier)}
	if _, err := v.walk(tree.root, bound[K]{}, bound[K]{}); err != nil {
		return err
	}
	if v.live != tree.count {
		return errors.Wrapf(ErrCorrupted, "%d nodes are reachable but the count is %d", v.live, tree.count)
	}
	for _, n := range a.free {
		if n == 0 || n >= a.frontier {
			return errors.Wrapf(ErrCorrupted, "free id %d is out of [1, %d)", n, a.frontier)
		}
		if v.seen[n] {
			return errors.Wrapf(ErrCorrupted, "free id %d is live or listed twice", n)
		}
		v.seen[n] = true
	}
	if v.live+len(a.free) != int(a.frontier)-1 {
		return errors.Wrapf(ErrCorrupted, "%d live and %d free ids do not cover [1, %d)",
			v.live, len(a.free), a.frontier)
	}
	return nil
}

type bound[K Key] struct {
	set   bool
	value K
}

type verifier[K Key] struct {
	allocator *allocator[K]
	seen      []bool
	live      int
}

// walk returns the black height of the subtree rooted at n.
func (v *verifier[K]) walk(n uint32, lo, hi bound[K]) (int, error) {
	if n == 0 {
		return 1, nil
	}
	a := v.allocator
	if n >= a.frontier {
		return 0, errors.Wrapf(ErrCorrupted, "node %d is beyond the frontier %d", n, a.frontier)
	}
	if v.seen[n] {
		return 0, errors.Wrapf(ErrCorrupted, "node %d is reachable twice", n)
	}
	v.seen[n] = true
	v.live++
	key := a.keys[n]
	if (lo.set && key <= lo.value) || (hi.set && key >= hi.value) {
		return 0, errors.Wrapf(ErrCorrupted, "node %d breaks the key order", n)
	}
	l, r := a.left[n], a.right[n]
	if (l != 0 && a.parent[l] != n) || (r != 0 && a.parent[r] != n) {
		return 0, errors.Wrapf(ErrCorrupted, "node %d has a child with a wrong parent link", n)
	}
	if a.color[n] == red && (a.color[l] == red || a.color[r] == red) {
		return 0, errors.Wrapf(ErrCorrupted, "red node %d has a red child", n)
	}
	lh, err := v.walk(l, lo, bound[K]{true, key})
	if err != nil {
		return 0, err
	}
	rh, err := v.walk(r, bound[K]{true, key}, hi)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, errors.Wrapf(ErrCorrupted, "node %d has black heights %d and %d", n, lh, rh)
	}
	if a.color[n] == black {
		lh++
	}
	return lh, nil
}
