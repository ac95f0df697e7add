package rbtree

// NodeIterator walks the node ids of an RBTree in ascending key order.
//
// It keeps the ancestors which remain to be visited on a private stack. Any
// modification of the tree after the iterator had been created makes the next
// call panic with ErrConcurrentModification.
type NodeIterator[K Key] struct {
	tree     *RBTree[K]
	stack    []uint32
	node     uint32
	modCount uint64
}

// Nodes creates an iterator positioned before the minimum node.
func (tree *RBTree[K]) Nodes() *NodeIterator[K] {
	iter := tree.newNodeIterator()
	iter.pushLeft(tree.root)
	return iter
}

// NodesFrom creates an iterator positioned before the smallest node with the key >= key.
func (tree *RBTree[K]) NodesFrom(key K) *NodeIterator[K] {
	iter := tree.newNodeIterator()
	a := &tree.allocator
	for n := tree.root; n != 0; {
		if key <= a.keys[n] {
			iter.stack = append(iter.stack, n)
			n = a.left[n]
		} else {
			n = a.right[n]
		}
	}
	return iter
}

func (tree *RBTree[K]) newNodeIterator() *NodeIterator[K] {
	return &NodeIterator[K]{
		tree:     tree,
		stack:    make([]uint32, 0, tree.maxDepth()),
		modCount: tree.modCount,
	}
}

// Next advances to the following node. Returns false when there are no more nodes.
func (iter *NodeIterator[K]) Next() bool {
	iter.checkModCount()
	last := len(iter.stack) - 1
	if last < 0 {
		iter.node = 0
		return false
	}
	iter.node = iter.stack[last]
	iter.stack = iter.stack[:last]
	iter.pushLeft(iter.tree.allocator.right[iter.node])
	return true
}

// Node returns the current node id; 0 before the first and after the last Next().
func (iter *NodeIterator[K]) Node() uint32 {
	iter.checkModCount()
	return iter.node
}

func (iter *NodeIterator[K]) pushLeft(n uint32) {
	left := iter.tree.allocator.left
	for ; n != 0; n = left[n] {
		iter.stack = append(iter.stack, n)
	}
}

func (iter *NodeIterator[K]) checkModCount() {
	if iter.modCount != iter.tree.modCount {
		panic(ErrConcurrentModification)
	}
}

// Iterator yields the keys of an RBTree in ascending order:
//
//	for iter := tree.Iterator(); iter.Next(); {
//		key := iter.Value()
//	}
type Iterator[K Key] struct {
	nodes *NodeIterator[K]
}

// Iterator creates a key iterator positioned before the minimum.
func (tree *RBTree[K]) Iterator() Iterator[K] {
	return Iterator[K]{tree.Nodes()}
}

// TailIterator creates a key iterator positioned before the first key >= key.
func (tree *RBTree[K]) TailIterator(key K) Iterator[K] {
	return Iterator[K]{tree.NodesFrom(key)}
}

// Next advances to the following key.
func (iter Iterator[K]) Next() bool {
	return iter.nodes.Next()
}

// Value returns the current key.
//
// REQUIRES: the last Next() returned true
func (iter Iterator[K]) Value() K {
	n := iter.nodes.Node()
	doAssert(n != 0)
	return iter.nodes.tree.allocator.keys[n]
}
