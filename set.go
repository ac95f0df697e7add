package primset

import (
	"github.com/cyraxred/primset/internal/core"
	"github.com/cyraxred/primset/internal/rbtree"
	"github.com/pkg/errors"
)

// Key is the set of fixed-width integer types which a Set can store.
type Key = rbtree.Key

// Coloring chooses the red levels of a tree which is built in bulk.
type Coloring = rbtree.Coloring

// Stats summarizes the shape of a Set and its storage.
type Stats = rbtree.Stats

// Logger is the output interface for the diagnostic messages.
type Logger = core.Logger

const (
	// ColoringBalanced suits mixed workloads. It is the default.
	ColoringBalanced = rbtree.ColoringBalanced
	// ColoringForAdd makes the following insertions cheaper.
	ColoringForAdd = rbtree.ColoringForAdd
	// ColoringForRemove makes the following removals cheaper.
	ColoringForRemove = rbtree.ColoringForRemove
)

var (
	// ErrConcurrentModification is the panic value of an Iterator whose Set was
	// modified after the iterator had been created.
	ErrConcurrentModification = rbtree.ErrConcurrentModification
	// ErrUnsortedInput is returned by the bulk constructors when the keys are
	// not strictly ascending.
	ErrUnsortedInput = rbtree.ErrUnsortedInput
	// ErrCorrupted is returned by Verify.
	ErrCorrupted = rbtree.ErrCorrupted
)

// ParseColoring converts "add", "remove" or "balanced" to a Coloring.
func ParseColoring(name string) (Coloring, error) {
	return rbtree.ParseColoring(name)
}

// Set is an ordered set of unique integer keys. The keys are kept unboxed in a
// red-black tree whose nodes live in contiguous arrays.
//
// A Set is not safe for concurrent use.
type Set[K Key] struct {
	tree   *rbtree.RBTree[K]
	logger Logger
}

// IntSet stores 32-bit keys.
type IntSet = Set[int32]

// LongSet stores 64-bit keys.
type LongSet = Set[int64]

// New creates an empty Set.
func New[K Key](opts ...Option) *Set[K] {
	cfg := newConfig(opts)
	return newSet[K](cfg)
}

func newSet[K Key](cfg config) *Set[K] {
	tree := rbtree.NewRBTree[K](cfg.capacity)
	tree.ShrinkThreshold = cfg.shrinkThreshold
	tree.Coloring = cfg.coloring
	s := &Set[K]{tree: tree, logger: cfg.logger}
	tree.OnShrink = s.onShrink
	return s
}

func (s *Set[K]) onShrink(oldCapacity, newCapacity, live int) {
	s.logger.Infof("primset: compacted %d keys, capacity %d -> %d", live, oldCapacity, newCapacity)
}

// FromSortedUnique builds a Set from strictly ascending keys in linear time.
// It returns an error wrapping ErrUnsortedInput if the keys are out of order
// or repeat. WithCapacity larger than len(keys) leaves room for the following
// insertions.
func FromSortedUnique[K Key](keys []K, coloring Coloring, opts ...Option) (*Set[K], error) {
	cfg := newConfig(opts)
	s := newSet[K](cfg)
	if err := s.tree.Build(keys, coloring); err != nil {
		return nil, err
	}
	s.tree.Reserve(cfg.capacity - len(keys))
	return s, nil
}

// Source is an ascending sequence of keys:
//
//	for src.Next() {
//		key := src.Value()
//	}
type Source[K Key] interface {
	Next() bool
	Value() K
}

// SliceSource iterates over a slice.
type SliceSource[K Key] struct {
	keys []K
	pos  int
}

// NewSliceSource creates a Source positioned before the first element of keys.
func NewSliceSource[K Key](keys []K) *SliceSource[K] {
	return &SliceSource[K]{keys: keys, pos: -1}
}

// Next advances to the following element.
func (src *SliceSource[K]) Next() bool {
	if src.pos < len(src.keys) {
		src.pos++
	}
	return src.pos < len(src.keys)
}

// Value returns the current element.
func (src *SliceSource[K]) Value() K {
	return src.keys[src.pos]
}

// FromSortedIterator drains src and builds a Set the same way as FromSortedUnique.
func FromSortedIterator[K Key](src Source[K], coloring Coloring, opts ...Option) (*Set[K], error) {
	var keys []K
	for src.Next() {
		key := src.Value()
		if n := len(keys); n > 0 && keys[n-1] >= key {
			return nil, errors.Wrapf(ErrUnsortedInput, "key #%d (%d) follows %d", n, key, keys[n-1])
		}
		keys = append(keys, key)
	}
	return FromSortedUnique(keys, coloring, opts...)
}

// Add inserts the key. Returns false if it was already there.
func (s *Set[K]) Add(key K) bool {
	return s.tree.Insert(key)
}

// AddAll inserts several keys and returns how many of them were new.
func (s *Set[K]) AddAll(keys ...K) int {
	return s.tree.InsertAll(keys)
}

// Remove deletes the key. Returns false if it was absent.
func (s *Set[K]) Remove(key K) bool {
	return s.tree.Delete(key)
}

// RemoveAll deletes several keys and returns how many of them were found.
func (s *Set[K]) RemoveAll(keys ...K) int {
	return s.tree.DeleteAll(keys)
}

// Contains checks whether the key is in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	return s.tree.Len()
}

// IsEmpty returns true if there are no keys.
func (s *Set[K]) IsEmpty() bool {
	return s.tree.Len() == 0
}

// Min returns the smallest key. The second value is false if the set is empty.
func (s *Set[K]) Min() (K, bool) {
	return s.tree.Min()
}

// Max returns the largest key. The second value is false if the set is empty.
func (s *Set[K]) Max() (K, bool) {
	return s.tree.Max()
}

// Ceil returns the smallest key >= key.
func (s *Set[K]) Ceil(key K) (K, bool) {
	return s.tree.FindGE(key)
}

// Floor returns the largest key <= key.
func (s *Set[K]) Floor(key K) (K, bool) {
	return s.tree.FindLE(key)
}

// Iterator walks the keys in ascending order. It panics with
// ErrConcurrentModification if the set changes underneath.
type Iterator[K Key] struct {
	iter rbtree.Iterator[K]
}

// Next advances to the following key.
func (it *Iterator[K]) Next() bool {
	return it.iter.Next()
}

// Value returns the current key.
func (it *Iterator[K]) Value() K {
	return it.iter.Value()
}

// Iterator creates an iterator positioned before the minimum.
func (s *Set[K]) Iterator() *Iterator[K] {
	return &Iterator[K]{s.tree.Iterator()}
}

// TailIterator creates an iterator positioned before the first key >= key.
func (s *Set[K]) TailIterator(key K) *Iterator[K] {
	return &Iterator[K]{s.tree.TailIterator(key)}
}

// ToSortedArray copies the keys in ascending order.
func (s *Set[K]) ToSortedArray() []K {
	keys := make([]K, 0, s.tree.Len())
	for it := s.tree.Iterator(); it.Next(); {
		keys = append(keys, it.Value())
	}
	return keys
}

// Clear removes all the keys and releases the storage.
func (s *Set[K]) Clear() {
	s.tree.Erase()
}

// Compactify rebuilds the storage so that it exactly fits the keys.
func (s *Set[K]) Compactify(coloring Coloring) {
	s.tree.Compact(coloring)
}

// Clone returns an independent copy.
func (s *Set[K]) Clone() *Set[K] {
	clone := &Set[K]{tree: s.tree.CloneDeep(), logger: s.logger}
	clone.tree.OnShrink = clone.onShrink
	return clone
}

// Stats measures the tree. O(n).
func (s *Set[K]) Stats() Stats {
	return s.tree.Stats()
}

// Verify checks all the structural invariants. O(n).
func (s *Set[K]) Verify() error {
	return s.tree.Verify()
}
