package rbtree

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/cyraxred/primset/internal/test"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Create a tree storing a set of integers
func testNewIntSet() *RBTree[int64] {
	return NewRBTree[int64](0)
}

func testAssert(t *testing.T, b bool, message string) {
	assert.True(t, b, message)
}

func iterToString(i Iterator[int64]) string {
	s := ""
	for i.Next() {
		if s != "" {
			s = s + ","
		}
		s = s + fmt.Sprintf("%d", i.Value())
	}
	return s
}

func treeKeys[K Key](tree *RBTree[K]) []K {
	keys := []K{}
	for iter := tree.Iterator(); iter.Next(); {
		keys = append(keys, iter.Value())
	}
	return keys
}

func TestEmpty(t *testing.T) {
	tree := testNewIntSet()
	testAssert(t, tree.Len() == 0, "len!=0")
	_, ok := tree.Min()
	testAssert(t, !ok, "min")
	_, ok = tree.Max()
	testAssert(t, !ok, "max")
	_, ok = tree.FindGE(10)
	testAssert(t, !ok, "Not empty")
	_, ok = tree.FindLE(10)
	testAssert(t, !ok, "Not empty")
	testAssert(t, !tree.Contains(0), "Contains 0")
	assert.Equal(t, "", iterToString(tree.Iterator()))
	assert.NoError(t, tree.Verify())
}

func TestFindGE(t *testing.T) {
	tree := testNewIntSet()
	testAssert(t, tree.Insert(10), "Insert1")
	testAssert(t, !tree.Insert(10), "Insert2")
	testAssert(t, tree.Len() == 1, "len==1")
	key, ok := tree.FindGE(10)
	testAssert(t, ok && key == 10, "FindGE 10")
	_, ok = tree.FindGE(11)
	testAssert(t, !ok, "FindGE 11")
	key, _ = tree.FindGE(9)
	assert.Equal(t, key, int64(10), "FindGE 10")
}

func TestFindLE(t *testing.T) {
	tree := testNewIntSet()
	testAssert(t, tree.Insert(10), "insert1")
	key, ok := tree.FindLE(10)
	testAssert(t, ok && key == 10, "FindLE 10")
	key, ok = tree.FindLE(11)
	testAssert(t, ok && key == 10, "FindLE 11")
	_, ok = tree.FindLE(9)
	testAssert(t, !ok, "FindLE 9")
}

func TestDelete(t *testing.T) {
	tree := testNewIntSet()
	testAssert(t, !tree.Delete(10), "del")
	testAssert(t, tree.Len() == 0, "dellen")
	testAssert(t, tree.Insert(10), "ins")
	testAssert(t, tree.Delete(10), "del")
	testAssert(t, tree.Len() == 0, "dellen")

	// delete was deleting after the request if request not found
	// ensure this does not regress:
	testAssert(t, tree.Insert(10), "ins")
	testAssert(t, !tree.Delete(9), "del")
	testAssert(t, tree.Len() == 1, "dellen")
	assert.NoError(t, tree.Verify())
}

func TestDuplicateInsertIsNoop(t *testing.T) {
	tree := testNewIntSet()
	tree.InsertAll([]int64{4, 2, 6})
	stats := tree.Stats()
	testAssert(t, !tree.Insert(2), "dup")
	assert.Equal(t, stats, tree.Stats())
	assert.Equal(t, []int64{2, 4, 6}, treeKeys(tree))
	testAssert(t, !tree.Delete(5), "absent")
	assert.Equal(t, stats, tree.Stats())
	assert.Equal(t, []int64{2, 4, 6}, treeKeys(tree))
}

func TestIterator(t *testing.T) {
	tree := testNewIntSet()
	for i := int64(0); i < 10; i = i + 2 {
		tree.Insert(i)
	}
	assert.Equal(t, iterToString(tree.Iterator()), "0,2,4,6,8")
	assert.Equal(t, iterToString(tree.TailIterator(3)), "4,6,8")
	assert.Equal(t, iterToString(tree.TailIterator(4)), "4,6,8")
	assert.Equal(t, iterToString(tree.TailIterator(8)), "8")
	assert.Equal(t, iterToString(tree.TailIterator(9)), "")
	assert.Equal(t, iterToString(tree.TailIterator(-100)), "0,2,4,6,8")
}

func TestIteratorExhausted(t *testing.T) {
	tree := testNewIntSet()
	tree.Insert(1)
	iter := tree.Iterator()
	assert.True(t, iter.Next())
	assert.Equal(t, int64(1), iter.Value())
	assert.False(t, iter.Next())
	assert.False(t, iter.Next())
	assert.Panics(t, func() { iter.Value() })
}

func TestNodeIterator(t *testing.T) {
	tree := testNewIntSet()
	tree.InsertAll([]int64{30, 10, 20})
	var ids []uint32
	for iter := tree.Nodes(); iter.Next(); {
		ids = append(ids, iter.Node())
	}
	assert.Len(t, ids, 3)
	for i, id := range ids {
		assert.Equal(t, int64((i+1)*10), tree.allocator.keys[id])
	}
}

func TestIteratorConcurrentModification(t *testing.T) {
	mutations := map[string]func(tree *RBTree[int64]){
		"insert":  func(tree *RBTree[int64]) { tree.Insert(100) },
		"delete":  func(tree *RBTree[int64]) { tree.Delete(2) },
		"compact": func(tree *RBTree[int64]) { tree.Compact(ColoringBalanced) },
		"erase":   func(tree *RBTree[int64]) { tree.Erase() },
		"build":   func(tree *RBTree[int64]) { _ = tree.Build([]int64{1}, ColoringForAdd) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			tree := testNewIntSet()
			tree.InsertAll([]int64{1, 2, 3})
			iter := tree.Iterator()
			assert.True(t, iter.Next())
			mutate(tree)
			assert.PanicsWithValue(t, ErrConcurrentModification, func() { iter.Next() })
			assert.PanicsWithValue(t, ErrConcurrentModification, func() { iter.Value() })
		})
	}
	tree := testNewIntSet()
	tree.Insert(1)
	iter := tree.TailIterator(0)
	tree.Insert(1)
	assert.NotPanics(t, func() { iter.Next() }, "no-op insert must not invalidate")
}

func TestScenarioInsertRemove(t *testing.T) {
	tree := testNewIntSet()
	for _, key := range []int64{1, 5, 3, 2, 4} {
		require.True(t, tree.Insert(key))
		require.NoError(t, tree.Verify())
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, treeKeys(tree))
	assert.True(t, tree.Delete(3))
	assert.NoError(t, tree.Verify())
	assert.Equal(t, []int64{1, 2, 4, 5}, treeKeys(tree))
	assert.False(t, tree.Contains(3))
}

//
// Randomized tests
//

func compareContents(t *testing.T, o *test.Oracle, tree *RBTree[int64]) {
	require.NoError(t, tree.Verify())
	require.Equal(t, o.Len(), tree.Len())
	require.Equal(t, o.Keys(), treeKeys(tree))
}

func TestRandomized(t *testing.T) {
	const numKeys = 1000

	o := test.NewOracle()
	tree := testNewIntSet()
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 10000; i++ {
		op := r.Int31n(100)
		if op < 50 {
			key := r.Int63n(numKeys)
			assert.Equal(t, o.Insert(key), tree.Insert(key))
			compareContents(t, o, tree)
		} else if op < 90 && o.Len() > 0 {
			key := o.RandomExistingKey(r)
			o.Delete(key)
			if !tree.Delete(key) {
				t.Fatal("DeleteExisting", key)
			}
			compareContents(t, o, tree)
		} else if op < 95 {
			key := r.Int63n(numKeys)
			okey, ook := o.FindGE(key)
			tkey, tok := tree.FindGE(key)
			assert.Equal(t, ook, tok)
			assert.Equal(t, okey, tkey)
			assert.Equal(t, o.Tail(key), treeKeysFrom(tree, key))
		} else {
			key := r.Int63n(numKeys)
			okey, ook := o.FindLE(key)
			tkey, tok := tree.FindLE(key)
			assert.Equal(t, ook, tok)
			assert.Equal(t, okey, tkey)
		}
	}
}

func treeKeysFrom(tree *RBTree[int64], key int64) []int64 {
	keys := []int64{}
	for iter := tree.TailIterator(key); iter.Next(); {
		keys = append(keys, iter.Value())
	}
	return keys
}

func TestRandomPermutationRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	keys := test.UniqueRandomKeys(r, 5000, 1<<40)
	tree := testNewIntSet()
	for _, key := range keys {
		tree.Insert(key)
	}
	require.NoError(t, tree.Verify())
	sorted := append([]int64{}, keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, sorted, treeKeys(tree))
}

func TestShrinkAfterMassRemoval(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	keys := test.UniqueRandomKeys(r, 1000, 1000000)
	tree := testNewIntSet()
	var shrinks int
	tree.OnShrink = func(oldCapacity, newCapacity, live int) {
		assert.True(t, newCapacity < oldCapacity)
		assert.Equal(t, tree.Len(), live)
		shrinks++
	}
	for _, key := range keys {
		require.True(t, tree.Insert(key))
	}
	before := tree.Capacity()
	assert.True(t, before >= 1001)
	for _, key := range keys[:990] {
		require.True(t, tree.Delete(key))
	}
	require.NoError(t, tree.Verify())
	assert.Equal(t, 10, tree.Len())
	survivors := append([]int64{}, keys[990:]...)
	sort.Slice(survivors, func(i, j int) bool { return survivors[i] < survivors[j] })
	assert.Equal(t, survivors, treeKeys(tree))
	assert.True(t, tree.Capacity() < before)
	assert.True(t, shrinks > 0)
	assert.Equal(t, shrinks, tree.Stats().Compactions)
}

func TestShrinkDisabled(t *testing.T) {
	tree := testNewIntSet()
	tree.ShrinkThreshold = 0
	for i := int64(0); i < 100; i++ {
		tree.Insert(i)
	}
	capacity := tree.Capacity()
	for i := int64(0); i < 100; i++ {
		tree.Delete(i)
	}
	assert.Equal(t, capacity, tree.Capacity())
	assert.Equal(t, 0, tree.Stats().Compactions)
	assert.NoError(t, tree.Verify())
}

func TestInsertAllGrowsOnce(t *testing.T) {
	tree := testNewIntSet()
	assert.Equal(t, minCapacity, tree.Capacity())
	keys := make([]int64, 100)
	for i := range keys {
		keys[i] = int64(i * 3)
	}
	assert.Equal(t, 100, tree.InsertAll(keys))
	assert.Equal(t, 101, tree.Capacity())
	assert.Equal(t, 0, tree.InsertAll(keys[:10]))
	assert.Equal(t, 100, tree.Len())
	assert.NoError(t, tree.Verify())
}

func TestDeleteAllShrinksOnce(t *testing.T) {
	tree := testNewIntSet()
	keys := make([]int64, 1000)
	for i := range keys {
		keys[i] = int64(i)
	}
	tree.InsertAll(keys)
	assert.Equal(t, 995, tree.DeleteAll(keys[5:]))
	assert.Equal(t, 1, tree.Stats().Compactions)
	assert.Equal(t, minCapacity, tree.Capacity())
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, treeKeys(tree))
	assert.NoError(t, tree.Verify())
	assert.Equal(t, 0, tree.DeleteAll(keys[5:]))
}

func TestAllocatorFreeZero(t *testing.T) {
	alloc := newAllocator[int64](0)
	alloc.malloc(1)
	assert.PanicsWithValue(t, "node #0 is special and cannot be deallocated", func() { alloc.release(0) })
}

func TestAllocatorReuse(t *testing.T) {
	alloc := newAllocator[int64](0)
	assert.Equal(t, uint32(1), alloc.malloc(10))
	assert.Equal(t, uint32(2), alloc.malloc(20))
	assert.Equal(t, uint32(3), alloc.malloc(30))
	assert.Equal(t, 3, alloc.used())
	// trailing ids shrink the frontier
	alloc.release(3)
	assert.Equal(t, uint32(3), alloc.frontier)
	assert.Empty(t, alloc.free)
	// the others are kept for reuse
	alloc.release(1)
	assert.Equal(t, []uint32{1}, alloc.free)
	assert.Equal(t, 1, alloc.used())
	n := alloc.malloc(40)
	assert.Equal(t, uint32(1), n)
	assert.Equal(t, int64(40), alloc.keys[n])
	assert.Equal(t, red, alloc.color[n])
	assert.Equal(t, black, alloc.color[0])
}

func TestAllocatorGrowth(t *testing.T) {
	alloc := newAllocator[uint16](0)
	for i := 1; i < minCapacity; i++ {
		alloc.malloc(uint16(i))
	}
	assert.Equal(t, minCapacity, alloc.capacity())
	alloc.malloc(100)
	assert.Equal(t, 2*minCapacity, alloc.capacity())
	for i := 1; i < minCapacity; i++ {
		assert.Equal(t, uint16(i), alloc.keys[i])
	}
	assert.Equal(t, uint16(100), alloc.keys[minCapacity])
	assert.Equal(t, uint32(minCapacity+1), alloc.frontier)
}

func TestCloneDeep(t *testing.T) {
	tree := testNewIntSet()
	tree.InsertAll([]int64{7, 8, 9})
	tree.Delete(8)
	clone := tree.CloneDeep()
	assert.Equal(t, tree.Stats(), clone.Stats())
	clone.Insert(10)
	clone.Delete(7)
	assert.Equal(t, []int64{7, 9}, treeKeys(tree))
	assert.Equal(t, []int64{9, 10}, treeKeys(clone))
	assert.NoError(t, tree.Verify())
	assert.NoError(t, clone.Verify())
}

func TestErase(t *testing.T) {
	tree := testNewIntSet()
	for i := 0; i < 100; i++ {
		tree.Insert(int64(i))
	}
	tree.Erase()
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, minCapacity, tree.Capacity())
	assert.Equal(t, "", iterToString(tree.Iterator()))
	assert.NoError(t, tree.Verify())
	tree.Insert(5)
	assert.Equal(t, "5", iterToString(tree.Iterator()))
}

func TestStats(t *testing.T) {
	tree := testNewIntSet()
	assert.Equal(t, Stats{Capacity: minCapacity, Frontier: 1}, tree.Stats())
	tree.InsertAll([]int64{1, 2, 3, 4})
	tree.Delete(2)
	stats := tree.Stats()
	assert.Equal(t, 3, stats.Len)
	assert.Equal(t, stats.Len, stats.Frontier-1-stats.Free)
	assert.True(t, stats.Height >= 2)
	assert.True(t, stats.BlackHeight >= 1)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	tree := testNewIntSet()
	tree.InsertAll([]int64{1, 2, 3})
	tree.allocator.color[tree.root] = red
	err := tree.Verify()
	assert.Error(t, err)
	assert.Equal(t, ErrCorrupted, errors.Cause(err))

	tree = testNewIntSet()
	tree.InsertAll([]int64{1, 2, 3})
	tree.allocator.keys[tree.allocator.left[tree.root]] = 100
	assert.Equal(t, ErrCorrupted, errors.Cause(tree.Verify()))

	tree = testNewIntSet()
	tree.InsertAll([]int64{1, 2, 3})
	tree.allocator.free = append(tree.allocator.free, tree.root)
	assert.Equal(t, ErrCorrupted, errors.Cause(tree.Verify()))
}

func TestSmallKeyTypes(t *testing.T) {
	tree := NewRBTree[uint8](0)
	for i := 255; i >= 0; i-- {
		tree.Insert(uint8(i))
	}
	assert.Equal(t, 256, tree.Len())
	assert.NoError(t, tree.Verify())
	key, ok := tree.Max()
	assert.True(t, ok)
	assert.Equal(t, uint8(255), key)
	key, _ = tree.Min()
	assert.Equal(t, uint8(0), key)

	signed := NewRBTree[int8](0)
	signed.InsertAll([]int8{-128, 127, 0, -1})
	assert.Equal(t, []int8{-128, -1, 0, 127}, treeKeys(signed))
}

func TestNodeLimit(t *testing.T) {
	assert.NotPanics(t, func() { checkNodeLimit(math.MaxUint32) })
	assert.PanicsWithValue(t,
		"the size of my RBTree allocator has reached the maximum value for uint32, sorry",
		func() { checkNodeLimit(math.MaxUint32 + 1) })
}

func TestReserve(t *testing.T) {
	tree := testNewIntSet()
	tree.Reserve(0)
	assert.Equal(t, minCapacity, tree.Capacity())
	tree.Reserve(1000)
	assert.Equal(t, 1001, tree.Capacity())
	for i := int64(0); i < 1000; i++ {
		tree.Insert(i)
	}
	assert.Equal(t, 1001, tree.Capacity())
	assert.NoError(t, tree.Verify())
}
