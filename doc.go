/*
Package primset provides ordered sets of fixed-width integer keys which do not
box the keys into per-key heap objects.

Set is the main object. It stores the keys in a red-black tree whose nodes live
in parallel arrays and refer to each other by uint32 ids, so a set of a million
int64 keys costs a handful of large allocations instead of a million small ones.

	s := primset.New[int64]()
	s.AddAll(5, 1, 3)
	s.Remove(1)
	for it := s.Iterator(); it.Next(); {
		fmt.Println(it.Value())
	}

Sorted input can be loaded in linear time with FromSortedUnique. The Coloring
argument chooses how many levels of the rebuilt tree are red: ColoringForAdd
prepares for following insertions, ColoringForRemove for removals and
ColoringBalanced for both. The same rebuild runs automatically when removals
leave most of the storage unused; see WithShrinkThreshold.

Iterators are fail-fast: any modification of the set makes the next call to
an existing iterator panic with ErrConcurrentModification.

A Set is not safe for concurrent use. The invariant checks run after every
mutation when the module is built with the primsetdebug tag.
*/
package primset
