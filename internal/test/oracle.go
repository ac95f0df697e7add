package test

import (
	"math/rand"
	"sort"

	"github.com/gogo/protobuf/sortkeys"
)

// Oracle provides an interface similar to an ordered set, but stores the keys
// in a sorted slice. It is slow and obviously correct.
type Oracle struct {
	data []int64
}

// NewOracle creates an empty Oracle.
func NewOracle() *Oracle {
	return &Oracle{data: make([]int64, 0)}
}

// Len returns the number of keys.
func (o *Oracle) Len() int {
	return len(o.data)
}

// Insert adds the key and returns false if it was already there.
func (o *Oracle) Insert(key int64) bool {
	i := o.search(key)
	if i < len(o.data) && o.data[i] == key {
		return false
	}
	o.data = append(o.data, key)
	sortkeys.Int64s(o.data)
	return true
}

// Delete removes the key and returns false if it was absent.
func (o *Oracle) Delete(key int64) bool {
	i := o.search(key)
	if i == len(o.data) || o.data[i] != key {
		return false
	}
	o.data = append(o.data[:i], o.data[i+1:]...)
	return true
}

// Contains checks whether the key exists.
func (o *Oracle) Contains(key int64) bool {
	i := o.search(key)
	return i < len(o.data) && o.data[i] == key
}

// RandomExistingKey picks one of the keys. The oracle must not be empty.
func (o *Oracle) RandomExistingKey(rand *rand.Rand) int64 {
	return o.data[rand.Intn(len(o.data))]
}

// FindGE returns the smallest key >= key.
func (o *Oracle) FindGE(key int64) (int64, bool) {
	i := o.search(key)
	if i == len(o.data) {
		return 0, false
	}
	return o.data[i], true
}

// FindLE returns the largest key <= key.
func (o *Oracle) FindLE(key int64) (int64, bool) {
	i := o.search(key)
	if i < len(o.data) && o.data[i] == key {
		return key, true
	}
	if i == 0 {
		return 0, false
	}
	return o.data[i-1], true
}

// Keys returns a copy of all the keys in ascending order.
func (o *Oracle) Keys() []int64 {
	return append([]int64{}, o.data...)
}

// Tail returns a copy of the keys >= key in ascending order.
func (o *Oracle) Tail(key int64) []int64 {
	return append([]int64{}, o.data[o.search(key):]...)
}

func (o *Oracle) search(key int64) int {
	return sort.Search(len(o.data), func(i int) bool { return o.data[i] >= key })
}

// UniqueRandomKeys generates n distinct keys in [0, limit) in random order.
func UniqueRandomKeys(r *rand.Rand, n int, limit int64) []int64 {
	if limit < int64(n) {
		panic("the key range is too narrow")
	}
	seen := make(map[int64]bool, n)
	keys := make([]int64, 0, n)
	for len(keys) < n {
		key := r.Int63n(limit)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
