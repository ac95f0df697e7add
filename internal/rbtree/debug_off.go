//go:build !primsetdebug

package rbtree

// debugChecks enables the invariant verification after every mutation.
// Build with -tags primsetdebug to turn it on.
const debugChecks = false
