//go:build primsetdebug

package rbtree

const debugChecks = true
