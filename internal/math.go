package internal

import "golang.org/x/exp/constraints"

// Max calculates the maximum of two ordered values.
func Max[T constraints.Ordered](a, b T) T {
	if a < b {
		return b
	}
	return a
}

// IsPowerOfTwoMinusOne checks whether n equals 2^k - 1 for some k >= 0,
// that is, whether a binary tree with n nodes can be perfect.
func IsPowerOfTwoMinusOne[T constraints.Integer](n T) bool {
	return n >= 0 && n&(n+1) == 0
}
