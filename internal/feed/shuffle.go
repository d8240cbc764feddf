package feed

import "math/rand/v2"

// IntN returns a uniform integer in [0, n).
type IntN func(n int) int

// Shuffle returns a Fisher-Yates permutation of items. The input is left untouched.
func Shuffle[T any](items []T, intn IntN) []T {
	if intn == nil {
		intn = rand.IntN
	}

	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
