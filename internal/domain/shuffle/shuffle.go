// Package shuffle provides reproducible permutations keyed by a seed string.
package shuffle

import (
	"math/rand/v2"
	"slices"

	"github.com/zeebo/xxh3"
)

// NewSource returns a generator whose output stream depends only on seed.
// The 128-bit xxh3 digest of the seed keys a PCG generator.
func NewSource(seed string) *rand.Rand {
	h := xxh3.HashString128(seed)
	return rand.New(rand.NewPCG(h.Hi, h.Lo)) //nolint:gosec // reproducibility, not secrecy
}

// Shuffle returns a permutation of items determined by seed. items is left
// untouched; the returned slice shares element values but not backing storage.
func Shuffle[T any](items []T, seed string) []T {
	out := slices.Clone(items)
	Permute(out, NewSource(seed))
	return out
}

// Permute shuffles items in place with the Fisher-Yates walk from the last
// index down to 1, drawing j uniformly from [0, i] at each step.
func Permute[T any](items []T, rng *rand.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
