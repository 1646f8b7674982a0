package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// zeroRand always picks index 0, so every element rotates through the
// front slot.
func zeroRand() float64 { return 0 }

// identityRand always picks j == i, so the order is unchanged.
func identityRand() float64 { return 0.9999999 }

func TestShuffleStrings(t *testing.T) {
	t.Run("Zero source produces the rotated order", func(t *testing.T) {
		// Given: four items and a source that always returns 0
		items := []string{"a", "b", "c", "d"}

		// When: shuffling
		ShuffleStrings(items, zeroRand)

		// Then: each pass swapped the front element outward
		assert.Equal(t, []string{"b", "c", "d", "a"}, items)
	})

	t.Run("Identity source leaves the order unchanged", func(t *testing.T) {
		// Given: four items and a source that always picks j == i
		items := []string{"a", "b", "c", "d"}

		// When: shuffling
		ShuffleStrings(items, identityRand)

		// Then: the order is untouched
		assert.Equal(t, []string{"a", "b", "c", "d"}, items)
	})

	t.Run("Shuffling preserves the multiset of values", func(t *testing.T) {
		// Given: items with a duplicate value
		items := []string{"x", "y", "x", "z"}

		// When: shuffling with the zero source
		ShuffleStrings(items, zeroRand)

		// Then: the same values are all still present
		assert.ElementsMatch(t, []string{"x", "x", "y", "z"}, items)
	})

	t.Run("Single element and empty slices are no-ops", func(t *testing.T) {
		single := []string{"only"}
		ShuffleStrings(single, zeroRand)
		assert.Equal(t, []string{"only"}, single)

		var empty []string
		ShuffleStrings(empty, zeroRand)
		assert.Empty(t, empty)
	})
}
