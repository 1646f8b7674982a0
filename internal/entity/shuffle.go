package entity

// RandFunc returns a uniform value in [0, 1). It is injected everywhere
// shuffling happens so that word order and turn order are reproducible
// in tests.
type RandFunc func() float64

// ShuffleStrings - shuffles items in place with Fisher-Yates.
func ShuffleStrings(items []string, rnd RandFunc) {
	for i := len(items) - 1; i >= 1; i-- {
		j := int(rnd() * float64(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
