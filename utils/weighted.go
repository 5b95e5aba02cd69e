package utils

import "math/rand"

// Weighted pairs an item with a non-negative selection weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// WeightedDraw selects one item with probability proportional to its weight.
// All randomized weighted selection in the simulator goes through here so
// determinism is controlled by the injected rand source alone. Zero or
// negative weights are treated as unselectable; if every weight is
// unselectable the first item is returned.
func WeightedDraw[T any](rng *rand.Rand, choices []Weighted[T]) T {
	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return choices[0].Item
	}

	target := rng.Float64() * total
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		target -= c.Weight
		if target < 0 {
			return c.Item
		}
	}
	return choices[len(choices)-1].Item
}
