package utils

import (
	"math/rand"
	"testing"
)

func TestWeightedDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("zero weight never drawn", func(t *testing.T) {
		choices := []Weighted[string]{
			{Item: "a", Weight: 1},
			{Item: "never", Weight: 0},
			{Item: "b", Weight: 1},
		}
		for i := 0; i < 1000; i++ {
			if got := WeightedDraw(rng, choices); got == "never" {
				t.Fatal("drew an item with zero weight")
			}
		}
	})

	t.Run("all unselectable falls back to first", func(t *testing.T) {
		choices := []Weighted[string]{
			{Item: "first", Weight: 0},
			{Item: "second", Weight: -1},
		}
		if got := WeightedDraw(rng, choices); got != "first" {
			t.Errorf("fallback = %q, want first", got)
		}
	})

	t.Run("heavier item dominates", func(t *testing.T) {
		choices := []Weighted[string]{
			{Item: "heavy", Weight: 9},
			{Item: "light", Weight: 1},
		}
		heavy := 0
		for i := 0; i < 10000; i++ {
			if WeightedDraw(rng, choices) == "heavy" {
				heavy++
			}
		}
		if heavy < 8500 || heavy > 9500 {
			t.Errorf("heavy drawn %d/10000 times, want roughly 9000", heavy)
		}
	})
}
