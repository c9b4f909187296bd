package wht

import (
	"golang.org/x/exp/constraints"
)

func abs[T constraints.Signed](x T) int64 {
	v := int64(x)
	if v < 0 {
		return -v
	}
	return v
}

// ExtractMax returns the first index of largest magnitude. Later entries of
// equal magnitude do not replace it.
func ExtractMax(d Distribution) (index int, magnitude int64) {
	index, magnitude = 0, -1
	for i, v := range d {
		if m := abs(v); m > magnitude {
			index, magnitude = i, m
		}
	}
	return
}

// Rank returns the position the entry at index would take if the magnitudes
// were sorted in descending order: 1 plus the number of strictly larger ones.
func Rank(d Distribution, index int) int {
	target := abs(d[index])
	rank := 1
	for _, v := range d {
		if abs(v) > target {
			rank++
		}
	}
	return rank
}

// Magnitudes returns |d[i]| for every i as float64.
func Magnitudes(d Distribution) []float64 {
	out := make([]float64, len(d))
	for i, v := range d {
		out[i] = float64(abs(v))
	}
	return out
}

// L1 returns the sum of the magnitudes.
func L1(d Distribution) int64 {
	var s int64
	for _, v := range d {
		s += abs(v)
	}
	return s
}
