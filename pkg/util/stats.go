package util

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// StdDev returns the standard deviation with the given delta degrees of
// freedom (0 = population, 1 = sample). Returns 0 when len(xs) <= ddof.
func StdDev(xs []float64, ddof int) float64 {
	n := len(xs)
	if n <= ddof {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

// Median of xs; xs is not modified.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Tail returns the last n elements (all of them when n >= len).
func Tail[T any](xs []T, n int) []T {
	if n <= 0 {
		return xs[:0]
	}
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}
