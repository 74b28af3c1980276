package utils

import "cmp"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Clamp bounds v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Ratio returns a/b, or fallback when b is zero.
func Ratio(a, b, fallback float64) float64 {
	if b == 0 {
		return fallback
	}
	return a / b
}
