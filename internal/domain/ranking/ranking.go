// Package ranking turns unordered values into ranks.
//
// Both functions return a slice parallel to their input: out[i] is the rank
// of values[i]. Ranks start at 1 and follow ascending order of the values.
package ranking

import (
	"cmp"
	"slices"
)

// CompactRank assigns dense ranks: every distinct value gets the next
// integer, equal values share a rank and no rank is skipped. Values are
// ordered by cmp.Compare, so NaNs share the lowest rank.
func CompactRank[T cmp.Ordered](values []T) []int {
	distinct := slices.Clone(values)
	slices.SortFunc(distinct, cmp.Compare[T])
	distinct = slices.CompactFunc(distinct, func(a, b T) bool { return cmp.Compare(a, b) == 0 })

	out := make([]int, len(values))
	for i, v := range values {
		pos, _ := slices.BinarySearchFunc(distinct, v, cmp.Compare[T])
		out[i] = pos + 1
	}
	return out
}

// AverageRank assigns ranks with ties resolved by the midpoint rule: a group
// of k equal values occupying positions r..r+k-1 all receive (2r+k-1)/2.
// The ranks always sum to n(n+1)/2.
func AverageRank[T cmp.Ordered](values []T) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(values[a], values[b])
	})

	out := make([]float64, len(values))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && cmp.Compare(values[order[end]], values[order[start]]) == 0 {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		mid := float64(start+1+end) / 2
		for _, idx := range order[start:end] {
			out[idx] = mid
		}
		start = end
	}
	return out
}
