package sliders

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// degenerateNorm is the squared norm below which a group of components has no usable direction.
const degenerateNorm = 1e-20

// NewOrder returns the initial recency order [0, 1, ..., n-1], oldest first.
func NewOrder(n int) []int {
	return lo.Range(n)
}

// Touch returns order with index moved to the most recent (last) position. Indices not in order
// leave it unchanged.
func Touch(order []int, index int) []int {
	if !lo.Contains(order, index) {
		return order
	}
	return append(lo.Without(order, index), index)
}

// NormalizeLRU3 returns values with the active component kept and the others changed so the
// sum of squares is 1. order lists the indices from least to most recently used.
func NormalizeLRU3(values [3]float64, active int, order [3]int) [3]float64 {
	var out [3]float64
	copy(out[:], normalizeLRU(values[:], active, order[:]))
	return out
}

// NormalizeLRU4 is NormalizeLRU3 for four components, such as a quaternion.
func NormalizeLRU4(values [4]float64, active int, order [4]int) [4]float64 {
	var out [4]float64
	copy(out[:], normalizeLRU(values[:], active, order[:]))
	return out
}

// normalizeLRU keeps values[active] (clamped to [-1, 1]) and rescales the remaining components,
// the least recently used first: only the oldest if that suffices, then the two oldest, and
// so on.
func normalizeLRU(values []float64, active int, order []int) []float64 {
	out := append([]float64(nil), values...)
	if active < 0 || active >= len(out) {
		return out
	}
	out[active] = lo.Clamp(out[active], -1, 1)
	target := 1 - out[active]*out[active]
	others := lo.Without(lo.Range(len(out)), active)
	if target <= 0 {
		for _, i := range others {
			out[i] = 0
		}
		return out
	}

	rank := func(i int) int {
		if p := lo.IndexOf(order, i); p >= 0 {
			return p
		}
		return 0
	}
	sort.SliceStable(others, func(a, b int) bool { return rank(others[a]) < rank(others[b]) })

	old := lo.Map(others, func(i, _ int) float64 { return out[i] })
	fixed := fitSumOfSquares(old, target)
	for k, i := range others {
		out[i] = fixed[k]
	}
	return out
}

// fitSumOfSquares changes as few leading values as possible so that the sum of squares equals
// target. A single value keeps the sign closest to its old value; several values are scaled
// together.
func fitSumOfSquares(values []float64, target float64) []float64 {
	out := append([]float64(nil), values...)
	for k := 1; k <= len(out); k++ {
		rest := lo.SumBy(out[k:], func(v float64) float64 { return v * v })
		t := target - rest
		if t < 0 {
			continue
		}
		if k == 1 {
			root := math.Sqrt(t)
			if math.Abs(root-out[0]) <= math.Abs(-root-out[0]) {
				out[0] = root
			} else {
				out[0] = -root
			}
			return out
		}
		denom := lo.SumBy(out[:k], func(v float64) float64 { return v * v })
		if denom > degenerateNorm {
			factor := math.Sqrt(t / denom)
			for i := 0; i < k; i++ {
				out[i] *= factor
			}
		} else {
			out[0] = math.Sqrt(t)
			for i := 1; i < k; i++ {
				out[i] = 0
			}
		}
		return out
	}
	return out
}
