package analyzer

import (
	"math"
	"sort"
)

// percentileContMicros estimates the p-th percentile (0 <= p <= 1) of the
// given durations using linear interpolation between order statistics,
// the PERCENTILE_CONT method: rank = p * (n - 1), value interpolated
// between the floor and ceil order statistics. SQL engines differ on the
// exact interpolation, so it is pinned here for reproducibility.
//
// The input slice is not modified. Returns 0 for an empty sample.
func percentileContMicros(micros []int64, p float64) float64 {
	n := len(micros)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return float64(micros[0])
	}

	sorted := make([]int64, n)
	copy(sorted, micros)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo == hi {
		return float64(sorted[lo])
	}

	frac := rank - float64(lo)
	return float64(sorted[lo]) + frac*(float64(sorted[hi])-float64(sorted[lo]))
}
