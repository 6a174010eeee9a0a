package generator

import (
	"math/rand"
	"time"
)

// pickID uniformly selects one id from a non-empty slice.
func pickID(rng *rand.Rand, ids []uint64) uint64 {
	return ids[rng.Intn(len(ids))]
}

// weightedIndex selects an index proportionally to the given weights.
// Non-positive weights are treated as zero; when every weight is zero the
// first index is returned.
func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// uniformFloat draws from [lo, hi).
func uniformFloat(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// hoursAgo backdates ref by a uniform 1..maxHours whole hours.
func hoursAgo(rng *rand.Rand, ref time.Time, maxHours int) time.Time {
	return ref.Add(-time.Duration(1+rng.Intn(maxHours)) * time.Hour)
}

// minutesAgo backdates ref by a uniform 1..maxMinutes whole minutes.
func minutesAgo(rng *rand.Rand, ref time.Time, maxMinutes int) time.Time {
	return ref.Add(-time.Duration(1+rng.Intn(maxMinutes)) * time.Minute)
}
