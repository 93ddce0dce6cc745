package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a value sequence. All fields are
// zero for empty input.
type Summary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Variance float64 `json:"variance"` // population variance
	StdDev   float64 `json:"standardDeviation"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Summarize computes descriptive statistics of values.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	mean, variance := stat.PopMeanVariance(sorted, nil)

	return Summary{
		// Rounding in the running sum can push the mean a ulp outside [min, max].
		Mean:     math.Max(lo, math.Min(hi, mean)),
		Median:   median(sorted),
		Mode:     mode(sorted),
		Variance: math.Max(variance, 0),
		StdDev:   math.Sqrt(math.Max(variance, 0)),
		Min:      lo,
		Max:      hi,
		Total:    floats.Sum(sorted),
		Count:    len(sorted),
	}
}

// Median returns the median of values, or 0 for empty input.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return median(sorted)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// mode scans runs of equal values in ascending order, so the first (smallest)
// value reaching the highest frequency wins ties.
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return best
}
