// Package accuracy scores predictions against observed values.
package accuracy

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Report holds error measures of predicted against actual values.
type Report struct {
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"` // percent, over non-zero actuals only
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"` // may be negative for fits worse than the mean
	N    int     `json:"n"`

	// MAPETerms is the number of non-zero actuals MAPE was averaged over.
	MAPETerms int `json:"mapeTerms"`
}

// Evaluate compares actual with predicted. Mismatched or empty inputs give a
// zero report. R2 is 0 when actual is constant.
func Evaluate(actual, predicted []float64) Report {
	n := len(actual)
	if n == 0 || n != len(predicted) {
		return Report{}
	}

	var absSum, sqSum, pctSum float64
	pctTerms := 0
	for i := range actual {
		d := actual[i] - predicted[i]
		absSum += math.Abs(d)
		sqSum += d * d
		if actual[i] != 0 {
			pctSum += math.Abs(d) / math.Abs(actual[i])
			pctTerms++
		}
	}

	r := Report{
		MAE:       absSum / float64(n),
		RMSE:      math.Sqrt(sqSum / float64(n)),
		N:         n,
		MAPETerms: pctTerms,
	}
	if pctTerms > 0 {
		r.MAPE = pctSum / float64(pctTerms) * 100
	}

	mean := stat.Mean(actual, nil)
	ssTot := 0.0
	for _, v := range actual {
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot > 0 {
		r.R2 = 1 - sqSum/ssTot
	}
	return r
}

// Score maps a report onto [0, 1], higher is better. It is 1-MAPE/100 when
// any actual was non-zero; otherwise 1 for an exact fit and 0 for any error.
func Score(r Report) float64 {
	if r.N == 0 {
		return 0
	}
	if r.MAPETerms > 0 {
		return clamp01(1 - r.MAPE/100)
	}
	if r.RMSE == 0 {
		return 1
	}
	return 0
}

// Clamp01 restricts v to [0, 1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
