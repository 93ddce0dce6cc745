package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gotrend/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"pValue"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"` // Degrees of freedom
}

// Autocorrelated reports whether the null of no autocorrelation is rejected
// at significance level alpha.
func (r *LjungBoxResult) Autocorrelated(alpha float64) bool {
	return r != nil && r.PValue < alpha
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of parameters estimated in the model (p + q for ARIMA).
// It returns nil when the series is shorter than 10 or constant.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DefaultLjungBoxLags is the usual lag choice for non-seasonal residuals,
// min(10, n/5).
func DefaultLjungBoxLags(n int) int {
	return max(1, min(10, n/5))
}
