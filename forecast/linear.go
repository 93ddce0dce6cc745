package forecast

import (
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/timeseries"
)

// LinearModel fits an ordinary least-squares line of value against period
// index.
type LinearModel struct {
	backend *linalg.Backend
}

// NewLinear creates a linear trend model.
func NewLinear(backend *linalg.Backend) *LinearModel {
	return &LinearModel{backend: backend}
}

func (m *LinearModel) Type() ModelType { return TypeLinear }

func (m *LinearModel) MinObservations() int { return 2 }

// Fit estimates intercept and slope.
func (m *LinearModel) Fit(series *timeseries.Series) (Fitted, error) {
	n := series.Len()
	if n < m.MinObservations() {
		return nil, &InsufficientDataError{Model: TypeLinear, Required: m.MinObservations(), Got: n}
	}

	x := indexAxis(n)
	intercept, slope := stat.LinearRegression(x, series.Values, nil, false)

	fitted := make([]float64, n)
	for i, xi := range x {
		fitted[i] = intercept + slope*xi
	}

	return &LinearFit{
		fitBase:   newFitBase(TypeLinear, m.backend, series, 2, fitted),
		Intercept: intercept,
		Slope:     slope,
	}, nil
}

// LinearFit is a fitted linear trend.
type LinearFit struct {
	fitBase
	Intercept float64
	Slope     float64
}

// Predict extrapolates the line. Values and bounds are floored at zero, so a
// declining line's interval can collapse to [0, 0] at long horizons.
func (f *LinearFit) Predict(horizon int, confidenceLevel float64) ([]Point, error) {
	if err := validatePredict(horizon, confidenceLevel); err != nil {
		return nil, err
	}
	return f.forecast(horizon, confidenceLevel)
}

func (f *LinearFit) forecast(horizon int, confidenceLevel float64) ([]Point, error) {
	raw := make([]float64, horizon)
	for h := range raw {
		raw[h] = f.Intercept + f.Slope*float64(f.n+h)
	}
	return f.points(raw, f.regressionHalfWidths(horizon, confidenceLevel))
}

func indexAxis(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}
