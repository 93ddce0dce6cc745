package forecast

import (
	"math"
	"strconv"

	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
)

// fitBase holds what every fitted variant needs to turn raw forecasts into
// interval-bounded points.
type fitBase struct {
	kind       ModelType
	backend    *linalg.Backend
	lastPeriod string
	n          int
	params     int // estimated coefficients
	sigma      float64
	fitted     []float64
	residuals  []float64
}

func newFitBase(kind ModelType, backend *linalg.Backend, series *timeseries.Series, params int, fitted []float64) fitBase {
	residuals := make([]float64, len(fitted))
	sse := 0.0
	for i, v := range series.Values {
		residuals[i] = v - fitted[i]
		sse += residuals[i] * residuals[i]
	}

	n := series.Len()
	dof := n - params
	if dof <= 0 {
		dof = n
	}

	b := fitBase{
		kind:      kind,
		backend:   backend,
		n:         n,
		params:    params,
		sigma:     math.Sqrt(sse / float64(dof)),
		fitted:    fitted,
		residuals: residuals,
	}
	if series.HasPeriods() {
		b.lastPeriod = series.LastPeriod()
	}
	return b
}

func (b *fitBase) FittedValues() []float64 {
	return append([]float64(nil), b.fitted...)
}

func (b *fitBase) NObs() int {
	return b.n
}

// Sigma returns the residual standard error.
func (b *fitBase) Sigma() float64 {
	return b.sigma
}

// ResidualTest runs a Ljung-Box test on the in-sample residuals. It returns
// nil when there are too few residuals to test.
func (b *fitBase) ResidualTest() *stats.LjungBoxResult {
	return stats.LjungBox(timeseries.New(b.residuals), stats.DefaultLjungBoxLags(b.n), 0)
}

// quantile is the two-sided critical value with n-k degrees of freedom.
func (b *fitBase) quantile(confidence float64) float64 {
	return b.backend.Quantile(confidence, float64(b.n-b.params))
}

// periodKeys continues the calendar after the last observed period. Series
// without period keys get their zero-based observation index.
func (b *fitBase) periodKeys(horizon int) ([]string, error) {
	if b.lastPeriod != "" {
		return timeseries.NextPeriods(b.lastPeriod, horizon)
	}
	keys := make([]string, horizon)
	for i := range keys {
		keys[i] = strconv.Itoa(b.n + i)
	}
	return keys, nil
}

// points assembles forecast points. Predicted values are floored at zero and
// each interval is clipped to [0, ∞) with Upper ≥ Lower.
func (b *fitBase) points(raw, halfWidths []float64) ([]Point, error) {
	keys, err := b.periodKeys(len(raw))
	if err != nil {
		return nil, err
	}

	out := make([]Point, len(raw))
	for i, v := range raw {
		lower := math.Max(0, v-halfWidths[i])
		upper := math.Max(lower, v+halfWidths[i])
		out[i] = Point{
			Period:         keys[i],
			PredictedValue: math.Max(0, v),
			ConfidenceInterval: ConfidenceInterval{
				Lower: lower,
				Upper: upper,
			},
		}
	}
	return out, nil
}

func validatePredict(horizon int, confidence float64) error {
	if horizon < 1 || horizon > MaxHorizon {
		return ErrInvalidHorizon
	}
	if !(confidence > 0 && confidence < 1) {
		return ErrInvalidConfidence
	}
	return nil
}

// regressionHalfWidths is q·σ·√(h·(1+1/n)) for h = 1..horizon.
func (b *fitBase) regressionHalfWidths(horizon int, confidence float64) []float64 {
	q := b.quantile(confidence)
	out := make([]float64, horizon)
	for h := range out {
		out[h] = q * b.sigma * math.Sqrt(float64(h+1)*(1+1/float64(b.n)))
	}
	return out
}
