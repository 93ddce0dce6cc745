package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gotrend/arima"
	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/timeseries"
)

// ARIMALikeLookback is the shortest history the ARIMA-like model accepts.
const ARIMALikeLookback = 12

// ARIMALikeModel fits ARIMA(p,d,q) with the order picked by a stepwise
// information-criterion search.
type ARIMALikeModel struct {
	backend *linalg.Backend
	search  *arima.SearchConfig
}

// NewARIMALike creates an ARIMA-like model. A nil search config uses
// arima.DefaultSearchConfig().
func NewARIMALike(backend *linalg.Backend, search *arima.SearchConfig) *ARIMALikeModel {
	if search == nil {
		search = arima.DefaultSearchConfig()
	}
	return &ARIMALikeModel{backend: backend, search: search}
}

func (m *ARIMALikeModel) Type() ModelType { return TypeARIMALike }

func (m *ARIMALikeModel) MinObservations() int { return ARIMALikeLookback }

// Fit searches the order space on the full history.
func (m *ARIMALikeModel) Fit(series *timeseries.Series) (Fitted, error) {
	n := series.Len()
	if n < m.MinObservations() {
		return nil, &InsufficientDataError{Model: TypeARIMALike, Required: m.MinObservations(), Got: n}
	}

	result, err := arima.SelectOrder(series, m.search)
	if errors.Is(err, arima.ErrNoCandidate) {
		return nil, &InsufficientDataError{Model: TypeARIMALike, Required: m.MinObservations(), Got: n}
	}
	if err != nil {
		return nil, fmt.Errorf("selecting ARIMA order: %w", err)
	}

	model := result.Model
	params := model.Order.P + model.Order.Q + 1
	return &ARIMALikeFit{
		fitBase: newFitBase(TypeARIMALike, m.backend, series, params, model.InSample()),
		model:   model,
	}, nil
}

// ARIMALikeFit is a fitted ARIMA model.
type ARIMALikeFit struct {
	fitBase
	model *arima.Model
}

// Order returns the selected ARIMA order.
func (f *ARIMALikeFit) Order() arima.Order {
	return f.model.Order
}

// Predict forecasts from the ARIMA recursion. Interval half-widths use the
// ψ-weight standard errors scaled by √(1+1/n). Values and bounds are floored
// at zero, so a declining forecast's interval can collapse to [0, 0] at long
// horizons.
func (f *ARIMALikeFit) Predict(horizon int, confidenceLevel float64) ([]Point, error) {
	if err := validatePredict(horizon, confidenceLevel); err != nil {
		return nil, err
	}
	return f.forecast(horizon, confidenceLevel)
}

func (f *ARIMALikeFit) forecast(horizon int, confidenceLevel float64) ([]Point, error) {
	raw, err := f.model.Predict(horizon)
	if err != nil {
		return nil, err
	}
	se, err := f.model.ForecastStdErrors(horizon)
	if err != nil {
		return nil, err
	}

	q := f.quantile(confidenceLevel)
	scale := math.Sqrt(1 + 1/float64(f.n))
	halfWidths := make([]float64, horizon)
	for h := range halfWidths {
		halfWidths[h] = q * se[h] * scale
	}
	return f.points(raw, halfWidths)
}
