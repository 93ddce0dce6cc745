package forecast

import (
	"fmt"
	"strings"

	"github.com/sartorproj/gotrend/arima"
	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/timeseries"
)

// ModelType names a forecasting model variant.
type ModelType string

const (
	TypeLinear     ModelType = "linear"
	TypePolynomial ModelType = "polynomial"
	TypeARIMALike  ModelType = "arimaLike"
)

// MaxHorizon is the longest forecast horizon accepted by Predict.
const MaxHorizon = 365

// ModelTypes returns every model variant in tie-break order.
func ModelTypes() []ModelType {
	return []ModelType{TypeLinear, TypePolynomial, TypeARIMALike}
}

// ParseModelType resolves a model name case-insensitively. "arima" and
// "arima_like" are accepted for TypeARIMALike.
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return TypeLinear, nil
	case "polynomial", "poly":
		return TypePolynomial, nil
	case "arimalike", "arima", "arima_like", "arima-like":
		return TypeARIMALike, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Valid reports whether t is one of ModelTypes.
func (t ModelType) Valid() bool {
	return t.Rank() >= 0
}

// Rank is the position of t in ModelTypes, or -1 for an unknown type.
func (t ModelType) Rank() int {
	for i, m := range ModelTypes() {
		if m == t {
			return i
		}
	}
	return -1
}

// RecommendedObservations is the history length below which forecasts of
// this model type are considered unreliable.
func (t ModelType) RecommendedObservations() int {
	switch t {
	case TypePolynomial:
		return 8
	case TypeARIMALike:
		return 24
	default:
		return 6
	}
}

// ConfidenceInterval bounds a predicted value.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Point is a single forecast period.
type Point struct {
	Period             string             `json:"period"`
	PredictedValue     float64            `json:"predictedValue"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
}

// Model is an unfitted forecasting model. Fit never modifies the model, so a
// Model can be fitted to many series concurrently.
type Model interface {
	Type() ModelType
	MinObservations() int
	Fit(series *timeseries.Series) (Fitted, error)
}

// Fitted is a model fitted to one series.
type Fitted interface {
	// Predict forecasts horizon periods after the last observation.
	Predict(horizon int, confidenceLevel float64) ([]Point, error)
	// FittedValues are the in-sample predictions, one per observation.
	FittedValues() []float64
	NObs() int
}

// Options configures the model variants built by New.
type Options struct {
	PolynomialDegree int                 // Default: 2
	Search           *arima.SearchConfig // Default: arima.DefaultSearchConfig()
}

// New builds the model variant named by kind. A nil backend gets
// linalg.New().
func New(kind ModelType, backend *linalg.Backend, opts Options) (Model, error) {
	if backend == nil {
		backend = linalg.New()
	}
	switch kind {
	case TypeLinear:
		return NewLinear(backend), nil
	case TypePolynomial:
		degree := opts.PolynomialDegree
		if degree == 0 {
			degree = DefaultPolynomialDegree
		}
		m, err := NewPolynomial(backend, degree)
		if err != nil {
			return nil, err
		}
		return m, nil
	case TypeARIMALike:
		return NewARIMALike(backend, opts.Search), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, kind)
}
