package forecast

import (
	"fmt"
	"math"

	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/timeseries"
)

// DefaultPolynomialDegree is the degree used when none is configured.
const DefaultPolynomialDegree = 2

// PolynomialModel fits a least-squares polynomial of value against period
// index.
type PolynomialModel struct {
	backend *linalg.Backend
	degree  int
}

// NewPolynomial creates a polynomial trend model of the given degree.
func NewPolynomial(backend *linalg.Backend, degree int) (*PolynomialModel, error) {
	if degree < 1 {
		return nil, fmt.Errorf("polynomial degree must be at least 1, got %d", degree)
	}
	return &PolynomialModel{backend: backend, degree: degree}, nil
}

func (m *PolynomialModel) Type() ModelType { return TypePolynomial }

// Degree returns the polynomial degree.
func (m *PolynomialModel) Degree() int { return m.degree }

func (m *PolynomialModel) MinObservations() int { return m.degree + 1 }

// Fit solves for the coefficients on a centered and scaled index so that
// the Vandermonde design stays well conditioned for long series.
func (m *PolynomialModel) Fit(series *timeseries.Series) (Fitted, error) {
	n := series.Len()
	if n < m.MinObservations() {
		return nil, &InsufficientDataError{Model: TypePolynomial, Required: m.MinObservations(), Got: n}
	}

	f := &PolynomialFit{
		degree: m.degree,
		center: float64(n-1) / 2,
		scale:  math.Max(1, float64(n-1)/2),
	}

	design := make([][]float64, n)
	for i := range design {
		design[i] = f.row(float64(i))
	}
	coeffs, err := m.backend.LeastSquares(design, series.Values)
	if err != nil {
		return nil, fmt.Errorf("fitting degree %d polynomial: %w", m.degree, err)
	}
	f.Coefficients = coeffs

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = f.eval(float64(i))
	}
	f.fitBase = newFitBase(TypePolynomial, m.backend, series, m.degree+1, fitted)
	return f, nil
}

// PolynomialFit is a fitted polynomial trend. Coefficients apply to the
// transformed index (i - center) / scale, lowest power first.
type PolynomialFit struct {
	fitBase
	Coefficients []float64
	degree       int
	center       float64
	scale        float64
}

// Predict extrapolates the polynomial. Values and bounds are floored at zero,
// so a falling curve's interval can collapse to [0, 0] at long horizons.
func (f *PolynomialFit) Predict(horizon int, confidenceLevel float64) ([]Point, error) {
	if err := validatePredict(horizon, confidenceLevel); err != nil {
		return nil, err
	}
	return f.forecast(horizon, confidenceLevel)
}

func (f *PolynomialFit) forecast(horizon int, confidenceLevel float64) ([]Point, error) {
	raw := make([]float64, horizon)
	for h := range raw {
		raw[h] = f.eval(float64(f.n + h))
	}
	return f.points(raw, f.regressionHalfWidths(horizon, confidenceLevel))
}

func (f *PolynomialFit) row(i float64) []float64 {
	x := (i - f.center) / f.scale
	row := make([]float64, f.degree+1)
	p := 1.0
	for k := range row {
		row[k] = p
		p *= x
	}
	return row
}

func (f *PolynomialFit) eval(i float64) float64 {
	v := 0.0
	for k, c := range f.row(i) {
		v += c * f.Coefficients[k]
	}
	return v
}
