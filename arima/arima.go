package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
)

// ErrNotFitted is returned when a model is used before Fit succeeds.
var ErrNotFitted = errors.New("model must be fitted before prediction")

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order (number of autoregressive terms)
	D int // Differencing order
	Q int // MA order (number of moving average terms)
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// MinObservations returns the shortest series Fit accepts for this order.
func (o Order) MinObservations() int {
	return o.P + o.Q + o.D + 10
}

// Model represents an ARIMA model.
type Model struct {
	Order      Order
	ARCoeffs   []float64 // AR coefficients (phi)
	MACoeffs   []float64 // MA coefficients (theta)
	Intercept  float64   // Mean of the differenced series
	Variance   float64   // Residual variance
	AIC        float64
	AICc       float64 // Corrected AIC for small sample sizes
	BIC        float64
	LogLik     float64
	fitted     bool
	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// New creates a new ARIMA model with the specified order.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, p),
		MACoeffs: make([]float64, q),
	}
}

// Fit fits the ARIMA model to the given time series data.
func (m *Model) Fit(series *timeseries.Series) error {
	if series.Len() < m.Order.MinObservations() {
		return fmt.Errorf("insufficient data points for %s: need %d, got %d",
			m.Order, m.Order.MinObservations(), series.Len())
	}

	m.data = series
	diffSeries := series
	for i := 0; i < m.Order.D; i++ {
		diffSeries = diffSeries.Diff()
	}
	m.diffData = diffSeries

	m.fitCSS()
	m.calculateIC()
	m.fitted = true
	return nil
}

// fitCSS fits the model using Conditional Sum of Squares estimation.
func (m *Model) fitCSS() {
	y := m.diffData.Values
	m.Intercept = m.diffData.Mean()

	if m.Order.P > 0 {
		// Yule-Walker gives the starting point; nil ACF means a constant series.
		if acf := stats.ACF(m.diffData, m.Order.P); acf != nil {
			if phi := yuleWalker(acf, m.Order.P); phi != nil {
				m.ARCoeffs = clampCoeffs(phi)
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}

	m.optimizeCSS(y)
}

// optimizeCSS refines the coefficients by gradient descent on the conditional
// sum of squares. The step is normalized by the series variance so that the
// learning rate does not depend on the scale of the counts.
func (m *Model) optimizeCSS(y []float64) {
	n := len(y)
	p, q := m.Order.P, m.Order.Q
	start := max(p, q)

	scale := 0.0
	for _, v := range y {
		scale += (v - m.Intercept) * (v - m.Intercept)
	}
	scale /= float64(n)
	if scale <= 0 {
		scale = 1
	}

	const (
		maxIter      = 200
		tolerance    = 1e-9
		learningRate = 0.1
	)

	residuals := make([]float64, n)
	sse := m.conditionalResiduals(y, residuals)

	for iter := 0; iter < maxIter && (p > 0 || q > 0); iter++ {
		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		step := learningRate / (float64(n) * scale)
		for i := range arGrad {
			m.ARCoeffs[i] -= step * arGrad[i]
		}
		for i := range maGrad {
			m.MACoeffs[i] -= step * maGrad[i]
		}
		clampCoeffs(m.ARCoeffs)
		clampCoeffs(m.MACoeffs)

		newSSE := m.conditionalResiduals(y, residuals)
		if math.Abs(sse-newSSE) < tolerance*(1+sse) {
			sse = newSSE
			break
		}
		sse = newSSE
	}

	m.residuals = residuals
	m.fittedVals = make([]float64, n)
	for t := range y {
		m.fittedVals[t] = y[t] - residuals[t]
	}

	count := n - start
	switch {
	case count > p+q+1:
		m.Variance = sse / float64(count-p-q-1)
	case count > 0:
		m.Variance = sse / float64(count)
	default:
		m.Variance = 0
	}
}

// conditionalResiduals fills residuals for the current coefficients and
// returns their sum of squares over the conditional range.
func (m *Model) conditionalResiduals(y, residuals []float64) float64 {
	p, q := m.Order.P, m.Order.Q
	start := max(p, q)
	sse := 0.0
	for t := range y {
		if t < start {
			residuals[t] = y[t] - m.Intercept
			continue
		}
		pred := m.Intercept
		for i := 0; i < p; i++ {
			pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
		}
		for i := 0; i < q; i++ {
			pred += m.MACoeffs[i] * residuals[t-i-1]
		}
		residuals[t] = y[t] - pred
		sse += residuals[t] * residuals[t]
	}
	return sse
}

// calculateIC calculates AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	n := len(m.residuals)
	k := m.Order.P + m.Order.Q + 1 // AR + MA + intercept

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(1)
	}

	m.AIC = -2*m.LogLik + 2*float64(k)

	kf, nf := float64(k), float64(n)
	if nf-kf-1 > 0 {
		m.AICc = m.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.AICc = math.Inf(1)
	}

	m.BIC = -2*m.LogLik + kf*math.Log(nf)
}

// Predict generates point forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	p, q := m.Order.P, m.Order.Q
	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}
		// Future shocks have expectation zero.
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MACoeffs[i] * extResiduals[t-i-1]
		}
		extY[t] = pred
	}

	forecasts := append([]float64(nil), extY[n:]...)
	if m.Order.D > 0 {
		forecasts = m.integrate(forecasts)
	}
	return forecasts, nil
}

// integrate undoes differencing to return forecasts on the original scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	// levels[k] holds the series differenced k times, so the last element of
	// each level seeds the cumulative sum one order down.
	levels := make([][]float64, m.Order.D)
	cur := m.data
	for k := 0; k < m.Order.D; k++ {
		levels[k] = cur.Values
		cur = cur.Diff()
	}

	result := append([]float64(nil), forecasts...)
	for k := m.Order.D - 1; k >= 0; k-- {
		last := levels[k][len(levels[k])-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// PsiWeights returns the first h coefficients of the MA(∞) representation of
// the integrated model, ψ₀ = 1.
func (m *Model) PsiWeights(h int) []float64 {
	if h <= 0 {
		return nil
	}

	// Expand φ(B)(1-B)^d into 1 - a₁B - a₂B² - ...
	poly := make([]float64, m.Order.P+1)
	poly[0] = 1
	for i, phi := range m.ARCoeffs {
		poly[i+1] = -phi
	}
	for k := 0; k < m.Order.D; k++ {
		next := make([]float64, len(poly)+1)
		for i, c := range poly {
			next[i] += c
			next[i+1] -= c
		}
		poly = next
	}

	psi := make([]float64, h)
	psi[0] = 1
	for j := 1; j < h; j++ {
		if j <= m.Order.Q {
			psi[j] = m.MACoeffs[j-1]
		}
		for i := 1; i < len(poly) && i <= j; i++ {
			psi[j] -= poly[i] * psi[j-i]
		}
	}
	return psi
}

// ForecastStdErrors returns the standard error of each of the next steps
// forecasts, √(σ² Σψ²).
func (m *Model) ForecastStdErrors(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	psi := m.PsiWeights(steps)
	se := make([]float64, steps)
	acc := 0.0
	for h := range se {
		acc += psi[h] * psi[h]
		se[h] = math.Sqrt(m.Variance * acc)
	}
	return se, nil
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns the fitted values on the differenced scale.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.fittedVals...)
}

// InSample returns one-step-ahead fitted values on the original scale. The
// first D observations have no prediction and are returned as observed.
func (m *Model) InSample() []float64 {
	if !m.fitted {
		return nil
	}
	y := m.data.Values
	out := make([]float64, len(y))
	for t := range y {
		if t < m.Order.D {
			out[t] = y[t]
			continue
		}
		out[t] = y[t] - m.residuals[t-m.Order.D]
	}
	return out
}

// NObs returns the number of observations the model was fitted on.
func (m *Model) NObs() int {
	if m.data == nil {
		return 0
	}
	return m.data.Len()
}

// yuleWalker estimates AR coefficients using Yule-Walker equations, solved by
// Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		prev := append([]float64(nil), phi[:i]...)
		for j := 0; j < i; j++ {
			phi[j] = prev[j] - lambda*prev[i-1-j]
		}
		phi[i] = lambda
		v *= 1 - lambda*lambda
	}
	return phi
}

// clampCoeffs keeps coefficients inside (-1, 1) for stationarity and
// invertibility.
func clampCoeffs(c []float64) []float64 {
	for i, v := range c {
		c[i] = math.Max(-0.99, math.Min(0.99, v))
	}
	return c
}
