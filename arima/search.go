package arima

import (
	"errors"
	"math"

	"github.com/sartorproj/gotrend/timeseries"
)

// SearchConfig bounds the stepwise order search.
type SearchConfig struct {
	MaxP      int    // Maximum AR order (default: 2)
	MaxQ      int    // Maximum MA order (default: 1)
	D         int    // Differencing order, fixed during the search (default: 1)
	Criterion string // Information criterion: "aic", "aicc" or "bic" (default: "aicc")
}

// DefaultSearchConfig returns the search bounds used for monthly count series.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		MaxP:      2,
		MaxQ:      1,
		D:         1,
		Criterion: "aicc",
	}
}

// SearchResult is the model chosen by SelectOrder.
type SearchResult struct {
	Model           *Model
	Criterion       float64
	ModelsEvaluated int
}

// ErrNoCandidate is returned when no order in the search space can be fitted.
var ErrNoCandidate = errors.New("no ARIMA order could be fitted")

// SelectOrder fits candidate orders stepwise, starting from a small set of
// simple models and moving to neighbours while the criterion improves. Ties
// keep the earlier candidate, so the result is deterministic.
func SelectOrder(series *timeseries.Series, config *SearchConfig) (*SearchResult, error) {
	if config == nil {
		config = DefaultSearchConfig()
	}

	type candidate struct{ p, q int }

	result := &SearchResult{Criterion: math.Inf(1)}
	best := candidate{}
	seen := make(map[candidate]bool)

	try := func(s candidate) bool {
		if s.p < 0 || s.p > config.MaxP || s.q < 0 || s.q > config.MaxQ || seen[s] {
			return false
		}
		seen[s] = true

		model := New(s.p, config.D, s.q)
		if err := model.Fit(series); err != nil {
			return false
		}
		result.ModelsEvaluated++

		c := criterion(model, config.Criterion)
		if result.Model == nil || c < result.Criterion {
			result.Model = model
			result.Criterion = c
			best = s
			return true
		}
		return false
	}

	for _, s := range []candidate{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}} {
		try(s)
	}
	if result.Model == nil {
		return nil, ErrNoCandidate
	}

	for improved := true; improved; {
		improved = false
		for _, s := range []candidate{
			{best.p + 1, best.q},
			{best.p - 1, best.q},
			{best.p, best.q + 1},
			{best.p, best.q - 1},
			{best.p + 1, best.q + 1},
			{best.p - 1, best.q - 1},
		} {
			if try(s) {
				improved = true
				break
			}
		}
	}

	return result, nil
}

func criterion(m *Model, name string) float64 {
	switch name {
	case "aic":
		return m.AIC
	case "bic":
		return m.BIC
	default:
		return m.AICc
	}
}
