// Package compare cross-validates several forecast models on the same series
// and ranks them.
package compare

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/sartorproj/gotrend/accuracy"
	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/timeseries"
)

// ErrNoModel is returned when none of the candidate models could be fitted.
var ErrNoModel = errors.New("no model could be fitted to the series")

// Ranked is one model's position in a comparison.
type Ranked struct {
	Model      forecast.ModelType `json:"model"`
	Score      float64            `json:"score"`
	Validation accuracy.Report    `json:"validation"`
}

// Skip records a model excluded from the ranking.
type Skip struct {
	Model  forecast.ModelType `json:"model"`
	Reason string             `json:"reason"`
}

// Result is the outcome of Compare.
type Result struct {
	PerModel       map[forecast.ModelType]accuracy.Report `json:"perModel"`
	Ranking        []Ranked                               `json:"ranking"`
	BestModel      forecast.ModelType                     `json:"bestModel"`
	Recommendation string                                 `json:"recommendation"`
	Skipped        []Skip                                 `json:"skipped,omitempty"`
	HoldoutSize    int                                    `json:"holdoutSize"`
}

// AllModels builds one model of every type in forecast.ModelTypes order.
func AllModels(backend *linalg.Backend, opts forecast.Options) ([]forecast.Model, error) {
	models := make([]forecast.Model, 0, len(forecast.ModelTypes()))
	for _, kind := range forecast.ModelTypes() {
		m, err := forecast.New(kind, backend, opts)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// Compare cross-validates every model with the same holdout and ranks them
// by validation score. Ties keep forecast.ModelTypes order. Models that
// cannot be fitted are listed in Skipped.
func Compare(models []forecast.Model, series *timeseries.Series, holdoutFraction float64) (*Result, error) {
	result := &Result{
		PerModel:    make(map[forecast.ModelType]accuracy.Report, len(models)),
		HoldoutSize: forecast.HoldoutSize(series.Len(), holdoutFraction),
	}

	for _, m := range models {
		cv, err := forecast.CrossValidate(m, series, holdoutFraction)
		if errors.Is(err, forecast.ErrInvalidHoldout) {
			return nil, err
		}
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Model: m.Type(), Reason: err.Error()})
			continue
		}
		result.PerModel[m.Type()] = cv.Validation
		result.Ranking = append(result.Ranking, Ranked{
			Model:      m.Type(),
			Score:      cv.Score,
			Validation: cv.Validation,
		})
	}

	if len(result.Ranking) == 0 {
		return nil, fmt.Errorf("%w (%d candidates skipped)", ErrNoModel, len(result.Skipped))
	}

	slices.SortStableFunc(result.Ranking, func(a, b Ranked) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Model.Rank(), b.Model.Rank())
	})

	best := result.Ranking[0]
	result.BestModel = best.Model
	result.Recommendation = recommendation(best)
	return result, nil
}

func recommendation(best Ranked) string {
	if best.Validation.MAPETerms == 0 {
		return fmt.Sprintf("Use the %s model (validation RMSE %.2f).", best.Model, best.Validation.RMSE)
	}
	return fmt.Sprintf("Use the %s model (validation MAPE %.2f%%).", best.Model, best.Validation.MAPE)
}
