package forecast

import (
	"math"

	"github.com/sartorproj/gotrend/accuracy"
	"github.com/sartorproj/gotrend/timeseries"
)

// validationConfidence is the interval level used for holdout forecasts. It
// does not affect point predictions.
const validationConfidence = 0.95

// forecaster is implemented by the fits in this package. It skips the
// MaxHorizon check, which bounds caller horizons and not holdouts.
type forecaster interface {
	forecast(horizon int, confidenceLevel float64) ([]Point, error)
}

// CrossValidation is the outcome of a chronological train/holdout split.
type CrossValidation struct {
	Training    accuracy.Report `json:"training"`
	Validation  accuracy.Report `json:"validation"`
	Score       float64         `json:"score"`
	TrainSize   int             `json:"trainSize"`
	HoldoutSize int             `json:"holdoutSize"`
}

// HoldoutSize is max(1, round(n·fraction)).
func HoldoutSize(n int, fraction float64) int {
	return max(1, int(math.Round(float64(n)*fraction)))
}

// CrossValidate fits model on the oldest observations and scores its
// forecasts of the most recent ones. The holdout may exceed MaxHorizon for
// the models in this package.
func CrossValidate(model Model, series *timeseries.Series, holdoutFraction float64) (*CrossValidation, error) {
	if !(holdoutFraction > 0 && holdoutFraction < 1) {
		return nil, ErrInvalidHoldout
	}

	n := series.Len()
	holdout := HoldoutSize(n, holdoutFraction)
	trainSize := n - holdout
	if trainSize < model.MinObservations() {
		return nil, &InsufficientDataError{
			Model:    model.Type(),
			Required: model.MinObservations() + holdout,
			Got:      n,
		}
	}

	train := series.Slice(0, trainSize)
	test := series.Slice(trainSize, n)

	fitted, err := model.Fit(train)
	if err != nil {
		return nil, err
	}
	var points []Point
	if f, ok := fitted.(forecaster); ok {
		points, err = f.forecast(holdout, validationConfidence)
	} else {
		points, err = fitted.Predict(holdout, validationConfidence)
	}
	if err != nil {
		return nil, err
	}
	predicted := make([]float64, len(points))
	for i, p := range points {
		predicted[i] = p.PredictedValue
	}

	validation := accuracy.Evaluate(test.Values, predicted)
	return &CrossValidation{
		Training:    accuracy.Evaluate(train.Values, fitted.FittedValues()),
		Validation:  validation,
		Score:       accuracy.Score(validation),
		TrainSize:   trainSize,
		HoldoutSize: holdout,
	}, nil
}
