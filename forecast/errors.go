package forecast

import (
	"errors"
	"fmt"
)

var (
	ErrNotFitted         = errors.New("model has not been fitted")
	ErrInvalidHorizon    = fmt.Errorf("horizon must be between 1 and %d", MaxHorizon)
	ErrInvalidConfidence = errors.New("confidence level must be in (0, 1)")
	ErrInvalidHoldout    = errors.New("holdout fraction must be in (0, 1)")
	ErrUnknownModel      = errors.New("unknown model type")
)

// InsufficientDataError is returned by Fit and CrossValidate when the series
// is shorter than the model needs.
type InsufficientDataError struct {
	Model    ModelType
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s model: need at least %d observations, got %d",
		e.Model, e.Required, e.Got)
}
