package prediction

import (
	"fmt"

	"github.com/sartorproj/gotrend/forecast"
)

// Config holds orchestrator defaults and accuracy settings.
type Config struct {
	DefaultModel      forecast.ModelType // Model used when a request names none (default: linear)
	DefaultHorizon    int                // Periods forecast when a request gives none (default: 6)
	DefaultConfidence float64            // Interval level when a request gives none (default: 0.95)
	PolynomialDegree  int                // Degree of the polynomial model (default: 2)
	HoldoutFraction   float64            // Share of history held out for cross-validation (default: 0.2)
	MinHoldout        int                // Cross-validate only with this many observations beyond the model minimum (default: 3)
	FillGaps          bool               // Insert zero periods for missing months (default: true)
	TrendWindow       int                // Moving-average window for Analyze (default: 3)
	ResidualAlpha     float64            // Significance level of the residual autocorrelation warning (default: 0.05)
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultModel:      forecast.TypeLinear,
		DefaultHorizon:    6,
		DefaultConfidence: 0.95,
		PolynomialDegree:  forecast.DefaultPolynomialDegree,
		HoldoutFraction:   0.2,
		MinHoldout:        3,
		FillGaps:          true,
		TrendWindow:       3,
		ResidualAlpha:     0.05,
	}
}

// Validate checks that the configuration can serve requests.
func (c *Config) Validate() error {
	if !c.DefaultModel.Valid() {
		return fmt.Errorf("default model: %w: %q", forecast.ErrUnknownModel, c.DefaultModel)
	}
	if c.DefaultHorizon < 1 || c.DefaultHorizon > forecast.MaxHorizon {
		return fmt.Errorf("default horizon %d: %w", c.DefaultHorizon, forecast.ErrInvalidHorizon)
	}
	if !(c.DefaultConfidence > 0 && c.DefaultConfidence < 1) {
		return fmt.Errorf("default confidence %g: %w", c.DefaultConfidence, forecast.ErrInvalidConfidence)
	}
	if c.PolynomialDegree < 1 {
		return fmt.Errorf("polynomial degree must be at least 1, got %d", c.PolynomialDegree)
	}
	if !(c.HoldoutFraction > 0 && c.HoldoutFraction < 1) {
		return fmt.Errorf("holdout fraction %g: %w", c.HoldoutFraction, forecast.ErrInvalidHoldout)
	}
	if c.MinHoldout < 1 {
		return fmt.Errorf("minimum holdout must be at least 1, got %d", c.MinHoldout)
	}
	return nil
}

func (c *Config) modelOptions() forecast.Options {
	return forecast.Options{PolynomialDegree: c.PolynomialDegree}
}
