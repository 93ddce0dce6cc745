package prediction

import (
	"fmt"
	"strings"

	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/timeseries"
)

// Request describes a forecast to produce. Zero-valued fields take the
// orchestrator's configured defaults.
type Request struct {
	EntityID        string             `json:"entityId,omitempty"`
	Horizon         int                `json:"horizon,omitempty"`
	ModelType       forecast.ModelType `json:"modelType,omitempty"`
	ConfidenceLevel float64            `json:"confidenceLevel,omitempty"`
}

// ValidationResult lists the problems found in a request and its data.
// Warnings do not make a request invalid.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidationError is returned when a request fails validation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid prediction request: " + strings.Join(e.Errors, "; ")
}

// maxReportedPoints caps per-point validation messages.
const maxReportedPoints = 5

// withDefaults fills zero-valued request fields from the config.
func (o *Orchestrator) withDefaults(req Request) Request {
	if req.Horizon == 0 {
		req.Horizon = o.config.DefaultHorizon
	}
	if req.ModelType == "" {
		req.ModelType = o.config.DefaultModel
	}
	if req.ConfidenceLevel == 0 {
		req.ConfidenceLevel = o.config.DefaultConfidence
	}
	return req
}

// Validate checks a request against its data without fitting anything.
func (o *Orchestrator) Validate(points []timeseries.Point, req Request) ValidationResult {
	req = o.withDefaults(req)
	result := ValidationResult{Errors: []string{}, Warnings: []string{}}
	addErr := func(format string, args ...any) {
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	if req.Horizon < 1 || req.Horizon > forecast.MaxHorizon {
		addErr("horizon must be between 1 and %d, got %d", forecast.MaxHorizon, req.Horizon)
	}
	if !(req.ConfidenceLevel > 0 && req.ConfidenceLevel < 1) {
		addErr("confidence level must be in (0, 1), got %g", req.ConfidenceLevel)
	}
	if !req.ModelType.Valid() {
		addErr("unknown model type %q", req.ModelType)
	}

	o.checkPoints(points, req.EntityID, &result)

	if len(result.Errors) == 0 && req.ModelType.Valid() {
		if series, err := o.buildSeries(points, req.EntityID); err == nil {
			result.Warnings = append(result.Warnings, o.historyWarnings(series.Len(), req.ModelType)...)
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// checkPoints validates the raw records selected by entityID.
func (o *Orchestrator) checkPoints(points []timeseries.Point, entityID string, result *ValidationResult) {
	if len(points) == 0 {
		result.Errors = append(result.Errors, "series is empty: no data points supplied")
		return
	}
	if entityID != "" {
		points = timeseries.FilterEntity(points, entityID)
		if len(points) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("series is empty: no data points for entity %q", entityID))
			return
		}
	}

	badPeriods, negatives := 0, 0
	for _, p := range points {
		if _, err := timeseries.ParsePeriod(p.Period); err != nil {
			if badPeriods < maxReportedPoints {
				result.Errors = append(result.Errors, fmt.Sprintf("invalid period key %q for entity %q", p.Period, p.EntityID))
			}
			badPeriods++
		}
		if p.Value < 0 {
			if negatives < maxReportedPoints {
				result.Errors = append(result.Errors, fmt.Sprintf("negative value %d for entity %q in period %s", p.Value, p.EntityID, p.Period))
			}
			negatives++
		}
	}
	if extra := badPeriods - maxReportedPoints; extra > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d more invalid period keys", extra))
	}
	if extra := negatives - maxReportedPoints; extra > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d more negative values", extra))
	}
}

// historyWarnings flags series that are shorter than a model needs or than
// is recommended for it.
func (o *Orchestrator) historyWarnings(n int, kind forecast.ModelType) []string {
	model, err := forecast.New(kind, o.backend, o.config.modelOptions())
	if err != nil {
		return nil
	}
	if hard := model.MinObservations(); n < hard {
		return []string{fmt.Sprintf("%s model needs at least %d periods, series has %d", kind, hard, n)}
	}
	if rec := kind.RecommendedObservations(); n < rec {
		return []string{fmt.Sprintf("%s model is unreliable with fewer than %d periods, series has %d", kind, rec, n)}
	}
	return nil
}
