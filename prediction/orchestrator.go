package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sartorproj/gotrend/accuracy"
	"github.com/sartorproj/gotrend/compare"
	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/linalg"
	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
	"github.com/sartorproj/gotrend/trend"
)

// Result is a completed forecast.
type Result struct {
	EntityID                string                    `json:"entityId,omitempty"`
	ModelType               forecast.ModelType        `json:"modelType"`
	Points                  []forecast.Point          `json:"points"`
	Accuracy                float64                   `json:"accuracy"`
	Confidence              float64                   `json:"confidence"`
	AccuracyFromTrainingFit bool                      `json:"accuracyFromTrainingFit"`
	CrossValidation         *forecast.CrossValidation `json:"crossValidation,omitempty"`
	Observations            int                       `json:"observations"`
	GeneratedAt             time.Time                 `json:"generatedAt"`
	Warnings                []string                  `json:"warnings"`
}

// Analysis is the dashboard view of a series.
type Analysis struct {
	EntityID    string                   `json:"entityId,omitempty"`
	Report      trend.Report             `json:"report"`
	TopEntities []timeseries.EntityTotal `json:"topEntities,omitempty"`
}

// topEntityCount is the number of entities listed by Analyze.
const topEntityCount = 10

// Orchestrator validates requests and runs them through aggregation, model
// fitting, prediction and accuracy scoring. It is safe for concurrent use.
type Orchestrator struct {
	config   *Config
	backend  *linalg.Backend
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithBackend sets the numeric backend shared by all models.
func WithBackend(b *linalg.Backend) Option {
	return func(o *Orchestrator) { o.backend = b }
}

// WithClock overrides the time source for Result.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator. A nil config uses DefaultConfig().
func New(config *Config, opts ...Option) (*Orchestrator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := *config
	o := &Orchestrator{
		config:   &cfg,
		backend:  linalg.New(),
		logger:   slog.Default(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Config returns a copy of the orchestrator configuration.
func (o *Orchestrator) Config() Config {
	return *o.config
}

// GeneratePredictions forecasts req.Horizon periods from points. It fails
// with *ValidationError for invalid input and *forecast.InsufficientDataError
// when the series is too short for the model.
func (o *Orchestrator) GeneratePredictions(ctx context.Context, points []timeseries.Point, req Request) (*Result, error) {
	req = o.withDefaults(req)
	r := &run{
		state:    StateReceived,
		model:    req.ModelType,
		logger:   o.logger.With("entity", req.EntityID, "model", string(req.ModelType)),
		recorder: o.recorder,
	}

	validation := o.Validate(points, req)
	if !validation.IsValid {
		o.recorder.RecordValidationFailure()
		return nil, r.fail(&ValidationError{Errors: validation.Errors})
	}
	r.advance(StateValidated)
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	series, err := o.buildSeries(points, req.EntityID)
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StateAggregated)
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	model, err := forecast.New(req.ModelType, o.backend, o.config.modelOptions())
	if err != nil {
		return nil, r.fail(err)
	}
	start := time.Now()
	fit, err := model.Fit(series)
	o.recorder.RecordFitDuration(req.ModelType, time.Since(start))
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StateFitted)
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	forecasts, err := fit.Predict(req.Horizon, req.ConfidenceLevel)
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StatePredicted)

	n := series.Len()
	result := &Result{
		EntityID:     req.EntityID,
		ModelType:    req.ModelType,
		Points:       forecasts,
		Observations: n,
		GeneratedAt:  o.now().UTC(),
		Warnings:     append([]string{}, validation.Warnings...),
	}

	var cv *forecast.CrossValidation
	if n >= model.MinObservations()+o.config.MinHoldout {
		cv, err = forecast.CrossValidate(model, series, o.config.HoldoutFraction)
		if err != nil {
			r.logger.Warn("cross-validation failed, scoring the training fit", "error", err)
			cv = nil
		}
	}
	if cv != nil {
		result.CrossValidation = cv
		result.Accuracy = cv.Score
	} else {
		training := accuracy.Evaluate(series.Values, fit.FittedValues())
		result.Accuracy = accuracy.Clamp01(training.R2)
		result.AccuracyFromTrainingFit = true
		result.Warnings = append(result.Warnings, "accuracy is estimated from the training fit; history is too short to hold out data")
	}
	result.Confidence = result.Accuracy * math.Min(1, float64(n)/float64(req.ModelType.RecommendedObservations()))

	if d, ok := fit.(interface{ ResidualTest() *stats.LjungBoxResult }); ok {
		if lb := d.ResidualTest(); lb.Autocorrelated(o.config.ResidualAlpha) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("residuals are autocorrelated (Ljung-Box p=%.3f); the model may miss structure in the series", lb.PValue))
		}
	}

	r.advance(StateDone)
	return result, nil
}

// TrainModel cross-validates the requested model. A holdoutFraction of 0
// uses the configured fraction.
func (o *Orchestrator) TrainModel(points []timeseries.Point, req Request, holdoutFraction float64) (*forecast.CrossValidation, error) {
	if holdoutFraction == 0 {
		holdoutFraction = o.config.HoldoutFraction
	}
	req = o.withDefaults(req)
	series, err := o.validSeries(points, req)
	if err != nil {
		return nil, err
	}
	model, err := forecast.New(req.ModelType, o.backend, o.config.modelOptions())
	if err != nil {
		return nil, err
	}
	return forecast.CrossValidate(model, series, holdoutFraction)
}

// Compare cross-validates every model type on the requested series.
func (o *Orchestrator) Compare(points []timeseries.Point, req Request) (*compare.Result, error) {
	series, err := o.validSeries(points, o.withDefaults(req))
	if err != nil {
		return nil, err
	}
	models, err := compare.AllModels(o.backend, o.config.modelOptions())
	if err != nil {
		return nil, err
	}
	return compare.Compare(models, series, o.config.HoldoutFraction)
}

// Analyze returns the trend report of the entity's series, or of the totals
// across entities when entityID is empty. Calendar-month averages and
// seasonal indices use only observed periods. Growth, moving averages and the
// yearly seasonality check run on the gap-filled series when FillGaps is set,
// so missing months count as zero there.
func (o *Orchestrator) Analyze(points []timeseries.Point, entityID string) (*Analysis, error) {
	series, err := o.validSeries(points, o.withDefaults(Request{EntityID: entityID}))
	if err != nil {
		return nil, err
	}
	report := trend.Analyze(series, o.config.TrendWindow)
	if o.config.FillGaps {
		observed := o.observedSeries(points, entityID)
		report.Seasonality = trend.ByCalendarPeriod(observed)
		report.SeasonalIndices = trend.SeasonalIndices(observed)
	}
	analysis := &Analysis{
		EntityID: entityID,
		Report:   report,
	}
	if entityID == "" {
		analysis.TopEntities = timeseries.TopEntities(points, topEntityCount)
	}
	return analysis, nil
}

func (o *Orchestrator) validSeries(points []timeseries.Point, req Request) (*timeseries.Series, error) {
	if v := o.Validate(points, req); !v.IsValid {
		o.recorder.RecordValidationFailure()
		return nil, &ValidationError{Errors: v.Errors}
	}
	return o.buildSeries(points, req.EntityID)
}

// observedSeries aggregates the entity's records without inserting gaps.
func (o *Orchestrator) observedSeries(points []timeseries.Point, entityID string) *timeseries.Series {
	if entityID != "" {
		points = timeseries.FilterEntity(points, entityID)
	}
	series := timeseries.AggregateByPeriod(points)
	series.Name = entityID
	return series
}

// buildSeries filters, aggregates and optionally gap-fills the records.
func (o *Orchestrator) buildSeries(points []timeseries.Point, entityID string) (*timeseries.Series, error) {
	series := o.observedSeries(points, entityID)
	if !o.config.FillGaps {
		return series, nil
	}
	filled, err := timeseries.FillGaps(series)
	if err != nil {
		return nil, fmt.Errorf("filling gaps: %w", err)
	}
	return filled, nil
}
