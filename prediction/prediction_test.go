package prediction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sartorproj/gotrend/compare"
	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/timeseries"
)

type fakeRecorder struct {
	mu         sync.Mutex
	outcomes   map[State]int
	fits       int
	validation int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: make(map[State]int)}
}

func (r *fakeRecorder) RecordOutcome(_ forecast.ModelType, final State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[final]++
}

func (r *fakeRecorder) RecordFitDuration(forecast.ModelType, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fits++
}

func (r *fakeRecorder) RecordValidationFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validation++
}

func newTestOrchestrator(t *testing.T, config *Config, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	o, err := New(config, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func threeMonths() []timeseries.Point {
	return []timeseries.Point{
		{Period: "2024-01", EntityID: "acme", Value: 100},
		{Period: "2024-02", EntityID: "acme", Value: 120},
		{Period: "2024-03", EntityID: "acme", Value: 140},
	}
}

// history returns n months of a noisy upward trend for entity "acme", plus a
// smaller second entity.
func history(n int) []timeseries.Point {
	points := make([]timeseries.Point, 0, 2*n)
	for i := 0; i < n; i++ {
		period, _ := timeseries.AddPeriods("2022-01", i)
		points = append(points,
			timeseries.Point{Period: period, EntityID: "acme", Value: 200 + 5*i + (i%3)*4},
			timeseries.Point{Period: period, EntityID: "globex", Value: 20 + i%2},
		)
	}
	return points
}

func TestGeneratePredictionsScenario(t *testing.T) {
	fixed := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	o := newTestOrchestrator(t, nil, WithClock(func() time.Time { return fixed }))

	result, err := o.GeneratePredictions(context.Background(), threeMonths(), Request{
		EntityID:        "acme",
		Horizon:         2,
		ModelType:       forecast.TypeLinear,
		ConfidenceLevel: 0.95,
	})
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}

	if len(result.Points) != 2 || result.Points[0].Period != "2024-04" || result.Points[1].Period != "2024-05" {
		t.Fatalf("Unexpected points %+v", result.Points)
	}
	for _, p := range result.Points {
		if p.PredictedValue < 0 || p.ConfidenceInterval.Lower > p.ConfidenceInterval.Upper {
			t.Errorf("Invalid point %+v", p)
		}
	}
	if !result.AccuracyFromTrainingFit {
		t.Error("Three observations should fall back to the training fit")
	}
	if math.Abs(result.Accuracy-1) > 1e-9 {
		t.Errorf("Expected accuracy 1 for an exact line, got %f", result.Accuracy)
	}
	if math.Abs(result.Confidence-0.5) > 1e-9 {
		t.Errorf("Expected confidence 0.5 (3 of 6 recommended periods), got %f", result.Confidence)
	}
	if !result.GeneratedAt.Equal(fixed) {
		t.Errorf("Expected GeneratedAt %v, got %v", fixed, result.GeneratedAt)
	}
	if result.EntityID != "acme" || result.ModelType != forecast.TypeLinear || result.Observations != 3 {
		t.Errorf("Unexpected result metadata %+v", result)
	}
	if len(result.Warnings) == 0 {
		t.Error("Expected a short-history warning")
	}
}

func TestGeneratePredictionsCrossValidates(t *testing.T) {
	recorder := newFakeRecorder()
	o := newTestOrchestrator(t, nil, WithRecorder(recorder))

	result, err := o.GeneratePredictions(context.Background(), history(24), Request{EntityID: "acme"})
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if result.AccuracyFromTrainingFit || result.CrossValidation == nil {
		t.Fatalf("Expected cross-validated accuracy, got %+v", result)
	}
	if result.Accuracy != result.CrossValidation.Score {
		t.Errorf("Accuracy %f should equal the validation score %f", result.Accuracy, result.CrossValidation.Score)
	}
	if result.Confidence != result.Accuracy {
		t.Errorf("Long history should not discount confidence: %f vs %f", result.Confidence, result.Accuracy)
	}
	if result.Accuracy <= 0.8 || result.Accuracy > 1 {
		t.Errorf("Expected a high accuracy for a near-linear trend, got %f", result.Accuracy)
	}
	if len(result.Points) != DefaultConfig().DefaultHorizon {
		t.Errorf("Expected default horizon %d, got %d points", DefaultConfig().DefaultHorizon, len(result.Points))
	}
	if recorder.outcomes[StateDone] != 1 || recorder.fits != 1 {
		t.Errorf("Unexpected recorder state %+v", recorder)
	}
}

func TestGeneratePredictionsEmptySeries(t *testing.T) {
	recorder := newFakeRecorder()
	o := newTestOrchestrator(t, nil, WithRecorder(recorder))

	_, err := o.GeneratePredictions(context.Background(), nil, Request{Horizon: 3})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "series is empty") {
		t.Errorf("Error should name the empty series: %v", err)
	}
	if recorder.validation != 1 || recorder.outcomes[StateFailed] != 1 {
		t.Errorf("Unexpected recorder state %+v", recorder)
	}
}

func TestGeneratePredictionsInsufficientData(t *testing.T) {
	recorder := newFakeRecorder()
	o := newTestOrchestrator(t, nil, WithRecorder(recorder))

	_, err := o.GeneratePredictions(context.Background(), threeMonths(), Request{ModelType: forecast.TypeARIMALike})
	var insufficient *forecast.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientDataError, got %v", err)
	}
	if insufficient.Required != 12 || insufficient.Got != 3 {
		t.Errorf("Unexpected error fields %+v", insufficient)
	}
	if recorder.outcomes[StateFailed] != 1 {
		t.Errorf("Expected a failed outcome, got %+v", recorder.outcomes)
	}
}

func TestGeneratePredictionsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOrchestrator(t, nil).GeneratePredictions(ctx, threeMonths(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGeneratePredictionsFillsGaps(t *testing.T) {
	points := []timeseries.Point{
		{Period: "2024-01", EntityID: "acme", Value: 10},
		{Period: "2024-03", EntityID: "acme", Value: 30},
	}

	result, err := newTestOrchestrator(t, nil).GeneratePredictions(context.Background(), points, Request{Horizon: 1})
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if result.Observations != 3 || result.Points[0].Period != "2024-04" {
		t.Errorf("Expected 3 observations and next period 2024-04, got %d and %s",
			result.Observations, result.Points[0].Period)
	}

	config := DefaultConfig()
	config.FillGaps = false
	result, err = newTestOrchestrator(t, config).GeneratePredictions(context.Background(), points, Request{Horizon: 1})
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if result.Observations != 2 {
		t.Errorf("Expected 2 observations without gap filling, got %d", result.Observations)
	}
}

func TestValidate(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	tests := []struct {
		name     string
		points   []timeseries.Point
		req      Request
		contains string
	}{
		{"empty", nil, Request{}, "series is empty"},
		{"horizon", threeMonths(), Request{Horizon: 400}, "horizon"},
		{"negative horizon", threeMonths(), Request{Horizon: -1}, "horizon"},
		{"confidence", threeMonths(), Request{ConfidenceLevel: 1.5}, "confidence"},
		{"model", threeMonths(), Request{ModelType: "neural"}, "unknown model"},
		{"entity", threeMonths(), Request{EntityID: "initech"}, "initech"},
		{"period", []timeseries.Point{{Period: "2024/01", EntityID: "a", Value: 1}}, Request{}, "invalid period"},
		{"negative", []timeseries.Point{{Period: "2024-01", EntityID: "a", Value: -4}}, Request{}, "negative value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := o.Validate(tt.points, tt.req)
			if v.IsValid {
				t.Fatal("Expected invalid result")
			}
			found := false
			for _, e := range v.Errors {
				if strings.Contains(e, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected an error containing %q, got %v", tt.contains, v.Errors)
			}
		})
	}
}

func TestValidateCapsPointErrors(t *testing.T) {
	points := make([]timeseries.Point, 8)
	for i := range points {
		points[i] = timeseries.Point{Period: "bad", EntityID: "a", Value: 1}
	}
	v := newTestOrchestrator(t, nil).Validate(points, Request{})
	if len(v.Errors) != maxReportedPoints+1 {
		t.Errorf("Expected %d errors, got %d: %v", maxReportedPoints+1, len(v.Errors), v.Errors)
	}
}

func TestValidateWarnings(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	tests := []struct {
		name     string
		points   []timeseries.Point
		model    forecast.ModelType
		warnings int
	}{
		{"below recommended", threeMonths(), forecast.TypeLinear, 1},
		{"below minimum", threeMonths(), forecast.TypeARIMALike, 1},
		{"enough history", history(24), forecast.TypeARIMALike, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := o.Validate(tt.points, Request{ModelType: tt.model})
			if !v.IsValid {
				t.Fatalf("Expected valid request, got %v", v.Errors)
			}
			if len(v.Warnings) != tt.warnings {
				t.Errorf("Expected %d warnings, got %v", tt.warnings, v.Warnings)
			}
		})
	}
}

func TestTrainModel(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	cv, err := o.TrainModel(history(20), Request{EntityID: "acme"}, 0.25)
	if err != nil {
		t.Fatalf("TrainModel: %v", err)
	}
	if cv.HoldoutSize != 5 || cv.TrainSize != 15 {
		t.Errorf("Expected 15/5 split, got %d/%d", cv.TrainSize, cv.HoldoutSize)
	}

	if _, err := o.TrainModel(nil, Request{}, 0); err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestCompare(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	result, err := o.Compare(history(30), Request{EntityID: "acme"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(result.Ranking) != 3 || result.BestModel == "" {
		t.Errorf("Expected all three models ranked, got %+v", result)
	}

	_, err = o.Compare([]timeseries.Point{{Period: "2024-01", EntityID: "a", Value: 1}}, Request{})
	if !errors.Is(err, compare.ErrNoModel) {
		t.Errorf("Expected ErrNoModel, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	all, err := o.Analyze(history(12), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(all.TopEntities) != 2 || all.TopEntities[0].EntityID != "acme" {
		t.Errorf("Unexpected top entities %+v", all.TopEntities)
	}
	if len(all.Report.Points) != 12 {
		t.Errorf("Expected 12 trend points, got %d", len(all.Report.Points))
	}

	one, err := o.Analyze(history(12), "globex")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if one.TopEntities != nil {
		t.Error("Entity analysis should not list top entities")
	}
	if one.Report.Summary.Max != 21 {
		t.Errorf("Expected max 21 for globex, got %f", one.Report.Summary.Max)
	}

	var verr *ValidationError
	if _, err := o.Analyze(nil, ""); !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

// longHistory is one old record followed by two recent years, so gap filling
// produces a series of 2700 months.
func longHistory() []timeseries.Point {
	points := []timeseries.Point{{Period: "1800-01", EntityID: "acme", Value: 50}}
	for i := 0; i < 24; i++ {
		period, _ := timeseries.AddPeriods("2023-01", i)
		points = append(points, timeseries.Point{Period: period, EntityID: "acme", Value: 100 + 3*i})
	}
	return points
}

func TestLongHistoryCrossValidates(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	points := longHistory()

	cv, err := o.TrainModel(points, Request{EntityID: "acme"}, 0.2)
	if err != nil {
		t.Fatalf("TrainModel: %v", err)
	}
	if cv.HoldoutSize != 540 {
		t.Errorf("Expected holdout 540, got %d", cv.HoldoutSize)
	}

	result, err := o.GeneratePredictions(context.Background(), points, Request{EntityID: "acme", Horizon: 3})
	if err != nil {
		t.Fatalf("GeneratePredictions: %v", err)
	}
	if result.AccuracyFromTrainingFit || result.CrossValidation == nil {
		t.Error("Expected accuracy from cross-validation")
	}
	if result.Observations != 2700 {
		t.Errorf("Expected 2700 observations, got %d", result.Observations)
	}

	comparison, err := o.Compare(points, Request{EntityID: "acme"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(comparison.Skipped) != 0 {
		t.Errorf("Expected no skipped models, got %+v", comparison.Skipped)
	}
}

func TestAnalyzeSeasonalityIgnoresFilledGaps(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	points := []timeseries.Point{
		{Period: "2022-01", EntityID: "acme", Value: 10},
		{Period: "2023-01", EntityID: "acme", Value: 20},
		{Period: "2024-01", EntityID: "acme", Value: 30},
	}

	analysis, err := o.Analyze(points, "acme")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analysis.Report.Points) != 25 {
		t.Errorf("Expected 25 gap-filled trend points, got %d", len(analysis.Report.Points))
	}
	if len(analysis.Report.Seasonality) != 1 || analysis.Report.Seasonality["January"] != 20 {
		t.Errorf("Expected only January averaging 20, got %v", analysis.Report.Seasonality)
	}
	if analysis.Report.SeasonalIndices["January"] != 1 {
		t.Errorf("Expected January index 1, got %v", analysis.Report.SeasonalIndices)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"model", func(c *Config) { c.DefaultModel = "other" }},
		{"horizon", func(c *Config) { c.DefaultHorizon = 0 }},
		{"confidence", func(c *Config) { c.DefaultConfidence = 1 }},
		{"degree", func(c *Config) { c.PolynomialDegree = 0 }},
		{"holdout", func(c *Config) { c.HoldoutFraction = 0 }},
		{"min holdout", func(c *Config) { c.MinHoldout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			if _, err := New(config); err == nil {
				t.Error("Expected invalid config error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestStateString(t *testing.T) {
	if StateAggregated.String() != "aggregated" || StateFailed.String() != "failed" {
		t.Error("Unexpected state names")
	}
	if State(42).String() != "unknown" {
		t.Error("Expected unknown for out-of-range state")
	}
	if !StateDone.Terminal() || StateFitted.Terminal() {
		t.Error("Unexpected terminal states")
	}
}

func TestConcurrentPredictions(t *testing.T) {
	recorder := newFakeRecorder()
	o := newTestOrchestrator(t, nil, WithRecorder(recorder))
	points := history(24)

	var wg sync.WaitGroup
	for _, kind := range forecast.ModelTypes() {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(kind forecast.ModelType) {
				defer wg.Done()
				if _, err := o.GeneratePredictions(context.Background(), points, Request{ModelType: kind}); err != nil {
					t.Errorf("%s: %v", kind, err)
				}
			}(kind)
		}
	}
	wg.Wait()

	if recorder.outcomes[StateDone] != 12 {
		t.Errorf("Expected 12 completed runs, got %d", recorder.outcomes[StateDone])
	}
}
