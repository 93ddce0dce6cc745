// Package prediction runs forecast requests end to end.
//
// An Orchestrator takes raw count records and a Request, and moves each call
// through the stages received, validated, aggregated, fitted, predicted and
// done. Any stage may fail, in which case the error is returned and the
// failure is logged and recorded.
//
//	o, err := prediction.New(prediction.DefaultConfig(),
//	    prediction.WithLogger(logger),
//	    prediction.WithRecorder(metrics.New(prometheus.DefaultRegisterer)))
//	result, err := o.GeneratePredictions(ctx, points, prediction.Request{
//	    EntityID:  "acme",
//	    Horizon:   6,
//	    ModelType: forecast.TypeLinear,
//	})
//
// Result.Accuracy is the cross-validation score when the history leaves
// room for a holdout, and the clamped training R² otherwise, in which case
// AccuracyFromTrainingFit is set. Result.Confidence discounts accuracy for
// histories shorter than the model's recommended length.
package prediction
