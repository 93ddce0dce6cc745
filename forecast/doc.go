// Package forecast fits trend models to an aggregated series and produces
// point forecasts with confidence intervals.
//
// Three variants share the Model contract: a linear trend, a polynomial
// trend and an ARIMA-like model whose order is chosen by information
// criterion. All share a single linalg.Backend:
//
//	backend := linalg.New()
//	model, err := forecast.New(forecast.TypeLinear, backend, forecast.Options{})
//	fit, err := model.Fit(series)
//	points, err := fit.Predict(6, 0.95)
//
// Predicted values and interval bounds are never negative. Intervals are
// q·σ·√(h·(1+1/n)) wide on each side for the regression variants, where q is
// the Student-t quantile with n-k degrees of freedom, so they widen with the
// horizon and narrow as history grows.
//
// CrossValidate holds out the most recent observations and scores the
// model's forecasts of them:
//
//	cv, err := forecast.CrossValidate(model, series, 0.2)
//	fmt.Printf("MAPE %.1f%%, score %.2f\n", cv.Validation.MAPE, cv.Score)
package forecast
