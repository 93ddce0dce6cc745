// Package gotrend turns dated count records into descriptive statistics,
// growth and seasonality indicators, and multi-model forecasts with
// confidence intervals and accuracy scores.
//
// # Quick Start
//
// Forecast the next six months for one entity:
//
//	points, _ := timeseries.LoadPointsCSVFile("counts.csv", timeseries.DefaultCSVOptions())
//	o, _ := prediction.New(prediction.DefaultConfig())
//	result, err := o.GeneratePredictions(ctx, points, prediction.Request{
//	    EntityID:  "acme",
//	    Horizon:   6,
//	    ModelType: forecast.TypeLinear,
//	})
//
// Rank every model on the same history:
//
//	cmp, _ := o.Compare(points, prediction.Request{EntityID: "acme"})
//	fmt.Println(cmp.Recommendation)
//
// # Packages
//
//   - timeseries: Count records, period keys, aggregation and CSV import
//   - stats: Descriptive statistics, correlation, autocorrelation and Ljung-Box
//   - trend: Growth rates and calendar seasonality
//   - accuracy: Forecast error metrics and scores
//   - linalg: Least squares and interval quantiles shared by the models
//   - arima: ARIMA estimation and order search
//   - forecast: Linear, polynomial and ARIMA-like models, cross-validation
//   - compare: Model ranking by cross-validation score
//   - prediction: Request validation and the end-to-end orchestrator
//   - metrics: Prometheus recorder for prediction outcomes
//   - httpapi: Fiber handlers for the HTTP service
//
// The trendcast command runs the engine on a CSV file; trendcastd serves it
// over HTTP.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package gotrend
