// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// An ARIMA(p,d,q) model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// Coefficients are estimated by conditional sum of squares, starting from
// Yule-Walker estimates for the AR terms.
//
// # Basic Usage
//
//	model := arima.New(1, 1, 0)
//	if err := model.Fit(series); err != nil {
//	    log.Fatal(err)
//	}
//	forecasts, _ := model.Predict(6)
//	stdErrs, _ := model.ForecastStdErrors(6)
//
// Forecast standard errors come from the ψ-weights of the model's MA(∞)
// representation, so they grow with the horizon for any d > 0.
//
// # Order Selection
//
// SelectOrder runs a stepwise search over small (p, q) orders at a fixed d and
// keeps the fit with the lowest information criterion:
//
//	result, err := arima.SelectOrder(series, arima.DefaultSearchConfig())
//	fmt.Println(result.Model.Order, result.Criterion)
package arima
