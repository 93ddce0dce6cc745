// Package trend derives growth and seasonality indicators from an aggregated
// monthly series.
//
//	points := trend.Trend(series)          // period-over-period change
//	growth := trend.GrowthMetrics(series)  // monthly, quarterly, YoY, CAGR
//	months := trend.ByCalendarPeriod(series)
//
// All rates are percentages. Rates that need more history than the series
// has, or whose base is zero, are reported as 0.
package trend
