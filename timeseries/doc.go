// Package timeseries provides time series data structures and utilities.
//
// Raw input is a slice of Point records, one count per entity per monthly
// period. Period keys have the form "YYYY-MM" and sort correctly as strings.
//
// # Aggregation
//
// Collapse raw records into an ordered per-period series:
//
//	points := []timeseries.Point{
//	    {Period: "2024-01", EntityID: "acme", Value: 100},
//	    {Period: "2024-02", EntityID: "acme", Value: 120},
//	}
//	series := timeseries.AggregateByPeriod(points)
//	totals := timeseries.AggregateByEntity(points)
//
// Fill calendar gaps with zero totals so that period indices line up with
// months:
//
//	filled, err := timeseries.FillGaps(series)
//
// # Period keys
//
//	next, _ := timeseries.AddPeriods("2024-12", 1) // "2025-01"
//	keys, _ := timeseries.NextPeriods("2024-03", 2) // ["2024-04", "2024-05"]
//
// # Loading from CSV
//
// Import count records from a CSV export:
//
//	opts := timeseries.DefaultCSVOptions() // period,client,count
//	points, err := timeseries.LoadPointsCSVFile("counts.csv", opts)
//
// # Transformations
//
//	diff := series.Diff()           // First difference
//	ma := series.MovingAverage(3)   // Trailing moving average
//	train := series.Slice(0, 10)    // Chronological prefix
package timeseries
