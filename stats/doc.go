// Package stats provides descriptive statistics and correlation functions for
// count series.
//
// Numeric degeneracies never produce errors: empty input summarizes to zeros
// and correlations of constant or mismatched series are 0.
//
// # Descriptive Statistics
//
//	s := stats.Summarize([]float64{100, 120, 140})
//	fmt.Printf("mean=%.2f median=%.2f sd=%.2f\n", s.Mean, s.Median, s.StdDev)
//
// Variance is the population variance. Mode ties resolve to the smallest
// value.
//
// # Correlation
//
//	r := stats.Pearson(transcripts, clients)
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 12)
//	seasonal := acf != nil && acf[12] > stats.ACFConfidenceBound(series.Len())
package stats
