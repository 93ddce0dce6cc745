package trend

import (
	"time"

	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
)

// ByCalendarPeriod averages the totals of every year that shares a calendar
// month, keyed by month name. Periods that do not parse are skipped.
func ByCalendarPeriod(series *timeseries.Series) map[string]float64 {
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for i, key := range series.Periods {
		t, err := timeseries.ParsePeriod(key)
		if err != nil {
			continue
		}
		sums[t.Month()] += series.Values[i]
		counts[t.Month()]++
	}

	out := make(map[string]float64, len(sums))
	for m, sum := range sums {
		out[m.String()] = sum / float64(counts[m])
	}
	return out
}

// SeasonalIndices divides each calendar month's average by the mean of the
// monthly averages, so 1.0 is an average month. All indices are 0 when that
// mean is 0.
func SeasonalIndices(series *timeseries.Series) map[string]float64 {
	averages := ByCalendarPeriod(series)
	if len(averages) == 0 {
		return averages
	}

	total := 0.0
	for _, v := range averages {
		total += v
	}
	mean := total / float64(len(averages))

	out := make(map[string]float64, len(averages))
	for month, v := range averages {
		if mean != 0 {
			out[month] = v / mean
		} else {
			out[month] = 0
		}
	}
	return out
}

// HasYearlySeasonality reports whether the lag-12 autocorrelation exceeds
// the 95% significance bound. Series shorter than two years never qualify.
func HasYearlySeasonality(series *timeseries.Series) bool {
	if series.Len() < 24 {
		return false
	}
	acf := stats.ACF(series, 12)
	return acf != nil && acf[12] > stats.ACFConfidenceBound(series.Len())
}
