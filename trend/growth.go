package trend

import (
	"math"

	"github.com/sartorproj/gotrend/timeseries"
)

// Point is one period of a trend line with its change from the previous
// period.
type Point struct {
	Period        string  `json:"period"`
	Count         float64 `json:"count"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// Growth holds growth rates in percent. A rate is 0 when the series is too
// short for it or its base is zero.
type Growth struct {
	MonthlyGrowthRate   float64 `json:"monthlyGrowthRate"`
	QuarterlyGrowthRate float64 `json:"quarterlyGrowthRate"`
	YearOverYearGrowth  float64 `json:"yearOverYearGrowth"`
	CAGR                float64 `json:"cagr"`
}

// Minimum series lengths for each growth rate.
const (
	MinMonthlyPeriods   = 2
	MinQuarterlyPeriods = 6
	MinYearlyPeriods    = 24
	MinCAGRPeriods      = 12
)

// Trend returns the period-over-period changes of a series. The first point
// has zero change.
func Trend(series *timeseries.Series) []Point {
	points := make([]Point, series.Len())
	for i, v := range series.Values {
		points[i] = Point{Count: v}
		if series.HasPeriods() {
			points[i].Period = series.Periods[i]
		}
		if i == 0 {
			continue
		}
		prev := series.Values[i-1]
		points[i].Change = v - prev
		points[i].ChangePercent = percentChange(v, prev)
	}
	return points
}

// GrowthMetrics computes monthly, quarterly, year-over-year and compound
// annual growth rates of a monthly series.
func GrowthMetrics(series *timeseries.Series) Growth {
	v := series.Values
	n := len(v)
	var g Growth

	if n >= MinMonthlyPeriods {
		g.MonthlyGrowthRate = percentChange(v[n-1], v[n-2])
	}
	if n >= MinQuarterlyPeriods {
		g.QuarterlyGrowthRate = windowGrowth(v, 3)
	}
	if n >= MinYearlyPeriods {
		g.YearOverYearGrowth = windowGrowth(v, 12)
	}
	if n >= MinCAGRPeriods && v[0] > 0 {
		years := float64(n) / 12
		g.CAGR = (math.Pow(v[n-1]/v[0], 1/years) - 1) * 100
	}
	return g
}

// windowGrowth compares the sum of the last w values with the sum of the w
// values before them.
func windowGrowth(v []float64, w int) float64 {
	n := len(v)
	var recent, previous float64
	for i := n - w; i < n; i++ {
		recent += v[i]
	}
	for i := n - 2*w; i < n-w; i++ {
		previous += v[i]
	}
	return percentChange(recent, previous)
}

func percentChange(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
