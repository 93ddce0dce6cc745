package trend

import (
	"github.com/sartorproj/gotrend/stats"
	"github.com/sartorproj/gotrend/timeseries"
)

// DefaultWindow is the moving-average window used when Analyze is given a
// non-positive one.
const DefaultWindow = 3

// Report bundles the dashboard view of one series.
type Report struct {
	Points            []Point            `json:"points"`
	Growth            Growth             `json:"growth"`
	Summary           stats.Summary      `json:"summary"`
	MovingAverage     []Point            `json:"movingAverage"`
	Seasonality       map[string]float64 `json:"seasonality"`
	SeasonalIndices   map[string]float64 `json:"seasonalIndices"`
	YearlySeasonality bool               `json:"yearlySeasonality"`

	// TrendCorrelation is the Pearson correlation of values with their
	// period index: near 1 for steady growth, near -1 for steady decline.
	TrendCorrelation float64 `json:"trendCorrelation"`
}

// Analyze computes the trend, growth, summary, moving average and seasonality
// of a series in one pass.
func Analyze(series *timeseries.Series, window int) Report {
	if window <= 0 {
		window = DefaultWindow
	}

	ma := series.MovingAverage(window)
	smoothed := make([]Point, ma.Len())
	for i, v := range ma.Values {
		smoothed[i] = Point{Count: v}
		if ma.HasPeriods() {
			smoothed[i].Period = ma.Periods[i]
		}
	}

	index := make([]float64, series.Len())
	for i := range index {
		index[i] = float64(i)
	}

	return Report{
		Points:            Trend(series),
		Growth:            GrowthMetrics(series),
		Summary:           stats.Summarize(series.Values),
		MovingAverage:     smoothed,
		Seasonality:       ByCalendarPeriod(series),
		SeasonalIndices:   SeasonalIndices(series),
		YearlySeasonality: HasYearlySeasonality(series),
		TrendCorrelation:  stats.Pearson(index, series.Values),
	}
}
