package timeseries

import (
	"errors"
	"math"
)

// Series is an ordered sequence of per-period totals. Periods and Values are
// parallel slices; Periods may be empty for index-only series.
type Series struct {
	Periods []string
	Values  []float64
	Name    string
}

// New creates a new index-only series from values.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithPeriods creates a series with explicit period keys.
func NewWithPeriods(periods []string, values []float64) (*Series, error) {
	if len(periods) != len(values) {
		return nil, errors.New("periods and values must have the same length")
	}
	return &Series{
		Periods: periods,
		Values:  values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasPeriods reports whether every value carries a period key.
func (s *Series) HasPeriods() bool {
	return len(s.Periods) == len(s.Values) && len(s.Values) > 0
}

// LastPeriod returns the period key of the last observation, or "" for
// index-only series.
func (s *Series) LastPeriod() string {
	if !s.HasPeriods() {
		return ""
	}
	return s.Periods[len(s.Periods)-1]
}

// Sum returns the sum of all values.
func (s *Series) Sum() float64 {
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Sum() / float64(len(s.Values))
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	lo := s.Values[0]
	for _, v := range s.Values[1:] {
		lo = math.Min(lo, v)
	}
	return lo
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	hi := s.Values[0]
	for _, v := range s.Values[1:] {
		hi = math.Max(hi, v)
	}
	return hi
}

// Diff calculates the first difference of the series.
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the lag-n difference y[t] - y[t-n]. The result keeps the
// period keys of the later observation.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	out := &Series{
		Values: make([]float64, len(s.Values)-n),
		Name:   s.Name + "_diff",
	}
	for i := n; i < len(s.Values); i++ {
		out.Values[i-n] = s.Values[i] - s.Values[i-n]
	}
	if s.HasPeriods() {
		out.Periods = append([]string(nil), s.Periods[n:]...)
	}
	return out
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	start = max(start, 0)
	end = min(end, len(s.Values))
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	out := &Series{
		Values: append([]float64(nil), s.Values[start:end]...),
		Name:   s.Name,
	}
	if s.HasPeriods() {
		out.Periods = append([]string(nil), s.Periods[start:end]...)
	}
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return &Series{
		Periods: append([]string(nil), s.Periods...),
		Values:  append([]float64(nil), s.Values...),
		Name:    s.Name,
	}
}

// MovingAverage calculates a trailing simple moving average. The result is
// aligned with the last period of each window.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Values) {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-window+1)
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += s.Values[i]
	}
	result[0] = sum / float64(window)

	for i := window; i < len(s.Values); i++ {
		sum += s.Values[i] - s.Values[i-window]
		result[i-window+1] = sum / float64(window)
	}

	out := &Series{Values: result, Name: s.Name + "_ma"}
	if s.HasPeriods() {
		out.Periods = append([]string(nil), s.Periods[window-1:]...)
	}
	return out
}
