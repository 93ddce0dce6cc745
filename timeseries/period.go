package timeseries

import (
	"errors"
	"fmt"
	"time"
)

// PeriodLayout is the layout of a period key ("YYYY-MM").
const PeriodLayout = "2006-01"

// ErrInvalidPeriod is returned for keys that are not of the form YYYY-MM.
var ErrInvalidPeriod = errors.New("invalid period key")

// ParsePeriod parses a period key into the first instant of its month (UTC).
func ParsePeriod(key string) (time.Time, error) {
	if len(key) != len(PeriodLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	t, err := time.Parse(PeriodLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	return t, nil
}

// FormatPeriod returns the period key containing t.
func FormatPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}

// AddPeriods returns the key n months after key. n may be negative.
func AddPeriods(key string, n int) (string, error) {
	t, err := ParsePeriod(key)
	if err != nil {
		return "", err
	}
	return FormatPeriod(t.AddDate(0, n, 0)), nil
}

// MonthsBetween returns the number of months from a to b (b - a).
func MonthsBetween(a, b string) (int, error) {
	ta, err := ParsePeriod(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParsePeriod(b)
	if err != nil {
		return 0, err
	}
	return (tb.Year()-ta.Year())*12 + int(tb.Month()) - int(ta.Month()), nil
}

// NextPeriods returns the n keys following key.
func NextPeriods(key string, n int) ([]string, error) {
	start, err := ParsePeriod(key)
	if err != nil {
		return nil, err
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = FormatPeriod(start.AddDate(0, i+1, 0))
	}
	return keys, nil
}
