package timeseries

import (
	"errors"
	"testing"
)

func samplePoints() []Point {
	return []Point{
		{Period: "2024-03", EntityID: "beta", Value: 40},
		{Period: "2024-01", EntityID: "acme", Value: 100},
		{Period: "2024-02", EntityID: "acme", Value: 120},
		{Period: "2024-01", EntityID: "beta", Value: 10},
		{Period: "2024-03", EntityID: "acme", Value: 140},
	}
}

func TestAggregateByPeriod(t *testing.T) {
	s := AggregateByPeriod(samplePoints())

	expectedPeriods := []string{"2024-01", "2024-02", "2024-03"}
	expectedValues := []float64{110, 120, 180}

	if s.Len() != len(expectedValues) {
		t.Fatalf("Expected %d periods, got %d", len(expectedValues), s.Len())
	}
	for i := range expectedValues {
		if s.Periods[i] != expectedPeriods[i] {
			t.Errorf("Period %d: expected %s, got %s", i, expectedPeriods[i], s.Periods[i])
		}
		if s.Values[i] != expectedValues[i] {
			t.Errorf("Value %d: expected %f, got %f", i, expectedValues[i], s.Values[i])
		}
	}
}

func TestAggregateByPeriodEmpty(t *testing.T) {
	s := AggregateByPeriod(nil)
	if s.Len() != 0 {
		t.Errorf("Expected empty series, got %d values", s.Len())
	}
}

func TestAggregateByEntity(t *testing.T) {
	totals := AggregateByEntity(samplePoints())

	if totals["acme"] != 360 {
		t.Errorf("Expected acme total 360, got %d", totals["acme"])
	}
	if totals["beta"] != 50 {
		t.Errorf("Expected beta total 50, got %d", totals["beta"])
	}
}

func TestFilterEntity(t *testing.T) {
	if got := len(FilterEntity(samplePoints(), "beta")); got != 2 {
		t.Errorf("Expected 2 beta points, got %d", got)
	}
	if got := len(FilterEntity(samplePoints(), "")); got != 5 {
		t.Errorf("Empty filter should keep all points, got %d", got)
	}
	if got := len(FilterEntity(samplePoints(), "nobody")); got != 0 {
		t.Errorf("Expected no points, got %d", got)
	}
}

func TestTopEntities(t *testing.T) {
	points := append(samplePoints(), Point{Period: "2024-01", EntityID: "gamma", Value: 50})

	ranked := TopEntities(points, 0)
	expected := []EntityTotal{{"acme", 360}, {"beta", 50}, {"gamma", 50}}
	if len(ranked) != len(expected) {
		t.Fatalf("Expected %d entities, got %d", len(expected), len(ranked))
	}
	for i, e := range expected {
		if ranked[i] != e {
			t.Errorf("Rank %d: expected %+v, got %+v", i, e, ranked[i])
		}
	}

	if got := TopEntities(points, 1); len(got) != 1 || got[0].EntityID != "acme" {
		t.Errorf("Expected only acme, got %+v", got)
	}
}

func TestFillGaps(t *testing.T) {
	s, _ := NewWithPeriods(
		[]string{"2023-11", "2024-02"},
		[]float64{5, 7},
	)

	filled, err := FillGaps(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedPeriods := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	expectedValues := []float64{5, 0, 0, 7}
	if filled.Len() != len(expectedValues) {
		t.Fatalf("Expected %d periods, got %d", len(expectedValues), filled.Len())
	}
	for i := range expectedValues {
		if filled.Periods[i] != expectedPeriods[i] || filled.Values[i] != expectedValues[i] {
			t.Errorf("Index %d: expected %s=%f, got %s=%f",
				i, expectedPeriods[i], expectedValues[i], filled.Periods[i], filled.Values[i])
		}
	}
}

func TestFillGapsInvalidPeriod(t *testing.T) {
	s, _ := NewWithPeriods([]string{"2024-01", "bogus"}, []float64{1, 2})

	_, err := FillGaps(s)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}
