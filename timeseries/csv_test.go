package timeseries

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPointsCSV(t *testing.T) {
	csvData := `period,client,count
2024-01,acme,100
2024-02,acme,120
2024-01,beta,7
2024-03,acme,140`

	points, err := LoadPointsCSV(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if len(points) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(points))
	}
	if points[2] != (Point{Period: "2024-01", EntityID: "beta", Value: 7}) {
		t.Errorf("Unexpected point %+v", points[2])
	}
}

func TestLoadPointsCSVNormalizesDates(t *testing.T) {
	csvData := `date,unique_id,y
2024-01-15,acme,10
2024/02/03,acme,20
03/10/2024,acme,30`

	points, err := LoadPointsCSV(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []string{"2024-01", "2024-02", "2024-03"}
	for i, p := range points {
		if p.Period != expected[i] {
			t.Errorf("Row %d: expected period %s, got %s", i, expected[i], p.Period)
		}
	}
}

func TestLoadPointsCSVWithFilter(t *testing.T) {
	csvData := `period,client,count
2024-01,A,100
2024-01,B,200
2024-02,A,101
2024-02,B,
2024-03,A,NA`

	opts := DefaultCSVOptions()
	opts.EntityFilter = "A"

	points, err := LoadPointsCSV(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("Expected 2 observations for 'A', got %d", len(points))
	}
}

func TestLoadPointsCSVNoHeader(t *testing.T) {
	csvData := "2024-01;acme;5\n2024-02;acme;6\n"

	opts := DefaultCSVOptions()
	opts.HasHeader = false
	opts.Delimiter = ';'

	points, err := LoadPointsCSV(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(points) != 2 || points[1].Value != 6 {
		t.Errorf("Unexpected points %+v", points)
	}
}

func TestLoadPointsCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative", "period,client,count\n2024-01,acme,-1\n"},
		{"fractional", "period,client,count\n2024-01,acme,1.5\n"},
		{"bad date", "period,client,count\nlast month,acme,1\n"},
		{"no rows", "period,client,count\n"},
		{"missing value column", "period,client\n2024-01,acme\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPointsCSV(strings.NewReader(tt.data), nil); err == nil {
				t.Error("Expected error")
			}
		})
	}

	_, err := LoadPointsCSV(strings.NewReader("period,client,count\n2024-99,acme,1\n"), nil)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}

func TestLoadPointsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	if err := os.WriteFile(path, []byte("period,client,count\n2024-01,acme,3\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	points, err := LoadPointsCSVFile(path, nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(points) != 1 || points[0].Value != 3 {
		t.Errorf("Unexpected points %+v", points)
	}

	if _, err := LoadPointsCSVFile(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}
