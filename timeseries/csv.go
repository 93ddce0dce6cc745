package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	PeriodColumn string // Column name for the period or date (default: "period")
	EntityColumn string // Column name for the entity id (default: "client")
	ValueColumn  string // Column name for the count (default: "count")
	EntityFilter string // Keep only rows for this entity (optional)
	DateFormat   string // Extra date layout tried before the built-in ones
	HasHeader    bool   // Whether CSV has header row (default: true)
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		PeriodColumn: "period",
		EntityColumn: "client",
		ValueColumn:  "count",
		HasHeader:    true,
		Delimiter:    ',',
	}
}

var dateLayouts = []string{
	PeriodLayout,
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// LoadPointsCSVFile loads count records from a CSV file.
func LoadPointsCSVFile(filename string, opts *CSVOptions) ([]Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPointsCSV(file, opts)
}

// LoadPointsCSV loads count records from an io.Reader. Dates are normalized to
// period keys. Rows with an empty or NA count are skipped; negative or
// non-integer counts and unparseable dates are errors.
func LoadPointsCSV(r io.Reader, opts *CSVOptions) ([]Point, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	// Without a header the layout is period,entity,value.
	periodIdx, entityIdx, valueIdx := 0, 1, 2
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		periodIdx, entityIdx, valueIdx = -1, -1, -1
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case strings.EqualFold(h, opts.PeriodColumn) || (periodIdx == -1 && isPeriodHeader(h)):
				periodIdx = i
			case strings.EqualFold(h, opts.EntityColumn) || (entityIdx == -1 && isEntityHeader(h)):
				entityIdx = i
			case strings.EqualFold(h, opts.ValueColumn) || (valueIdx == -1 && isValueHeader(h)):
				valueIdx = i
			}
		}
		if periodIdx == -1 || valueIdx == -1 {
			return nil, fmt.Errorf("csv header %v lacks a period or value column", header)
		}
	}

	var points []Point
	line := opts.SkipRows
	if opts.HasHeader {
		line++
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		entity := ""
		if entityIdx >= 0 && entityIdx < len(record) {
			entity = clean(record[entityIdx])
		}
		if opts.EntityFilter != "" && entity != opts.EntityFilter {
			continue
		}
		if valueIdx >= len(record) || periodIdx >= len(record) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(valueIdx, periodIdx)+1, len(record))
		}

		valStr := clean(record[valueIdx])
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: count %q is not an integer", line, valStr)
		}
		if val < 0 {
			return nil, fmt.Errorf("line %d: count %d is negative", line, val)
		}

		period, err := normalizePeriod(clean(record[periodIdx]), opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		points = append(points, Point{Period: period, EntityID: entity, Value: val})
	}

	if len(points) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	return points, nil
}

func normalizePeriod(raw, extraLayout string) (string, error) {
	layouts := dateLayouts
	if extraLayout != "" {
		layouts = append([]string{extraLayout}, dateLayouts...)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatPeriod(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
}

func clean(field string) string {
	return strings.TrimSpace(strings.Trim(field, "\""))
}

func isPeriodHeader(h string) bool {
	switch strings.ToLower(h) {
	case "ds", "date", "month", "period", "period_key":
		return true
	}
	return false
}

func isEntityHeader(h string) bool {
	switch strings.ToLower(h) {
	case "client", "client_id", "entity", "entity_id", "unique_id", "id":
		return true
	}
	return false
}

func isValueHeader(h string) bool {
	switch strings.ToLower(h) {
	case "y", "value", "count", "transcripts", "total":
		return true
	}
	return false
}
