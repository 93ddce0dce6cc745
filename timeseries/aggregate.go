package timeseries

import (
	"fmt"
	"sort"
)

// Point is one raw count record for an entity in a period.
type Point struct {
	Period   string `json:"period"`
	EntityID string `json:"entityId"`
	Value    int    `json:"value"`
}

// EntityTotal is the summed value of one entity.
type EntityTotal struct {
	EntityID string `json:"entityId"`
	Total    int    `json:"total"`
}

// AggregateByPeriod sums values sharing a period key and returns them sorted
// ascending by key. Period keys sort correctly as strings.
func AggregateByPeriod(points []Point) *Series {
	totals := make(map[string]float64, len(points))
	for _, p := range points {
		totals[p.Period] += float64(p.Value)
	}

	periods := make([]string, 0, len(totals))
	for k := range totals {
		periods = append(periods, k)
	}
	sort.Strings(periods)

	values := make([]float64, len(periods))
	for i, k := range periods {
		values[i] = totals[k]
	}
	return &Series{Periods: periods, Values: values}
}

// AggregateByEntity sums values per entity.
func AggregateByEntity(points []Point) map[string]int {
	totals := make(map[string]int)
	for _, p := range points {
		totals[p.EntityID] += p.Value
	}
	return totals
}

// FilterEntity returns the points belonging to entityID. An empty id returns
// all points.
func FilterEntity(points []Point, entityID string) []Point {
	if entityID == "" {
		return points
	}
	var out []Point
	for _, p := range points {
		if p.EntityID == entityID {
			out = append(out, p)
		}
	}
	return out
}

// TopEntities ranks entities by total, highest first, ties broken by id. n <= 0
// returns every entity.
func TopEntities(points []Point, n int) []EntityTotal {
	totals := AggregateByEntity(points)
	ranked := make([]EntityTotal, 0, len(totals))
	for id, total := range totals {
		ranked = append(ranked, EntityTotal{EntityID: id, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FillGaps inserts zero-valued periods for every month missing between the
// first and last period of a sorted series.
func FillGaps(s *Series) (*Series, error) {
	if !s.HasPeriods() {
		return s.Copy(), nil
	}

	span, err := MonthsBetween(s.Periods[0], s.LastPeriod())
	if err != nil {
		return nil, err
	}
	if span < 0 {
		return nil, fmt.Errorf("series is not sorted: %s after %s", s.Periods[0], s.LastPeriod())
	}
	if span+1 == s.Len() {
		return s.Copy(), nil
	}

	start, _ := ParsePeriod(s.Periods[0])
	out := &Series{
		Periods: make([]string, span+1),
		Values:  make([]float64, span+1),
		Name:    s.Name,
	}
	for i := range out.Periods {
		out.Periods[i] = FormatPeriod(start.AddDate(0, i, 0))
	}
	for i, key := range s.Periods {
		offset, err := MonthsBetween(s.Periods[0], key)
		if err != nil {
			return nil, err
		}
		out.Values[offset] += s.Values[i]
	}
	return out, nil
}
