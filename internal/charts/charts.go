// Package charts turns precomputed totals into chart specs. Everything here
// is a pure function of its arguments; nothing is aggregated at request time.
package charts

import (
	"sort"

	"coviddash/internal/models"
)

// CountryLevelLabel is shown for the empty region of country-level rows.
const CountryLevelLabel = "(country level)"

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Point struct {
	X models.Day `json:"x"`
	Y int64      `json:"y"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// ChartSpec is a line chart with one line per series.
type ChartSpec struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`
}

// Options lists the selectable regions, sorted by value and without
// duplicates.
func Options(data *models.DashboardData) []Option {
	seen := make(map[string]struct{}, len(data.Regions))
	opts := make([]Option, 0, len(data.Regions))
	for _, r := range data.Regions {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		opts = append(opts, Option{Label: regionLabel(r), Value: r})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Value < opts[j].Value })
	return opts
}

// RegionChart draws one series per selected region, in selection order.
// Regions without data are skipped. An empty selection yields a chart with
// no series.
func RegionChart(selection []string, data *models.DashboardData) ChartSpec {
	spec := ChartSpec{Title: "Deaths by region", XLabel: "Date", YLabel: "Deaths", Series: make([]Series, 0)}
	if len(selection) == 0 {
		return spec
	}

	order := make([]string, 0, len(selection))
	byRegion := make(map[string][]Point, len(selection))
	for _, r := range selection {
		if _, dup := byRegion[r]; dup {
			continue
		}
		byRegion[r] = nil
		order = append(order, r)
	}

	for _, t := range data.RegionTotals {
		if pts, ok := byRegion[t.Region]; ok {
			byRegion[t.Region] = append(pts, Point{X: t.Day, Y: t.Deaths})
		}
	}

	for _, r := range order {
		pts := byRegion[r]
		if len(pts) == 0 {
			continue
		}
		sortPoints(pts)
		spec.Series = append(spec.Series, Series{Name: regionLabel(r), Points: pts})
	}
	return spec
}

// CountryChart draws the country-wide totals as a single series.
func CountryChart(title string, data *models.DashboardData) ChartSpec {
	pts := make([]Point, 0, len(data.CountryTotals))
	for _, t := range data.CountryTotals {
		pts = append(pts, Point{X: t.Day, Y: t.Deaths})
	}
	sortPoints(pts)

	return ChartSpec{
		Title:  title,
		XLabel: "Date",
		YLabel: "Deaths",
		Series: []Series{{Name: "Deaths", Points: pts}},
	}
}

func regionLabel(region string) string {
	if region == "" {
		return CountryLevelLabel
	}
	return region
}

func sortPoints(pts []Point) {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X.Before(pts[j].X) })
}
