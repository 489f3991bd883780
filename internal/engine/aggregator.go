package engine

import (
	"sort"
	"time"

	"coviddash/internal/models"
)

type regionDayKey struct {
	region int32
	day    int32
}

// AggregateByRegionAndDay sums deaths per (region, calendar day). Groups are
// emitted in the order their key is first seen. Rows with a null region are
// not grouped.
func (cs *ColumnStore) AggregateByRegionAndDay() []models.RegionDayTotal {
	out := make([]models.RegionDayTotal, 0)
	index := make(map[regionDayKey]int)

	for i := 0; i < cs.Len(); i++ {
		if cs.RegionIDs[i] == nullRegion {
			continue
		}
		k := regionDayKey{region: cs.RegionIDs[i], day: cs.Days[i]}
		pos, ok := index[k]
		if !ok {
			pos = len(out)
			index[k] = pos
			out = append(out, models.RegionDayTotal{
				Region: cs.RegionDict[k.region],
				Day:    models.DayFromKey(k.day),
			})
		}
		out[pos].Deaths += cs.Deaths[i]
	}
	return out
}

// AggregateByDay sums deaths per calendar day across all regions, straight
// from the rows. Groups are emitted in first-seen order.
func (cs *ColumnStore) AggregateByDay() []models.CountryDayTotal {
	out := make([]models.CountryDayTotal, 0)
	index := make(map[int32]int)

	for i := 0; i < cs.Len(); i++ {
		day := cs.Days[i]
		pos, ok := index[day]
		if !ok {
			pos = len(out)
			index[day] = pos
			out = append(out, models.CountryDayTotal{Day: models.DayFromKey(day)})
		}
		out[pos].Deaths += cs.Deaths[i]
	}
	return out
}

// Regions returns the distinct non-null region names, sorted. The empty
// name of country-level rows is a region like any other.
func (cs *ColumnStore) Regions() []string {
	regions := append(make([]string, 0, len(cs.RegionDict)), cs.RegionDict...)
	sort.Strings(regions)
	return regions
}

// Aggregate runs both aggregations and packs them for the dashboard.
func (cs *ColumnStore) Aggregate() *models.DashboardData {
	return &models.DashboardData{
		RegionTotals:  cs.AggregateByRegionAndDay(),
		CountryTotals: cs.AggregateByDay(),
		Regions:       cs.Regions(),
		Records:       cs.Len(),
		LoadedAt:      time.Now().UTC(),
	}
}
