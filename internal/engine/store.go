package engine

import (
	"time"

	"coviddash/internal/models"
)

// ColumnStore holds the loaded table in Struct-of-Arrays format.
// Row i is (RegionDict[RegionIDs[i]], Dates[i], Deaths[i]).
type ColumnStore struct {
	// Data Columns (Flat Arrays)
	Dates  []time.Time
	Days   []int32 // YYYYMMDD of Dates[i] in its own location
	Deaths []int64

	// Dictionary Encoded IDs (0..N), first-seen order; nullRegion for none
	RegionIDs  []int32
	RegionDict []string
}

const nullRegion int32 = -1

// Len returns the number of rows.
func (cs *ColumnStore) Len() int {
	return len(cs.Deaths)
}

// Region returns the region of row i, or "" with ok false for a null region.
func (cs *ColumnStore) Region(i int) (region string, ok bool) {
	id := cs.RegionIDs[i]
	if id == nullRegion {
		return "", false
	}
	return cs.RegionDict[id], true
}

// Record rebuilds row i as a RawRecord.
func (cs *ColumnStore) Record(i int) models.RawRecord {
	region, ok := cs.Region(i)
	return models.RawRecord{
		Region:     region,
		NullRegion: !ok,
		Date:       cs.Dates[i],
		Deaths:     cs.Deaths[i],
	}
}

// Snapshot pairs a loaded table with its aggregations. Neither is mutated
// after construction.
type Snapshot struct {
	Store *ColumnStore
	Data  *models.DashboardData
}
