package engine

import (
	"errors"
	"fmt"
	"time"

	"coviddash/internal/models"
)

// ErrMalformedInput reports input that does not have the expected shape.
var ErrMalformedInput = errors.New("malformed input")

// Load builds a ColumnStore with one row per record, in input order.
// Records with a zero Date or negative Deaths are rejected.
func Load(records []models.RawRecord) (*ColumnStore, error) {
	n := len(records)

	// Allocate Store ONCE
	store := &ColumnStore{
		Dates:      make([]time.Time, n),
		Days:       make([]int32, n),
		Deaths:     make([]int64, n),
		RegionIDs:  make([]int32, n),
		RegionDict: make([]string, 0),
	}

	regionMap := make(map[string]int32)

	for i, r := range records {
		if r.Date.IsZero() {
			return nil, fmt.Errorf("row %d: missing date: %w", i, ErrMalformedInput)
		}
		if r.Deaths < 0 {
			return nil, fmt.Errorf("row %d: negative deaths %d: %w", i, r.Deaths, ErrMalformedInput)
		}

		id := nullRegion
		if !r.NullRegion {
			var ok bool
			if id, ok = regionMap[r.Region]; !ok {
				id = int32(len(store.RegionDict))
				store.RegionDict = append(store.RegionDict, r.Region)
				regionMap[r.Region] = id
			}
		}

		store.RegionIDs[i] = id
		store.Dates[i] = r.Date
		store.Days[i] = models.DayOf(r.Date).Key()
		store.Deaths[i] = r.Deaths
	}

	return store, nil
}
