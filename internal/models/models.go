package models

import (
	"fmt"
	"time"
)

// RawRecord is one observation as reported by the source API. NullRegion
// marks a row whose region was null at the source; such rows count toward
// country totals but belong to no region.
type RawRecord struct {
	Region     string    `json:"region"`
	NullRegion bool      `json:"null_region,omitempty"`
	Date       time.Time `json:"date"`
	Deaths     int64     `json:"deaths"`
}

// Day is a calendar date with no time-of-day component.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Key packs the day as YYYYMMDD, which sorts chronologically.
func (d Day) Key() int32 {
	return int32(d.Year*10000 + int(d.Month)*100 + d.Day)
}

// DayFromKey is the inverse of Key.
func DayFromKey(k int32) Day {
	return Day{Year: int(k / 10000), Month: time.Month(k / 100 % 100), Day: int(k % 100)}
}

func (d Day) Before(o Day) bool { return d.Key() < o.Key() }

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("day %q: %w", b, err)
	}
	*d = DayOf(t)
	return nil
}

// RegionDayTotal is the sum of deaths for one region on one calendar day.
type RegionDayTotal struct {
	Region string `json:"region"`
	Day    Day    `json:"day"`
	Deaths int64  `json:"deaths"`
}

// CountryDayTotal is the sum of deaths over all regions on one calendar day.
type CountryDayTotal struct {
	Day    Day   `json:"day"`
	Deaths int64 `json:"deaths"`
}

// DashboardData is the immutable result of one load. It is replaced as a
// whole on refresh, never mutated.
type DashboardData struct {
	RegionTotals  []RegionDayTotal  `json:"region_totals"`
	CountryTotals []CountryDayTotal `json:"country_totals"`
	Regions       []string          `json:"regions"`
	Records       int               `json:"records"`
	LoadedAt      time.Time         `json:"loaded_at"`
}
