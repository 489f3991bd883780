package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfKeepsSourceLocation(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC.
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2021, 1, 5, 23, 30, 0, 0, loc)

	d := DayOf(ts)
	assert.Equal(t, Day{Year: 2021, Month: time.January, Day: 5}, d)
	assert.Equal(t, "2021-01-05", d.String())
}

func TestDayKeyRoundTrip(t *testing.T) {
	d := Day{Year: 2020, Month: time.December, Day: 31}
	assert.Equal(t, int32(20201231), d.Key())
	assert.Equal(t, d, DayFromKey(d.Key()))
	assert.True(t, d.Before(Day{Year: 2021, Month: time.January, Day: 1}))
}

func TestDayText(t *testing.T) {
	var d Day
	require.NoError(t, d.UnmarshalText([]byte("2021-03-04")))
	assert.Equal(t, Day{Year: 2021, Month: time.March, Day: 4}, d)

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04", string(b))

	assert.Error(t, d.UnmarshalText([]byte("04/03/2021")))
}
