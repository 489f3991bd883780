package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FetchDuration.WithLabelValues("success").Observe(0.2)
	m.Records.Set(42)
	m.RegionTotals.Set(7)
	m.LastLoad.Set(1_600_000_000)
	m.ChartRequests.WithLabelValues("regions").Inc()
	m.ChartRequests.WithLabelValues("country").Inc()

	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration, "coviddash_load_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Records, "coviddash_records_loaded"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RegionTotals, "coviddash_region_day_totals"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LastLoad, "coviddash_last_load_timestamp_seconds"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ChartRequests, "coviddash_chart_requests_total"))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.Records))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
