package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rpggio/jobtrack/internal/metrics"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ProjectCreated()
	m.ProjectCreated()
	m.ProjectDeleted()
	m.FieldEdited("paid")
	m.StatusChanged("quoted", "active")
	m.LedgerSynced(true)
	m.LedgerSynced(false)
	m.LedgerSynced(false)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ProjectsCreated))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProjectsDeleted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FieldEdits.WithLabelValues("paid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("quoted", "active")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LedgerSyncs.WithLabelValues("created")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.LedgerSyncs.WithLabelValues("updated")))
}

func TestToolCallHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RecordToolCall("get_stats", "ok", 3*time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "jobtrack_tool_call_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestNew_RegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	require.Panics(t, func() { metrics.New(reg) })
}
