package observability_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-timeturner/internal/observability"
)

// gathered returns the value of the single sample of family name.
func gathered(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		metric := mf.GetMetric()[0]
		if c := metric.GetCounter(); c != nil {
			return c.GetValue()
		}
		return metric.GetGauge().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestNewMetricsForTesting(t *testing.T) {
	a := observability.NewMetricsForTesting()
	b := observability.NewMetricsForTesting()

	regA := prometheus.NewRegistry()
	regA.MustRegister(a.SyncRuns, a.Profiles)
	regB := prometheus.NewRegistry()
	regB.MustRegister(b.Profiles)

	a.SyncRuns.WithLabelValues(observability.OutcomeSuccess).Inc()
	a.Profiles.Set(3)

	assert.InDelta(t, 1, gathered(t, regA, "timeturner_sync_runs_total"), 0)
	assert.InDelta(t, 3, gathered(t, regA, "timeturner_profiles"), 0)
	assert.InDelta(t, 0, gathered(t, regB, "timeturner_profiles"), 0, "instances do not share state")
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	m := observability.NewMetrics()
	require.NotNil(t, m.APIRequests)

	assert.Panics(t, func() { observability.NewMetrics() }, "default registry rejects duplicates")
}
