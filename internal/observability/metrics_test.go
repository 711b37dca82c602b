package observability_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/observability"
)

func TestObserveComponentCountsByStatus(t *testing.T) {
	t.Parallel()

	m := observability.NewMetrics()

	m.ObserveComponent(observability.StatusSuccess)
	m.ObserveComponent(observability.StatusSuccess)
	m.ObserveComponent(observability.StatusFailure)
	m.ObserveComponent(observability.StatusSkipped)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	byStatus := map[string]float64{}

	for _, fam := range families {
		if fam.GetName() != "relift_components_total" {
			continue
		}

		for _, metric := range fam.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" {
					byStatus[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}

	assert.InDelta(t, 2, byStatus[observability.StatusSuccess], 0.001)
	assert.InDelta(t, 1, byStatus[observability.StatusFailure], 0.001)
	assert.InDelta(t, 1, byStatus[observability.StatusSkipped], 0.001)
}

func TestObserveStageRecordsDurations(t *testing.T) {
	t.Parallel()

	m := observability.NewMetrics()

	m.ObserveStage("analysis", 10*time.Millisecond)
	m.ObserveStage("analysis", 20*time.Millisecond)
	m.ObserveStage("generation", time.Second)

	count, err := testutil.GatherAndCount(m.Gatherer(), "relift_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *observability.Metrics

	assert.NotPanics(t, func() {
		m.ObserveComponent(observability.StatusSuccess)
		m.ObserveStage("analysis", time.Millisecond)
	})
	assert.Nil(t, m.Gatherer())
}

func TestIndependentRegistries(t *testing.T) {
	t.Parallel()

	first := observability.NewMetrics()
	second := observability.NewMetrics()

	first.ObserveComponent(observability.StatusSuccess)

	count, err := testutil.GatherAndCount(second.Gatherer(), "relift_components_total")
	require.NoError(t, err)
	assert.Zero(t, count)
}
