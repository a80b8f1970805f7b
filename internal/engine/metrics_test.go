package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMetricsInterpolation(t *testing.T) {
	t.Parallel()
	// Velocity crosses 100 km/h (27.78 m/s) halfway between the two frames.
	snaps := []Snapshot{
		{Time: 0, Velocity: 0, Distance: 0},
		{Time: 1, Velocity: 100 / 3.6 / 2, Distance: 10},
		{Time: 2, Velocity: 100 / 3.6 * 1.5, Distance: 40},
	}
	m := CalculateMetrics(snaps)

	require.NotNil(t, m.TimeTo100KMH)
	assert.InDelta(t, 1.5, *m.TimeTo100KMH, 1e-9)
	assert.Nil(t, m.TimeTo200KMH)
	assert.Nil(t, m.QuarterMileTime)
	assert.Nil(t, m.QuarterMileSpeed)
}

func TestCalculateMetricsQuarterMile(t *testing.T) {
	t.Parallel()
	snaps := []Snapshot{
		{Time: 8.0, Velocity: 70, Distance: 400},
		{Time: 8.1, Velocity: 71, Distance: 407},
	}
	m := CalculateMetrics(snaps)

	require.NotNil(t, m.QuarterMileTime)
	frac := (QuarterMileM - 400) / 7.0
	assert.InDelta(t, 8.0+frac*0.1, *m.QuarterMileTime, 1e-9)

	require.NotNil(t, m.QuarterMileSpeed)
	assert.InDelta(t, (70+frac)*3.6, *m.QuarterMileSpeed, 1e-9)
}

func TestCalculateMetricsRollingStart(t *testing.T) {
	t.Parallel()
	// A run that starts above 100 km/h credits the threshold immediately.
	snaps := []Snapshot{
		{Time: 0.01, Velocity: 120 / 3.6, Distance: 0.3},
		{Time: 0.02, Velocity: 121 / 3.6, Distance: 0.7},
	}
	m := CalculateMetrics(snaps)

	require.NotNil(t, m.TimeTo100KMH)
	assert.Equal(t, 0.01, *m.TimeTo100KMH)
	assert.Nil(t, m.TimeTo200KMH)
}

func TestCalculateMetricsIdempotent(t *testing.T) {
	t.Parallel()
	snaps := runJesko(t, RunParameters{TargetDistanceM: QuarterMileM})

	first := CalculateMetrics(snaps)
	second := CalculateMetrics(snaps)
	assert.Equal(t, first, second)
}

func TestCalculateMetricsEmpty(t *testing.T) {
	t.Parallel()
	m := CalculateMetrics(nil)
	assert.Nil(t, m.TimeTo100KMH)
	assert.Nil(t, m.QuarterMileTime)
}
