package lap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jude-pinkman/Hypercar-Sim/internal/track"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

func testEnv() vehicle.Environment {
	return vehicle.Environment{TemperatureC: 20}
}

func jeskoSpec(t *testing.T) vehicle.Spec {
	t.Helper()
	c, err := vehicle.NewCatalog("")
	require.NoError(t, err)
	spec, ok := c.Lookup("koenigsegg_jesko")
	require.True(t, ok)
	return spec
}

func runLap(t *testing.T, spec vehicle.Spec, params track.LapParameters) Result {
	t.Helper()
	sim, err := NewSimulator(spec, testEnv(), track.Sample(), params)
	require.NoError(t, err)
	res, err := sim.Lap()
	require.NoError(t, err)
	return res
}

func TestLapProducesPlausibleTimes(t *testing.T) {
	t.Parallel()
	res := runLap(t, jeskoSpec(t), track.LapParameters{})

	// A 5.1 km circuit with six corners: somewhere between a modern race
	// lap and a fast road car lap.
	assert.Greater(t, res.LapTimeS, 60.0)
	assert.Less(t, res.LapTimeS, 180.0)

	assert.Greater(t, res.MaxSpeedKPH, 200.0)
	assert.Greater(t, res.MinSpeedKPH, 0.0)
	assert.Less(t, res.MinSpeedKPH, res.AvgSpeedKPH)
	assert.Less(t, res.AvgSpeedKPH, res.MaxSpeedKPH)
}

func TestSectorTimesSumToLapTime(t *testing.T) {
	t.Parallel()
	res := runLap(t, jeskoSpec(t), track.LapParameters{})

	sum := res.SectorTimes[0] + res.SectorTimes[1] + res.SectorTimes[2]
	assert.InDelta(t, res.LapTimeS, sum, 1e-6)
	for i, s := range res.SectorTimes {
		assert.Positive(t, s, "sector %d", i)
	}
}

func TestLapCoversTrackLength(t *testing.T) {
	t.Parallel()
	res := runLap(t, jeskoSpec(t), track.LapParameters{})
	trk := track.Sample()

	assert.GreaterOrEqual(t, res.TotalDistM, trk.LengthM()-1)
	// Braking overrun and step overshoot stay bounded.
	assert.Less(t, res.TotalDistM, trk.LengthM()*1.2)
}

func TestLapTimeConvergesWithFinerTimestep(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	coarse := runLap(t, spec, track.LapParameters{TimestepS: 0.01})
	fine := runLap(t, spec, track.LapParameters{TimestepS: 0.005})

	// Halving the integration step should barely move the lap time; a big
	// gap would mean the result is an artifact of step size.
	relDiff := math.Abs(coarse.LapTimeS-fine.LapTimeS) / fine.LapTimeS
	assert.Less(t, relDiff, 0.01)
}

func TestWetLapSlowerThanDry(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	dry := runLap(t, spec, track.LapParameters{Weather: "dry"})
	wet := runLap(t, spec, track.LapParameters{Weather: "wet"})

	assert.Greater(t, wet.LapTimeS, dry.LapTimeS)
	// Corner speeds drop with the weather grip multiplier.
	assert.Less(t, wet.MinSpeedKPH, dry.MinSpeedKPH)
}

func TestSlicksFasterThanStreetTires(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	street := runLap(t, spec, track.LapParameters{TireCompound: "street"})
	slick := runLap(t, spec, track.LapParameters{TireCompound: "slick"})

	assert.Less(t, slick.LapTimeS, street.LapTimeS)
}

func TestFuelLoadSlowsTheLap(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	light := runLap(t, spec, track.LapParameters{})
	heavy := runLap(t, spec, track.LapParameters{FuelLoadL: 100})

	assert.Greater(t, heavy.LapTimeS, light.LapTimeS)
}

func TestBrakeZoneData(t *testing.T) {
	t.Parallel()
	res := runLap(t, jeskoSpec(t), track.LapParameters{})

	// One record per braking segment on the sample circuit.
	require.Len(t, res.BrakeZones, 6)
	for _, z := range res.BrakeZones {
		assert.NotEmpty(t, z.Corner)
		assert.GreaterOrEqual(t, z.EntryKPH, z.ApexKPH)
		assert.InDelta(t, z.EntryKPH-z.ApexKPH, z.SpeedLossKPH, 1e-9)
		assert.GreaterOrEqual(t, z.BrakingTimeS, 0.0)
	}

	// The hairpin is the biggest stop on the lap.
	var hairpin BrakeZone
	for _, z := range res.BrakeZones {
		if z.Corner == "Hairpin" {
			hairpin = z
		}
	}
	require.NotEmpty(t, hairpin.Corner)
	for _, z := range res.BrakeZones {
		assert.GreaterOrEqual(t, hairpin.SpeedLossKPH, z.SpeedLossKPH-1e-9)
	}
}

func TestTelemetryOrdered(t *testing.T) {
	t.Parallel()
	res := runLap(t, jeskoSpec(t), track.LapParameters{})

	require.NotEmpty(t, res.Telemetry)
	prev := res.Telemetry[0]
	phases := map[string]bool{}
	for _, p := range res.Telemetry[1:] {
		assert.GreaterOrEqual(t, p.DistanceM, prev.DistanceM)
		phases[p.Phase] = true
		prev = p
	}
	assert.True(t, phases["accel"])
	assert.True(t, phases["braking"])
	assert.True(t, phases["corner"])
}

func TestDownforceMultiplierHelpsCornering(t *testing.T) {
	t.Parallel()
	c, err := vehicle.NewCatalog("")
	require.NoError(t, err)
	spec, ok := c.Lookup("aston_valkyrie")
	require.True(t, ok)

	stock := runLap(t, spec, track.LapParameters{})
	high := runLap(t, spec, track.LapParameters{DownforceMultiplier: 1.5})

	assert.LessOrEqual(t, high.LapTimeS, stock.LapTimeS)
	assert.GreaterOrEqual(t, high.MinSpeedKPH, stock.MinSpeedKPH)
}

func TestLapRepeatable(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	first := runLap(t, spec, track.LapParameters{})
	second := runLap(t, spec, track.LapParameters{})
	assert.Equal(t, first.LapTimeS, second.LapTimeS)
	assert.Equal(t, first.SectorTimes, second.SectorTimes)
}

func TestNewSimulatorRejectsBadInput(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)

	t.Run("invalid track", func(t *testing.T) {
		t.Parallel()
		_, err := NewSimulator(spec, testEnv(), track.Track{Name: "x"}, track.LapParameters{})
		assert.Error(t, err)
	})

	t.Run("unknown weather", func(t *testing.T) {
		t.Parallel()
		_, err := NewSimulator(spec, testEnv(), track.Sample(), track.LapParameters{Weather: "hail"})
		assert.Error(t, err)
	})
}

func TestBaseSpecNotMutated(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	weight := spec.WeightKG
	df := spec.DownforceFactor

	_, err := NewSimulator(spec, testEnv(), track.Sample(), track.LapParameters{FuelLoadL: 80, DownforceMultiplier: 2})
	require.NoError(t, err)
	assert.Equal(t, weight, spec.WeightKG)
	assert.Equal(t, df, spec.DownforceFactor)
}
