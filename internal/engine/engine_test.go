package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func runJesko(t *testing.T, p RunParameters) []Snapshot {
	t.Helper()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)
	snaps, err := eng.Run(p)
	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	return snaps
}

func TestStandingQuarterMile(t *testing.T) {
	t.Parallel()
	snaps := runJesko(t, RunParameters{TargetDistanceM: QuarterMileM})
	m := CalculateMetrics(snaps)

	require.NotNil(t, m.TimeTo100KMH)
	assert.Greater(t, *m.TimeTo100KMH, 2.0)
	assert.Less(t, *m.TimeTo100KMH, 4.5)

	require.NotNil(t, m.QuarterMileTime)
	assert.Greater(t, *m.QuarterMileTime, 8.0)
	assert.Less(t, *m.QuarterMileTime, 10.0)

	require.NotNil(t, m.QuarterMileSpeed)
	assert.Greater(t, *m.QuarterMileSpeed, 200.0)
}

func TestLaunchIsTractionLimited(t *testing.T) {
	t.Parallel()
	snaps := runJesko(t, RunParameters{MaxTimeS: 1})

	// A 1195 kW car could post 30+ m/s² off the line on power alone; the
	// traction ceiling keeps the launch in a physical band.
	first := snaps[0]
	assert.Greater(t, first.Acceleration, 6.0)
	assert.Less(t, first.Acceleration, 12.0)
}

func TestRunInvariants(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	snaps := runJesko(t, RunParameters{MaxTimeS: 30})

	top := spec.TopSpeedMS()
	prev := snaps[0]
	for _, s := range snaps[1:] {
		assert.GreaterOrEqual(t, s.Time, prev.Time)
		assert.GreaterOrEqual(t, s.Distance, prev.Distance)
		assert.GreaterOrEqual(t, s.Gear, prev.Gear)
		assert.LessOrEqual(t, s.Velocity, top+1e-9)
		prev = s
	}
	// It works through the gearbox rather than sitting in first.
	assert.Greater(t, prev.Gear, 3)
}

func TestShiftInterruptsDrive(t *testing.T) {
	t.Parallel()
	snaps := runJesko(t, RunParameters{MaxTimeS: 10})

	sawShiftDip := false
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Gear > snaps[i-1].Gear {
			// Drag and rolling resistance decelerate the car while the
			// shift timer runs and no drive force is applied.
			if snaps[i].Acceleration < 0 {
				sawShiftDip = true
				break
			}
		}
	}
	assert.True(t, sawShiftDip, "expected a zero-force deceleration dip at an upshift")
}

func TestLaunchControlHoldsTargetRPM(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	snaps := runJesko(t, RunParameters{MaxTimeS: 5})

	target := spec.RedlineRPM * launchRPMFraction
	sawLaunch := false
	for _, s := range snaps {
		if s.Velocity > launchReleaseVelocity {
			break
		}
		sawLaunch = true
		assert.InDelta(t, target, s.RPM, 1.0)
		assert.Equal(t, 1, s.Gear)
	}
	assert.True(t, sawLaunch, "expected launch-controlled snapshots off the line")
}

func TestLaunchControlOnlyFromStandstill(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	assert.True(t, eng.NewState(0).LaunchActive)
	assert.False(t, eng.NewState(80/3.6).LaunchActive)
}

func TestBoostSpoolsAndStaysBounded(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	st := eng.NewState(0)
	assert.Zero(t, st.BoostBar)

	peak := 0.0
	for i := 0; i < 1000; i++ {
		eng.Step(st, 0.01, eng.TopSpeedMS())
		assert.LessOrEqual(t, st.BoostBar, maxBoostBar)
		if st.BoostBar > peak {
			peak = st.BoostBar
		}
	}
	// The turbo has had ample time to spool against the launch target.
	assert.Greater(t, peak, 1.0)
}

func TestDRSOpensAtSpeed(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	st := eng.NewState(100 / 3.6)
	eng.Step(st, 0.01, eng.TopSpeedMS())
	assert.False(t, st.DRSOpen)

	st = eng.NewState(200 / 3.6)
	eng.Step(st, 0.01, eng.TopSpeedMS())
	assert.True(t, st.DRSOpen)

	// An open flap sheds drag.
	v := 200 / 3.6
	assert.Less(t, eng.resistance(v, true), eng.resistance(v, false))
}

func TestElectricAssistImprovesAcceleration(t *testing.T) {
	t.Parallel()
	c, err := vehicle.NewCatalog("")
	require.NoError(t, err)
	hybrid, ok := c.Lookup("mclaren_p1")
	require.True(t, ok)

	petrol := hybrid
	petrol.ElectricTorqueNM = 0
	petrol.ElectricMaxSpeedKMH = 0

	run := func(spec vehicle.Spec) []Snapshot {
		eng, err := New(spec, testEnv(), nil, DefaultCalibration())
		require.NoError(t, err)
		snaps, err := eng.Run(RunParameters{MaxTimeS: 10})
		require.NoError(t, err)
		require.NotEmpty(t, snaps)
		return snaps
	}

	withAssist := run(hybrid)
	without := run(petrol)
	assert.Greater(t, withAssist[len(withAssist)-1].Distance, without[len(without)-1].Distance)

	mh := CalculateMetrics(withAssist)
	mp := CalculateMetrics(without)
	require.NotNil(t, mh.TimeTo100KMH)
	require.NotNil(t, mp.TimeTo100KMH)
	assert.Less(t, *mh.TimeTo100KMH, *mp.TimeTo100KMH)
}

func TestRollRaceGearSelection(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	assert.Equal(t, 1, eng.GearFor(0))

	gear := eng.GearFor(80 / 3.6)
	assert.Greater(t, gear, 1)

	// Higher entry speed never selects a lower gear.
	assert.GreaterOrEqual(t, eng.GearFor(160/3.6), gear)
}

func TestAttackGearStaysLow(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	v := 100 / 3.6
	attack := eng.AttackGearFor(v)
	cruise := eng.GearFor(v)
	assert.LessOrEqual(t, attack, cruise)
	assert.Greater(t, attack, 1)

	assert.Equal(t, 1, eng.AttackGearFor(0))
}

func TestRollRaceFloorsAtEntrySpeed(t *testing.T) {
	t.Parallel()
	start := 80 / 3.6
	snaps := runJesko(t, RunParameters{MaxTimeS: 10, StartVelocityMS: start})
	for _, s := range snaps {
		assert.GreaterOrEqual(t, s.Velocity, start-1e-9)
	}
}

func TestCruiseHoldsTopSpeed(t *testing.T) {
	t.Parallel()
	spec := jeskoSpec(t)
	spec.TopSpeedKMH = 200 // reachable inside the run budget
	eng, err := New(spec, testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	snaps, err := eng.Run(RunParameters{MaxTimeS: 30})
	require.NoError(t, err)

	last := snaps[len(snaps)-1]
	assert.InDelta(t, spec.TopSpeedMS(), last.Velocity, spec.TopSpeedMS()*0.002)

	// Once at top speed the velocity trace is flat.
	tail := snaps[len(snaps)-100:]
	for _, s := range tail {
		assert.InDelta(t, last.Velocity, s.Velocity, 1e-9)
	}
}

func TestRunRejectsNegativeStart(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)
	_, err = eng.Run(RunParameters{StartVelocityMS: -1})
	assert.Error(t, err)
}

func TestStepRespectsVelocityCap(t *testing.T) {
	t.Parallel()
	eng, err := New(jeskoSpec(t), testEnv(), nil, DefaultCalibration())
	require.NoError(t, err)

	st := eng.NewState(0)
	vCap := 30.0
	for i := 0; i < 5000; i++ {
		eng.Step(st, 0.01, vCap)
	}
	assert.LessOrEqual(t, st.Velocity, vCap)
	assert.InDelta(t, vCap, st.Velocity, vCap*0.002)
	assert.Equal(t, PhaseCruising, st.Phase)
}

func TestCalibrationShiftFraction(t *testing.T) {
	t.Parallel()
	c := DefaultCalibration()

	assert.Equal(t, 0.68, c.ShiftFraction(1, 9))
	assert.Equal(t, 0.84, c.ShiftFraction(6, 9))
	// Gears beyond the table reuse the last entry.
	assert.Equal(t, 0.84, c.ShiftFraction(8, 9))
	// The final gear runs out to near redline.
	assert.Equal(t, c.FinalGearFraction, c.ShiftFraction(9, 9))
}

func TestCalibrationShiftDuration(t *testing.T) {
	t.Parallel()
	c := DefaultCalibration()
	assert.Equal(t, c.QuickShiftDurationS, c.ShiftDuration(0.94))
	assert.Equal(t, c.ShiftDurationS, c.ShiftDuration(0.90))
}
