// Package lap walks an ordered circuit one segment at a time, applying the
// straight-line force-balance primitives per segment type and carrying exit
// velocity from each segment into the next. It produces the lap time, sector
// times, telemetry, and per-corner braking statistics.
package lap

import (
	"fmt"
	"math"

	"github.com/jude-pinkman/Hypercar-Sim/internal/engine"
	"github.com/jude-pinkman/Hypercar-Sim/internal/track"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

const (
	// apexCapRatio bounds corner-speed extrapolation for very high grip cars.
	apexCapRatio = 1.35

	// overrunRatio trips the braking distance guard when a car cannot slow
	// to the apex speed within a reasonable multiple of the nominal zone.
	overrunRatio = 1.8

	// downforceInfluence scales how much the downforce factor raises
	// achievable corner speed on top of mechanical grip.
	downforceInfluence = 0.08

	// telemetryIntervalM is the sampling distance for telemetry points.
	telemetryIntervalM = 10.0

	// segmentStepBudget bounds the integration loop of a single segment.
	segmentStepBudget = 200000
)

// Simulator runs laps of one circuit for one vehicle under fixed conditions.
// All mutable run state is scoped to each Lap call, so a Simulator may be
// shared or discarded freely.
type Simulator struct {
	spec vehicle.Spec // effective: fuel mass and downforce multiplier applied
	trk  track.Track
	cond track.Conditions
	eng  *engine.Engine

	refGrip    float64
	cornerGrip float64 // effective cornering grip after condition scaling
	vCap       float64 // weather-reduced top speed, m/s
}

// NewSimulator validates the track, resolves the lap conditions, and derives
// the effective vehicle spec for the lap (fuel load as mass, downforce
// multiplier applied). The base spec is never modified.
func NewSimulator(spec vehicle.Spec, env vehicle.Environment, trk track.Track, params track.LapParameters) (*Simulator, error) {
	if err := trk.Validate(); err != nil {
		return nil, err
	}
	cond, err := params.Resolve()
	if err != nil {
		return nil, err
	}

	eff := spec
	eff.GearRatios = append([]float64(nil), spec.GearRatios...)
	eff.WeightKG += cond.ExtraMassKG
	eff.DownforceFactor *= cond.DownforceMultiplier

	eng, err := engine.New(eff, env, nil, engine.DefaultCalibration())
	if err != nil {
		return nil, fmt.Errorf("building engine for %q: %w", spec.ID, err)
	}

	refGrip := trk.ReferenceGrip
	if refGrip <= 0 {
		refGrip = 1.0
	}

	vCap := eff.TopSpeedMS()
	if cond.Weather.Grip < 1 {
		vCap *= math.Sqrt(cond.Weather.Grip)
	}

	return &Simulator{
		spec:       eff,
		trk:        trk,
		cond:       cond,
		eng:        eng,
		refGrip:    refGrip,
		cornerGrip: eff.CorneringGrip * cond.GripScalar,
		vCap:       vCap,
	}, nil
}

// Lap simulates one standing-start lap and returns the aggregated result.
func (s *Simulator) Lap() (Result, error) {
	st := s.eng.NewState(0)
	res := Result{MinSpeedKPH: math.Inf(1)}
	lastSample := 0.0

	for _, seg := range s.trk.Segments {
		segStart := st.Time

		switch seg.Type {
		case track.SegmentStraight, track.SegmentAccel:
			s.runStraight(st, seg, &res, &lastSample)
		case track.SegmentBraking:
			zone, err := s.runBraking(st, seg, &res, &lastSample)
			if err != nil {
				return Result{}, err
			}
			res.BrakeZones = append(res.BrakeZones, zone)
		case track.SegmentCorner:
			s.runCorner(st, seg, &res)
		}

		res.SectorTimes[seg.Sector] += st.Time - segStart
	}

	res.LapTimeS = st.Time
	res.TotalDistM = st.Distance
	if st.Time > 0 {
		res.AvgSpeedKPH = st.Distance / st.Time * 3.6
	}
	if math.IsInf(res.MinSpeedKPH, 1) {
		res.MinSpeedKPH = 0
	}
	return res, nil
}

// runStraight integrates the driving-state loop bounded by segment length,
// capped at the weather-reduced top speed.
func (s *Simulator) runStraight(st *engine.State, seg track.Segment, res *Result, lastSample *float64) {
	// The engine never downshifts mid-run, so reselect the gear for the
	// corner-exit speed when entering a new acceleration zone.
	st.Gear = s.eng.AttackGearFor(st.Velocity)
	st.ShiftLeft = 0
	if st.Velocity < s.vCap {
		st.Phase = engine.PhaseDriving
	}

	start := st.Distance
	for i := 0; i < segmentStepBudget && st.Distance-start < seg.LengthM; i++ {
		snap := s.eng.Step(st, s.cond.TimestepS, s.vCap)
		res.MaxSpeedKPH = math.Max(res.MaxSpeedKPH, snap.Velocity*3.6)

		if st.Distance-*lastSample >= telemetryIntervalM {
			*lastSample = st.Distance
			res.Telemetry = append(res.Telemetry, TelemetryPoint{
				DistanceM: st.Distance,
				SpeedKPH:  snap.Velocity * 3.6,
				Phase:     "accel",
				GForce:    snap.Acceleration / vehicle.Gravity,
				Throttle:  1,
			})
		}
	}
}

// runBraking decelerates toward the linked corner's apex speed, recording the
// brake-zone statistics. A distance overrun guard stops the zone when the car
// cannot reach the target inside overrunRatio times the nominal length.
func (s *Simulator) runBraking(st *engine.State, seg track.Segment, res *Result, lastSample *float64) (BrakeZone, error) {
	corner, ok := s.trk.CornerByID(seg.CornerID())
	if !ok {
		return BrakeZone{}, fmt.Errorf("braking segment %q: corner %q not on track", seg.ID, seg.CornerID())
	}
	target := s.apexSpeed(corner)
	decel := seg.BrakingGRef * vehicle.Gravity *
		(s.spec.CorneringGrip * s.cond.TireScalar / s.refGrip) * s.cond.BrakeScalar

	entry := st.Velocity
	dt := s.cond.TimestepS
	start, startTime := st.Distance, st.Time

	if entry > target {
		for i := 0; i < segmentStepBudget && st.Velocity > target; i++ {
			st.Velocity = math.Max(target, st.Velocity-decel*dt)
			st.Distance += st.Velocity * dt
			st.Time += dt

			if st.Distance-*lastSample >= telemetryIntervalM {
				*lastSample = st.Distance
				res.Telemetry = append(res.Telemetry, TelemetryPoint{
					DistanceM: st.Distance,
					SpeedKPH:  st.Velocity * 3.6,
					Phase:     "braking",
					GForce:    -decel / vehicle.Gravity,
					Brake:     1,
				})
			}

			if st.Distance-start > overrunRatio*seg.LengthM {
				break
			}
		}
	}

	brakeDist := st.Distance - start
	brakeTime := st.Time - startTime

	// Roll through whatever zone distance braking did not consume.
	if remaining := seg.LengthM - brakeDist; remaining > 0 {
		st.Time += remaining / math.Max(st.Velocity, 1)
		st.Distance += remaining
	}

	peakG := 0.0
	if entry > target {
		peakG = decel / vehicle.Gravity
	}
	apex := math.Min(entry, math.Max(st.Velocity, target))
	st.Velocity = apex

	return BrakeZone{
		Corner:           corner.DisplayName(),
		BrakingDistanceM: brakeDist,
		BrakingTimeS:     brakeTime,
		PeakDecelG:       peakG,
		EntryKPH:         entry * 3.6,
		ApexKPH:          apex * 3.6,
		SpeedLossKPH:     (entry - apex) * 3.6,
	}, nil
}

// runCorner traverses a corner at its grip-adjusted apex speed under the
// near-constant-speed assumption.
func (s *Simulator) runCorner(st *engine.State, seg track.Segment, res *Result) {
	apex := s.apexSpeed(seg)
	if st.Velocity > apex || st.Velocity == 0 {
		st.Velocity = apex
	}
	st.Time += seg.LengthM / st.Velocity
	st.Distance += seg.LengthM
	st.Phase = engine.PhaseDriving

	res.MinSpeedKPH = math.Min(res.MinSpeedKPH, st.Velocity*3.6)
	res.Telemetry = append(res.Telemetry, TelemetryPoint{
		DistanceM: st.Distance,
		SpeedKPH:  st.Velocity * 3.6,
		Phase:     "corner",
		GForce:    s.cornerGrip,
		Throttle:  0.5,
	})
}

// apexSpeed scales a corner's reference apex by the vehicle's grip and
// downforce relative to the track's calibration reference, capped to bound
// extrapolation for very high grip cars.
func (s *Simulator) apexSpeed(corner track.Segment) float64 {
	ref := corner.ApexSpeedKPH / 3.6
	ratio := s.cornerGrip * (1 + downforceInfluence*s.spec.DownforceFactor) / s.refGrip
	return math.Min(ref*math.Sqrt(ratio), apexCapRatio*ref)
}
