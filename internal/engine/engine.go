// Package engine implements the straight-line force-balance integrator.
//
// The simulation advances in fixed timesteps. Each step:
//
//  1. Derives engine RPM from road speed and the current gear, and engine
//     torque from the flat-then-decaying torque model scaled by turbo boost,
//     with any electric assist torque added on top.
//  2. Converts torque to wheel force through the drivetrain, capped by the
//     system power limit and by the traction model's force ceiling.
//  3. Subtracts aerodynamic drag (reduced while DRS is open at speed) and
//     rolling resistance, integrates acceleration into velocity and
//     distance, and emits a Snapshot.
//
// Launch control overlays the first metres of a standing start: first gear is
// pinned and RPM held at the launch target until the car is rolling.
//
// A gear-shift state machine overlays the loop: driving → shifting when RPM
// reaches the calibrated shift fraction of redline (drive force is zero while
// the shift timer runs), and driving → cruising once the vehicle is at top
// speed, after which distance advances at constant velocity.
package engine

import (
	"fmt"
	"math"

	"github.com/jude-pinkman/Hypercar-Sim/internal/traction"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

// Torque model shape: flat at rated torque up to torqueFlatFraction of
// redline, then linear decay to torqueFloorFraction of rated at redline.
const (
	torqueFlatFraction  = 0.68
	torqueFloorFraction = 0.65

	// minPowerVelocity guards the power-to-force division near standstill.
	minPowerVelocity = 0.5

	// cruiseFraction of top speed switches the state machine to cruising.
	cruiseFraction = 0.999
)

// Launch control, turbocharger, and drag-reduction calibration.
const (
	// Launch control pins first gear and holds the engine at this fraction
	// of redline until the car is properly rolling.
	launchRPMFraction     = 0.65
	launchReleaseVelocity = 5.0 // m/s

	maxBoostBar       = 2.0
	boostSpoolRate    = 3.0  // bar/s toward target, dumps at twice that
	boostTorquePerBar = 0.12 // combustion torque multiplier gain per bar

	drsMinVelocity   = 150.0 / 3.6 // m/s
	drsDragReduction = 0.15        // fraction of Cd shed with DRS open
)

// Engine integrates one vehicle through straight-line runs. It is safe for
// concurrent use: all mutable run state lives in the State threaded through
// each step.
type Engine struct {
	spec       vehicle.Spec
	env        vehicle.Environment
	airDensity float64
	traction   traction.Model
	calib      Calibration
}

// New builds an Engine for the given vehicle and environment. The traction
// model may be nil, in which case the spec's declared variant is used.
func New(spec vehicle.Spec, env vehicle.Environment, model traction.Model, calib Calibration) (*Engine, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		var err error
		model, err = traction.ForSpec(spec)
		if err != nil {
			return nil, err
		}
	}
	return &Engine{
		spec:       spec,
		env:        env,
		airDensity: env.AirDensity(),
		traction:   model,
		calib:      calib,
	}, nil
}

// Spec returns the engine's vehicle specification.
func (e *Engine) Spec() vehicle.Spec { return e.spec }

// TopSpeedMS returns the vehicle's rated top speed in m/s.
func (e *Engine) TopSpeedMS() float64 { return e.spec.TopSpeedMS() }

// NewState prepares per-run state for the given start velocity. A nonzero
// start velocity selects the highest gear whose RPM sits in the roll-race
// window instead of launching in first; launch control only engages from a
// standing start.
func (e *Engine) NewState(startVelocity float64) *State {
	return &State{
		Velocity:      startVelocity,
		Gear:          e.GearFor(startVelocity),
		Phase:         PhaseDriving,
		TireTempC:     e.traction.InitialHeat(e.env.TemperatureC),
		LaunchActive:  startVelocity < 1.0,
		floorVelocity: startVelocity,
	}
}

// Run executes a complete straight-line run and returns the snapshot
// sequence. The run stops at the target distance (if set), at max time, or
// when the step budget is exhausted.
func (e *Engine) Run(p RunParameters) ([]Snapshot, error) {
	p = p.withDefaults()
	if p.StartVelocityMS < 0 {
		return nil, fmt.Errorf("start velocity must be nonnegative, got %.2f", p.StartVelocityMS)
	}

	st := e.NewState(p.StartVelocityMS)
	maxSteps := int(p.MaxTimeS/p.TimestepS) + 1
	snapshots := make([]Snapshot, 0, maxSteps)

	for step := 0; step < maxSteps && st.Time <= p.MaxTimeS; step++ {
		snapshots = append(snapshots, e.Step(st, p.TimestepS, e.TopSpeedMS()))
		if p.TargetDistanceM > 0 && st.Distance >= p.TargetDistanceM {
			break
		}
	}
	return snapshots, nil
}

// Step advances the state by dt seconds with velocity capped at vCap and
// returns the resulting snapshot. The lap simulator calls this directly with
// a weather-reduced cap; Run uses the rated top speed.
func (e *Engine) Step(st *State, dt, vCap float64) Snapshot {
	if st.Phase == PhaseCruising {
		return e.cruiseStep(st, dt)
	}

	st.DRSOpen = st.Velocity >= drsMinVelocity

	rpm := e.rpmAt(st.Velocity, st.Gear)
	if st.LaunchActive {
		if st.Velocity > launchReleaseVelocity {
			st.LaunchActive = false
		} else {
			// Slipping clutch against the launch RPM target in first gear.
			st.Gear = 1
			rpm = math.Max(rpm, e.spec.RedlineRPM*launchRPMFraction)
		}
	}
	e.spoolBoost(st, rpm, dt)

	var driveForce float64
	switch st.Phase {
	case PhaseShifting:
		// Power interruption: no drive force until the shift completes.
		st.ShiftLeft -= dt
		if st.ShiftLeft <= 0 {
			st.ShiftLeft = 0
			st.Phase = PhaseDriving
		}
	default:
		if !st.LaunchActive && e.shouldShiftUp(rpm, st.Gear, st.Velocity) {
			st.Gear++
			st.Phase = PhaseShifting
			st.ShiftLeft = e.calib.ShiftDuration(e.spec.TransmissionEfficiency)
			rpm = e.rpmAt(st.Velocity, st.Gear)
		} else {
			driveForce = e.wheelForce(rpm, st.Gear, st.Velocity, st.BoostBar)
			limit := e.traction.Limit(e.spec, e.airDensity, st.Velocity, st.TireTempC, st.lastForce)
			if driveForce > limit {
				driveForce = limit
			}
		}
	}

	accel := (driveForce - e.resistance(st.Velocity, st.DRSOpen)) / e.spec.WeightKG

	st.Velocity += accel * dt
	if st.Velocity < st.floorVelocity {
		st.Velocity = st.floorVelocity
	}
	if st.Velocity >= vCap {
		st.Velocity = vCap
	}
	st.Distance += st.Velocity * dt
	st.Time += dt
	st.TireTempC = e.traction.NextHeat(st.TireTempC, st.Velocity, driveForce, dt)
	st.lastForce = driveForce

	if st.Phase == PhaseDriving && st.Velocity >= cruiseFraction*vCap {
		st.Phase = PhaseCruising
	}

	return Snapshot{
		Time:         st.Time,
		Distance:     st.Distance,
		Velocity:     st.Velocity,
		Acceleration: accel,
		Gear:         st.Gear,
		RPM:          rpm,
		PowerKW:      driveForce * st.Velocity / 1000,
	}
}

// cruiseStep advances distance at constant velocity, skipping the force
// balance entirely once the vehicle holds top speed.
func (e *Engine) cruiseStep(st *State, dt float64) Snapshot {
	st.DRSOpen = st.Velocity >= drsMinVelocity
	st.Distance += st.Velocity * dt
	st.Time += dt
	return Snapshot{
		Time:     st.Time,
		Distance: st.Distance,
		Velocity: st.Velocity,
		Gear:     st.Gear,
		RPM:      e.rpmAt(st.Velocity, st.Gear),
		PowerKW:  e.resistance(st.Velocity, st.DRSOpen) * st.Velocity / 1000,
	}
}

// spoolBoost moves turbo pressure toward the wide-open-throttle target at the
// calibrated spool rate. Target boost scales with RPM, so boost falls back
// after every upshift and rebuilds as the engine climbs through the gear.
func (e *Engine) spoolBoost(st *State, rpm, dt float64) {
	target := rpm / e.spec.RedlineRPM * maxBoostBar
	if target > maxBoostBar {
		target = maxBoostBar
	}
	if st.BoostBar < target {
		st.BoostBar = math.Min(target, st.BoostBar+boostSpoolRate*dt)
	} else {
		// Wastegate dumps pressure faster than the turbo builds it.
		st.BoostBar = math.Max(target, st.BoostBar-2*boostSpoolRate*dt)
	}
}

// rpmAt converts road speed in a gear to engine RPM, floored at idle.
func (e *Engine) rpmAt(v float64, gear int) float64 {
	if gear < 1 || gear > e.spec.GearCount {
		return e.spec.IdleRPM
	}
	totalRatio := e.spec.GearRatios[gear-1] * e.spec.FinalDrive
	rpm := v * 60 * totalRatio / (2 * math.Pi * e.spec.TireRadiusM)
	return math.Max(e.spec.IdleRPM, rpm)
}

// engineTorque models a modern forced-induction powerband: rated torque flat
// to torqueFlatFraction of redline, then a linear decay to the floor.
func (e *Engine) engineTorque(rpm float64) float64 {
	flatTop := e.spec.RedlineRPM * torqueFlatFraction
	if rpm <= flatTop {
		return e.spec.TorqueNM
	}
	span := e.spec.RedlineRPM - flatTop
	frac := math.Min(1, (rpm-flatTop)/span)
	return e.spec.TorqueNM * (1 - frac*(1-torqueFloorFraction))
}

// wheelForce is the drivetrain force at the contact patch. Boost multiplies
// combustion torque, the electric motor adds its speed-tapered torque ahead
// of the gearing, and the combined force is capped by the system power limit.
func (e *Engine) wheelForce(rpm float64, gear int, v, boostBar float64) float64 {
	torque := e.engineTorque(rpm)*(1+boostBar*boostTorquePerBar) + e.spec.ElectricTorqueAt(v)
	totalRatio := e.spec.GearRatios[gear-1] * e.spec.FinalDrive
	force := torque * totalRatio * e.spec.TransmissionEfficiency / e.spec.TireRadiusM

	powerCap := e.spec.PowerKW * 1000 * e.spec.TransmissionEfficiency / math.Max(v, minPowerVelocity)
	return math.Min(force, powerCap)
}

// resistance is aerodynamic drag plus rolling resistance at velocity v.
// An open DRS flap sheds a fixed fraction of the drag coefficient.
func (e *Engine) resistance(v float64, drsOpen bool) float64 {
	cd := e.spec.DragCoefficient
	if drsOpen {
		cd *= 1 - drsDragReduction
	}
	drag := 0.5 * e.airDensity * cd * e.spec.FrontalAreaM2 * v * v
	rolling := e.spec.RollingResistanceCoef * e.spec.WeightKG * vehicle.Gravity
	return drag + rolling
}

// shouldShiftUp reports whether the calibrated shift point has been reached
// and the post-shift RPM would stay inside the powerband.
func (e *Engine) shouldShiftUp(rpm float64, gear int, v float64) bool {
	if gear >= e.spec.GearCount {
		return false
	}
	if rpm < e.spec.RedlineRPM*e.calib.ShiftFraction(gear, e.spec.GearCount) {
		return false
	}
	nextRPM := e.rpmAt(v, gear+1)
	return nextRPM >= e.spec.RedlineRPM*e.calib.MinPostShiftFraction
}

// GearFor picks the gear for a given entry speed: first gear from standstill,
// or the highest gear whose RPM lies within [idle, RollRaceMaxFraction·redline]
// for a rolling start.
func (e *Engine) GearFor(v float64) int {
	if v < 1.0 {
		return 1
	}
	for gear := e.spec.GearCount; gear >= 1; gear-- {
		totalRatio := e.spec.GearRatios[gear-1] * e.spec.FinalDrive
		rpm := v * 60 * totalRatio / (2 * math.Pi * e.spec.TireRadiusM)
		if rpm >= e.spec.IdleRPM && rpm <= e.spec.RedlineRPM*e.calib.RollRaceMaxFraction {
			return gear
		}
	}
	return 1
}

// AttackGearFor picks the lowest gear that keeps the engine under the rev
// ceiling at speed v. Corner exits want maximum acceleration, not the relaxed
// cruise RPM GearFor selects.
func (e *Engine) AttackGearFor(v float64) int {
	for gear := 1; gear <= e.spec.GearCount; gear++ {
		if e.rpmAt(v, gear) <= e.spec.RedlineRPM*e.calib.RollRaceMaxFraction {
			return gear
		}
	}
	return e.spec.GearCount
}
