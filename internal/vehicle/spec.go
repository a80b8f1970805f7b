// Package vehicle defines the static input records for the simulation: the
// vehicle specification, the ambient environment, the CSV-backed catalog,
// and the tuning system that derives modified specs from a base spec.
//
// A Spec is immutable for the duration of a run. Tuning and lap-condition
// adjustments always produce a new effective copy; nothing in this package
// mutates a spec after construction.
package vehicle

import (
	"fmt"
	"math"
)

// Physical constants shared across the simulation.
const (
	Gravity        = 9.81   // m/s²
	AirGasConstant = 287.05 // J/(kg·K)

	// Scale height for the simplified barometric pressure correction.
	barometricScaleM = 8400.0

	// Moist air is slightly less dense than the ideal-gas value.
	humidityFactor = 0.98
)

// TractionVariant names which traction calibration a vehicle uses.
// See the traction package for the two calibrated profiles.
const (
	TractionRoad = "road"
	TractionAero = "aero"
)

// Spec is the complete static specification of a vehicle.
type Spec struct {
	ID                     string    `json:"vehicle_id"`
	Name                   string    `json:"name"`
	PowerKW                float64   `json:"power_kw"`
	WeightKG               float64   `json:"weight_kg"`
	DragCoefficient        float64   `json:"drag_coefficient"`
	FrontalAreaM2          float64   `json:"frontal_area_m2"`
	TorqueNM               float64   `json:"torque_nm"`
	GearCount              int       `json:"gear_count"`
	GearRatios             []float64 `json:"gear_ratios"`
	FinalDrive             float64   `json:"final_drive"`
	TireRadiusM            float64   `json:"tire_radius_m"`
	RedlineRPM             float64   `json:"redline_rpm"`
	IdleRPM                float64   `json:"idle_rpm"`
	TransmissionEfficiency float64   `json:"transmission_efficiency"`
	RollingResistanceCoef  float64   `json:"rolling_resistance_coef"`
	CorneringGrip          float64   `json:"cornering_grip"`
	DownforceFactor        float64   `json:"downforce_factor"`
	TopSpeedKMH            float64   `json:"top_speed_kmh"`
	// Traction selects the calibration profile: "road" (default) or "aero".
	Traction string `json:"traction_model,omitempty"`

	// Hybrid assist, optional. Zero values mean no electric motor; PowerKW is
	// always the combined system output.
	ElectricTorqueNM    float64 `json:"electric_torque_nm,omitempty"`
	ElectricMaxSpeedKMH float64 `json:"electric_max_speed_kmh,omitempty"`
}

// Validate checks the spec for values the integrator cannot work with.
func (s Spec) Validate() error {
	if s.WeightKG <= 0 {
		return fmt.Errorf("vehicle %q: weight must be positive, got %.1f", s.ID, s.WeightKG)
	}
	if s.PowerKW <= 0 {
		return fmt.Errorf("vehicle %q: power must be positive, got %.1f", s.ID, s.PowerKW)
	}
	if s.GearCount < 1 {
		return fmt.Errorf("vehicle %q: needs at least one gear", s.ID)
	}
	if len(s.GearRatios) != s.GearCount {
		return fmt.Errorf("vehicle %q: gear_count %d does not match %d gear ratios",
			s.ID, s.GearCount, len(s.GearRatios))
	}
	for i, r := range s.GearRatios {
		if r <= 0 {
			return fmt.Errorf("vehicle %q: gear %d ratio must be positive, got %.3f", s.ID, i+1, r)
		}
	}
	if s.TireRadiusM <= 0 {
		return fmt.Errorf("vehicle %q: tire radius must be positive", s.ID)
	}
	if s.FinalDrive <= 0 {
		return fmt.Errorf("vehicle %q: final drive must be positive", s.ID)
	}
	if s.RedlineRPM <= s.IdleRPM {
		return fmt.Errorf("vehicle %q: redline %.0f must exceed idle %.0f", s.ID, s.RedlineRPM, s.IdleRPM)
	}
	if s.TopSpeedKMH <= 0 {
		return fmt.Errorf("vehicle %q: top speed must be positive", s.ID)
	}
	switch s.Traction {
	case "", TractionRoad, TractionAero:
	default:
		return fmt.Errorf("vehicle %q: unknown traction model %q", s.ID, s.Traction)
	}
	if s.ElectricTorqueNM < 0 {
		return fmt.Errorf("vehicle %q: electric torque cannot be negative, got %.1f", s.ID, s.ElectricTorqueNM)
	}
	if s.ElectricTorqueNM > 0 && s.ElectricMaxSpeedKMH <= 0 {
		return fmt.Errorf("vehicle %q: electric torque needs a positive electric max speed", s.ID)
	}
	return nil
}

// ElectricTorqueAt returns the electric motor torque (Nm) available at the
// given road speed. The motor delivers full torque up to half its rated max
// speed, tapers with a 1.5 exponent above that, and contributes nothing at or
// beyond the rated max speed. Vehicles without a motor always return 0.
func (s Spec) ElectricTorqueAt(velocityMS float64) float64 {
	if s.ElectricTorqueNM <= 0 || s.ElectricMaxSpeedKMH <= 0 {
		return 0
	}
	speedKMH := velocityMS * 3.6
	if speedKMH >= s.ElectricMaxSpeedKMH {
		return 0
	}
	taperStart := s.ElectricMaxSpeedKMH * 0.5
	if speedKMH <= taperStart {
		return s.ElectricTorqueNM
	}
	ratio := (s.ElectricMaxSpeedKMH - speedKMH) / (s.ElectricMaxSpeedKMH - taperStart)
	return s.ElectricTorqueNM * math.Pow(ratio, 1.5)
}

// TopSpeedMS returns the vehicle's rated top speed in m/s.
func (s Spec) TopSpeedMS() float64 { return s.TopSpeedKMH / 3.6 }

// TractionVariant returns the traction calibration name, defaulting to "road".
func (s Spec) TractionVariant() string {
	if s.Traction == "" {
		return TractionRoad
	}
	return s.Traction
}

// Environment holds the ambient conditions for a run. Immutable per run.
type Environment struct {
	TemperatureC   float64 `json:"temperature_celsius"`
	AltitudeM      float64 `json:"altitude_meters"`
	AirPressureKPa float64 `json:"air_pressure_kpa,omitempty"` // 0 = standard 101.325
}

// AirDensity derives air density (kg/m³) from temperature and altitude using
// the ideal gas law with a simplified barometric altitude correction.
func (e Environment) AirDensity() float64 {
	pressureKPa := e.AirPressureKPa
	if pressureKPa <= 0 {
		pressureKPa = 101.325
	}
	tempK := e.TemperatureC + 273.15
	pressurePa := pressureKPa * 1000 * math.Exp(-e.AltitudeM/barometricScaleM)
	return pressurePa / (AirGasConstant * tempK) * humidityFactor
}

// DefaultEnvironment is a mild sea-level day.
func DefaultEnvironment() Environment {
	return Environment{TemperatureC: 20}
}

// DefaultSpec is the documented fallback used when a requested vehicle id is
// not in the catalog. It describes a generic high-performance road car with a
// cornering grip of 1.00, which is also the calibration reference the lap
// simulator scales braking and corner speeds against.
func DefaultSpec() Spec {
	return Spec{
		ID:                     "reference_gt",
		Name:                   "Reference GT",
		PowerKW:                450,
		WeightKG:               1550,
		DragCoefficient:        0.32,
		FrontalAreaM2:          2.05,
		TorqueNM:               750,
		GearCount:              7,
		GearRatios:             []float64{3.15, 2.19, 1.63, 1.29, 1.03, 0.84, 0.69},
		FinalDrive:             3.15,
		TireRadiusM:            0.350,
		RedlineRPM:             7600,
		IdleRPM:                900,
		TransmissionEfficiency: 0.90,
		RollingResistanceCoef:  0.011,
		CorneringGrip:          1.00,
		DownforceFactor:        0.30,
		TopSpeedKMH:            330,
		Traction:               TractionRoad,
	}
}
