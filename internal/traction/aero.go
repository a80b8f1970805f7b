package traction

import "github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"

// DownforceAero is the traction calibration for high-downforce cars.
//
// μ interpolates between a cold and a warm value as the tires approach a
// lower warm-up threshold than the road profile, and the tires heat faster
// under both force and speed. There is no separate weight-transfer term;
// downforce dominates the normal load so the full load is treated as driven.
type DownforceAero struct {
	// MuCold and MuWarm bound the friction coefficient across warm-up.
	MuCold float64 `json:"mu_cold"`
	MuWarm float64 `json:"mu_warm"`
	// WarmTargetC is the temperature at which MuWarm is reached.
	WarmTargetC float64 `json:"warm_target_c"`
	// HeatCapC is the maximum tracked tire temperature.
	HeatCapC float64 `json:"heat_cap_c"`
	// HeatPerSpeed is the °C/s rise per m/s; HeatPerForce per kN transmitted.
	HeatPerSpeed float64 `json:"heat_per_speed"`
	HeatPerForce float64 `json:"heat_per_force"`
}

// DefaultDownforceAero returns the calibrated aero profile.
func DefaultDownforceAero() DownforceAero {
	return DownforceAero{
		MuCold:       1.10,
		MuWarm:       1.55,
		WarmTargetC:  70,
		HeatCapC:     90,
		HeatPerSpeed: 0.009,
		HeatPerForce: 0.25,
	}
}

func (DownforceAero) Variant() string { return "aero" }

func (a DownforceAero) Limit(spec vehicle.Spec, airDensity, v, tireTempC, appliedForce float64) float64 {
	warmth := clamp(tireTempC/a.WarmTargetC, 0, 1)
	mu := (a.MuCold + (a.MuWarm-a.MuCold)*warmth) * spec.CorneringGrip
	return mu * normalLoad(spec, airDensity, v)
}

func (a DownforceAero) NextHeat(tireTempC, v, appliedForce, dt float64) float64 {
	rate := v*a.HeatPerSpeed + appliedForce/1000*a.HeatPerForce
	return clamp(tireTempC+rate*dt, 0, a.HeatCapC)
}

func (a DownforceAero) InitialHeat(ambientC float64) float64 {
	return clamp(ambientC+10, 0, a.HeatCapC)
}
