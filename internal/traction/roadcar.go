package traction

import "github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"

// RoadCar is the traction calibration for conventional road and hypercars.
//
// Grip builds linearly from a cold floor toward full grip as the tires warm
// toward WarmTargetC, the effective μ fades mildly with speed, and weight
// transfer shifts load onto the driven rear axle under forward force.
type RoadCar struct {
	// MuBase is the peak friction coefficient on warm tires.
	MuBase float64 `json:"mu_base"`
	// ColdGripFraction is the grip floor on stone-cold tires.
	ColdGripFraction float64 `json:"cold_grip_fraction"`
	// WarmTargetC is the temperature at which full grip is available.
	WarmTargetC float64 `json:"warm_target_c"`
	// HeatCapC is the maximum tracked tire temperature.
	HeatCapC float64 `json:"heat_cap_c"`
	// HeatPerSpeed is the °C/s rise per m/s of road speed.
	HeatPerSpeed float64 `json:"heat_per_speed"`
	// HeatPerForce is the °C/s rise per kN of transmitted force.
	HeatPerForce float64 `json:"heat_per_force"`
	// RearWeightBase and RearWeightCap bound the driven-axle load fraction;
	// TransferCoefficient scales how fast forward force moves load rearward.
	RearWeightBase      float64 `json:"rear_weight_base"`
	RearWeightCap       float64 `json:"rear_weight_cap"`
	TransferCoefficient float64 `json:"transfer_coefficient"`
}

// DefaultRoadCar returns the calibrated road profile.
func DefaultRoadCar() RoadCar {
	return RoadCar{
		MuBase:              1.30,
		ColdGripFraction:    0.85,
		WarmTargetC:         75,
		HeatCapC:            90,
		HeatPerSpeed:        0.005,
		HeatPerForce:        0.12,
		RearWeightBase:      0.60,
		RearWeightCap:       0.85,
		TransferCoefficient: 0.25,
	}
}

func (RoadCar) Variant() string { return "road" }

func (r RoadCar) Limit(spec vehicle.Spec, airDensity, v, tireTempC, appliedForce float64) float64 {
	warmth := clamp(tireTempC/r.WarmTargetC, 0, 1)
	grip := r.ColdGripFraction + (1-r.ColdGripFraction)*warmth

	// μ decays mildly with speed; floor at 85% of the thermal grip value.
	speedFade := 1 - v/200
	if speedFade < 0.85 {
		speedFade = 0.85
	}
	mu := r.MuBase * grip * speedFade * spec.CorneringGrip

	static := spec.WeightKG * vehicle.Gravity
	rear := r.RearWeightBase
	if static > 0 {
		rear += r.TransferCoefficient * appliedForce / static
	}
	rear = clamp(rear, r.RearWeightBase, r.RearWeightCap)

	return mu * normalLoad(spec, airDensity, v) * rear
}

func (r RoadCar) NextHeat(tireTempC, v, appliedForce, dt float64) float64 {
	rate := v*r.HeatPerSpeed + appliedForce/1000*r.HeatPerForce
	return clamp(tireTempC+rate*dt, 0, r.HeatCapC)
}

func (r RoadCar) InitialHeat(ambientC float64) float64 {
	// Tires come up to a few degrees over ambient on the way to the line.
	return clamp(ambientC+10, 0, r.HeatCapC)
}
