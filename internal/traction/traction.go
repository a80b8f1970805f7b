// Package traction computes the tire traction force ceiling for the straight
// line and lap simulators, along with the per-step tire heat accumulation.
//
// Two calibrated variants exist: "road" for conventional road/hypercars and
// "aero" for high-downforce cars. Their calibration constants intentionally
// differ (base μ 1.30 vs. warm μ 1.55, distinct heat rates and warm-up
// thresholds) and must stay separate named profiles; do not merge them.
//
// Adding a new calibration requires only implementing Model and registering
// its discriminator in New; the simulators themselves never change.
package traction

import (
	"encoding/json"
	"fmt"

	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

// Model is the traction contract both simulators consume. Implementations are
// pure functions of their inputs; all mutable state (tire heat) lives in the
// caller's per-run simulation state.
type Model interface {
	// Variant returns the calibration name ("road" or "aero").
	Variant() string

	// Limit returns the maximum force (N) the tires can transmit at velocity
	// v (m/s) with the given accumulated tire temperature (°C). appliedForce
	// is the drive force from the previous step, used for weight transfer.
	Limit(spec vehicle.Spec, airDensity, v, tireTempC, appliedForce float64) float64

	// NextHeat advances the tire temperature over dt seconds given the
	// current speed and transmitted force, clamped at the profile's cap.
	NextHeat(tireTempC, v, appliedForce, dt float64) float64

	// InitialHeat returns the tire temperature at run start for the given
	// ambient temperature.
	InitialHeat(ambientC float64) float64
}

// New returns the Model for a named variant with its default calibration.
func New(variant string) (Model, error) {
	switch variant {
	case vehicle.TractionRoad:
		return DefaultRoadCar(), nil
	case vehicle.TractionAero:
		return DefaultDownforceAero(), nil
	default:
		return nil, fmt.Errorf("unknown traction variant %q", variant)
	}
}

// ForSpec returns the Model selected by the spec's traction_model field.
func ForSpec(spec vehicle.Spec) (Model, error) {
	return New(spec.TractionVariant())
}

// config is the minimum JSON structure needed to read the discriminator.
type config struct {
	Variant string `json:"variant"`
}

// Unmarshal resolves a JSON-encoded traction calibration. The object must
// carry a "variant" discriminator key selecting the concrete profile; the
// remaining fields override that profile's defaults.
func Unmarshal(data []byte) (Model, error) {
	var disc config
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, fmt.Errorf("reading traction variant discriminator: %w", err)
	}
	switch disc.Variant {
	case vehicle.TractionRoad:
		m := DefaultRoadCar()
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing road traction calibration: %w", err)
		}
		return m, nil
	case vehicle.TractionAero:
		m := DefaultDownforceAero()
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing aero traction calibration: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown traction variant %q", disc.Variant)
	}
}

// normalLoad is the static weight plus aerodynamic downforce (N).
// The downforce lift coefficient is the spec's downforce factor.
func normalLoad(spec vehicle.Spec, airDensity, v float64) float64 {
	downforce := 0.5 * airDensity * spec.DownforceFactor * spec.FrontalAreaM2 * v * v
	return spec.WeightKG*vehicle.Gravity + downforce
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
