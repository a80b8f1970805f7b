package track

import (
	"fmt"
	"math"
)

// FuelKGPerL converts a fuel load in litres to added vehicle mass.
const FuelKGPerL = 0.74

// NominalBrakeBias is the front brake bias the braking references assume.
const NominalBrakeBias = 0.60

// optimalTrackTempC is where the track-temperature grip factor peaks.
const optimalTrackTempC = 30.0

// Weather is a named grip/braking multiplier pair.
type Weather struct {
	Name    string  `json:"name"`
	Grip    float64 `json:"grip"`
	Braking float64 `json:"braking"`
}

var weatherPresets = map[string]Weather{
	"dry":  {Name: "dry", Grip: 1.00, Braking: 1.00},
	"damp": {Name: "damp", Grip: 0.85, Braking: 0.88},
	"wet":  {Name: "wet", Grip: 0.60, Braking: 0.65},
	"snow": {Name: "snow", Grip: 0.30, Braking: 0.35},
	"ice":  {Name: "ice", Grip: 0.10, Braking: 0.12},
}

// WeatherPreset looks up a named weather preset. An empty name means dry.
func WeatherPreset(name string) (Weather, error) {
	if name == "" {
		return weatherPresets["dry"], nil
	}
	w, ok := weatherPresets[name]
	if !ok {
		return Weather{}, fmt.Errorf("unknown weather preset %q", name)
	}
	return w, nil
}

var compoundGrip = map[string]float64{
	"street": 1.00,
	"sport":  1.15,
	"slick":  1.35,
}

// CompoundGrip looks up a tire compound's grip multiplier. Empty means street.
func CompoundGrip(name string) (float64, error) {
	if name == "" {
		return compoundGrip["street"], nil
	}
	g, ok := compoundGrip[name]
	if !ok {
		return 0, fmt.Errorf("unknown tire compound %q", name)
	}
	return g, nil
}

// LapParameters configure one lap of a circuit.
type LapParameters struct {
	Weather             string  `json:"weather,omitempty"`              // dry, damp, wet, snow, ice
	TireCompound        string  `json:"tire_compound,omitempty"`        // street, sport, slick
	DownforceMultiplier float64 `json:"downforce_multiplier,omitempty"` // 0 = 1.0
	BrakeBias           float64 `json:"brake_bias,omitempty"`           // front fraction; 0 = nominal
	FuelLoadL           float64 `json:"fuel_load_l,omitempty"`          // litres
	// TrackTempC is the track surface temperature in °C. Nil means the
	// temperature term is skipped entirely; 0 is a real winter surface.
	TrackTempC *float64 `json:"track_temp_c,omitempty"`
	TimestepS  float64  `json:"timestep,omitempty"` // 0 = 0.01
}

// Conditions is a LapParameters set resolved into the effective multipliers
// the lap simulator applies before segment processing.
type Conditions struct {
	Weather Weather
	// TireScalar is the compound × track-temperature grip multiplier.
	TireScalar float64
	// GripScalar is TireScalar with the weather grip multiplier folded in;
	// it is applied to the vehicle's cornering grip for corner speeds.
	GripScalar float64
	// BrakeScalar is the weather braking multiplier × brake-bias ratio.
	// Braking deceleration combines it with TireScalar so the weather grip
	// term is not counted twice.
	BrakeScalar float64
	// ExtraMassKG is the fuel load converted to mass.
	ExtraMassKG float64
	// DownforceMultiplier scales the vehicle's downforce factor.
	DownforceMultiplier float64
	// TimestepS is the integration step for straight and braking segments.
	TimestepS float64
}

// Resolve combines the lap parameters into effective condition multipliers.
// All modifiers combine multiplicatively into one grip scalar.
func (p LapParameters) Resolve() (Conditions, error) {
	w, err := WeatherPreset(p.Weather)
	if err != nil {
		return Conditions{}, err
	}
	compound, err := CompoundGrip(p.TireCompound)
	if err != nil {
		return Conditions{}, err
	}
	if p.FuelLoadL < 0 {
		return Conditions{}, fmt.Errorf("fuel load must be nonnegative, got %.1f", p.FuelLoadL)
	}

	tempFactor := 1.0
	if p.TrackTempC != nil {
		tempFactor = math.Max(0.92, 1-0.0015*math.Abs(*p.TrackTempC-optimalTrackTempC))
	}

	bias := p.BrakeBias
	if bias <= 0 {
		bias = NominalBrakeBias
	}

	dt := p.TimestepS
	if dt <= 0 {
		dt = 0.01
	}

	df := p.DownforceMultiplier
	if df <= 0 {
		df = 1.0
	}

	return Conditions{
		Weather:             w,
		TireScalar:          compound * tempFactor,
		GripScalar:          w.Grip * compound * tempFactor,
		BrakeScalar:         w.Braking * bias / NominalBrakeBias,
		ExtraMassKG:         p.FuelLoadL * FuelKGPerL,
		DownforceMultiplier: df,
		TimestepS:           dt,
	}, nil
}
