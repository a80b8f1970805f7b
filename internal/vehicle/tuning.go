package vehicle

import "fmt"

// Mods selects an upgrade stage per subsystem. Empty fields mean stock.
type Mods struct {
	Engine       string `json:"engine,omitempty"`       // stock, stage1, stage2, stage3
	Tires        string `json:"tires,omitempty"`        // street, sport, slick
	Aero         string `json:"aero,omitempty"`         // stock, sport, race
	Weight       string `json:"weight,omitempty"`       // stock, lightweight, race
	Transmission string `json:"transmission,omitempty"` // stock, sport, race
}

type engineStage struct{ power, torque float64 }
type tireStage struct{ grip, rollingResistance float64 }
type aeroStage struct{ drag, downforce float64 }

var engineStages = map[string]engineStage{
	"stock":  {1.00, 1.00},
	"stage1": {1.15, 1.12},
	"stage2": {1.30, 1.25},
	"stage3": {1.50, 1.40},
}

var tireStages = map[string]tireStage{
	"street": {1.00, 1.00},
	"sport":  {1.15, 0.95},
	"slick":  {1.35, 0.90},
}

var aeroStages = map[string]aeroStage{
	"stock": {1.00, 1.00},
	"sport": {0.95, 1.20},
	"race":  {0.88, 1.50},
}

var weightStages = map[string]float64{
	"stock":       1.00,
	"lightweight": 0.95,
	"race":        0.88,
}

var transmissionStages = map[string]float64{
	"stock": 1.00,
	"sport": 1.05,
	"race":  1.10,
}

// ApplyMods derives a tuned copy of spec. The base spec is never modified.
// Unknown stage names are an error so a typo cannot silently run stock.
func ApplyMods(spec Spec, mods Mods) (Spec, error) {
	tuned := spec
	tuned.GearRatios = append([]float64(nil), spec.GearRatios...)

	if stage := mods.Engine; stage != "" {
		m, ok := engineStages[stage]
		if !ok {
			return Spec{}, fmt.Errorf("unknown engine stage %q", stage)
		}
		tuned.PowerKW *= m.power
		tuned.TorqueNM *= m.torque
	}
	if stage := mods.Tires; stage != "" {
		m, ok := tireStages[stage]
		if !ok {
			return Spec{}, fmt.Errorf("unknown tire stage %q", stage)
		}
		tuned.CorneringGrip *= m.grip
		tuned.RollingResistanceCoef *= m.rollingResistance
	}
	if stage := mods.Aero; stage != "" {
		m, ok := aeroStages[stage]
		if !ok {
			return Spec{}, fmt.Errorf("unknown aero stage %q", stage)
		}
		tuned.DragCoefficient *= m.drag
		tuned.DownforceFactor *= m.downforce
	}
	if stage := mods.Weight; stage != "" {
		m, ok := weightStages[stage]
		if !ok {
			return Spec{}, fmt.Errorf("unknown weight stage %q", stage)
		}
		tuned.WeightKG *= m
	}
	if stage := mods.Transmission; stage != "" {
		m, ok := transmissionStages[stage]
		if !ok {
			return Spec{}, fmt.Errorf("unknown transmission stage %q", stage)
		}
		// Capped so a stacked race gearbox cannot exceed lossless transfer.
		tuned.TransmissionEfficiency = min(0.98, tuned.TransmissionEfficiency*m)
	}
	return tuned, nil
}
