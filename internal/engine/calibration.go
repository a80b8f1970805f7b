package engine

// Calibration is the versioned gearbox tuning table supplied to the engine.
// Keeping it external to the integrator lets shift behaviour be tuned and
// tested without touching engine logic.
type Calibration struct {
	Version string `json:"version"`

	// ShiftFractions is the fraction of redline at which each gear upshifts,
	// indexed by gear (gear 1 → index 0). Gears beyond the table reuse the
	// last entry; the final gear of a vehicle uses FinalGearFraction.
	ShiftFractions    []float64 `json:"shift_fractions"`
	FinalGearFraction float64   `json:"final_gear_fraction"`

	// MinPostShiftFraction blocks an upshift that would drop the engine
	// below this fraction of redline.
	MinPostShiftFraction float64 `json:"min_post_shift_fraction"`

	// ShiftDurationS is the power-interruption time per shift.
	// High-efficiency drivetrains (at or above QuickShiftEfficiency) use the
	// shorter QuickShiftDurationS.
	ShiftDurationS       float64 `json:"shift_duration_s"`
	QuickShiftDurationS  float64 `json:"quick_shift_duration_s"`
	QuickShiftEfficiency float64 `json:"quick_shift_efficiency"`

	// RollRaceMaxFraction bounds the RPM window used to pick a starting gear
	// for a nonzero start velocity.
	RollRaceMaxFraction float64 `json:"roll_race_max_fraction"`
}

// DefaultCalibration returns the standard gearbox table.
func DefaultCalibration() Calibration {
	return Calibration{
		Version:              "2024.1",
		ShiftFractions:       []float64{0.68, 0.72, 0.76, 0.78, 0.81, 0.84},
		FinalGearFraction:    0.95,
		MinPostShiftFraction: 0.52,
		ShiftDurationS:       0.15,
		QuickShiftDurationS:  0.08,
		QuickShiftEfficiency: 0.93,
		RollRaceMaxFraction:  0.85,
	}
}

// ShiftFraction returns the redline fraction at which the given gear (1-based)
// upshifts, for a vehicle with gearCount gears.
func (c Calibration) ShiftFraction(gear, gearCount int) float64 {
	if gear >= gearCount {
		return c.FinalGearFraction
	}
	idx := gear - 1
	if idx >= len(c.ShiftFractions) {
		idx = len(c.ShiftFractions) - 1
	}
	if idx < 0 {
		return c.FinalGearFraction
	}
	return c.ShiftFractions[idx]
}

// ShiftDuration returns the power-interruption time for a drivetrain with the
// given transmission efficiency.
func (c Calibration) ShiftDuration(transmissionEfficiency float64) float64 {
	if transmissionEfficiency >= c.QuickShiftEfficiency {
		return c.QuickShiftDurationS
	}
	return c.ShiftDurationS
}
