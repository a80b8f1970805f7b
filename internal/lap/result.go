package lap

// TelemetryPoint is one sampled frame of lap telemetry for downstream
// visualisation.
type TelemetryPoint struct {
	DistanceM float64 `json:"distance_m"`
	SpeedKPH  float64 `json:"speed_kph"`
	Phase     string  `json:"phase"` // accel, braking, corner
	GForce    float64 `json:"g_force"`
	Throttle  float64 `json:"throttle"` // 0..1
	Brake     float64 `json:"brake"`    // 0..1
}

// BrakeZone reports one braking segment's statistics.
type BrakeZone struct {
	Corner           string  `json:"corner"`
	BrakingDistanceM float64 `json:"braking_distance_m"`
	BrakingTimeS     float64 `json:"braking_time_s"`
	PeakDecelG       float64 `json:"peak_decel_g"`
	EntryKPH         float64 `json:"entry_kph"`
	ApexKPH          float64 `json:"apex_kph"`
	SpeedLossKPH     float64 `json:"speed_loss_kph"`
}

// Result is the complete outcome of one simulated lap.
type Result struct {
	LapTimeS    float64          `json:"lap_time_seconds"`
	AvgSpeedKPH float64          `json:"avg_speed_kph"`
	MaxSpeedKPH float64          `json:"max_speed_kph"`
	MinSpeedKPH float64          `json:"min_speed_kph"`
	TotalDistM  float64          `json:"total_dist_m"`
	SectorTimes [3]float64       `json:"sector_times"`
	Telemetry   []TelemetryPoint `json:"telemetry"`
	BrakeZones  []BrakeZone      `json:"brake_zone_data"`
}
