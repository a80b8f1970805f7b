package engine

// RunParameters configures one straight-line run.
type RunParameters struct {
	TimestepS       float64 `json:"timestep"`                  // seconds
	MaxTimeS        float64 `json:"max_time"`                  // seconds
	TargetDistanceM float64 `json:"target_distance,omitempty"` // metres; 0 = no distance target
	StartVelocityMS float64 `json:"start_velocity,omitempty"`  // m/s; >0 selects roll-race gearing
}

// withDefaults fills unset timing fields with the standard run configuration.
func (p RunParameters) withDefaults() RunParameters {
	if p.TimestepS <= 0 {
		p.TimestepS = 0.01
	}
	if p.MaxTimeS <= 0 {
		p.MaxTimeS = 30
	}
	return p
}

// Snapshot is one frame of simulation output. Time and distance are
// nondecreasing across a run's snapshot sequence, and gear never drops.
type Snapshot struct {
	Time         float64 `json:"time"`         // seconds
	Distance     float64 `json:"distance"`     // metres
	Velocity     float64 `json:"velocity"`     // m/s
	Acceleration float64 `json:"acceleration"` // m/s²
	Gear         int     `json:"gear"`
	RPM          float64 `json:"rpm"`
	PowerKW      float64 `json:"power_kw"` // drive power delivered at the wheels
}

// Phase is the engine state machine position.
type Phase string

const (
	PhaseDriving  Phase = "driving"
	PhaseShifting Phase = "shifting"
	PhaseCruising Phase = "cruising"
)

// State is the mutable per-run simulation state. It is created at run start,
// advanced once per integration step, and discarded at run end; it is never
// shared between runs or goroutines.
type State struct {
	Time      float64
	Distance  float64
	Velocity  float64 // m/s
	Gear      int     // 1-based
	Phase     Phase
	ShiftLeft float64 // seconds remaining in the current shift
	TireTempC float64
	BoostBar  float64 // turbo pressure above atmospheric

	// LaunchActive holds first gear at the launch RPM target from a
	// standing start until the car is rolling.
	LaunchActive bool
	// DRSOpen mirrors whether the drag-reduction flap was open on the
	// last step.
	DRSOpen bool

	// floorVelocity keeps a roll race from decaying below its entry speed
	// during power interruptions.
	floorVelocity float64
	// lastForce is the previous step's drive force, fed back into the
	// traction model for weight transfer and tire heating.
	lastForce float64
}
