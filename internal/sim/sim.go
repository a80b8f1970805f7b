// Package sim is the JSON façade over the drag and lap simulators. The CLI,
// the HTTP server, and the WASM build all speak the same request and response
// shapes through a shared Runner, so a payload that works in one surface works
// in all of them.
package sim

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jude-pinkman/Hypercar-Sim/internal/engine"
	"github.com/jude-pinkman/Hypercar-Sim/internal/lap"
	"github.com/jude-pinkman/Hypercar-Sim/internal/track"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

// DragRequest describes one straight-line run for one or more vehicles.
// Vehicles are simulated concurrently and results are returned in request
// order.
type DragRequest struct {
	VehicleIDs      []string             `json:"vehicle_ids"`
	StartSpeedKPH   float64              `json:"start_speed_kmh,omitempty"`
	TargetDistanceM float64              `json:"target_distance_m,omitempty"`
	TimestepS       float64              `json:"timestep_s,omitempty"`
	MaxTimeS        float64              `json:"max_time_s,omitempty"`
	IncludeTrace    bool                 `json:"include_trace,omitempty"`
	Mods            *vehicle.Mods        `json:"mods,omitempty"`
	Environment     *vehicle.Environment `json:"environment,omitempty"`
}

// DragVehicleResult is the per-vehicle slice of a drag response. Fallback is
// set when the requested ID was not in the catalog and the reference vehicle
// was simulated instead.
type DragVehicleResult struct {
	VehicleID   string                    `json:"vehicle_id"`
	VehicleName string                    `json:"vehicle_name"`
	Fallback    bool                      `json:"fallback,omitempty"`
	Metrics     engine.PerformanceMetrics `json:"metrics"`
	Trace       []engine.Snapshot         `json:"trace,omitempty"`
}

// DragResponse is the full result of one drag simulation request.
type DragResponse struct {
	SimulationID string              `json:"simulation_id"`
	Results      []DragVehicleResult `json:"results"`
}

// LapRequest describes one lap simulation. An inline track takes precedence;
// otherwise the built-in circuit is used.
type LapRequest struct {
	VehicleID   string               `json:"vehicle_id"`
	Track       *track.Track         `json:"track,omitempty"`
	Params      track.LapParameters  `json:"params"`
	Mods        *vehicle.Mods        `json:"mods,omitempty"`
	Environment *vehicle.Environment `json:"environment,omitempty"`
}

// LapResponse is the full result of one lap simulation request.
type LapResponse struct {
	SimulationID string     `json:"simulation_id"`
	VehicleID    string     `json:"vehicle_id"`
	VehicleName  string     `json:"vehicle_name"`
	TrackName    string     `json:"track_name"`
	Fallback     bool       `json:"fallback,omitempty"`
	Result       lap.Result `json:"result"`
}

// Runner resolves vehicles against a catalog and executes simulations. It is
// safe for concurrent use.
type Runner struct {
	catalog *vehicle.Catalog
	log     *zap.Logger
}

// NewRunner builds a Runner over the given catalog. A nil logger disables
// logging.
func NewRunner(catalog *vehicle.Catalog, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{catalog: catalog, log: log}
}

// resolve looks up a vehicle and applies any modifications. The second return
// reports whether the lookup fell back to the reference vehicle.
func (r *Runner) resolve(id string, mods *vehicle.Mods) (vehicle.Spec, bool, error) {
	spec, found := r.catalog.Lookup(id)
	if !found {
		r.log.Warn("unknown vehicle, using reference spec",
			zap.String("vehicle_id", id),
			zap.String("fallback", spec.ID))
	}
	if mods != nil {
		modded, err := vehicle.ApplyMods(spec, *mods)
		if err != nil {
			return vehicle.Spec{}, !found, fmt.Errorf("vehicle %q: %w", id, err)
		}
		spec = modded
	}
	return spec, !found, nil
}

func environmentOrDefault(env *vehicle.Environment) vehicle.Environment {
	if env != nil {
		return *env
	}
	return vehicle.DefaultEnvironment()
}

// RunDrag simulates every requested vehicle concurrently and assembles the
// response in request order.
func (r *Runner) RunDrag(ctx context.Context, req DragRequest) (DragResponse, error) {
	if len(req.VehicleIDs) == 0 {
		return DragResponse{}, fmt.Errorf("at least one vehicle id is required")
	}

	env := environmentOrDefault(req.Environment)
	params := engine.RunParameters{
		TimestepS:       req.TimestepS,
		MaxTimeS:        req.MaxTimeS,
		TargetDistanceM: req.TargetDistanceM,
		StartVelocityMS: req.StartSpeedKPH / 3.6,
	}
	if params.TargetDistanceM == 0 {
		params.TargetDistanceM = engine.QuarterMileM
	}

	// Each goroutine owns one slot, so no locking is needed.
	results := make([]DragVehicleResult, len(req.VehicleIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range req.VehicleIDs {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			spec, fallback, err := r.resolve(id, req.Mods)
			if err != nil {
				return err
			}
			eng, err := engine.New(spec, env, nil, engine.DefaultCalibration())
			if err != nil {
				return fmt.Errorf("vehicle %q: %w", id, err)
			}
			snaps, err := eng.Run(params)
			if err != nil {
				return fmt.Errorf("vehicle %q: %w", id, err)
			}

			res := DragVehicleResult{
				VehicleID:   id,
				VehicleName: spec.Name,
				Fallback:    fallback,
				Metrics:     engine.CalculateMetrics(snaps),
			}
			if req.IncludeTrace {
				res.Trace = snaps
			}

			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DragResponse{}, err
	}

	return DragResponse{
		SimulationID: uuid.NewString(),
		Results:      results,
	}, nil
}

// RunLap simulates a single lap for one vehicle.
func (r *Runner) RunLap(ctx context.Context, req LapRequest) (LapResponse, error) {
	if err := ctx.Err(); err != nil {
		return LapResponse{}, err
	}

	spec, fallback, err := r.resolve(req.VehicleID, req.Mods)
	if err != nil {
		return LapResponse{}, err
	}

	trk := track.Sample()
	if req.Track != nil {
		trk = *req.Track
	}

	simulator, err := lap.NewSimulator(spec, environmentOrDefault(req.Environment), trk, req.Params)
	if err != nil {
		return LapResponse{}, fmt.Errorf("vehicle %q on %q: %w", req.VehicleID, trk.Name, err)
	}
	result, err := simulator.Lap()
	if err != nil {
		return LapResponse{}, fmt.Errorf("vehicle %q on %q: %w", req.VehicleID, trk.Name, err)
	}

	return LapResponse{
		SimulationID: uuid.NewString(),
		VehicleID:    req.VehicleID,
		VehicleName:  spec.Name,
		TrackName:    trk.Name,
		Fallback:     fallback,
		Result:       result,
	}, nil
}

// RunDragJSON is the string transport used by the WASM build and the CLI's
// raw mode. Errors are returned as Go errors, not encoded into the payload.
func (r *Runner) RunDragJSON(ctx context.Context, data string) (string, error) {
	var req DragRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return "", fmt.Errorf("parsing drag request: %w", err)
	}
	resp, err := r.RunDrag(ctx, req)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("encoding drag response: %w", err)
	}
	return string(out), nil
}

// RunLapJSON mirrors RunDragJSON for lap simulations.
func (r *Runner) RunLapJSON(ctx context.Context, data string) (string, error) {
	var req LapRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return "", fmt.Errorf("parsing lap request: %w", err)
	}
	resp, err := r.RunLap(ctx, req)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("encoding lap response: %w", err)
	}
	return string(out), nil
}
