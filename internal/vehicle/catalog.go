package vehicle

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Catalog holds the known vehicle specs, keyed by vehicle id. It starts from
// the built-in baseline specs and can merge per-gear data from a CSV file in
// the hypercar_data.csv shape:
//
//	Car,Gear,Ratio,Redline_RPM,Top_Speed_Redline_mph,Shift_Point_mph
//
// The CSV supplies gear ratios and redline per car; the remaining physical
// parameters come from the baseline table. Rows for cars without a baseline
// entry are skipped. Reload is safe while lookups are in flight.
type Catalog struct {
	path string

	mu       sync.RWMutex
	vehicles map[string]Spec
}

// NewCatalog builds a catalog from the built-in specs, merged with csvPath if
// it is non-empty. A missing or unreadable CSV is an error; an empty path
// yields the built-ins only.
func NewCatalog(csvPath string) (*Catalog, error) {
	c := &Catalog{path: csvPath}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rebuilds the catalog from the built-in specs and the CSV file.
func (c *Catalog) Reload() error {
	vehicles := make(map[string]Spec, len(builtinSpecs))
	for _, s := range builtinSpecs {
		vehicles[s.ID] = s
	}

	if c.path != "" {
		if err := mergeCSV(vehicles, c.path); err != nil {
			return fmt.Errorf("loading vehicle CSV: %w", err)
		}
	}

	for id, s := range vehicles {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("catalog entry %q: %w", id, err)
		}
	}

	c.mu.Lock()
	c.vehicles = vehicles
	c.mu.Unlock()
	return nil
}

// Lookup returns the spec for id. When the id is unknown it returns the
// documented default spec and false; callers should surface a warning but
// never fail the simulation on a missing vehicle.
func (c *Catalog) Lookup(id string) (Spec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.vehicles[id]; ok {
		return s, true
	}
	return DefaultSpec(), false
}

// List returns vehicle id → display name, sorted by id.
func (c *Catalog) List() []Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Spec, 0, len(c.vehicles))
	for _, s := range c.vehicles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of vehicles loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vehicles)
}

type csvGear struct {
	gear       int
	ratio      float64
	redlineRPM float64
}

func mergeCSV(vehicles map[string]Spec, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Car", "Gear", "Ratio"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	// Redline_RPM is optional; without it the baseline redline stands.
	redlineCol, hasRedline := col["Redline_RPM"]

	gearsByCar := make(map[string][]csvGear)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, col["Car"]))
		if name == "" {
			continue
		}
		g := csvGear{
			gear:  safeInt(cell(row, col["Gear"]), 0),
			ratio: safeFloat(cell(row, col["Ratio"]), 0),
		}
		if hasRedline {
			g.redlineRPM = safeFloat(cell(row, redlineCol), 0)
		}
		if g.gear < 1 || g.ratio <= 0 {
			continue
		}
		gearsByCar[name] = append(gearsByCar[name], g)
	}

	byName := make(map[string]string, len(vehicles))
	for id, s := range vehicles {
		byName[s.Name] = id
	}

	for name, gears := range gearsByCar {
		id, ok := byName[name]
		if !ok {
			continue // no baseline physical parameters for this car
		}
		sort.Slice(gears, func(i, j int) bool { return gears[i].gear < gears[j].gear })

		s := vehicles[id]
		s.GearCount = len(gears)
		s.GearRatios = make([]float64, len(gears))
		for i, g := range gears {
			s.GearRatios[i] = g.ratio
		}
		if gears[0].redlineRPM > 0 {
			s.RedlineRPM = gears[0].redlineRPM
		}
		vehicles[id] = s
	}
	return nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// safeFloat parses catalog cells that may contain N/A-style placeholders.
func safeFloat(v string, def float64) float64 {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "n/a", "na", "null", "none":
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func safeInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// builtinSpecs are the baseline vehicles, always present even without a CSV.
var builtinSpecs = []Spec{
	{
		ID:                     "koenigsegg_jesko",
		Name:                   "Koenigsegg Jesko Absolut",
		PowerKW:                1195,
		WeightKG:               1420,
		DragCoefficient:        0.278,
		FrontalAreaM2:          1.88,
		TorqueNM:               1500,
		GearCount:              9,
		GearRatios:             []float64{3.71, 2.73, 2.11, 1.67, 1.36, 1.13, 0.97, 0.86, 0.78},
		FinalDrive:             2.85,
		TireRadiusM:            0.370,
		RedlineRPM:             8500,
		IdleRPM:                1200,
		TransmissionEfficiency: 0.94,
		RollingResistanceCoef:  0.009,
		CorneringGrip:          1.08,
		DownforceFactor:        0.45,
		TopSpeedKMH:            531,
		Traction:               TractionRoad,
	},
	{
		ID:                     "bugatti_chiron_ss",
		Name:                   "Bugatti Chiron Super Sport 300+",
		PowerKW:                1177,
		WeightKG:               1978,
		DragCoefficient:        0.35,
		FrontalAreaM2:          2.07,
		TorqueNM:               1600,
		GearCount:              7,
		GearRatios:             []float64{3.32, 2.34, 1.78, 1.41, 1.16, 0.85, 0.69},
		FinalDrive:             2.73,
		TireRadiusM:            0.365,
		RedlineRPM:             6700,
		IdleRPM:                1200,
		TransmissionEfficiency: 0.92,
		RollingResistanceCoef:  0.010,
		CorneringGrip:          1.02,
		DownforceFactor:        0.35,
		TopSpeedKMH:            490,
		Traction:               TractionRoad,
	},
	{
		ID:                     "hennessey_venom_f5",
		Name:                   "Hennessey Venom F5",
		PowerKW:                1355,
		WeightKG:               1360,
		DragCoefficient:        0.33,
		FrontalAreaM2:          1.95,
		TorqueNM:               1617,
		GearCount:              7,
		GearRatios:             []float64{3.42, 2.51, 1.92, 1.51, 1.21, 0.93, 0.74},
		FinalDrive:             3.08,
		TireRadiusM:            0.368,
		RedlineRPM:             8200,
		IdleRPM:                1200,
		TransmissionEfficiency: 0.93,
		RollingResistanceCoef:  0.009,
		CorneringGrip:          1.05,
		DownforceFactor:        0.40,
		TopSpeedKMH:            500,
		Traction:               TractionRoad,
	},
	{
		ID:                     "mclaren_p1",
		Name:                   "McLaren P1",
		PowerKW:                673,
		WeightKG:               1490,
		DragCoefficient:        0.34,
		FrontalAreaM2:          1.98,
		TorqueNM:               720,
		GearCount:              7,
		GearRatios:             []float64{3.31, 2.05, 1.52, 1.22, 1.02, 0.87, 0.74},
		FinalDrive:             3.36,
		TireRadiusM:            0.358,
		RedlineRPM:             8500,
		IdleRPM:                1200,
		TransmissionEfficiency: 0.93,
		RollingResistanceCoef:  0.010,
		CorneringGrip:          1.12,
		DownforceFactor:        0.90,
		TopSpeedKMH:            350,
		Traction:               TractionRoad,
		ElectricTorqueNM:       260,
		ElectricMaxSpeedKMH:    300,
	},
	{
		ID:                     "aston_valkyrie",
		Name:                   "Aston Martin Valkyrie",
		PowerKW:                865,
		WeightKG:               1270,
		DragCoefficient:        0.36,
		FrontalAreaM2:          1.80,
		TorqueNM:               900,
		GearCount:              7,
		GearRatios:             []float64{3.08, 2.19, 1.71, 1.39, 1.16, 0.98, 0.84},
		FinalDrive:             3.27,
		TireRadiusM:            0.345,
		RedlineRPM:             11100,
		IdleRPM:                1100,
		TransmissionEfficiency: 0.93,
		RollingResistanceCoef:  0.010,
		CorneringGrip:          1.35,
		DownforceFactor:        2.80,
		TopSpeedKMH:            354,
		Traction:               TractionAero,
	},
}
