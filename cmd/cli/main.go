// Command cli runs drag and lap simulations from the terminal and renders
// the results as tables or raw JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jude-pinkman/Hypercar-Sim/internal/sim"
	"github.com/jude-pinkman/Hypercar-Sim/internal/track"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

var (
	catalogPath string
	verbose     bool
	asJSON      bool
)

func main() {
	root := &cobra.Command{
		Use:           "hypercar",
		Short:         "Longitudinal performance simulator for production hypercars",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "vehicle CSV path (optional, built-ins always available)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log simulation details")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "emit raw JSON instead of tables")

	root.AddCommand(vehiclesCmd(), dragCmd(), lapCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildRunner() (*sim.Runner, *vehicle.Catalog, error) {
	catalog, err := vehicle.NewCatalog(catalogPath)
	if err != nil {
		return nil, nil, err
	}
	log := zap.NewNop()
	if verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, nil, err
		}
	}
	return sim.NewRunner(catalog, log), catalog, nil
}

func vehiclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vehicles",
		Short: "List the vehicles in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, catalog, err := buildRunner()
			if err != nil {
				return err
			}
			specs := catalog.List()
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(specs)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Power kW", "Weight kg", "Gears", "Top km/h", "Traction"})
			for _, s := range specs {
				t.AppendRow(table.Row{s.ID, s.Name, s.PowerKW, s.WeightKG, s.GearCount, s.TopSpeedKMH, s.TractionVariant()})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

func dragCmd() *cobra.Command {
	var (
		startKMH  float64
		distanceM float64
		trace     bool
	)
	cmd := &cobra.Command{
		Use:   "drag <vehicle-id> [vehicle-id...]",
		Short: "Simulate a straight-line run and report performance metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := buildRunner()
			if err != nil {
				return err
			}
			resp, err := runner.RunDrag(context.Background(), sim.DragRequest{
				VehicleIDs:      args,
				StartSpeedKPH:   startKMH,
				TargetDistanceM: distanceM,
				IncludeTrace:    trace,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Vehicle", "0-100 km/h", "0-200 km/h", "1/4 mile", "Trap km/h"})
			for _, res := range resp.Results {
				name := res.VehicleName
				if res.Fallback {
					name += " (fallback)"
				}
				t.AppendRow(table.Row{
					name,
					fmtSeconds(res.Metrics.TimeTo100KMH),
					fmtSeconds(res.Metrics.TimeTo200KMH),
					fmtSeconds(res.Metrics.QuarterMileTime),
					fmtKMH(res.Metrics.QuarterMileSpeed),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
	cmd.Flags().Float64Var(&startKMH, "start-kmh", 0, "rolling start speed (0 = standing start)")
	cmd.Flags().Float64Var(&distanceM, "distance", 0, "target distance in metres (default quarter mile)")
	cmd.Flags().BoolVar(&trace, "trace", false, "include the full telemetry trace in JSON output")
	return cmd
}

func lapCmd() *cobra.Command {
	var params track.LapParameters
	var trackTemp float64
	cmd := &cobra.Command{
		Use:   "lap <vehicle-id>",
		Short: "Simulate a lap of the built-in circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := buildRunner()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("track-temp") {
				params.TrackTempC = &trackTemp
			}
			resp, err := runner.RunLap(context.Background(), sim.LapRequest{
				VehicleID: args[0],
				Params:    params,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
			}

			res := resp.Result
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s\n", resp.VehicleName, resp.TrackName)
			fmt.Fprintf(out, "Lap time: %.3f s  (S1 %.3f  S2 %.3f  S3 %.3f)\n",
				res.LapTimeS, res.SectorTimes[0], res.SectorTimes[1], res.SectorTimes[2])
			fmt.Fprintf(out, "Speed: avg %.1f  max %.1f  min %.1f km/h\n",
				res.AvgSpeedKPH, res.MaxSpeedKPH, res.MinSpeedKPH)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Corner", "Entry km/h", "Apex km/h", "Loss km/h", "Brake m", "Peak g"})
			for _, z := range res.BrakeZones {
				t.AppendRow(table.Row{
					z.Corner,
					fmt.Sprintf("%.0f", z.EntryKPH),
					fmt.Sprintf("%.0f", z.ApexKPH),
					fmt.Sprintf("%.0f", z.SpeedLossKPH),
					fmt.Sprintf("%.0f", z.BrakingDistanceM),
					fmt.Sprintf("%.2f", z.PeakDecelG),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&params.Weather, "weather", "dry", "weather preset: dry, damp, wet, snow, ice")
	cmd.Flags().StringVar(&params.TireCompound, "compound", "street", "tire compound: street, sport, slick")
	cmd.Flags().Float64Var(&params.FuelLoadL, "fuel", 0, "fuel load in litres, carried as mass")
	cmd.Flags().Float64Var(&params.BrakeBias, "brake-bias", 0, "front brake bias (0 = nominal)")
	cmd.Flags().Float64Var(&params.DownforceMultiplier, "downforce", 0, "downforce multiplier (0 = stock)")
	cmd.Flags().Float64Var(&trackTemp, "track-temp", 30, "track surface temperature in Celsius (omitted = ignored)")
	return cmd
}

func fmtSeconds(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f s", *v)
}

func fmtKMH(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}
