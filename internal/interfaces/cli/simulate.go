package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/internal/domain/pkpd"
	domain "github.com/turtacn/cytodyn/internal/domain/simulation"
)

type simulateOptions struct {
	cellLine     string
	initialCells float64
	duration     float64
	interval     float64

	temperature float64
	ph          float64
	oxygen      float64
	nutrient    float64

	drug          string
	concentration float64
	schedule      string
	doseInterval  float64

	output   string
	plotPath string
}

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	so := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulation locally and print the trajectory",
		Example: `  cytodyn simulate --cell-line HeLa --cells 1000 --duration 72
  cytodyn simulate --cell-line MCF-7 --drug taxol --concentration 10 --plot growth.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runSimulate(cmd, cfg.Catalog.OverlayPath, so)
		},
	}

	f := cmd.Flags()
	f.StringVar(&so.cellLine, "cell-line", "", "cell line name (required)")
	f.Float64Var(&so.initialCells, "cells", 1000, "initial cell count")
	f.Float64Var(&so.duration, "duration", 72, "simulated hours")
	f.Float64Var(&so.interval, "interval", 1, "output sampling interval in hours")
	f.Float64Var(&so.temperature, "temperature", 37, "culture temperature °C")
	f.Float64Var(&so.ph, "ph", 7.4, "culture pH")
	f.Float64Var(&so.oxygen, "oxygen", 1, "oxygen fraction of reference")
	f.Float64Var(&so.nutrient, "nutrient", 1, "nutrient fraction of reference")
	f.StringVar(&so.drug, "drug", "", "drug class (taxol, cisplatin, doxorubicin, gemcitabine, targeted)")
	f.Float64Var(&so.concentration, "concentration", 0, "dose concentration in µM")
	f.StringVar(&so.schedule, "schedule", "bolus", "dosing schedule (bolus, repeated, infusion)")
	f.Float64Var(&so.doseInterval, "dose-interval", 24, "hours between repeated doses")
	f.StringVarP(&so.output, "output", "o", "table", "output format (table, json)")
	f.StringVar(&so.plotPath, "plot", "", "write a PNG growth curve to this path")
	_ = cmd.MarkFlagRequired("cell-line")

	return cmd
}

func runSimulate(cmd *cobra.Command, overlayPath string, so *simulateOptions) error {
	catalog, err := cellline.NewCatalogWithOverlay(overlayPath)
	if err != nil {
		return err
	}
	engine := domain.NewEngine(catalog, domain.Options{}, nil)

	req := domain.Request{
		CellLine:      so.cellLine,
		InitialCells:  so.initialCells,
		DurationHours: so.duration,
		SampleHours:   so.interval,
		Environment: microenv.Conditions{
			Temperature: so.temperature,
			PH:          so.ph,
			Oxygen:      so.oxygen,
			Nutrient:    so.nutrient,
		},
	}
	if so.drug != "" {
		req.Treatment = pkpd.TreatmentSpec{
			Drug:          cellline.DrugClass(strings.ToLower(so.drug)),
			Concentration: so.concentration,
			Schedule: pkpd.Schedule{
				Kind:     pkpd.ScheduleKind(strings.ToLower(so.schedule)),
				Interval: so.doseInterval,
			},
		}
	}

	result, err := engine.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if so.plotPath != "" {
		if err := writeGrowthChart(result, so.plotPath); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "growth curve written to %s\n", so.plotPath)
	}

	switch so.output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		printResultTable(cmd, result)
		return nil
	}
}

func printResultTable(cmd *cobra.Command, res *domain.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cell line: %s  growth factor: %.3f  steps: %d\n\n",
		res.CellLine, res.GrowthFactor, res.Stats.Steps)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tG1\tS\tG2M\tDEAD\tVIABLE\tVIABILITY\tDRUG")
	for _, tp := range res.Timepoints {
		fmt.Fprintf(w, "%.1f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.3f\t%.3f\n",
			tp.Time, tp.Phases.G1, tp.Phases.S, tp.Phases.G2M, tp.Phases.Dead,
			tp.Live, tp.Viability, tp.Concentration)
	}
	_ = w.Flush()
}

// writeGrowthChart renders viable and dead counts over time as a PNG.
func writeGrowthChart(res *domain.Result, path string) error {
	xs := make([]float64, len(res.Timepoints))
	viable := make([]float64, len(res.Timepoints))
	dead := make([]float64, len(res.Timepoints))
	for i, tp := range res.Timepoints {
		xs[i] = tp.Time
		viable[i] = tp.Live
		dead[i] = tp.Phases.Dead
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s population", res.CellLine),
		XAxis: chart.XAxis{Name: "time (h)"},
		YAxis: chart.YAxis{Name: "cells"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "viable", XValues: xs, YValues: viable},
			chart.ContinuousSeries{Name: "dead", XValues: xs, YValues: dead},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}
