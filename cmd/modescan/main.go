// Package main provides a batch mode-table tool: it solves every spherical
// mode and harmonic in a requested range and prints the resonance
// frequencies as an aligned table, optionally charting the scanned
// characteristic functions.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/banshee-data/resonance.report/internal/lamb"
	"github.com/banshee-data/resonance.report/internal/report"
	"github.com/banshee-data/resonance.report/internal/scan"
	"github.com/banshee-data/resonance.report/internal/solvedb"
	"github.com/banshee-data/resonance.report/internal/units"
)

// Config holds configuration for the batch scan.
type Config struct {
	VelLong   float64
	VelTrans  float64
	RadiusNM  float64
	MaxMode   int
	Harmonics int
	StepHz    float64
	StartGHz  float64
	HTMLPath  string
	DBPath    string
	Verbose   bool
}

func parseFlags() Config {
	var cfg Config
	flag.Float64Var(&cfg.VelLong, "vl", 1920, "longitudinal sound velocity in m/s")
	flag.Float64Var(&cfg.VelTrans, "vt", 960, "transverse sound velocity in m/s")
	flag.Float64Var(&cfg.RadiusNM, "radius", 50, "sphere radius in nm")
	flag.IntVar(&cfg.MaxMode, "max-mode", 2, "highest angular momentum index l to solve")
	flag.IntVar(&cfg.Harmonics, "harmonics", 2, "number of harmonics per mode")
	flag.Float64Var(&cfg.StepHz, "step-hz", scan.DefaultStepHz, "scan step in Hz")
	flag.Float64Var(&cfg.StartGHz, "start-ghz", scan.DefaultStartGHz, "scan start frequency in GHz")
	flag.StringVar(&cfg.HTMLPath, "html", "", "write a combined HTML chart of all scanned modes")
	flag.StringVar(&cfg.DBPath, "db", "", "record each solve in this sqlite database")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "log each solve as it completes")
	flag.Parse()
	return cfg
}

// row is one solved mode/harmonic cell of the output table.
type row struct {
	mode         lamb.Mode
	harmonic     int
	frequencyGHz float64
}

func main() {
	cfg := parseFlags()

	if cfg.MaxMode < 0 {
		log.Fatal("max-mode must be non-negative")
	}
	if cfg.Harmonics < 1 {
		log.Fatal("harmonics must be >= 1")
	}

	var db *solvedb.DB
	if cfg.DBPath != "" {
		var err error
		db, err = solvedb.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
	}

	scanCfg := scan.Config{
		StepSize:    units.HzToAngular(cfg.StepHz),
		StartOmega:  units.GHzToAngular(cfg.StartGHz),
		RecordTrace: cfg.HTMLPath != "",
	}
	scanner := scan.New(lamb.DivisionFree{}, scanCfg)

	var rows []row
	var series []report.TraceSeries

	for l := 0; l <= cfg.MaxMode; l++ {
		p := lamb.Params{
			VelLong:  cfg.VelLong,
			VelTrans: cfg.VelTrans,
			RadiusNM: cfg.RadiusNM,
			Mode:     lamb.Mode(l),
		}

		var modeRoots []float64
		var longestTrace []scan.Sample

		for n := 1; n <= cfg.Harmonics; n++ {
			res, err := scanner.FindNthRoot(p, n)
			if err != nil {
				log.Fatalf("Solve failed for (%s, n=%d): %v", p.Mode, n, err)
			}
			rows = append(rows, row{mode: p.Mode, harmonic: n, frequencyGHz: res.FrequencyGHz})
			modeRoots = append(modeRoots, res.Omega)
			if len(res.Trace) > len(longestTrace) {
				longestTrace = res.Trace
			}

			if cfg.Verbose {
				log.Printf("(%s, n=%d) at %.6f GHz in %d steps", p.Mode, n, res.FrequencyGHz, res.Steps)
			}

			if db != nil {
				if _, err := db.RecordSolve(solvedb.Solve{
					Mode:         l,
					Harmonic:     n,
					RadiusNM:     cfg.RadiusNM,
					VelLong:      cfg.VelLong,
					VelTrans:     cfg.VelTrans,
					StepHz:       cfg.StepHz,
					StartGHz:     cfg.StartGHz,
					Omega:        res.Omega,
					FrequencyGHz: res.FrequencyGHz,
				}); err != nil {
					log.Fatalf("Failed to record solve: %v", err)
				}
			}
		}

		if cfg.HTMLPath != "" {
			series = append(series, report.TraceSeries{
				Name:  p.Mode.String(),
				Trace: longestTrace,
				Roots: modeRoots,
			})
		}
	}

	printTable(os.Stdout, rows)

	if cfg.HTMLPath != "" {
		title := fmt.Sprintf("Spherical modes, r=%gnm vl=%g vt=%g", cfg.RadiusNM, cfg.VelLong, cfg.VelTrans)
		if err := report.WriteHTML(cfg.HTMLPath, title, series); err != nil {
			log.Fatalf("Failed to write HTML chart: %v", err)
		}
		log.Printf("Wrote %s", cfg.HTMLPath)
	}
}

func printTable(w io.Writer, rows []row) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tHARMONIC\tFREQUENCY (GHZ)")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%.6f\n", r.mode, r.harmonic, r.frequencyGHz)
	}
	tw.Flush()
}
