// Command resonance computes resonance frequencies of spherical elastic
// vibrational modes of a homogeneous isotropic sphere by scanning the
// characteristic equation for sign changes and refining each bracketed root.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/banshee-data/resonance.report/internal/config"
	"github.com/banshee-data/resonance.report/internal/lamb"
	"github.com/banshee-data/resonance.report/internal/report"
	"github.com/banshee-data/resonance.report/internal/scan"
	"github.com/banshee-data/resonance.report/internal/solvedb"
	"github.com/banshee-data/resonance.report/internal/units"
	"github.com/banshee-data/resonance.report/internal/version"
)

var (
	velLong     = flag.Float64("vl", 1920, "longitudinal sound velocity in m/s")
	velTrans    = flag.Float64("vt", 960, "transverse sound velocity in m/s")
	radiusNM    = flag.Float64("radius", 50, "sphere radius in nm")
	modeIndex   = flag.Int("mode", 1, "angular momentum index l (0 breathing, 1 dipolar, 2 quadrupolar)")
	harmonic    = flag.Int("harmonic", 1, "harmonic index n (>= 1)")
	stepHz      = flag.Float64("step-hz", 0, "scan step in Hz (0 = config/default)")
	startGHz    = flag.Float64("start-ghz", 0, "scan start frequency in GHz (0 = config/default)")
	margin      = flag.Float64("margin", 0, "refinement bracket margin in rad/s (0 = config/default)")
	maxSteps    = flag.Int("max-steps", 0, "maximum scan steps before giving up (0 = config/default)")
	legacy      = flag.Bool("legacy", false, "use the legacy ratio formulation with the discontinuity filter")
	configPath  = flag.String("config", "", "solver config JSON file")
	dbPath      = flag.String("db", "", "record the solve in this sqlite database")
	plotPath    = flag.String("plot", "", "write a PNG chart of the scanned characteristic function")
	htmlPath    = flag.String("html", "", "write an HTML chart of the scanned characteristic function")
	outputUnits = flag.String("units", units.Gigahertz, "output units for the result line (rads, hz, mhz, ghz)")
	jsonOut     = flag.Bool("json", false, "also print the result as JSON")
	verbose     = flag.Bool("verbose", false, "log each accepted root during the scan")
	showVersion = flag.Bool("version", false, "print version and exit")
)

// settings are the fully resolved solver inputs: flags override the config
// file, which overrides the built-in defaults.
type settings struct {
	params    lamb.Params
	harmonic  int
	scanCfg   scan.Config
	useLegacy bool
}

// resolveSettings merges flag values over a loaded config. Zero-valued
// numeric flags mean "not set".
func resolveSettings(cfg *config.SolverConfig) settings {
	s := settings{
		params: lamb.Params{
			VelLong:  *velLong,
			VelTrans: *velTrans,
			RadiusNM: *radiusNM,
			Mode:     lamb.Mode(*modeIndex),
		},
		harmonic:  *harmonic,
		useLegacy: *legacy || cfg.GetLegacyRatioForm(),
	}

	step := *stepHz
	if step == 0 {
		step = cfg.GetStepHz()
	}
	start := *startGHz
	if start == 0 {
		start = cfg.GetStartGHz()
	}
	m := *margin
	if m == 0 {
		m = cfg.GetRefineMargin()
	}
	steps := *maxSteps
	if steps == 0 {
		steps = cfg.GetMaxSteps()
	}

	s.scanCfg = scan.Config{
		StepSize:     units.HzToAngular(step),
		StartOmega:   units.GHzToAngular(start),
		RefineMargin: m,
		MaxSteps:     steps,
		// The ratio formulation has poles whose sign flips mimic roots; the
		// original procedure paired it with the backward-step filter.
		DiscontinuityFilter: s.useLegacy || cfg.GetDiscontinuityFilter(),
	}
	return s
}

// resultLine formats the human-readable solve report, converting the refined
// root from rad/s to the requested output units.
func resultLine(p lamb.Params, harmonic int, omega float64, unit string) string {
	return fmt.Sprintf("Resonance of (%s, n=%d) at %.6f %s",
		p.Mode, harmonic, units.ConvertAngular(omega, unit), units.Label(unit))
}

// solveJSON is the machine-readable result emitted with -json.
type solveJSON struct {
	Mode         int     `json:"mode"`
	Harmonic     int     `json:"harmonic"`
	RadiusNM     float64 `json:"radius_nm"`
	VelLong      float64 `json:"vel_long_mps"`
	VelTrans     float64 `json:"vel_trans_mps"`
	OmegaRadS    float64 `json:"omega_rad_s"`
	FrequencyGHz float64 `json:"frequency_ghz"`
	Steps        int     `json:"steps"`
	Rejected     int     `json:"rejected_crossings"`
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("resonance", version.String())
		return
	}

	cfg := config.EmptySolverConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSolverConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	s := resolveSettings(cfg)
	if err := s.params.Validate(); err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}
	if !units.IsValid(*outputUnits) {
		log.Fatalf("Invalid units %q, valid units are: %s", *outputUnits, units.GetValidUnitsString())
	}

	var eval lamb.Evaluator = lamb.DivisionFree{}
	if s.useLegacy {
		eval = lamb.Ratio{}
	}

	s.scanCfg.RecordTrace = *plotPath != "" || *htmlPath != ""
	if *verbose {
		s.scanCfg.OnRoot = func(n int, omega float64) {
			log.Printf("root %d at %.6f GHz", n, units.AngularToGHz(omega))
		}
	}

	scanner := scan.New(eval, s.scanCfg)
	started := time.Now()
	res, err := scanner.FindNthRoot(s.params, s.harmonic)
	if err != nil {
		log.Fatalf("Solve failed: %v", err)
	}
	if *verbose {
		log.Printf("scan took %s over %d steps (%d crossings rejected)", time.Since(started), res.Steps, res.Rejected)
	}

	fmt.Println(resultLine(s.params, s.harmonic, res.Omega, *outputUnits))

	if *jsonOut {
		out := solveJSON{
			Mode:         int(s.params.Mode),
			Harmonic:     s.harmonic,
			RadiusNM:     s.params.RadiusNM,
			VelLong:      s.params.VelLong,
			VelTrans:     s.params.VelTrans,
			OmegaRadS:    res.Omega,
			FrequencyGHz: res.FrequencyGHz,
			Steps:        res.Steps,
			Rejected:     res.Rejected,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("Failed to encode JSON: %v", err)
		}
	}

	if *dbPath != "" {
		db, err := solvedb.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		id, err := db.RecordSolve(solvedb.Solve{
			Mode:         int(s.params.Mode),
			Harmonic:     s.harmonic,
			RadiusNM:     s.params.RadiusNM,
			VelLong:      s.params.VelLong,
			VelTrans:     s.params.VelTrans,
			StepHz:       units.AngularToHz(s.scanCfg.StepSize),
			StartGHz:     units.AngularToGHz(s.scanCfg.StartOmega),
			Omega:        res.Omega,
			FrequencyGHz: res.FrequencyGHz,
		})
		if err != nil {
			log.Fatalf("Failed to record solve: %v", err)
		}
		log.Printf("Recorded solve %s", id)
	}

	if *plotPath != "" {
		title := fmt.Sprintf("%s n=%d", s.params.Mode, s.harmonic)
		if err := report.WritePNG(*plotPath, res.Trace, []float64{res.Omega}, title); err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		log.Printf("Wrote %s", *plotPath)
	}

	if *htmlPath != "" {
		title := fmt.Sprintf("%s n=%d", s.params.Mode, s.harmonic)
		series := []report.TraceSeries{{Name: s.params.Mode.String(), Trace: res.Trace, Roots: []float64{res.Omega}}}
		if err := report.WriteHTML(*htmlPath, title, series); err != nil {
			log.Fatalf("Failed to write HTML chart: %v", err)
		}
		log.Printf("Wrote %s", *htmlPath)
	}
}
