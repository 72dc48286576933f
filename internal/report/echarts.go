package report

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/resonance.report/internal/scan"
	"github.com/banshee-data/resonance.report/internal/units"
)

// maxHTMLPoints caps the number of trace samples embedded in an HTML chart
// to keep the payload size reasonable.
const maxHTMLPoints = 4000

// TraceSeries is one scanned trace plus its refined roots, named for the
// chart legend (e.g. "SPH, l=1").
type TraceSeries struct {
	Name  string
	Trace []scan.Sample
	Roots []float64 // rad/s
}

// WriteHTML renders one or more scan traces as a standalone ECharts HTML
// page: the symlog characteristic value against frequency (GHz), with the
// refined roots overlaid as red markers on the zero line.
func WriteHTML(path, title string, series []TraceSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("report: no trace series")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(series)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frequency (GHz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Characteristic (symlog)", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range series {
		if len(s.Trace) == 0 {
			return fmt.Errorf("report: series %q has an empty trace", s.Name)
		}

		stride := 1
		if len(s.Trace) > maxHTMLPoints {
			stride = int(math.Ceil(float64(len(s.Trace)) / float64(maxHTMLPoints)))
		}

		data := make([]opts.ScatterData, 0, len(s.Trace)/stride+1)
		for i := 0; i < len(s.Trace); i += stride {
			sample := s.Trace[i]
			y := symlog(sample.Value)
			if math.IsNaN(y) {
				continue
			}
			data = append(data, opts.ScatterData{Value: []interface{}{units.AngularToGHz(sample.Omega), y}})
		}
		scatter.AddSeries(s.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

		if len(s.Roots) > 0 {
			rootPts := make([]opts.ScatterData, 0, len(s.Roots))
			for _, r := range s.Roots {
				rootPts = append(rootPts, opts.ScatterData{Value: []interface{}{units.AngularToGHz(r), 0.0}})
			}
			scatter.AddSeries(s.Name+" roots", rootPts,
				charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func subtitle(series []TraceSeries) string {
	points, roots := 0, 0
	for _, s := range series {
		points += len(s.Trace)
		roots += len(s.Roots)
	}
	return fmt.Sprintf("series=%d points=%d roots=%d", len(series), points, roots)
}
