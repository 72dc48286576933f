// Package report renders scanned characteristic-function traces and their
// refined roots to PNG and HTML charts.
package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/resonance.report/internal/scan"
	"github.com/banshee-data/resonance.report/internal/units"
)

// symlog compresses a characteristic value to sign(v)*log10(1+|v|). The
// function swings over many orders of magnitude between roots; raw values
// would flatten the root neighbourhoods the chart exists to show.
func symlog(v float64) float64 {
	if v == 0 {
		return 0
	}
	return math.Copysign(math.Log10(1+math.Abs(v)), v)
}

// WritePNG renders a scan trace as a line of symlog characteristic value vs
// frequency (GHz), with each refined root drawn as a dashed vertical marker.
func WritePNG(path string, trace []scan.Sample, roots []float64, title string) error {
	if len(trace) == 0 {
		return fmt.Errorf("report: empty trace")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency (GHz)"
	p.Y.Label.Text = "Characteristic value (symlog)"

	pts := make(plotter.XYs, 0, len(trace))
	ys := make([]float64, 0, len(trace))
	for _, s := range trace {
		y := symlog(s.Value)
		if math.IsNaN(y) {
			continue
		}
		pts = append(pts, plotter.XY{X: units.AngularToGHz(s.Omega), Y: y})
		ys = append(ys, y)
	}
	if len(pts) == 0 {
		return fmt.Errorf("report: trace has no finite values")
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("characteristic", line)

	yMin := floats.Min(ys)
	yMax := floats.Max(ys)
	if yMin == yMax {
		yMin, yMax = yMin-1, yMax+1
	}

	for _, r := range roots {
		ghz := units.AngularToGHz(r)
		marker, err := plotter.NewLine(plotter.XYs{{X: ghz, Y: yMin}, {X: ghz, Y: yMax}})
		if err != nil {
			return err
		}
		marker.Color = color.RGBA{R: 255, G: 82, B: 82, A: 255}
		marker.Width = vg.Points(1)
		marker.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("root %.4f GHz", ghz), marker)
	}

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}
