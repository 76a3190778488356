package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bar colors match the frontend palette: blue for original, magenta for
// predicted.
var (
	originalColor  = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff}
	predictedColor = color.RGBA{R: 0xa2, G: 0x3b, B: 0x72, A: 0xff}
)

// PNGRenderer draws a grouped bar comparison to a uniquely named PNG file.
type PNGRenderer struct {
	dir string
}

// NewPNGRenderer ensures the output directory exists.
func NewPNGRenderer(dir string) (*PNGRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &PNGRenderer{dir: dir}, nil
}

// Render implements chart.Renderer. The plot is local to the call, so all
// drawing resources are released when it returns.
func (r *PNGRenderer) Render(title string, names []string, original, predicted []float64) (string, error) {
	if len(names) != len(original) || len(names) != len(predicted) {
		return "", fmt.Errorf("render: %d names, %d original, %d predicted values", len(names), len(original), len(predicted))
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Values"
	p.X.Label.Text = "Parameters"

	w := vg.Points(12)
	origBars, err := plotter.NewBarChart(plotter.Values(original), w)
	if err != nil {
		return "", fmt.Errorf("original bars: %w", err)
	}
	origBars.Offset = -w / 2
	origBars.Color = originalColor
	origBars.LineStyle.Width = 0

	predBars, err := plotter.NewBarChart(plotter.Values(predicted), w)
	if err != nil {
		return "", fmt.Errorf("predicted bars: %w", err)
	}
	predBars.Offset = w / 2
	predBars.Color = predictedColor
	predBars.LineStyle.Width = 0

	p.Add(origBars, predBars)
	p.Legend.Add("Original", origBars)
	p.Legend.Add("Predicted", predBars)
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 5
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	name := uuid.New().String() + ".png"
	if err := p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(r.dir, name)); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}
	return name, nil
}
