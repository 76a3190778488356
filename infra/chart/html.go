package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
)

// HTMLRenderer emits a self-contained interactive bar chart document.
type HTMLRenderer struct {
	dir string
}

// NewHTMLRenderer ensures the output directory exists.
func NewHTMLRenderer(dir string) (*HTMLRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &HTMLRenderer{dir: dir}, nil
}

// Render implements chart.Renderer.
func (r *HTMLRenderer) Render(title string, names []string, original, predicted []float64) (string, error) {
	if len(names) != len(original) || len(names) != len(predicted) {
		return "", fmt.Errorf("render: %d names, %d original, %d predicted values", len(names), len(original), len(predicted))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "560px"}),
	)
	bar.SetXAxis(names).
		AddSeries("Original", barData(original)).
		AddSeries("Predicted", barData(predicted))

	name := uuid.New().String() + ".html"
	f, err := os.Create(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return name, nil
}

func barData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}
