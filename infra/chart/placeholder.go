package chart

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	corechart "github.com/kilianp07/evbms/core/chart"
)

// EnsurePlaceholder writes a neutral chart to placeholder.png in dir unless
// one already exists. It is the file served when rendering a real chart fails.
func EnsurePlaceholder(dir string) error {
	path := filepath.Join(dir, corechart.Placeholder)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Chart unavailable"
	p.X.Label.Text = "Parameters"
	p.Y.Label.Text = "Values"
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
