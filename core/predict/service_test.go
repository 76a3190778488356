package predict

import (
	"errors"
	"testing"

	"github.com/kilianp07/evbms/core/dataset"
	"github.com/kilianp07/evbms/core/metrics"
	"github.com/kilianp07/evbms/core/model"
)

type stubRenderer struct {
	file  string
	err   error
	calls int
}

func (r *stubRenderer) Render(string, []string, []float64, []float64) (string, error) {
	r.calls++
	return r.file, r.err
}

type failingPredictor struct{}

func (failingPredictor) Predict(model.VehicleType, []float64) ([]float64, error) {
	return nil, errors.New("inference blew up")
}
func (failingPredictor) Name() string { return "broken" }

type captureSink struct {
	events []metrics.PredictionEvent
}

func (c *captureSink) RecordPrediction(ev metrics.PredictionEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func TestPredictSyntheticMode(t *testing.T) {
	r := &stubRenderer{file: "abc.png"}
	sink := &captureSink{}
	svc := NewService(nil, SyntheticPredictor{}, r, sink, nil)

	res := svc.Predict(model.VehicleCar)
	if res.EVModel != "Model A" {
		t.Fatalf("ev model = %q", res.EVModel)
	}
	if res.ChartFile != "abc.png" {
		t.Fatalf("chart file = %q", res.ChartFile)
	}
	if len(res.Rows) != len(model.Features) {
		t.Fatalf("rows = %d, want %d", len(res.Rows), len(model.Features))
	}
	names := model.FeatureNames()
	for i, row := range res.Rows {
		if row.Parameter != names[i] {
			t.Fatalf("row %d parameter = %q, want %q", i, row.Parameter, names[i])
		}
		want := model.Round(row.Predicted - row.Original)
		// Both sides are rounded to 4 decimals, so the identity must hold
		// within one ulp of the rounding step.
		if diff := row.Difference - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("row %d difference %f inconsistent with %f", i, row.Difference, want)
		}
	}
	if len(sink.events) != 1 || sink.events[0].VehicleType != "car" {
		t.Fatalf("sink events = %+v", sink.events)
	}
}

func TestPredictDeterministicPerType(t *testing.T) {
	svc := NewService(nil, SyntheticPredictor{}, &stubRenderer{file: "x.png"}, nil, nil)
	a := svc.Predict(model.VehicleScooter)
	b := svc.Predict(model.VehicleScooter)
	for i := range a.Rows {
		if a.Rows[i].Original != b.Rows[i].Original {
			t.Fatalf("original values differ between calls for the same type")
		}
		if a.Rows[i].Predicted != b.Rows[i].Predicted {
			t.Fatalf("predicted values differ between calls for the same type")
		}
	}
}

func TestPredictRendererFailure(t *testing.T) {
	r := &stubRenderer{err: errors.New("disk full")}
	svc := NewService(nil, SyntheticPredictor{}, r, nil, nil)
	res := svc.Predict(model.VehicleBike)
	if res.ChartFile != "placeholder.png" {
		t.Fatalf("chart file = %q, want placeholder", res.ChartFile)
	}
	if len(res.Rows) == 0 {
		t.Fatalf("rows missing despite renderer failure")
	}
}

func TestPredictPredictorFallback(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(nil, failingPredictor{}, &stubRenderer{file: "x.png"}, sink, nil)
	res := svc.Predict(model.VehicleBus)
	if !res.Fallback {
		t.Fatalf("expected fallback flag")
	}
	if len(res.Rows) != len(model.Features) {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	for _, row := range res.Rows {
		if row.Predicted == row.Original {
			t.Fatalf("fallback left value unperturbed")
		}
	}
	if !sink.events[0].Fallback {
		t.Fatalf("sink event missing fallback flag")
	}
}

func TestPredictDatasetBacked(t *testing.T) {
	ds := dataset.Synthetic(7, 40)
	svc := NewService(ds, SyntheticPredictor{}, &stubRenderer{file: "x.png"}, nil, nil)
	if !svc.DatasetLoaded() {
		t.Fatalf("dataset not reported as loaded")
	}
	res := svc.Predict(model.VehicleCar)
	if len(res.Rows) != 9 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	// The baseline is the dataset mean, cached between calls.
	again := svc.Predict(model.VehicleCar)
	for i := range res.Rows {
		if res.Rows[i].Original != again.Rows[i].Original {
			t.Fatalf("dataset baseline not stable")
		}
	}
}
