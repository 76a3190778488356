package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/evbms/core/metrics"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "hist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	events := []metrics.PredictionEvent{
		{VehicleType: "car", EVModel: "Model A", Predictor: "linear", ChartFile: "a.png", Time: time.Now().UTC()},
		{VehicleType: "bus", EVModel: "Model D", Predictor: "synthetic", Fallback: true, ChartFile: "b.png", Time: time.Now().UTC()},
	}
	for _, ev := range events {
		if err := s.RecordPrediction(ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d records", len(recent))
	}
	// Newest first.
	if recent[0].VehicleType != "bus" || !recent[0].Fallback {
		t.Fatalf("recent[0] = %+v", recent[0])
	}
	if recent[1].VehicleType != "car" || recent[1].EVModel != "Model A" {
		t.Fatalf("recent[1] = %+v", recent[1])
	}
}

func TestRecentLimit(t *testing.T) {
	s := openStore(t)
	for i := 0; i < 5; i++ {
		if err := s.RecordPrediction(metrics.PredictionEvent{VehicleType: "car", EVModel: "Model A", Predictor: "synthetic", ChartFile: "x.png"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	recent, err := s.Recent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent = %d records", len(recent))
	}
}

func TestCount(t *testing.T) {
	s := openStore(t)
	n, err := s.Count()
	if err != nil || n != 0 {
		t.Fatalf("count = %d, %v", n, err)
	}
	if err := s.RecordPrediction(metrics.PredictionEvent{VehicleType: "bike", EVModel: "Model B", Predictor: "synthetic", ChartFile: "x.png"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	n, err = s.Count()
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
