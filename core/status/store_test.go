package status

import (
	"sync"
	"testing"
)

func TestStoreCounters(t *testing.T) {
	s := NewStore(true, false, "synthetic")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncRequests()
			s.IncPredictions()
		}()
	}
	wg.Wait()
	s.IncClientErrors()
	s.IncServerErrors()

	snap := s.Snapshot()
	if snap.Requests != 10 || snap.Predictions != 10 {
		t.Fatalf("counters = %+v", snap)
	}
	if snap.ClientErrors != 1 || snap.ServerErrors != 1 {
		t.Fatalf("error counters = %+v", snap)
	}
}

func TestSnapshotFlags(t *testing.T) {
	s := NewStore(true, false, "synthetic")
	snap := s.Snapshot()
	if !snap.DatasetLoaded || snap.ModelLoaded {
		t.Fatalf("flags = %+v", snap)
	}
	if snap.Predictor != "synthetic" {
		t.Fatalf("predictor = %q", snap.Predictor)
	}
	if snap.Status != "running" {
		t.Fatalf("status = %q", snap.Status)
	}
	if snap.UptimeSeconds < 0 {
		t.Fatalf("uptime = %f", snap.UptimeSeconds)
	}
	if snap.SysBytes == 0 || snap.Goroutines == 0 {
		t.Fatalf("runtime stats missing: %+v", snap)
	}
}
