package status

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Store holds process telemetry: start time, request counters and the
// capability flags fixed at startup. Counters are best-effort and safe for
// concurrent use.
type Store struct {
	start         time.Time
	requests      atomic.Int64
	predictions   atomic.Int64
	clientErrors  atomic.Int64
	serverErrors  atomic.Int64
	datasetLoaded bool
	modelLoaded   bool
	predictor     string
}

// NewStore creates a Store with the startup capability flags.
func NewStore(datasetLoaded, modelLoaded bool, predictor string) *Store {
	return &Store{
		start:         time.Now(),
		datasetLoaded: datasetLoaded,
		modelLoaded:   modelLoaded,
		predictor:     predictor,
	}
}

func (s *Store) IncRequests()     { s.requests.Add(1) }
func (s *Store) IncPredictions()  { s.predictions.Add(1) }
func (s *Store) IncClientErrors() { s.clientErrors.Add(1) }
func (s *Store) IncServerErrors() { s.serverErrors.Add(1) }

// Uptime returns the time elapsed since the store was created.
func (s *Store) Uptime() time.Duration { return time.Since(s.start) }

// Snapshot is the JSON shape of the status endpoint.
type Snapshot struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"requests_total"`
	Predictions   int64   `json:"predictions_total"`
	ClientErrors  int64   `json:"client_errors_total"`
	ServerErrors  int64   `json:"server_errors_total"`
	DatasetLoaded bool    `json:"dataset_loaded"`
	ModelLoaded   bool    `json:"model_loaded"`
	Predictor     string  `json:"predictor"`
	HeapBytes     uint64  `json:"heap_alloc_bytes"`
	SysBytes      uint64  `json:"sys_bytes"`
	NumGC         uint32  `json:"num_gc"`
	Goroutines    int     `json:"goroutines"`
}

// Snapshot captures the current telemetry including Go runtime memory stats.
func (s *Store) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return Snapshot{
		Status:        "running",
		UptimeSeconds: s.Uptime().Seconds(),
		Requests:      s.requests.Load(),
		Predictions:   s.predictions.Load(),
		ClientErrors:  s.clientErrors.Load(),
		ServerErrors:  s.serverErrors.Load(),
		DatasetLoaded: s.datasetLoaded,
		ModelLoaded:   s.modelLoaded,
		Predictor:     s.predictor,
		HeapBytes:     mem.HeapAlloc,
		SysBytes:      mem.Sys,
		NumGC:         mem.NumGC,
		Goroutines:    runtime.NumGoroutine(),
	}
}
