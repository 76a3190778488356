package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/evbms/core/housekeeping"
	"github.com/kilianp07/evbms/core/model"
	"github.com/kilianp07/evbms/core/status"
)

// HistoryCounter reports how many predictions have been persisted. It is nil
// when the history store is disabled.
type HistoryCounter interface {
	Count() (int64, error)
}

// NewRootHandler answers GET / with the service banner.
func NewRootHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"message": "EV Battery Management System API",
			"status":  "running",
		})
	})
}

// NewHealthHandler answers GET /health. Each call opportunistically triggers
// a time-gated chart sweep, in addition to the background schedule.
func NewHealthHandler(store *status.Store, sweeper *housekeeping.Sweeper) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sweeper != nil {
			go sweeper.MaybeSweep()
		}
		writeJSON(w, map[string]any{
			"status":         "healthy",
			"uptime_seconds": store.Uptime().Seconds(),
		})
	})
}

type statusResponse struct {
	status.Snapshot
	LastCleanup    string `json:"last_cleanup,omitempty"`
	CleanupDeleted int    `json:"cleanup_deleted"`
	HistoryCount   int64  `json:"history_count,omitempty"`
}

// NewStatusHandler answers GET /status with the full telemetry snapshot.
func NewStatusHandler(store *status.Store, sweeper *housekeeping.Sweeper, hist HistoryCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := statusResponse{Snapshot: store.Snapshot()}
		if sweeper != nil {
			if last, deleted := sweeper.LastRun(); !last.IsZero() {
				out.LastCleanup = last.UTC().Format(time.RFC3339)
				out.CleanupDeleted = deleted
			}
		}
		if hist != nil {
			if n, err := hist.Count(); err == nil {
				out.HistoryCount = n
			}
		}
		writeJSON(w, out)
	})
}

// NewVehicleTypesHandler answers GET /vehicle-types with the supported set.
func NewVehicleTypesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{"vehicle_types": model.VehicleTypeNames()})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
