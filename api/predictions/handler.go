package predictions

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/evbms/core/logger"
	"github.com/kilianp07/evbms/core/model"
	"github.com/kilianp07/evbms/core/predict"
	"github.com/kilianp07/evbms/core/status"
)

type response struct {
	Status      string        `json:"status"`
	VehicleType string        `json:"vehicle_type"`
	EVModel     string        `json:"ev_model"`
	ChartURL    string        `json:"chart_url"`
	TableData   []predict.Row `json:"table_data"`
	Predictor   string        `json:"predictor"`
	Fallback    bool          `json:"fallback,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewHandler returns the POST /predict/ handler. Input validation failures
// are the only client errors; everything after validation degrades inside the
// prediction service and still yields a success response.
func NewHandler(svc *predict.Service, store *status.Store, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := r.ParseForm(); err != nil {
			store.IncClientErrors()
			writeError(w, http.StatusBadRequest, "malformed form data")
			return
		}
		vt, err := model.ParseVehicleType(r.PostFormValue("vehicle_type"))
		if err != nil {
			store.IncClientErrors()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := svc.Predict(vt)
		store.IncPredictions()

		w.Header().Set("Content-Type", "application/json")
		out := response{
			Status:      "success",
			VehicleType: string(res.VehicleType),
			EVModel:     res.EVModel,
			ChartURL:    "/static/" + res.ChartFile,
			TableData:   res.Rows,
			Predictor:   res.Predictor,
			Fallback:    res.Fallback,
		}
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Errorf("encode prediction response: %v", err)
		}
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Status: "error", Message: msg})
}
