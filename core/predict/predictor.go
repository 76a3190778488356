package predict

import "github.com/kilianp07/evbms/core/model"

// Predictor produces a predicted feature vector from an original one. The
// vehicle type is passed so deterministic implementations can seed from it.
type Predictor interface {
	Predict(vt model.VehicleType, original []float64) ([]float64, error)
	Name() string
}

// Row is one parameter of the comparison table. Difference is always
// round(Predicted - Original, 4) by construction.
type Row struct {
	Parameter  string  `json:"parameter"`
	Original   float64 `json:"original"`
	Predicted  float64 `json:"predicted"`
	Difference float64 `json:"difference"`
}

// Result bundles everything the prediction endpoint returns.
type Result struct {
	VehicleType model.VehicleType
	EVModel     string
	ChartFile   string
	Rows        []Row
	Predictor   string
	Fallback    bool
}

func buildRows(names []string, original, predicted []float64) []Row {
	rows := make([]Row, len(names))
	for i, name := range names {
		o := model.Round(original[i])
		p := model.Round(predicted[i])
		rows[i] = Row{
			Parameter:  name,
			Original:   o,
			Predicted:  p,
			Difference: model.Round(predicted[i] - original[i]),
		}
	}
	return rows
}
