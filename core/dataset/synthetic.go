package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/evbms/core/model"
	"github.com/kilianp07/evbms/core/scaling"
)

// Synthetic builds a deterministic pseudo-random dataset over the fixed
// feature list, used when no CSV file can be located. Values are uniform
// within each feature's range and rows are spread evenly across the four EV
// model labels.
func Synthetic(seed int64, rows int) *Dataset {
	if rows <= 0 {
		rows = 200
	}
	rng := rand.New(rand.NewSource(seed))
	names := model.FeatureNames()

	values := make([]float64, 0, rows*len(names))
	labels := make([]string, rows)
	types := model.VehicleTypes()
	for i := 0; i < rows; i++ {
		for _, f := range model.Features {
			values = append(values, f.Min+rng.Float64()*(f.Max-f.Min))
		}
		labels[i] = types[i%len(types)].EVModel()
	}

	enc := &scaling.LabelEncoder{}
	enc.Fit(labels)
	codes := make([]int, rows)
	for i, label := range labels {
		codes[i], _ = enc.Transform(label)
	}

	return &Dataset{
		featureNames: names,
		data:         mat.NewDense(rows, len(names), values),
		modelCodes:   codes,
		encoders:     map[string]*scaling.LabelEncoder{"EV Model": enc},
	}
}
