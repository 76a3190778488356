package predict

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/evbms/core/model"
	"github.com/kilianp07/evbms/core/scaling"
)

// modelArtifact is the on-disk format of a trained regression model:
// one weight row per output feature plus a bias vector, operating on
// min-max-scaled inputs.
type modelArtifact struct {
	Features []string    `json:"features"`
	Weights  [][]float64 `json:"weights"`
	Bias     []float64   `json:"bias"`
}

// LinearModel runs inference with a pre-trained linear regression artifact.
// Inputs are scaled to [0,1] before the matrix product and the outputs are
// inverse-scaled back to original units.
type LinearModel struct {
	features []string
	weights  *mat.Dense
	bias     *mat.VecDense
	scaler   *scaling.MinMaxScaler
}

// LoadLinearModel reads a model artifact from path. The scaler must already
// be fitted on the dataset the model was trained against.
func LoadLinearModel(path string, scaler *scaling.MinMaxScaler) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var art modelArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	n := len(art.Features)
	if n == 0 {
		return nil, fmt.Errorf("model %s declares no features", path)
	}
	if len(art.Weights) != n || len(art.Bias) != n {
		return nil, fmt.Errorf("model %s dimensions mismatch: %d features, %d weight rows, %d biases",
			path, n, len(art.Weights), len(art.Bias))
	}
	if scaler.Dims() != n {
		return nil, fmt.Errorf("model expects %d features, scaler fitted on %d", n, scaler.Dims())
	}
	flat := make([]float64, 0, n*n)
	for i, row := range art.Weights {
		if len(row) != n {
			return nil, fmt.Errorf("model %s weight row %d has %d values, want %d", path, i, len(row), n)
		}
		flat = append(flat, row...)
	}

	return &LinearModel{
		features: art.Features,
		weights:  mat.NewDense(n, n, flat),
		bias:     mat.NewVecDense(n, art.Bias),
		scaler:   scaler,
	}, nil
}

// Features returns the feature names the model was trained on.
func (m *LinearModel) Features() []string { return m.features }

// Predict implements Predictor.
func (m *LinearModel) Predict(_ model.VehicleType, original []float64) ([]float64, error) {
	scaled, err := m.scaler.Transform(original)
	if err != nil {
		return nil, fmt.Errorf("scale input: %w", err)
	}
	var out mat.VecDense
	out.MulVec(m.weights, mat.NewVecDense(len(scaled), scaled))
	out.AddVec(&out, m.bias)
	pred, err := m.scaler.Inverse(out.RawVector().Data)
	if err != nil {
		return nil, fmt.Errorf("inverse scale: %w", err)
	}
	return pred, nil
}

// Name implements Predictor.
func (m *LinearModel) Name() string { return "linear" }
