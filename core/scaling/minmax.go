package scaling

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNotFitted is returned when a transform is requested before Fit.
var ErrNotFitted = errors.New("scaler not fitted")

// MinMaxScaler maps each feature column to [0,1] over its observed range and
// can invert the transform to recover original units. A degenerate column
// (min == max) maps to 0 and inverts back to the constant.
type MinMaxScaler struct {
	min []float64
	max []float64
}

// Fit records per-column minima and maxima of m.
func (s *MinMaxScaler) Fit(m mat.Matrix) {
	rows, cols := m.Dims()
	s.min = make([]float64, cols)
	s.max = make([]float64, cols)
	for j := 0; j < cols; j++ {
		lo, hi := m.At(0, j), m.At(0, j)
		for i := 1; i < rows; i++ {
			v := m.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		s.min[j] = lo
		s.max[j] = hi
	}
}

// Dims returns the number of fitted columns, or zero before Fit.
func (s *MinMaxScaler) Dims() int { return len(s.min) }

// Transform scales x into [0,1] per column.
func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(s.min) == 0 {
		return nil, ErrNotFitted
	}
	if len(x) != len(s.min) {
		return nil, fmt.Errorf("transform: got %d values, scaler fitted on %d columns", len(x), len(s.min))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		span := s.max[i] - s.min[i]
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.min[i]) / span
	}
	return out, nil
}

// Inverse maps scaled values back to original units.
func (s *MinMaxScaler) Inverse(x []float64) ([]float64, error) {
	if len(s.min) == 0 {
		return nil, ErrNotFitted
	}
	if len(x) != len(s.min) {
		return nil, fmt.Errorf("inverse: got %d values, scaler fitted on %d columns", len(x), len(s.min))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*(s.max[i]-s.min[i]) + s.min[i]
	}
	return out, nil
}
