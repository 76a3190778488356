package predict

import (
	"math/rand"

	"github.com/kilianp07/evbms/core/model"
)

// Perturbation bounds applied per feature when no trained model is available.
const (
	minVariation = 0.05
	maxVariation = 0.10
)

// perturb shifts each value by a random ±5-10% factor drawn from rng.
func perturb(rng *rand.Rand, original []float64) []float64 {
	out := make([]float64, len(original))
	for i, v := range original {
		factor := minVariation + rng.Float64()*(maxVariation-minVariation)
		if rng.Intn(2) == 0 {
			factor = -factor
		}
		out[i] = v * (1 + factor)
	}
	return out
}

// SyntheticPredictor perturbs the original vector by a bounded variation.
// The generator is reseeded from the vehicle type on every call, so a given
// type always yields the same prediction within a process.
type SyntheticPredictor struct{}

// Predict implements Predictor.
func (SyntheticPredictor) Predict(vt model.VehicleType, original []float64) ([]float64, error) {
	rng := rand.New(rand.NewSource(vt.Seed() + 1))
	return perturb(rng, original), nil
}

// Name implements Predictor.
func (SyntheticPredictor) Name() string { return "synthetic" }

// SyntheticBaseline generates the deterministic original vector for a vehicle
// type, uniform within each feature's fixed range and seeded solely from the
// type string.
func SyntheticBaseline(vt model.VehicleType) []float64 {
	rng := rand.New(rand.NewSource(vt.Seed()))
	out := make([]float64, len(model.Features))
	for i, f := range model.Features {
		out[i] = f.Min + rng.Float64()*(f.Max-f.Min)
	}
	return out
}
