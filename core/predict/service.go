package predict

import (
	"math/rand"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/kilianp07/evbms/core/chart"
	"github.com/kilianp07/evbms/core/dataset"
	"github.com/kilianp07/evbms/core/logger"
	"github.com/kilianp07/evbms/core/metrics"
	"github.com/kilianp07/evbms/core/model"
)

// Baselines are cached per vehicle type so the dataset is not rescanned on
// every request.
const baselineTTL = 10 * time.Minute

// Service answers prediction requests. The dataset may be nil, in which case
// baselines are synthesized deterministically from the vehicle type.
type Service struct {
	dataset   *dataset.Dataset
	predictor Predictor
	renderer  chart.Renderer
	sink      metrics.Sink
	log       logger.Logger
	baselines *cache.Cache
}

// NewService creates a prediction service. ds may be nil; sink may be nil to
// disable event recording.
func NewService(ds *dataset.Dataset, p Predictor, r chart.Renderer, sink metrics.Sink, log logger.Logger) *Service {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Service{
		dataset:   ds,
		predictor: p,
		renderer:  r,
		sink:      sink,
		log:       log,
		baselines: cache.New(baselineTTL, 2*baselineTTL),
	}
}

// DatasetLoaded reports whether a real dataset backs the baselines.
func (s *Service) DatasetLoaded() bool { return s.dataset != nil }

// PredictorName returns the active predictor strategy name.
func (s *Service) PredictorName() string { return s.predictor.Name() }

// Predict serves a full prediction for the vehicle type. Once the type is
// validated upstream, this never fails: predictor errors degrade to a
// perturbation fallback and renderer errors degrade to a placeholder chart.
func (s *Service) Predict(vt model.VehicleType) Result {
	start := time.Now()
	names := s.featureNames()
	original := s.baseline(vt)

	predicted, err := s.predictor.Predict(vt, original)
	fallback := false
	if err != nil {
		s.log.Warnf("predictor %s failed, using perturbation fallback: %v", s.predictor.Name(), err)
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		predicted = perturb(rng, original)
		fallback = true
	}

	title := vt.Title() + " - Battery Parameters: Original vs Predicted"
	file, err := s.renderer.Render(title, names, original, predicted)
	if err != nil {
		s.log.Errorf("chart render failed: %v", err)
		file = chart.Placeholder
	}

	res := Result{
		VehicleType: vt,
		EVModel:     vt.EVModel(),
		ChartFile:   file,
		Rows:        buildRows(names, original, predicted),
		Predictor:   s.predictor.Name(),
		Fallback:    fallback,
	}

	ev := metrics.PredictionEvent{
		VehicleType: string(vt),
		EVModel:     res.EVModel,
		Predictor:   res.Predictor,
		Fallback:    fallback,
		ChartFile:   file,
		Duration:    time.Since(start),
		Time:        time.Now().UTC(),
	}
	if err := s.sink.RecordPrediction(ev); err != nil {
		s.log.Warnf("record prediction event: %v", err)
	}
	return res
}

func (s *Service) featureNames() []string {
	if s.dataset != nil {
		return s.dataset.FeatureNames()
	}
	return model.FeatureNames()
}

func (s *Service) baseline(vt model.VehicleType) []float64 {
	if v, ok := s.baselines.Get(string(vt)); ok {
		return append([]float64(nil), v.([]float64)...)
	}
	var vec []float64
	if s.dataset != nil {
		mean, err := s.dataset.MeanVector(vt.EVModel())
		if err != nil {
			s.log.Warnf("no dataset rows for %s, sampling a random row: %v", vt.EVModel(), err)
			vec = s.dataset.RandomRow(rand.New(rand.NewSource(time.Now().UnixNano())))
		} else {
			vec = mean
		}
	} else {
		vec = SyntheticBaseline(vt)
	}
	s.baselines.Set(string(vt), vec, cache.DefaultExpiration)
	return append([]float64(nil), vec...)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
