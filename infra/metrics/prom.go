package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evbms/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	dataset     prometheus.Gauge
	model       prometheus.Gauge
}

// NewPromSink registers prediction metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evbms_predictions_total",
		Help: "Total number of served predictions",
	}, []string{"vehicle_type", "predictor", "fallback"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evbms_prediction_duration_seconds",
		Help:    "Time spent serving a prediction including chart rendering",
		Buckets: prometheus.DefBuckets,
	}, []string{"vehicle_type"})
	dataset := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evbms_dataset_loaded",
		Help: "1 when a real dataset backs the baselines",
	})
	model := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evbms_model_loaded",
		Help: "1 when a trained model backs the predictions",
	})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(dataset); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dataset = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(model); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			model = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{predictions: predictions, duration: duration, dataset: dataset, model: model}, nil
}

// RecordPrediction increments the counter and observes the serving duration.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.VehicleType, ev.Predictor, strconv.FormatBool(ev.Fallback)).Inc()
	s.duration.WithLabelValues(ev.VehicleType).Observe(ev.Duration.Seconds())
	return nil
}

// SetCapabilities publishes the startup capability flags as gauges.
func (s *PromSink) SetCapabilities(datasetLoaded, modelLoaded bool) {
	set := func(g prometheus.Gauge, on bool) {
		if on {
			g.Set(1)
		} else {
			g.Set(0)
		}
	}
	set(s.dataset, datasetLoaded)
	set(s.model, modelLoaded)
}
