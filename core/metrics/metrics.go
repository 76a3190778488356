package metrics

import "time"

// PredictionEvent captures one served prediction for observability sinks.
type PredictionEvent struct {
	VehicleType string
	EVModel     string
	Predictor   string
	Fallback    bool
	ChartFile   string
	Duration    time.Duration
	Time        time.Time
}

// Sink records prediction events for observability purposes.
type Sink interface {
	RecordPrediction(ev PredictionEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordPrediction implements Sink.
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPrediction(ev PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}
