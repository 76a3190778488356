package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kilianp07/evbms/api/charts"
	"github.com/kilianp07/evbms/api/health"
	"github.com/kilianp07/evbms/api/predictions"
	"github.com/kilianp07/evbms/config"
	"github.com/kilianp07/evbms/core/chart"
	"github.com/kilianp07/evbms/core/dataset"
	"github.com/kilianp07/evbms/core/housekeeping"
	coremetrics "github.com/kilianp07/evbms/core/metrics"
	"github.com/kilianp07/evbms/core/predict"
	"github.com/kilianp07/evbms/core/scaling"
	"github.com/kilianp07/evbms/core/status"
	infrachart "github.com/kilianp07/evbms/infra/chart"
	"github.com/kilianp07/evbms/infra/history"
	"github.com/kilianp07/evbms/infra/logger"
	"github.com/kilianp07/evbms/infra/metrics"
	"github.com/kilianp07/evbms/infra/mqtt"
)

// Service wires the prediction pipeline, HTTP API and housekeeping together.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	status  *status.Store
	sweeper *housekeeping.Sweeper
	history *history.SQLiteStore
	mqttPub *mqtt.Publisher
	handler http.Handler
}

// New creates a Service from the configuration. Missing dataset or model
// files are not fatal: the service degrades to deterministic synthetic
// predictions.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	if err := os.MkdirAll(cfg.Server.StaticDir, 0o755); err != nil {
		return nil, fmt.Errorf("create static dir: %w", err)
	}

	ds, datasetLoaded := loadDataset(cfg, logg)
	pred, modelLoaded := loadPredictor(cfg, ds, datasetLoaded, logg)

	var renderer chart.Renderer
	var err error
	switch cfg.Chart.Format {
	case "html":
		renderer, err = infrachart.NewHTMLRenderer(cfg.Server.StaticDir)
	default:
		renderer, err = infrachart.NewPNGRenderer(cfg.Server.StaticDir)
	}
	if err != nil {
		return nil, err
	}
	if err := infrachart.EnsurePlaceholder(cfg.Server.StaticDir); err != nil {
		logg.Warnf("placeholder chart: %v", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		promSink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		promSink.SetCapabilities(datasetLoaded, modelLoaded)
		sinks = append(sinks, promSink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var hist *history.SQLiteStore
	if cfg.History.Enabled {
		hist, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		sinks = append(sinks, hist)
	}
	var pub *mqtt.Publisher
	if cfg.MQTT.Enabled {
		pub, err = mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			logg.Warnf("mqtt publisher disabled: %v", err)
			pub = nil
		} else {
			sinks = append(sinks, pub)
		}
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	st := status.NewStore(datasetLoaded, modelLoaded, pred.Name())
	sw := housekeeping.New(cfg.Server.StaticDir, cfg.Cleanup.MaxAge(), cfg.Cleanup.Interval(), logger.New("cleanup"))
	svc := predict.NewService(ds, pred, renderer, sink, logger.New("predict"))

	var histCounter health.HistoryCounter
	if hist != nil {
		histCounter = hist
	}

	mux := http.NewServeMux()
	root := health.NewRootHandler()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeNotFound(w)
			return
		}
		root.ServeHTTP(w, r)
	})
	predictHandler := predictions.NewHandler(svc, st, logger.New("api"))
	mux.Handle("/predict", predictHandler)
	mux.Handle("/predict/", predictHandler)
	mux.Handle("/health", health.NewHealthHandler(st, sw))
	mux.Handle("/status", health.NewStatusHandler(st, sw, histCounter))
	mux.Handle("/vehicle-types", health.NewVehicleTypesHandler())
	mux.Handle("/static/", charts.NewHandler(cfg.Server.StaticDir, "/static/"))
	mux.Handle("/image/", charts.NewHandler(cfg.Server.StaticDir, "/image/"))

	handler := withRecovery(withCORS(withRequestCount(st, mux)), st, logg)

	return &Service{
		cfg:     cfg,
		log:     logg,
		status:  st,
		sweeper: sw,
		history: hist,
		mqttPub: pub,
		handler: handler,
	}, nil
}

// loadDataset loads the first CSV candidate that exists. When none does, a
// deterministic synthetic dataset stands in and the loaded flag stays false.
func loadDataset(cfg *config.Config, logg logger.Logger) (*dataset.Dataset, bool) {
	path, err := dataset.Locate(cfg.Dataset.Paths)
	if err != nil {
		logg.Warnf("no dataset found, generating a synthetic one: %v", err)
		return dataset.Synthetic(cfg.Dataset.Seed, 0), false
	}
	ds, err := dataset.Load(path)
	if err != nil {
		logg.Warnf("dataset %s unusable, generating a synthetic one: %v", path, err)
		return dataset.Synthetic(cfg.Dataset.Seed, 0), false
	}
	logg.Infof("loaded dataset %s: %d rows, %d features", path, ds.Len(), len(ds.FeatureNames()))
	return ds, true
}

// loadPredictor selects the prediction strategy once at startup: model-backed
// only when both a real dataset and a usable artifact are present.
func loadPredictor(cfg *config.Config, ds *dataset.Dataset, datasetLoaded bool, logg logger.Logger) (predict.Predictor, bool) {
	if !datasetLoaded {
		return predict.SyntheticPredictor{}, false
	}
	var scaler scaling.MinMaxScaler
	scaler.Fit(ds.Matrix())
	path, err := dataset.Locate(cfg.Model.Paths)
	if err != nil {
		logg.Warnf("no model artifact found, using synthetic predictor: %v", err)
		return predict.SyntheticPredictor{}, false
	}
	lm, err := predict.LoadLinearModel(path, &scaler)
	if err != nil {
		logg.Warnf("model %s unusable, using synthetic predictor: %v", path, err)
		return predict.SyntheticPredictor{}, false
	}
	logg.Infof("loaded model %s (%d features)", path, len(lm.Features()))
	return lm, true
}

// Handler exposes the composed HTTP handler, mainly for tests.
func (s *Service) Handler() http.Handler { return s.handler }

// Run starts the HTTP server, the chart sweeper and the optional Prometheus
// endpoint, blocking until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.sweeper.Run(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr(), Handler: s.handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqttPub != nil {
		s.mqttPub.Close()
	}
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withRequestCount(st *status.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st.IncRequests()
		next.ServeHTTP(w, r)
	})
}

// withRecovery is the outermost layer: unexpected panics become a generic
// server fault without leaking internals.
func withRecovery(next http.Handler, st *status.Store, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				st.IncServerErrors()
				log.Errorf("panic serving %s: %v", r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "not found"})
}
