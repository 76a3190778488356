package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kilianp07/evbms/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	dir := t.TempDir()
	cfg.Server.StaticDir = dir
	cfg.Dataset.Paths = []string{filepath.Join(dir, "no-dataset.csv")}
	cfg.Model.Paths = []string{filepath.Join(dir, "no-model.json")}
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return svc
}

func TestServiceEndpoints(t *testing.T) {
	svc := newTestService(t)
	h := svc.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("root status %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health status %d", rr.Code)
	}
	var healthOut map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &healthOut); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if healthOut["status"] != "healthy" {
		t.Fatalf("health body = %v", healthOut)
	}

	form := url.Values{"vehicle_type": {"bus"}}
	req := httptest.NewRequest("POST", "/predict/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("predict status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Status   string `json:"status"`
		EVModel  string `json:"ev_model"`
		ChartURL string `json:"chart_url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode predict: %v", err)
	}
	if out.Status != "success" || out.EVModel != "Model D" {
		t.Fatalf("predict body = %+v", out)
	}
	if !strings.HasPrefix(out.ChartURL, "/static/") {
		t.Fatalf("chart url = %q", out.ChartURL)
	}

	// The rendered chart must be retrievable through the static mount.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", out.ChartURL, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("chart fetch status %d for %s", rr.Code, out.ChartURL)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/status", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status status %d", rr.Code)
	}
	var statusOut map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &statusOut); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if statusOut["predictor"] != "synthetic" {
		t.Fatalf("predictor = %v", statusOut["predictor"])
	}
	if statusOut["dataset_loaded"] != false {
		t.Fatalf("dataset_loaded = %v", statusOut["dataset_loaded"])
	}
}

func TestServiceUnknownPath(t *testing.T) {
	svc := newTestService(t)
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestServiceCORSPreflight(t *testing.T) {
	svc := newTestService(t)
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/predict/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func TestServiceCountsRequests(t *testing.T) {
	svc := newTestService(t)
	for range 3 {
		rr := httptest.NewRecorder()
		svc.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	}
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/status", nil))
	var out struct {
		Requests int64 `json:"requests_total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Requests != 4 {
		t.Fatalf("requests = %d, want 4", out.Requests)
	}
}
